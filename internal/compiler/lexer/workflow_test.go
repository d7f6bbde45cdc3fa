package lexer

import (
	"testing"

	"github.com/egh-lang/egh/internal/compiler/token"
)

// TestCompleteWorkflow demonstrates the lexer handling a full .egh component:
// script, template and scoped style sections in sequence.
func TestCompleteWorkflow(t *testing.T) {
	input := `<script>
import Counter from "./Counter.egh"

~count = 0
doubled => count * 2

logChange :: {
  print(count)
}

fn increment() {
  count = count + 1
}
</script>

<template>
  <div class="counter">
    <button @click={increment}>{count}</button>
    {#if doubled > 10}
      <span>big</span>
    {:else}
      <span>small</span>
    {/if}
  </div>
</template>

<style scoped>
  .counter { padding: 1rem; }
</style>`

	l := New(input)

	tok := l.NextToken()
	if tok.Type != token.RAW_GO {
		t.Fatalf("expected RAW_GO, got %s", tok.Type)
	}

	tok = l.NextToken()
	if tok.Type != token.RAW_TEMPLATE {
		t.Fatalf("expected RAW_TEMPLATE, got %s", tok.Type)
	}

	tok = l.NextToken()
	if tok.Type != token.RAW_STYLE {
		t.Fatalf("expected RAW_STYLE, got %s", tok.Type)
	}
	if len(tok.Literal) < 7 || tok.Literal[:7] != "SCOPED:" {
		t.Fatalf("expected scoped style marker, got %q", tok.Literal)
	}

	tok = l.NextToken()
	if tok.Type != token.EOF {
		t.Fatalf("expected EOF, got %s", tok.Type)
	}
}

// TestScriptSectionTokenStream verifies the raw <script> body re-lexes into
// the expected reactive declaration tokens once handed to a fresh Lexer.
func TestScriptSectionTokenStream(t *testing.T) {
	input := `<script>
~count = 0
doubled => count * 2
</script>`

	l := New(input)
	tok := l.NextToken()
	if tok.Type != token.RAW_GO {
		t.Fatalf("expected RAW_GO, got %s", tok.Type)
	}

	inner := New(tok.Literal)
	kinds := []token.TokenType{
		token.TILDE, token.IDENT, token.ASSIGN, token.INT,
		token.IDENT, token.FATARROW, token.IDENT, token.ASTERISK, token.INT,
	}
	for i, exp := range kinds {
		it := inner.NextToken()
		if it.Type != exp {
			t.Fatalf("inner token[%d] expected %q got %q (%q)", i, exp, it.Type, it.Literal)
		}
	}
}
