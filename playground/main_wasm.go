//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"

	"github.com/egh-lang/egh/internal/compiler/generator"
	"github.com/egh-lang/egh/internal/compiler/lexer"
	"github.com/egh-lang/egh/internal/compiler/parser"
	"github.com/egh-lang/egh/internal/compiler/reactivity"
)

func main() {
	js.Global().Set("compileEGH", js.FuncOf(compileEGHWrapper))

	// Keep the program alive
	select {}
}

// compileEGHWrapper wraps the compilation logic with panic recovery.
func compileEGHWrapper(this js.Value, args []js.Value) interface{} {
	var result map[string]interface{}

	defer func() {
		if r := recover(); r != nil {
			result = make(map[string]interface{})
			result["code"] = ""
			result["errors"] = []interface{}{fmt.Sprintf("panic: %v", r)}
		}
	}()

	if len(args) != 1 {
		result = make(map[string]interface{})
		result["code"] = ""
		result["errors"] = []interface{}{"expected 1 argument (source code)"}
		return js.ValueOf(result)
	}

	source := args[0].String()
	code, errors := compileEGH(source)

	result = make(map[string]interface{})
	result["code"] = code

	jsErrors := make([]interface{}, len(errors))
	for i, err := range errors {
		jsErrors[i] = err
	}
	result["errors"] = jsErrors

	return js.ValueOf(result)
}

// compileEGH compiles a single .egh source string and returns the
// generated Go code and any errors. The playground has no resolver, so
// imports are not resolved: a component that imports another one gets a
// warning in the returned errors and is compiled on its own.
func compileEGH(source string) (string, []string) {
	l := lexer.New(source)
	p := parser.New(l)
	component := p.ParseComponent("Playground")

	if len(p.Errors()) > 0 {
		return "", p.Errors()
	}

	var errors []string
	if len(component.Imports) > 0 {
		errors = append(errors, "warning: imports are not supported in the playground")
	}

	analysis := reactivity.Analyze(component)
	if analysis.Diagnostics.HasErrors() {
		return "", []string{analysis.Diagnostics.String()}
	}

	gen := generator.New()
	code, err := gen.Generate(component, analysis, nil)
	if err != nil {
		errors = append(errors, fmt.Sprintf("generation error: %v", err))
		return "", errors
	}

	return code, errors
}
