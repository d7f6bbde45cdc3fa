package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/egh-lang/egh/internal/compiler/diagnostics"
)

// colorEnabled mirrors the isatty check every color-aware CLI does
// before emitting ANSI codes: piping build output to a file or another
// process should see plain text, not escape sequences.
var colorEnabled = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

func printDiagnostics(list *diagnostics.List) {
	for _, d := range list.Items {
		label := severityLabel(d.Severity)
		fmt.Fprintf(os.Stderr, "%s %s %s: %s\n", label, d.Phase, d.Pos, d.Message)
		for _, note := range d.Notes {
			fmt.Fprintf(os.Stderr, "    %s\n", note)
		}
	}
}

func severityLabel(sev diagnostics.Severity) string {
	if !colorEnabled {
		return sev.String()
	}
	switch sev {
	case diagnostics.SeverityError:
		return color.New(color.FgRed, color.Bold).Sprint(sev.String())
	case diagnostics.SeverityWarning:
		return color.New(color.FgYellow).Sprint(sev.String())
	default:
		return color.New(color.FgCyan).Sprint(sev.String())
	}
}
