package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

// Top-level section tags must be at column 0 (start of line).
var (
	openTagRe  = regexp.MustCompile(`^<(script|template|style)(\s+scoped)?>$`)
	closeTagRe = regexp.MustCompile(`^</(script|template|style)>$`)
)

var showDiff bool

var fmtCmd = &cobra.Command{
	Use:   "fmt <files...>",
	Short: "Reorder and re-indent a component's script/template/style sections",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().BoolVarP(&showDiff, "diff", "d", false, "display the diff instead of writing the file")
}

func runFmt(cmd *cobra.Command, args []string) error {
	var failed bool
	for _, file := range args {
		if err := fmtFile(file, showDiff); err != nil {
			fmt.Fprintf(os.Stderr, "error formatting %s: %v\n", file, err)
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("fmt failed for one or more files")
	}
	return nil
}

type section struct {
	tag     string
	attr    string // e.g. " scoped"
	content string
}

// parseSections extracts top-level sections from a .egh file. Only tags
// at column 0 (start of line) are considered section boundaries.
func parseSections(input string) []section {
	lines := strings.Split(input, "\n")
	var sections []section
	var current *section
	var contentLines []string

	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t\r")

		if m := openTagRe.FindStringSubmatch(trimmed); m != nil && current == nil {
			current = &section{tag: m[1], attr: m[2]}
			contentLines = nil
			continue
		}

		if m := closeTagRe.FindStringSubmatch(trimmed); m != nil && current != nil && m[1] == current.tag {
			current.content = strings.Join(contentLines, "\n")
			sections = append(sections, *current)
			current = nil
			contentLines = nil
			continue
		}

		if current != nil {
			contentLines = append(contentLines, line)
		}
	}

	return sections
}

func fmtFile(path string, diff bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	original := string(data)
	sections := parseSections(original)
	if len(sections) == 0 {
		return fmt.Errorf("no sections found")
	}

	order := []string{"script", "template", "style"}
	var ordered []section
	for _, tag := range order {
		for _, s := range sections {
			if s.tag == tag {
				ordered = append(ordered, s)
			}
		}
	}

	var b strings.Builder
	for i, s := range ordered {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(formatSection(s))
		b.WriteString("\n")
	}
	result := b.String()

	if diff {
		if result != original {
			fmt.Printf("--- %s\n+++ %s (formatted)\n", path, path)
			printSimpleDiff(original, result)
		}
		return nil
	}

	if result == original {
		return nil
	}
	return os.WriteFile(path, []byte(result), 0o644)
}

func formatSection(s section) string {
	var b strings.Builder
	b.WriteString("<" + s.tag + s.attr + ">\n")

	lines := strings.Split(s.content, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}

	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent < 0 || indent < minIndent {
			minIndent = indent
		}
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			b.WriteString("\n")
			continue
		}
		trimmed := line
		if minIndent > 0 && len(line) >= minIndent {
			trimmed = line[minIndent:]
		}
		b.WriteString("  " + strings.TrimRight(trimmed, " \t") + "\n")
	}

	b.WriteString("</" + s.tag + ">")
	return b.String()
}

func printSimpleDiff(a, b string) {
	aLines := strings.Split(a, "\n")
	bLines := strings.Split(b, "\n")

	maxLen := len(aLines)
	if len(bLines) > maxLen {
		maxLen = len(bLines)
	}

	for i := 0; i < maxLen; i++ {
		var aLine, bLine string
		if i < len(aLines) {
			aLine = aLines[i]
		}
		if i < len(bLines) {
			bLine = bLines[i]
		}
		if aLine != bLine {
			if i < len(aLines) {
				fmt.Printf("-%s\n", aLine)
			}
			if i < len(bLines) {
				fmt.Printf("+%s\n", bLine)
			}
		}
	}
}
