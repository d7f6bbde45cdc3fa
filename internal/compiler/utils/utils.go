// Package utils holds small naming helpers shared across the generator's
// emit functions.
package utils

import "strings"

// ToPascalCase converts a binding or derived name to an exported Go
// identifier: "count" -> "Count", "user_id" -> "UserID", "userId" -> "UserID".
func ToPascalCase(s string) string {
	if s == "" {
		return s
	}

	switch s {
	case "id":
		return "ID"
	case "userId":
		return "UserID"
	}

	if strings.Contains(s, "_") {
		parts := strings.Split(s, "_")
		for i, part := range parts {
			if part != "" {
				parts[i] = Capitalize(part)
			}
		}
		return strings.Join(parts, "")
	}

	return Capitalize(s)
}

// Capitalize upper-cases the first letter, with "id" normalized to "ID".
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	if strings.ToLower(s) == "id" {
		return "ID"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
