package generator

import (
	"sort"

	"github.com/egh-lang/egh/internal/compiler/resolver"
	"github.com/egh-lang/egh/internal/compiler/utils"
)

// sortedKeys returns the keys of a component-name -> ComponentInfo map in
// lexical order, so anything iterating over it produces deterministic,
// byte-identical output across runs.
func sortedKeys(m map[string]*resolver.ComponentInfo) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// fieldName turns a reactive binding/derived name into an exported Go
// struct field, applying the same id-aware casing a hand-written struct
// would use (userId -> UserID, not UserId).
func fieldName(name string) string {
	return utils.ToPascalCase(name)
}
