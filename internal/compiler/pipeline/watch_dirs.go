package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/egh-lang/egh/internal/compiler/invalidator"
)

var watchSkipDirs = map[string]bool{
	".git": true, "node_modules": true, "vendor": true,
	"dist": true, "build": true, "bin": true,
}

// addDirsRecursive walks root and registers every directory with the
// watcher, skipping version-control/build/dependency directories and
// any hidden directory other than root itself.
func addDirsRecursive(w *invalidator.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				return filepath.SkipDir
			}
			return err
		}
		if !info.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		if watchSkipDirs[base] || (strings.HasPrefix(base, ".") && base != filepath.Base(root)) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil && !os.IsPermission(err) {
			return err
		}
		return nil
	})
}
