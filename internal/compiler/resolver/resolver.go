package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/egh-lang/egh/internal/compiler/ast"
	"github.com/egh-lang/egh/internal/compiler/lexer"
	"github.com/egh-lang/egh/internal/compiler/parser"
)

// ComponentInfo is the metadata the generator needs about an imported
// component: its parsed AST plus the name it was bound to at the import
// site.
type ComponentInfo struct {
	Component *ast.ComponentAst
	Path      SourcePath
	Name      string
}

// Resolver loads .egh files, parses them, and populates a ModuleGraph with
// their import edges. It caches parsed components by path so that a
// diamond-shaped import graph parses each file exactly once.
type Resolver struct {
	Graph *ModuleGraph

	parsed  map[SourcePath]*ast.ComponentAst
	loading map[SourcePath]bool
	errors  []string
}

// New creates a Resolver backed by a fresh ModuleGraph.
func New() *Resolver {
	return &Resolver{
		Graph:   NewModuleGraph(),
		parsed:  make(map[SourcePath]*ast.ComponentAst),
		loading: make(map[SourcePath]bool),
	}
}

// Errors returns all accumulated errors from the most recent Load call tree.
func (r *Resolver) Errors() []string {
	return r.errors
}

func (r *Resolver) addError(format string, args ...interface{}) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func canonicalPath(path string) (SourcePath, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	return SourcePath(abs), nil
}

// Load parses the component at entryPath and recursively resolves every
// .egh import it reaches, upserting each node's import edges into the
// ModuleGraph as it goes. It returns the entry component plus the
// import-name -> ComponentInfo table the generator needs to wire component
// instances to their constructors.
func (r *Resolver) Load(entryPath string) (*ast.ComponentAst, map[string]*ComponentInfo, error) {
	path, err := canonicalPath(entryPath)
	if err != nil {
		return nil, nil, err
	}

	component, err := r.loadNode(path)
	if err != nil {
		return nil, nil, err
	}

	components := make(map[string]*ComponentInfo)
	if err := r.collectImports(path, component, components); err != nil {
		return nil, nil, err
	}

	return component, components, nil
}

// loadNode reads, lexes and parses a single .egh file, caching the result
// by canonical path so repeated imports of the same module are free.
func (r *Resolver) loadNode(path SourcePath) (*ast.ComponentAst, error) {
	if cached, ok := r.parsed[path]; ok {
		return cached, nil
	}

	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(string(path)), ".egh")
	l := lexer.New(string(data))
	p := parser.New(l)
	component := p.ParseComponent(name)

	if len(p.Errors()) > 0 {
		return nil, fmt.Errorf("parse errors in %s: %v", path, p.Errors())
	}

	r.parsed[path] = component
	return component, nil
}

// collectImports walks component's import declarations, recursing into
// every .egh import, detecting cycles, and upserting path's forward edges
// into the graph exactly once all of its imports are known.
func (r *Resolver) collectImports(path SourcePath, component *ast.ComponentAst, components map[string]*ComponentInfo) error {
	if r.loading[path] {
		return fmt.Errorf("circular import detected at %s", path)
	}
	r.loading[path] = true
	defer delete(r.loading, path)

	dir := filepath.Dir(string(path))
	var imports []SourcePath

	if component.Script != nil {
		for _, imp := range component.Script.Imports {
			if imp.IsNative {
				continue
			}
			importPath, err := canonicalPath(filepath.Join(dir, imp.Path))
			if err != nil {
				r.addError("%v", err)
				continue
			}
			imports = append(imports, importPath)

			imported, err := r.loadNode(importPath)
			if err != nil {
				r.addError("failed to resolve import %s: %v", imp.Path, err)
				continue
			}

			if err := r.collectImports(importPath, imported, components); err != nil {
				return fmt.Errorf("nested import from %s: %w", path, err)
			}

			bindName := imp.Default
			if bindName != "" {
				if imported.Template == nil {
					r.addError("default import %s has no template section: not a valid component", bindName)
					continue
				}
				components[bindName] = &ComponentInfo{Component: imported, Path: importPath, Name: bindName}
				continue
			}
			for _, member := range imp.Members {
				components[member] = &ComponentInfo{Component: imported, Path: importPath, Name: member}
			}
		}
	}

	r.Graph.Upsert(path, imports)
	return nil
}

// Evict removes path from the graph and its parse cache, so a subsequent
// Load re-reads it from disk. The caller is responsible for reconciling any
// bundler chunk referencing it.
func (r *Resolver) Evict(entryPath string) {
	path, err := canonicalPath(entryPath)
	if err != nil {
		return
	}
	r.Graph.Evict(path)
	delete(r.parsed, path)
}
