// Package invalidator watches the filesystem for .egh file changes and
// decides which parts of the Module Graph a rebuild must touch: a
// changed file always invalidates its own cached stages, but only
// propagates to its dependents when its exported surface (the props and
// deriveds a parent component actually reads) changed too.
package invalidator

import (
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/egh-lang/egh/internal/compiler/ast"
	"github.com/egh-lang/egh/internal/compiler/resolver"
	"github.com/egh-lang/egh/internal/metrics"
)

// Event is one classified, epoch-stamped filesystem change.
type Event struct {
	Path  string
	Kind  ChangeKind
	Epoch uint64
}

// Watcher wraps an fsnotify.Watcher, filtering to .egh files and
// attaching a monotonically increasing epoch to every event so
// consumers can tell ordering apart from two events that land in the
// same debounce batch.
type Watcher struct {
	fs    *fsnotify.Watcher
	epoch uint64
	C     chan Event
	Errs  chan error
}

func NewWatcher() (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{fs: fs, C: make(chan Event, 64), Errs: make(chan error, 8)}
	go w.run()
	return w, nil
}

func (w *Watcher) Add(dir string) error {
	return w.fs.Add(dir)
}

func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				close(w.C)
				return
			}
			if ev.Op&fsnotify.Chmod != 0 && ev.Op == fsnotify.Chmod {
				continue
			}
			if !strings.HasSuffix(ev.Name, ".egh") {
				continue
			}
			epoch := atomic.AddUint64(&w.epoch, 1)
			w.C <- Event{Path: ev.Name, Kind: classify(ev.Op), Epoch: epoch}
		case err, ok := <-w.fs.Errors:
			if !ok {
				close(w.Errs)
				return
			}
			w.Errs <- err
		}
	}
}

// Invalidator applies a classified Event to the module graph and build
// cache: it always clears the changed file's own cached stages, and
// walks the graph's reverse edges to clear dependents only when the
// file's exported surface changed (or the file was created/deleted,
// which always changes a dependent's resolution).
type Invalidator struct {
	graph     *resolver.ModuleGraph
	surfaces  map[resolver.SourcePath]uint64
	onInvalid func(path resolver.SourcePath)
}

// New builds an Invalidator over graph. onInvalid is called once per
// path (the changed file, then any affected dependents) whenever this
// Invalidator decides that path's cached build artifacts are stale.
func New(graph *resolver.ModuleGraph, onInvalid func(path resolver.SourcePath)) *Invalidator {
	return &Invalidator{
		graph:     graph,
		surfaces:  make(map[resolver.SourcePath]uint64),
		onInvalid: onInvalid,
	}
}

// Apply processes one classified change. component is the freshly parsed
// AST for Modified/Created events; it is nil for Deleted, where there is
// nothing left to hash.
func (inv *Invalidator) Apply(event Event, component *ast.ComponentAst) {
	path := resolver.SourcePath(event.Path)

	switch event.Kind {
	case Deleted:
		inv.onInvalid(path)
		inv.propagate(path)
		inv.graph.Evict(path)
		delete(inv.surfaces, path)
		return

	case Created:
		inv.onInvalid(path)
		if component != nil {
			inv.surfaces[path] = ExportedSurfaceHash(component)
		}
		inv.propagate(path)
		return

	case Renamed:
		// fsnotify reports a rename as a Remove on the old name; the new
		// name arrives as its own Create event, so a Renamed event here is
		// treated the same as a deletion of this path.
		inv.onInvalid(path)
		inv.propagate(path)
		inv.graph.Evict(path)
		delete(inv.surfaces, path)
		return
	}

	// Modified.
	inv.onInvalid(path)
	if component == nil {
		inv.propagate(path)
		return
	}
	next := ExportedSurfaceHash(component)
	prev, known := inv.surfaces[path]
	inv.surfaces[path] = next
	if !known || next != prev {
		inv.propagate(path)
	}
}

func (inv *Invalidator) propagate(path resolver.SourcePath) {
	for _, dependent := range inv.graph.DependentsClosure(path) {
		metrics.InvalidationsPropagated.Inc()
		inv.onInvalid(dependent)
	}
}
