// Package pipeline wires the compiler and incremental-build packages
// together into the operations a CLI or editor integration actually
// calls: compile one entry point, watch a directory and recompile on
// change, bundle a set of route roots into a manifest, and invalidate and
// recompile a given set of paths.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/egh-lang/egh/internal/compiler/ast"
	"github.com/egh-lang/egh/internal/compiler/bundler"
	"github.com/egh-lang/egh/internal/compiler/cache"
	"github.com/egh-lang/egh/internal/compiler/diagnostics"
	"github.com/egh-lang/egh/internal/compiler/generator"
	"github.com/egh-lang/egh/internal/compiler/invalidator"
	"github.com/egh-lang/egh/internal/compiler/reactivity"
	"github.com/egh-lang/egh/internal/compiler/resolver"
	"github.com/egh-lang/egh/internal/compiler/scheduler"
	"github.com/egh-lang/egh/internal/compiler/sourcestore"
	"github.com/egh-lang/egh/internal/metrics"
)

// Options configures a Pipeline.
type Options struct {
	CacheDir     string
	MaxMemBytes  int64
	MaxDiskBytes int64
	Workers      int
	Logger       *zap.Logger
}

// Pipeline is the long-lived object a CLI command builds once per
// project: it owns the module graph, the two-tier build cache, the
// worker pool, and the source store, and exposes Compile, Watch, Bundle
// and Invalidate as the operations built on top of them.
type Pipeline struct {
	resolver   *resolver.Resolver
	store      *sourcestore.Store
	cache      *cache.Cache
	scheduler  *scheduler.Scheduler
	bundler    *bundler.Bundler
	generator  *generator.Generator
	components map[string]*resolver.ComponentInfo
	log        *zap.Logger

	// inv tracks exported-surface hashes across the Pipeline's whole
	// lifetime so both Watch and Invalidate agree on whether a given
	// change actually needs to propagate to dependents.
	inv *invalidator.Invalidator
}

// CompileResult is the outcome of compiling a single entry point: the
// generated Go source for every component in its import closure,
// keyed by canonical source path, plus any diagnostics raised along
// the way.
type CompileResult struct {
	Sources     map[string]string
	Diagnostics *diagnostics.List
}

func New(opts Options) (*Pipeline, error) {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c, err := cache.Open(cache.Options{
		Dir:          opts.CacheDir,
		MaxMemBytes:  opts.MaxMemBytes,
		MaxDiskBytes: opts.MaxDiskBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("opening build cache: %w", err)
	}

	r := resolver.New()
	store := sourcestore.New()

	p := &Pipeline{
		resolver:  r,
		store:     store,
		cache:     c,
		scheduler: scheduler.New(opts.Workers),
		bundler:   bundler.New(r.Graph, store),
		generator: generator.New(),
		log:       log,
	}
	p.inv = invalidator.New(r.Graph, p.invalidatePath)
	return p, nil
}

// invalidatePath drops path's cached stages (keyed by its last observed
// content hash), evicts it from the source store, and resets its
// scheduler bookkeeping, so the next Compile reads and recompiles it
// from scratch instead of reusing stale state.
func (p *Pipeline) invalidatePath(path resolver.SourcePath) {
	if blob, ok := p.store.Peek(string(path)); ok {
		p.cache.Invalidate(blob.Hash)
	}
	p.store.Evict(string(path))
	p.scheduler.Forget(string(path))
	p.log.Info("invalidated", zap.String("path", string(path)))
}

// Compile loads entryPath and every component it transitively imports,
// analyzes and generates Go source for each, and caches the generated
// output keyed by content hash so an unchanged file never re-runs
// analysis or codegen on the next Compile call.
func (p *Pipeline) Compile(ctx context.Context, entryPath string) (*CompileResult, error) {
	abs, err := filepath.Abs(entryPath)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", entryPath, err)
	}

	entry, components, err := p.resolver.Load(abs)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", entryPath, err)
	}
	p.components = components

	diags := diagnostics.NewList()
	result := &CompileResult{Sources: make(map[string]string), Diagnostics: diags}

	paths := map[string]*ast.ComponentAst{abs: entry}
	for _, info := range components {
		paths[string(info.Path)] = info.Component
	}

	var ordered []string
	for path := range paths {
		ordered = append(ordered, path)
	}
	sort.Strings(ordered)

	for _, path := range ordered {
		component := paths[path]
		src, err := p.compileOne(ctx, path, component, diags)
		if err != nil {
			return nil, err
		}
		result.Sources[path] = src
	}

	return result, nil
}

func (p *Pipeline) compileOne(ctx context.Context, path string, component *ast.ComponentAst, diags *diagnostics.List) (string, error) {
	blob, _, err := p.store.Load(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	genKey := cache.Key{Hash: blob.Hash, Stage: "generate"}
	if cached, ok := p.cache.Get(genKey); ok {
		metrics.CacheLookups.WithLabelValues("generate", "hit").Inc()
		p.log.Debug("generate cache hit", zap.String("path", path))
		return string(cached), nil
	}
	metrics.CacheLookups.WithLabelValues("generate", "miss").Inc()

	// A cache miss means this path's content hash moved since the last
	// run (or this is its first run): either way the prior stage-order
	// bookkeeping for this path no longer applies to the new content.
	p.scheduler.Forget(path)

	start := time.Now()
	out, err := p.scheduler.Submit(ctx, scheduler.CompileTask{
		Path:  path,
		Stage: scheduler.StageGenerate,
		Run: func(ctx context.Context) (any, error) {
			analysis := reactivity.Analyze(component)
			diags.Items = append(diags.Items, analysis.Diagnostics.Items...)
			if analysis.Diagnostics.HasErrors() {
				return nil, fmt.Errorf("reactivity errors in %s: %s", path, analysis.Diagnostics.String())
			}
			src, err := p.generator.Generate(component, analysis, p.components)
			if err != nil {
				return nil, fmt.Errorf("generating %s: %w", path, err)
			}
			return src, nil
		},
	})
	metrics.StageDuration.WithLabelValues(string(scheduler.StageGenerate)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CompileTotal.WithLabelValues("error").Inc()
		return "", err
	}
	metrics.CompileTotal.WithLabelValues("ok").Inc()
	src := out.(string)

	if err := p.cache.Put(genKey, []byte(src)); err != nil {
		p.log.Warn("failed to cache generated output", zap.String("path", path), zap.Error(err))
	}
	return src, nil
}

// Bundle partitions roots into chunks via the bundler and returns the
// resulting manifest.
func (p *Pipeline) Bundle(roots []string) (*bundler.Manifest, error) {
	sourcePaths := make([]resolver.SourcePath, len(roots))
	for i, r := range roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			return nil, fmt.Errorf("resolving root %s: %w", r, err)
		}
		sourcePaths[i] = resolver.SourcePath(abs)
	}
	return p.bundler.Bundle(sourcePaths)
}

// Invalidate forces revalidation of paths without waiting for a
// filesystem signal: it reparses each path, applies the same
// surface-hash comparison Watch applies to a real fsnotify event
// (propagating to dependents only when the exported surface actually
// changed), clears the affected paths' cached stages and scheduler
// bookkeeping, and recompiles all of them. A call with no intervening
// edits is a no-op save for the recompile; a call after an edit
// produces the same outputs a cold build of the same paths would.
func (p *Pipeline) Invalidate(ctx context.Context, paths []string) (map[string]*CompileResult, error) {
	touched := make(map[string]struct{}, len(paths))

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", path, err)
		}

		component, parseErr := loadForInvalidation(abs)
		p.inv.Apply(invalidator.Event{Path: abs, Kind: invalidator.Modified}, component)
		if parseErr != nil {
			return nil, fmt.Errorf("reparsing %s: %w", abs, parseErr)
		}

		touched[abs] = struct{}{}
		for _, dependent := range p.resolver.Graph.DependentsClosure(resolver.SourcePath(abs)) {
			touched[string(dependent)] = struct{}{}
		}
	}

	var ordered []string
	for path := range touched {
		ordered = append(ordered, path)
	}
	sort.Strings(ordered)

	results := make(map[string]*CompileResult, len(ordered))
	for _, path := range ordered {
		result, err := p.Compile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("recompiling %s: %w", path, err)
		}
		results[path] = result
	}
	return results, nil
}

// Watch starts an fsnotify-backed watcher over root and recompiles
// affected entries whenever a .egh file changes, calling onResult once
// per recompiled path. It blocks until ctx is canceled.
func (p *Pipeline) Watch(ctx context.Context, root string, onResult func(path string, result *CompileResult, err error)) error {
	w, err := invalidator.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}

	debouncer := scheduler.NewDebouncer(func(paths []string) {
		for _, path := range paths {
			if !strings.HasSuffix(path, ".egh") {
				continue
			}
			component, parseErr := loadForInvalidation(path)
			p.inv.Apply(invalidator.Event{Path: path, Kind: invalidator.Modified}, component)
			if parseErr != nil {
				onResult(path, nil, parseErr)
				continue
			}
			result, err := p.Compile(ctx, path)
			onResult(path, result, err)
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.C:
			if !ok {
				return nil
			}
			debouncer.Add(ev.Path)
		case err, ok := <-w.Errs:
			if !ok {
				continue
			}
			p.log.Warn("watch error", zap.Error(err))
		}
	}
}

func loadForInvalidation(path string) (*ast.ComponentAst, error) {
	r := resolver.New()
	component, _, err := r.Load(path)
	return component, err
}
