// Package bundler partitions a resolved Module Graph into chunks: one
// chunk per route root plus a shared chunk for anything imported by more
// than one root, so a component used across several pages is fetched and
// compiled once rather than duplicated into every root that needs it.
package bundler

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"sort"

	"github.com/egh-lang/egh/internal/compiler/resolver"
	"github.com/egh-lang/egh/internal/compiler/sourcestore"
)

// SharedChunkName is the name given to the chunk holding every module
// reachable from more than one route root.
const SharedChunkName = "shared"

// Chunk is one partition of the bundle: a named, content-addressed group
// of modules that are always loaded together.
type Chunk struct {
	Name      string
	Files     []resolver.SourcePath
	Integrity string // "sha256-<base64>", computed over sorted file contents
}

// Manifest is the complete output of a bundle pass: the chunk partition
// plus which chunk serves each route root.
type Manifest struct {
	Chunks      []Chunk
	EntryChunks map[resolver.SourcePath]string
}

// Bundler partitions a ModuleGraph into chunks and hashes their contents
// for integrity checking. File contents are read through a Store, which
// skips re-reading a file whose mtime is unchanged; every Bundle call
// hashes every file of every chunk again.
type Bundler struct {
	graph *resolver.ModuleGraph
	store *sourcestore.Store
}

func New(graph *resolver.ModuleGraph, store *sourcestore.Store) *Bundler {
	return &Bundler{graph: graph, store: store}
}

// Bundle computes reachability from each route root (export-grain dead
// code elimination: anything not in the union of closures is dropped
// from the manifest entirely), assigns every reachable file to exactly
// one chunk, and hashes each chunk's contents.
func (b *Bundler) Bundle(roots []resolver.SourcePath) (*Manifest, error) {
	owners := make(map[resolver.SourcePath]map[resolver.SourcePath]struct{})

	for _, root := range roots {
		reachable := append([]resolver.SourcePath{root}, b.graph.ImportsClosure(root)...)
		for _, file := range reachable {
			if owners[file] == nil {
				owners[file] = make(map[resolver.SourcePath]struct{})
			}
			owners[file][root] = struct{}{}
		}
	}

	perRoot := make(map[resolver.SourcePath][]resolver.SourcePath)
	var shared []resolver.SourcePath
	for file, roots := range owners {
		if len(roots) > 1 {
			shared = append(shared, file)
			continue
		}
		for root := range roots {
			perRoot[root] = append(perRoot[root], file)
		}
	}

	manifest := &Manifest{EntryChunks: make(map[resolver.SourcePath]string)}
	sharedSet := make(map[resolver.SourcePath]struct{}, len(shared))

	if len(shared) > 0 {
		sort.Slice(shared, func(i, j int) bool { return shared[i] < shared[j] })
		for _, f := range shared {
			sharedSet[f] = struct{}{}
		}
		integrity, err := b.hashFiles(shared)
		if err != nil {
			return nil, fmt.Errorf("hashing shared chunk: %w", err)
		}
		manifest.Chunks = append(manifest.Chunks, Chunk{Name: SharedChunkName, Files: shared, Integrity: integrity})
	}

	sortedRoots := append([]resolver.SourcePath{}, roots...)
	sort.Slice(sortedRoots, func(i, j int) bool { return sortedRoots[i] < sortedRoots[j] })

	for _, root := range sortedRoots {
		if _, isShared := sharedSet[root]; isShared {
			manifest.EntryChunks[root] = SharedChunkName
			continue
		}

		files := perRoot[root]
		sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })
		name := chunkName(root)

		integrity, err := b.hashFiles(files)
		if err != nil {
			return nil, fmt.Errorf("hashing chunk %s: %w", name, err)
		}
		manifest.Chunks = append(manifest.Chunks, Chunk{Name: name, Files: files, Integrity: integrity})
		manifest.EntryChunks[root] = name
	}

	return manifest, nil
}

func (b *Bundler) hashFiles(files []resolver.SourcePath) (string, error) {
	h := sha256.New()
	for _, file := range files {
		blob, _, err := b.store.Load(string(file))
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		h.Write([]byte(file))
		h.Write([]byte{0})
		h.Write(blob.Content)
		h.Write([]byte{0})
	}
	return "sha256-" + base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

func chunkName(root resolver.SourcePath) string {
	return fmt.Sprintf("entry-%s", shortHash(string(root)))
}

func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.RawURLEncoding.EncodeToString(sum[:6])
}
