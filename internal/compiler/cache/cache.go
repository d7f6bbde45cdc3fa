// Package cache is the two-tier Build Cache: a bounded in-memory LRU in
// front of an on-disk, sharded, content-addressed artifact store whose
// access metadata is tracked in a sqlite index. A cache key is the
// content hash of a compile stage's input plus the stage name, so a
// rebuild with byte-identical input at every upstream stage never
// re-runs the lexer, parser, analyzer, or generator for that file.
package cache

import (
	"encoding/hex"
	"fmt"

	"github.com/egh-lang/egh/internal/compiler/sourcestore"
)

// Key identifies one cached artifact: the content hash of everything the
// stage read, plus the stage name, so "parse" and "generate" outputs for
// the same file hash never collide.
type Key struct {
	Hash  sourcestore.ContentHash
	Stage string
}

// hashHex is the key's content hash alone, used to shard the disk store.
func (k Key) hashHex() string {
	return hex.EncodeToString(k.Hash[:])
}

// String is the full cache key, unique per (content, stage) pair — two
// stages over the same content hash must not collide in the memory tier
// or the sqlite index.
func (k Key) String() string {
	return k.hashHex() + ":" + k.Stage
}

// Cache is the combined memory+disk build cache. maxMemBytes bounds the
// hot tier; the disk tier is swept down to maxDiskBytes by evicting the
// least-recently-touched entries first.
type Cache struct {
	mem          *memLRU
	disk         *diskStore
	index        *Index
	maxDiskBytes int64
}

// Options configures a Cache's capacity at each tier.
type Options struct {
	Dir          string // on-disk root for artifact shards and the sqlite index
	MaxMemBytes  int64
	MaxDiskBytes int64
}

func Open(opts Options) (*Cache, error) {
	idx, err := openIndex(opts.Dir + "/index.sqlite")
	if err != nil {
		return nil, fmt.Errorf("cache: open index: %w", err)
	}
	return &Cache{
		mem:          newMemLRU(opts.MaxMemBytes),
		disk:         newDiskStore(opts.Dir),
		index:        idx,
		maxDiskBytes: opts.MaxDiskBytes,
	}, nil
}

// Get returns a cached artifact, checking the memory tier first and
// falling back to disk; a disk hit is promoted into memory so a second
// Get for the same key doesn't touch disk again.
func (c *Cache) Get(key Key) ([]byte, bool) {
	k := key.String()
	if data, ok := c.mem.get(k); ok {
		return data, true
	}
	data, ok := c.disk.get(key.hashHex(), key.Stage)
	if !ok {
		return nil, false
	}
	c.mem.put(k, data)
	_ = c.index.touch(k, key.hashHex(), key.Stage, int64(len(data)))
	return data, true
}

// Put writes an artifact to both tiers and sweeps the disk tier if it
// has grown past its budget.
func (c *Cache) Put(key Key, data []byte) error {
	k := key.String()
	c.mem.put(k, data)
	if err := c.disk.put(key.hashHex(), key.Stage, data); err != nil {
		return fmt.Errorf("cache: write artifact: %w", err)
	}
	if err := c.index.touch(k, key.hashHex(), key.Stage, int64(len(data))); err != nil {
		return fmt.Errorf("cache: update index: %w", err)
	}
	return c.evictIfOverBudget()
}

// Invalidate drops every cached artifact (all stages) for a content hash,
// used when the Invalidator determines a file's exported surface changed
// and downstream stages must not reuse any of its prior outputs.
func (c *Cache) Invalidate(hash sourcestore.ContentHash) {
	hex := Key{Hash: hash}.hashHex()
	for _, stage := range knownStages {
		k := Key{Hash: hash, Stage: stage}.String()
		c.mem.remove(k)
		_ = c.index.remove(k)
	}
	_ = c.disk.remove(hex)
}

// knownStages enumerates the pipeline stages that cache artifacts, so
// Invalidate can clear every stage for a content hash without the caller
// needing to enumerate them.
var knownStages = []string{"lex", "parse", "analyze", "generate"}

func (c *Cache) evictIfOverBudget() error {
	total, err := c.index.totalBytes()
	if err != nil {
		return err
	}
	if total <= c.maxDiskBytes {
		return nil
	}
	for total > c.maxDiskBytes {
		stale, err := c.index.oldest(16)
		if err != nil {
			return err
		}
		if len(stale) == 0 {
			return nil
		}
		for _, record := range stale {
			if total <= c.maxDiskBytes {
				break
			}
			c.mem.remove(record.Key)
			_ = c.disk.removeStage(record.HashHex, record.Stage)
			_ = c.index.remove(record.Key)
			total -= record.SizeBytes
		}
	}
	return nil
}
