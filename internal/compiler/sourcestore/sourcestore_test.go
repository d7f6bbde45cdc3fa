package sourcestore

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadReportsChangedOnFirstLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.egh")
	writeFile(t, path, "<template><div/></template>")

	store := New()
	blob, changed, err := store.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Errorf("expected changed=true on first load")
	}
	if string(blob.Content) != "<template><div/></template>" {
		t.Errorf("unexpected content: %s", blob.Content)
	}
}

func TestLoadReportsUnchangedOnRepeatedLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.egh")
	writeFile(t, path, "<template><div/></template>")

	store := New()
	if _, _, err := store.Load(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, changed, err := store.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed {
		t.Errorf("expected changed=false on second load of an untouched file")
	}
}

func TestLoadDetectsContentChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.egh")
	writeFile(t, path, "<template><div/></template>")

	store := New()
	if _, _, err := store.Load(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// advance mtime so the store doesn't short-circuit on an unchanged stat
	future := time.Now().Add(time.Second)
	writeFile(t, path, "<template><span/></template>")
	os.Chtimes(path, future, future)

	blob, changed, err := store.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Errorf("expected changed=true after content changed")
	}
	if string(blob.Content) != "<template><span/></template>" {
		t.Errorf("unexpected content after change: %s", blob.Content)
	}
}

func TestLoadMissingFile(t *testing.T) {
	store := New()
	if _, _, err := store.Load(filepath.Join(t.TempDir(), "missing.egh")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestEvictForcesRehash(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.egh")
	writeFile(t, path, "<template><div/></template>")

	store := New()
	if _, _, err := store.Load(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.Evict(path)

	if _, ok := store.Peek(path); ok {
		t.Errorf("expected no cached blob after evict")
	}

	_, changed, err := store.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Errorf("expected changed=true after evict even though content is identical")
	}
}
