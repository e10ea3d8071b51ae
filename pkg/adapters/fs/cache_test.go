package fs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_Load(t *testing.T) {
	t.Run("Starts Empty if File Missing", func(t *testing.T) {
		c := newCache(t.TempDir(), ".cache")
		if err := c.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if c.Len() != 0 {
			t.Errorf("Expected empty index, got %d", c.Len())
		}
	})

	t.Run("Self-Heals Corrupt Index", func(t *testing.T) {
		dir := t.TempDir()
		os.MkdirAll(filepath.Join(dir, ".cache"), 0755)
		os.WriteFile(filepath.Join(dir, ".cache", "index.json"), []byte("{not json"), 0644)

		c := newCache(dir, ".cache")
		if err := c.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if c.Len() != 0 {
			t.Errorf("Expected empty index, got %d", c.Len())
		}
	})
}

func TestCache_SaveAndReload(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	c := newCache(dir, ".studynotes")
	c.Set("n1", &indexEntry{UpdatedAt: ts, Hash: "abc", Body: "body", Doc: "doc"})
	if err := c.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := newCache(dir, ".studynotes")
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reloaded.Fresh("n1", ts, "abc", "doc") {
		t.Error("Expected n1 to be fresh after reload")
	}
	if reloaded.Fresh("n1", ts.Add(time.Second), "abc", "doc") {
		t.Error("A newer updatedAt must not be fresh")
	}
	if reloaded.Fresh("n1", ts, "abc", "") {
		t.Error("A changed document must not be fresh")
	}
	if e, ok := reloaded.Get("n1"); !ok || e.Body != "body" {
		t.Errorf("Expected body hash to survive reload, got %+v", e)
	}
	if !reloaded.Known("n1", "abc") || reloaded.Known("n1", "def") {
		t.Error("Known must match the stored hash only")
	}

	reloaded.Delete("n1")
	if reloaded.Len() != 0 {
		t.Errorf("Expected empty index after delete, got %d", reloaded.Len())
	}
}

func TestCache_SaveSkipsWhenClean(t *testing.T) {
	dir := t.TempDir()
	c := newCache(dir, ".studynotes")
	if err := c.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(c.Path); !os.IsNotExist(err) {
		t.Error("clean cache should not be written")
	}
}
