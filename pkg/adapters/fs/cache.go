package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// indexEntry records what was last written for a note.
type indexEntry struct {
	UpdatedAt time.Time `json:"updatedAt"`
	Hash      string    `json:"hash"`
	// Body hashes the exported HTML alone, Doc the editor document sidecar.
	Body string `json:"body,omitempty"`
	Doc  string `json:"doc,omitempty"`
}

// index is the persisted cache state, keyed by note id.
type index struct {
	Version int                    `json:"version"`
	Entries map[string]*indexEntry `json:"entries"`
}

// cache tracks exported notes so re-exports can skip unchanged ones and the
// watcher can tell our own writes from the user's edits.
type cache struct {
	Path  string // <vault>/<systemDir>/index.json
	mu    sync.RWMutex
	index index
	dirty bool
}

func newCache(vaultPath, systemDir string) *cache {
	return &cache{
		Path:  filepath.Join(vaultPath, systemDir, "index.json"),
		index: index{Version: 1, Entries: make(map[string]*indexEntry)},
	}
}

func hashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Load reads the index from disk. A missing or corrupt index starts empty.
func (c *cache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	var idx index
	if err := json.Unmarshal(data, &idx); err != nil || idx.Entries == nil {
		c.index.Entries = make(map[string]*indexEntry)
		c.dirty = true
		return nil
	}
	c.index = idx
	c.dirty = false
	return nil
}

// Save persists the index if it changed since the last load or save.
func (c *cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}
	data, err := json.MarshalIndent(c.index, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFileAtomic(c.Path, data, 0644); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Fresh reports whether id was last exported at updatedAt with content hash
// and document hash doc.
func (c *cache) Fresh(id string, updatedAt time.Time, hash, doc string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.index.Entries[id]
	return ok && e.UpdatedAt.Equal(updatedAt) && e.Hash == hash && e.Doc == doc
}

// Get returns a copy of the entry for id.
func (c *cache) Get(id string) (indexEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.index.Entries[id]
	if !ok {
		return indexEntry{}, false
	}
	return *e, true
}

// Known reports whether hash is exactly what we last wrote for id.
func (c *cache) Known(id, hash string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.index.Entries[id]
	return ok && e.Hash == hash
}

func (c *cache) Set(id string, e *indexEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index.Entries[id] = e
	c.dirty = true
}

func (c *cache) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.index.Entries[id]; ok {
		delete(c.index.Entries, id)
		c.dirty = true
	}
}

func (c *cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.index.Entries)
}
