package fs

import (
	"os"
	"time"

	"github.com/aretw0/introspection"
)

// VaultState exposes internal state for observability.
type VaultState struct {
	Path          string     `json:"path"`
	SystemDir     string     `json:"system_dir"`
	IndexedNotes  int        `json:"indexed_notes"`
	WatcherActive bool       `json:"watcher_active"`
	LastExport    *time.Time `json:"last_export,omitempty"`
}

// State implements introspection.Introspectable.
func (v *Vault) State() any {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return VaultState{
		Path:          v.Path,
		SystemDir:     v.config.SystemDir,
		IndexedNotes:  v.cache.Len(),
		WatcherActive: v.watcherActive,
		LastExport:    v.lastExport,
	}
}

// ComponentType implements introspection.Component.
func (v *Vault) ComponentType() string {
	return "vault"
}

// TokenStoreState reports whether a token file is present, never its content.
type TokenStoreState struct {
	Path    string `json:"path"`
	Present bool   `json:"present"`
	Cookies int    `json:"cookies"`
}

// State implements introspection.Introspectable.
func (s *TokenStore) State() any {
	_, err := os.Stat(s.Path)
	st := TokenStoreState{Path: s.Path, Present: err == nil}
	if s.Jar != nil {
		st.Cookies = s.Jar.Len()
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *TokenStore) ComponentType() string {
	return "token-store"
}

var (
	_ introspection.Introspectable = (*Vault)(nil)
	_ introspection.Component      = (*Vault)(nil)
	_ introspection.Introspectable = (*TokenStore)(nil)
	_ introspection.Component      = (*TokenStore)(nil)
)

func (v *Vault) setWatcherActive(active bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.watcherActive = active
}
