package fs

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/studynotes/pkg/core"
)

// tokenFile is the on-disk layout: a single well-known key.
type tokenFile struct {
	AccessToken string `yaml:"accessToken"`
}

// TokenStore persists the bearer token in a small YAML file readable only by
// the current user. When Jar is set, Clear also drops the refresh cookie.
type TokenStore struct {
	Path string
	Jar  *CookieJar
	mu   sync.Mutex
}

// NewTokenStore returns a store backed by path. The file is created lazily.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{Path: path}
}

// Load returns the persisted token, or "" when none is stored.
func (s *TokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	var f tokenFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return "", fmt.Errorf("failed to parse token file %s: %w", s.Path, err)
	}
	return f.AccessToken, nil
}

// Save replaces the persisted token.
func (s *TokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(tokenFile{AccessToken: token})
	if err != nil {
		return err
	}
	return writeFileAtomic(s.Path, data, 0600)
}

// Clear removes the persisted token and cookies. Clearing an empty store is
// not an error.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	if s.Jar != nil {
		return s.Jar.Clear()
	}
	return nil
}

var _ core.TokenStore = (*TokenStore)(nil)
