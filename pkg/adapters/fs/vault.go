// Package fs implements local persistence: the bearer token file and the
// note vault, a directory of Markdown files mirroring the user's notes.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/studynotes/pkg/core"
)

const (
	// DefaultSystemDir holds the vault's own bookkeeping.
	DefaultSystemDir = ".studynotes"
	// DefaultPattern selects every exported note.
	DefaultPattern = "**/*.md"

	noteExt = ".md"
	docsDir = "docs"
)

// Config holds the configuration for the vault.
type Config struct {
	Path      string
	SystemDir string
	MustExist bool
	Logger    *slog.Logger
	// ErrorHandler receives non-fatal watcher errors. Defaults to logging.
	ErrorHandler func(error)
}

// Vault mirrors notes as <id>.md files under Path. The editor document of a
// note, when it has one, is kept as <systemDir>/docs/<id>.json.
type Vault struct {
	Path   string
	config Config
	cache  *cache

	mu            sync.RWMutex
	watcherActive bool
	lastExport    *time.Time
}

// ExportResult lists which notes were written and which were already current.
type ExportResult struct {
	Written []string
	Skipped []string
}

// NewVault creates a vault rooted at config.Path.
func NewVault(config Config) *Vault {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Vault{
		Path:   config.Path,
		config: config,
		cache:  newCache(config.Path, config.SystemDir),
	}
}

// Initialize prepares the directory and loads the index.
func (v *Vault) Initialize(ctx context.Context) error {
	if v.config.MustExist {
		info, err := os.Stat(v.Path)
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("vault path does not exist: %s", v.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", v.Path)
		}
	} else if err := os.MkdirAll(v.Path, 0755); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}
	return v.cache.Load()
}

// Export writes every note that changed since it was last exported.
func (v *Vault) Export(ctx context.Context, notes []core.Note) (*ExportResult, error) {
	res := &ExportResult{}
	for _, n := range notes {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := checkID(n.ID); err != nil {
			return res, err
		}

		data, err := marshalNote(n)
		if err != nil {
			return res, fmt.Errorf("failed to render note %s: %w", n.ID, err)
		}
		hash := hashContent(data)
		path := v.notePath(n.ID)
		doc := ""
		if hasDoc(n.Doc) {
			doc = hashContent(n.Doc)
		}
		docPath := v.docPath(n.ID)

		if v.cache.Fresh(n.ID, n.UpdatedAt, hash, doc) && fileHash(path) == hash && fileHash(docPath) == doc {
			res.Skipped = append(res.Skipped, n.ID)
			continue
		}

		if err := writeFileAtomic(path, data, 0644); err != nil {
			return res, err
		}
		if doc != "" {
			if err := writeFileAtomic(docPath, n.Doc, 0644); err != nil {
				return res, err
			}
		} else if err := os.Remove(docPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return res, fmt.Errorf("failed to remove document of %s: %w", n.ID, err)
		}
		v.cache.Set(n.ID, &indexEntry{UpdatedAt: n.UpdatedAt, Hash: hash, Body: bodyHash(n.HTML), Doc: doc})
		res.Written = append(res.Written, n.ID)
		v.config.Logger.Debug("note exported", "id", n.ID, "path", path)
	}

	if err := v.cache.Save(); err != nil {
		return res, fmt.Errorf("failed to save index: %w", err)
	}

	now := time.Now()
	v.mu.Lock()
	v.lastExport = &now
	v.mu.Unlock()
	return res, nil
}

// Read parses the file of note id.
func (v *Vault) Read(ctx context.Context, id string) (*core.Note, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(v.notePath(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("note %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	n, err := unmarshalNote(data)
	if err != nil {
		return nil, fmt.Errorf("note %s: %w", id, err)
	}
	if n.ID == "" {
		n.ID = id
	}

	doc, err := os.ReadFile(v.docPath(id))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("note %s document: %w", id, err)
	}
	if hasDoc(doc) {
		n.Doc = json.RawMessage(doc)
	}
	return n, nil
}

// BodyEdited reports whether the HTML of n differs from what was last
// exported for it. A note the index does not know counts as edited.
func (v *Vault) BodyEdited(n *core.Note) bool {
	e, ok := v.cache.Get(n.ID)
	return !ok || e.Body == "" || e.Body != bodyHash(n.HTML)
}

// List returns the ids of the notes in the vault, sorted.
func (v *Vault) List(ctx context.Context) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(v.Path), DefaultPattern)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		if v.inSystemDir(m) || isTempFile(m) {
			continue
		}
		ids = append(ids, idFromPath(m))
	}
	sort.Strings(ids)
	return ids, nil
}

func (v *Vault) notePath(id string) string {
	return filepath.Join(v.Path, id+noteExt)
}

func (v *Vault) docPath(id string) string {
	return filepath.Join(v.Path, v.config.SystemDir, docsDir, id+".json")
}

func (v *Vault) inSystemDir(rel string) bool {
	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	return first == v.config.SystemDir
}

func idFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), noteExt)
}

func checkID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return &core.ValidationError{Fields: map[string]string{"id": "is not a valid note id"}}
	}
	return nil
}

func hasDoc(doc []byte) bool {
	d := bytes.TrimSpace(doc)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

// bodyHash ignores trailing newlines, which Read trims.
func bodyHash(html string) string {
	return hashContent([]byte(strings.TrimRight(html, "\n")))
}

func fileHash(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return hashContent(data)
}
