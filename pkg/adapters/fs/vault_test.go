package fs_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studynotes/pkg/adapters/fs"
	"github.com/aretw0/studynotes/pkg/core"
)

func newVault(t *testing.T) *fs.Vault {
	t.Helper()
	v := fs.NewVault(fs.Config{Path: t.TempDir()})
	require.NoError(t, v.Initialize(context.Background()))
	return v
}

func sampleNotes() []core.Note {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return []core.Note{
		{ID: "a1", Title: "Mitosis", SubjectID: "bio", HTML: "<p>prophase</p>", UpdatedAt: ts},
		{ID: "b2", Title: "Newton", SubjectID: "phy", HTML: "<p>F = ma</p>", UpdatedAt: ts},
	}
}

func TestVault_ExportSkipsUnchanged(t *testing.T) {
	ctx := context.Background()
	v := newVault(t)
	notes := sampleNotes()

	res, err := v.Export(ctx, notes)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a1", "b2"}, res.Written)
	assert.Empty(t, res.Skipped)

	res, err = v.Export(ctx, notes)
	require.NoError(t, err)
	assert.Empty(t, res.Written)
	assert.ElementsMatch(t, []string{"a1", "b2"}, res.Skipped)

	notes[1].HTML = "<p>F = dp/dt</p>"
	notes[1].UpdatedAt = notes[1].UpdatedAt.Add(time.Hour)
	res, err = v.Export(ctx, notes)
	require.NoError(t, err)
	assert.Equal(t, []string{"b2"}, res.Written)
	assert.Equal(t, []string{"a1"}, res.Skipped)

	// The index survives a restart.
	again := fs.NewVault(fs.Config{Path: v.Path})
	require.NoError(t, again.Initialize(ctx))
	res, err = again.Export(ctx, notes)
	require.NoError(t, err)
	assert.Len(t, res.Skipped, 2)

	state := again.State().(fs.VaultState)
	assert.Equal(t, 2, state.IndexedNotes)
	assert.NotNil(t, state.LastExport)
}

func TestVault_ExportRewritesEditedFile(t *testing.T) {
	ctx := context.Background()
	v := newVault(t)
	notes := sampleNotes()

	_, err := v.Export(ctx, notes)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(v.Path, "a1.md"), []byte("local edit"), 0644))

	res, err := v.Export(ctx, notes)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, res.Written)
}

func TestVault_ReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	v := newVault(t)
	notes := sampleNotes()
	_, err := v.Export(ctx, notes)
	require.NoError(t, err)

	got, err := v.Read(ctx, "b2")
	require.NoError(t, err)
	assert.Equal(t, "Newton", got.Title)
	assert.Equal(t, "phy", got.SubjectID)
	assert.Equal(t, "<p>F = ma</p>", got.HTML)

	_, err = v.Read(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = v.Read(ctx, "../escape")
	assert.ErrorIs(t, err, core.ErrValidation)

	ids, err := v.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "b2"}, ids)
}

func TestVault_MustExist(t *testing.T) {
	v := fs.NewVault(fs.Config{Path: filepath.Join(t.TempDir(), "nope"), MustExist: true})
	assert.Error(t, v.Initialize(context.Background()))
}

func TestVault_DocumentSidecar(t *testing.T) {
	ctx := context.Background()
	v := newVault(t)
	notes := sampleNotes()
	notes[0].Doc = json.RawMessage(`{"type":"doc","content":[{"type":"paragraph"}]}`)

	_, err := v.Export(ctx, notes)
	require.NoError(t, err)
	sidecar := filepath.Join(v.Path, fs.DefaultSystemDir, "docs", "a1.json")
	assert.FileExists(t, sidecar)
	assert.NoFileExists(t, filepath.Join(v.Path, fs.DefaultSystemDir, "docs", "b2.json"))

	n, err := v.Read(ctx, "a1")
	require.NoError(t, err)
	assert.JSONEq(t, string(notes[0].Doc), string(n.Doc))
	assert.False(t, v.BodyEdited(n))

	ids, err := v.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "b2"}, ids, "sidecars are not notes")

	// A lost sidecar is restored even though the note itself is current.
	require.NoError(t, os.Remove(sidecar))
	res, err := v.Export(ctx, notes)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, res.Written)
	assert.FileExists(t, sidecar)

	// A note that loses its document loses the sidecar.
	notes[0].Doc = json.RawMessage("null")
	notes[0].UpdatedAt = notes[0].UpdatedAt.Add(time.Hour)
	_, err = v.Export(ctx, notes)
	require.NoError(t, err)
	assert.NoFileExists(t, sidecar)
	n, err = v.Read(ctx, "a1")
	require.NoError(t, err)
	assert.Empty(t, n.Doc)
}

func TestVault_BodyEdited(t *testing.T) {
	ctx := context.Background()
	v := newVault(t)
	_, err := v.Export(ctx, sampleNotes())
	require.NoError(t, err)

	n, err := v.Read(ctx, "b2")
	require.NoError(t, err)
	assert.False(t, v.BodyEdited(n))

	n.Title = "Renamed"
	assert.False(t, v.BodyEdited(n), "metadata edits leave the body alone")

	n.HTML = "<p>F = dp/dt</p>"
	assert.True(t, v.BodyEdited(n))

	assert.True(t, v.BodyEdited(&core.Note{ID: "unknown", HTML: "<p>x</p>"}))
}
