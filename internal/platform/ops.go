package platform

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/studynotes/pkg/adapters/fs"
	"github.com/aretw0/studynotes/pkg/core"
)

// PullPageSize is the page size Pull requests notes with.
const PullPageSize = 50

// Pull walks every page of the user's notes and exports them into the vault.
func (a *App) Pull(ctx context.Context) (*fs.ExportResult, error) {
	total := &fs.ExportResult{}
	for page := 1; ; page++ {
		res, err := a.Service.ListNotes(ctx, page, PullPageSize)
		if err != nil {
			return total, fmt.Errorf("pull page %d: %w", page, err)
		}
		out, err := a.Vault.Export(ctx, res.Notes)
		if out != nil {
			total.Written = append(total.Written, out.Written...)
			total.Skipped = append(total.Skipped, out.Skipped...)
		}
		if err != nil {
			return total, err
		}
		if page >= res.TotalPages || len(res.Notes) == 0 {
			break
		}
	}
	a.Logger.Debug("pull finished", "written", len(total.Written), "skipped", len(total.Skipped))
	return total, nil
}

// Push sends the local copy of a note back to the backend and re-exports the
// saved version so the vault index matches the server. The editor document
// goes along unchanged unless the HTML was edited locally, in which case it
// no longer describes the body and is reset.
func (a *App) Push(ctx context.Context, id string) (*core.Note, error) {
	local, err := a.Vault.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	in := core.NoteInput{
		Title:     local.Title,
		SubjectID: local.SubjectID,
		HTML:      local.HTML,
		Doc:       local.Doc,
	}
	if a.Vault.BodyEdited(local) {
		a.Logger.Debug("body edited locally, resetting editor document", "id", id)
		in.Doc = json.RawMessage("null")
	}
	saved, err := a.Service.UpdateNote(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if saved.ID == "" {
		saved.ID = id
	}
	if _, err := a.Vault.Export(ctx, []core.Note{*saved}); err != nil {
		return saved, fmt.Errorf("re-export %s: %w", id, err)
	}
	return saved, nil
}
