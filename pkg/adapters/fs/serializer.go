package fs

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/studynotes/pkg/core"
)

// frontmatter is the YAML header of an exported note.
type frontmatter struct {
	ID        string    `yaml:"id"`
	Title     string    `yaml:"title"`
	SubjectID string    `yaml:"subjectId"`
	CreatedAt time.Time `yaml:"createdAt,omitempty"`
	UpdatedAt time.Time `yaml:"updatedAt,omitempty"`
}

var delimiter = []byte("---")

// marshalNote renders a note as Markdown with YAML frontmatter and the HTML
// body below it. The editor document lives in a sidecar file, see Vault.
func marshalNote(n core.Note) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(delimiter)
	buf.WriteByte('\n')

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(frontmatter{
		ID:        n.ID,
		Title:     n.Title,
		SubjectID: n.SubjectID,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	buf.Write(delimiter)
	buf.WriteByte('\n')
	buf.WriteString(n.HTML)
	return buf.Bytes(), nil
}

// unmarshalNote parses a file written by marshalNote (or edited by hand).
// A file without frontmatter yields a note with only the body set.
func unmarshalNote(data []byte) (*core.Note, error) {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte("---\n")) {
		return &core.Note{HTML: string(data)}, nil
	}

	rest := data[len("---\n"):]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, errors.New("frontmatter started but no closing delimiter found")
	}

	var fm frontmatter
	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	body := rest[end+len("\n---"):]
	body = bytes.TrimPrefix(body, []byte("\n"))

	return &core.Note{
		ID:        fm.ID,
		Title:     fm.Title,
		SubjectID: fm.SubjectID,
		HTML:      strings.TrimRight(string(body), "\n"),
		CreatedAt: fm.CreatedAt,
		UpdatedAt: fm.UpdatedAt,
	}, nil
}
