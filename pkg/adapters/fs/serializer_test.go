package fs

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studynotes/pkg/core"
)

func TestMarkdownNote_RoundTrip(t *testing.T) {
	n := core.Note{
		ID:        "65f0c1",
		Title:     "Cell: structure & function",
		SubjectID: "bio",
		HTML:      "<h1>Cells</h1>\n<p>--- not a delimiter</p>",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt: time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC),
	}

	data, err := marshalNote(n)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\n"))
	assert.Contains(t, string(data), "subjectId: bio")

	got, err := unmarshalNote(data)
	require.NoError(t, err)
	assert.Equal(t, n.ID, got.ID)
	assert.Equal(t, n.Title, got.Title)
	assert.Equal(t, n.SubjectID, got.SubjectID)
	assert.Equal(t, n.HTML, got.HTML)
	assert.True(t, n.UpdatedAt.Equal(got.UpdatedAt))
	assert.True(t, n.CreatedAt.Equal(got.CreatedAt))
}

func TestMarkdownNote_Parse(t *testing.T) {
	t.Run("No Frontmatter", func(t *testing.T) {
		got, err := unmarshalNote([]byte("<p>plain</p>"))
		require.NoError(t, err)
		assert.Empty(t, got.ID)
		assert.Equal(t, "<p>plain</p>", got.HTML)
	})

	t.Run("CRLF", func(t *testing.T) {
		got, err := unmarshalNote([]byte("---\r\nid: x\r\ntitle: T\r\n---\r\n<p>b</p>"))
		require.NoError(t, err)
		assert.Equal(t, "x", got.ID)
		assert.Equal(t, "<p>b</p>", got.HTML)
	})

	t.Run("Unclosed Frontmatter", func(t *testing.T) {
		_, err := unmarshalNote([]byte("---\nid: x\n<p>b</p>"))
		assert.Error(t, err)
	})
}
