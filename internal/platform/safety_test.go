package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDevRun(t *testing.T) {
	// Test binaries end in .test or live in the temp dir.
	assert.True(t, IsDevRun())
}

func TestResolveStatePath(t *testing.T) {
	tmp := os.TempDir()

	t.Run("No Sandbox Keeps Path", func(t *testing.T) {
		assert.Equal(t, "/srv/state", ResolveStatePath("/srv/state", false))
		assert.Equal(t, ".", ResolveStatePath("", false))
	})

	t.Run("Sandbox Re-roots Outside Paths", func(t *testing.T) {
		got := ResolveStatePath("/home/ana/.config/studynotes", true)
		assert.Equal(t, filepath.Join(tmp, "studynotes-dev", "studynotes"), got)
	})

	t.Run("Sandbox Keeps Temp Paths", func(t *testing.T) {
		dir := t.TempDir()
		assert.Equal(t, filepath.Clean(dir), ResolveStatePath(dir, true))
	})

	t.Run("Sandbox Default Name", func(t *testing.T) {
		assert.Equal(t, filepath.Join(tmp, "studynotes-dev", "default"), ResolveStatePath("", true))
	})
}
