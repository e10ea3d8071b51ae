package fs

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("Creates File And Parent Dirs", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "nested", "token.yaml")

		if err := writeFileAtomic(filename, []byte("hello"), 0644); err != nil {
			t.Fatalf("writeFileAtomic failed: %v", err)
		}

		got, err := os.ReadFile(filename)
		if err != nil {
			t.Fatalf("Failed to read file: %v", err)
		}
		if string(got) != "hello" {
			t.Errorf("Expected 'hello', got '%s'", got)
		}
	})

	t.Run("Overwrites Without Leftovers", func(t *testing.T) {
		dir := t.TempDir()
		filename := filepath.Join(dir, "note.md")
		if err := os.WriteFile(filename, []byte("old"), 0644); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}

		if err := writeFileAtomic(filename, []byte("new"), 0644); err != nil {
			t.Fatalf("writeFileAtomic failed: %v", err)
		}

		got, _ := os.ReadFile(filename)
		if string(got) != "new" {
			t.Errorf("Expected 'new', got '%s'", got)
		}

		entries, _ := os.ReadDir(dir)
		for _, e := range entries {
			if isTempFile(e.Name()) {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
	})

	t.Run("Applies Permissions", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("unix permissions")
		}
		filename := filepath.Join(t.TempDir(), "secret")
		if err := writeFileAtomic(filename, []byte("x"), 0600); err != nil {
			t.Fatalf("writeFileAtomic failed: %v", err)
		}
		info, err := os.Stat(filename)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("Expected 0600, got %v", info.Mode().Perm())
		}
	})
}
