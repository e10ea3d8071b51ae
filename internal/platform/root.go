package platform

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/aretw0/studynotes/pkg/adapters/fs"
)

// ErrRootNotFound is returned when no project root exists above the start dir.
var ErrRootNotFound = errors.New("root not found")

// FindRoot walks upwards from startDir looking for a studynotes.yaml file
// or a .studynotes directory and returns the first directory holding one.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if hasFile(dir, ConfigFile) || hasFile(dir, fs.DefaultSystemDir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrRootNotFound
		}
		dir = parent
	}
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
