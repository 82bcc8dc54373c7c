package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ben-ranford/fluttersweep/internal/manifest"
)

const LibDir = "lib"

var ErrInvalidProject = errors.New("invalid Flutter project path")

// NormalizeRoot resolves path to an absolute directory path. Blank means the
// current working directory.
func NormalizeRoot(path string) (string, error) {
	if path == "" {
		path = "."
	}
	return filepath.Abs(path)
}

// Validate accepts a root containing pubspec.yaml or a lib directory.
func Validate(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s does not exist", ErrInvalidProject, root)
		}
		return fmt.Errorf("%w: %s: %w", ErrInvalidProject, root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidProject, root)
	}
	if exists(manifest.Path(root)) || isDir(filepath.Join(root, LibDir)) {
		return nil
	}
	return fmt.Errorf("%w: %s has neither %s nor %s/", ErrInvalidProject, root, manifest.FileName, LibDir)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
