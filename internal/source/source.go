// Package source collects the project's source files.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const DefaultExtension = ".dart"

var ErrInvalidPattern = errors.New("invalid exclude pattern")

// File is a collected source file. Rel is slash separated and relative to
// the collection root; BaseName is the final path segment without the
// source extension.
type File struct {
	Path     string `json:"path"`
	Rel      string `json:"rel"`
	BaseName string `json:"baseName"`
}

type Options struct {
	Extension string
	Exclude   []string
}

// Collect walks root and returns every regular file whose name ends with
// the configured extension, sorted by path. Directory symlinks are followed
// once per real directory. Unreadable subdirectories are skipped and
// reported as warnings.
func Collect(ctx context.Context, root string, opts Options) ([]File, []string, error) {
	ext := opts.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("root is not a directory: %s", root)
	}

	w := &walker{
		ctx:     ctx,
		root:    root,
		ext:     ext,
		exclude: opts.Exclude,
		visited: make(map[string]struct{}),
	}
	if err := w.walkDir(root, ""); err != nil {
		return nil, nil, err
	}

	slices.SortFunc(w.files, func(a, b File) int {
		return strings.Compare(a.Path, b.Path)
	})
	return w.files, w.warnings, nil
}

type walker struct {
	ctx      context.Context
	root     string
	ext      string
	exclude  []string
	visited  map[string]struct{}
	files    []File
	warnings []string
}

func (w *walker) walkDir(dir, rel string) error {
	if w.ctx != nil && w.ctx.Err() != nil {
		return w.ctx.Err()
	}

	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		if rel == "" {
			return fmt.Errorf("resolve root: %w", err)
		}
		w.warn("resolve directory %s: %v", dir, err)
		return nil
	}
	if _, seen := w.visited[real]; seen {
		w.warn("skipped %s: directory already visited (symlink cycle or alias of %s)", dir, real)
		return nil
	}
	w.visited[real] = struct{}{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if rel == "" {
			return fmt.Errorf("read root: %w", err)
		}
		w.warn("read directory %s: %v", dir, err)
		return nil
	}

	for _, entry := range entries {
		if err := w.visit(dir, rel, entry); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) visit(dir, rel string, entry fs.DirEntry) error {
	name := entry.Name()
	fullPath := filepath.Join(dir, name)
	relPath := path.Join(rel, name)
	if w.excluded(relPath) {
		return nil
	}

	mode := entry.Type()
	if mode&fs.ModeSymlink != 0 {
		target, err := os.Stat(fullPath)
		if err != nil {
			w.warn("skipped dangling symlink %s: %v", fullPath, err)
			return nil
		}
		mode = target.Mode().Type()
	}

	switch {
	case mode.IsDir():
		return w.walkDir(fullPath, relPath)
	case mode.IsRegular() && strings.HasSuffix(name, w.ext):
		w.files = append(w.files, File{
			Path:     fullPath,
			Rel:      relPath,
			BaseName: strings.TrimSuffix(name, w.ext),
		})
	}
	return nil
}

func (w *walker) excluded(relPath string) bool {
	for _, pattern := range w.exclude {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

func (w *walker) warn(format string, args ...any) {
	w.warnings = append(w.warnings, fmt.Sprintf(format, args...))
}
