package safeio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrEscapesRoot  = errors.New("path escapes root")
	ErrFileTooLarge = errors.New("file exceeds size limit")
)

// ReadFileUnder reads targetPath only if it resolves under rootDir.
func ReadFileUnder(rootDir, targetPath string) ([]byte, error) {
	return ReadFileUnderLimit(rootDir, targetPath, 0)
}

// ReadFileUnderLimit is ReadFileUnder with an upper bound on the number of
// bytes read. A limit <= 0 disables the bound.
func ReadFileUnderLimit(rootDir, targetPath string, limit int64) ([]byte, error) {
	rootAbs, rel, err := relativeUnder(rootDir, targetPath)
	if err != nil {
		return nil, err
	}

	root, err := os.OpenRoot(rootAbs)
	if err != nil {
		return nil, fmt.Errorf("open root: %w", err)
	}
	defer root.Close()

	return readLimited(root, rel, targetPath, limit)
}

// ReadFileLimit reads the file targetPath points at. Symlinks are resolved
// first and the target's parent directory is opened as the root, so a link
// leaving the directory it lives in is still readable.
func ReadFileLimit(targetPath string, limit int64) ([]byte, error) {
	resolved, err := filepath.EvalSymlinks(targetPath)
	if err != nil {
		return nil, err
	}
	resolved, err = filepath.Abs(resolved)
	if err != nil {
		return nil, fmt.Errorf("resolve target path: %w", err)
	}

	root, err := os.OpenRoot(filepath.Dir(resolved))
	if err != nil {
		return nil, fmt.Errorf("open parent root: %w", err)
	}
	defer root.Close()

	return readLimited(root, filepath.Base(resolved), targetPath, limit)
}

func readLimited(root *os.Root, name, display string, limit int64) ([]byte, error) {
	file, err := root.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if limit <= 0 {
		return io.ReadAll(file)
	}
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s (limit %d bytes)", ErrFileTooLarge, display, limit)
	}
	return data, nil
}

// IsPathWithin reports whether candidate resolves to root or somewhere below it.
func IsPathWithin(root, candidate string) bool {
	_, _, err := relativeUnder(root, candidate)
	return err == nil
}

func relativeUnder(rootDir, targetPath string) (string, string, error) {
	rootAbs, err := filepath.Abs(rootDir)
	if err != nil {
		return "", "", fmt.Errorf("resolve root path: %w", err)
	}
	targetAbs, err := filepath.Abs(targetPath)
	if err != nil {
		return "", "", fmt.Errorf("resolve target path: %w", err)
	}

	rel, err := filepath.Rel(rootAbs, targetAbs)
	if err != nil {
		return "", "", fmt.Errorf("compute relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", "", fmt.Errorf("%w: %s", ErrEscapesRoot, targetPath)
	}
	return rootAbs, filepath.Clean(rel), nil
}
