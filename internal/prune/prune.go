// Package prune deletes files that a scan reported as unused.
package prune

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ben-ranford/fluttersweep/internal/safeio"
)

var ErrNotRegularFile = errors.New("not a regular file")

type Target struct {
	Path string
	Rel  string
	// Err is set when the target was rejected while planning.
	Err error
}

type Plan struct {
	Root    string
	Targets []Target
}

type Result struct {
	Path  string
	Bytes int64
	Err   error
}

func (r Result) Deleted() bool {
	return r.Err == nil
}

// NewPlan builds a deletion plan without touching the filesystem. Paths that
// resolve outside root are kept as failed targets so they still get a result.
func NewPlan(root string, paths []string) (Plan, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return Plan{}, fmt.Errorf("resolve root path: %w", err)
	}
	plan := Plan{Root: rootAbs, Targets: make([]Target, 0, len(paths))}
	for _, path := range paths {
		target := Target{Path: path}
		abs, err := filepath.Abs(path)
		switch {
		case err != nil:
			target.Err = err
		case !safeio.IsPathWithin(rootAbs, abs):
			target.Err = fmt.Errorf("%w: %s", safeio.ErrEscapesRoot, path)
		default:
			target.Rel, _ = filepath.Rel(rootAbs, abs)
		}
		plan.Targets = append(plan.Targets, target)
	}
	return plan, nil
}

// Apply deletes the planned targets one at a time, in order. A failure is
// recorded on its result and the remaining targets are still attempted.
// Once ctx is done, every remaining target fails with the context error.
func Apply(ctx context.Context, plan Plan) []Result {
	results := make([]Result, 0, len(plan.Targets))
	root, rootErr := os.OpenRoot(plan.Root)
	if rootErr == nil {
		defer root.Close()
	}
	for _, target := range plan.Targets {
		result := Result{Path: target.Path}
		switch {
		case target.Err != nil:
			result.Err = target.Err
		case ctx.Err() != nil:
			result.Err = ctx.Err()
		case rootErr != nil:
			result.Err = fmt.Errorf("open root: %w", rootErr)
		default:
			result.Bytes, result.Err = removeFile(root, target.Rel)
		}
		results = append(results, result)
	}
	return results
}

func removeFile(root *os.Root, rel string) (int64, error) {
	info, err := root.Lstat(rel)
	if err != nil {
		return 0, err
	}
	if !info.Mode().IsRegular() && info.Mode()&os.ModeSymlink == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNotRegularFile, rel)
	}
	if err := root.Remove(rel); err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Failures counts the results that did not delete their file.
func Failures(results []Result) int {
	count := 0
	for _, result := range results {
		if result.Err != nil {
			count++
		}
	}
	return count
}
