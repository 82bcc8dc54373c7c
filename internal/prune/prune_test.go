package prune

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ben-ranford/fluttersweep/internal/safeio"
	"github.com/ben-ranford/fluttersweep/internal/testutil"
)

func TestApplyDeletesInOrderAndContinuesPastMissingFile(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"lib/a.dart": "class A {}",
		"lib/c.dart": "class C {}",
	})
	paths := []string{
		filepath.Join(root, "lib", "a.dart"),
		filepath.Join(root, "lib", "b.dart"),
		filepath.Join(root, "lib", "c.dart"),
	}

	plan, err := NewPlan(root, paths)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	results := Apply(context.Background(), plan)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, result := range results {
		if result.Path != paths[i] {
			t.Fatalf("result %d out of order: %q", i, result.Path)
		}
	}
	if !results[0].Deleted() || results[0].Bytes != int64(len("class A {}")) {
		t.Fatalf("expected a.dart deleted with size, got %+v", results[0])
	}
	if results[1].Deleted() || !errors.Is(results[1].Err, os.ErrNotExist) {
		t.Fatalf("expected b.dart to fail with not-exist, got %+v", results[1])
	}
	if !results[2].Deleted() {
		t.Fatalf("expected c.dart deleted after failure, got %+v", results[2])
	}
	if Failures(results) != 1 {
		t.Fatalf("expected one failure, got %d", Failures(results))
	}
	for _, path := range []string{paths[0], paths[2]} {
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected %s to be removed, stat err %v", path, err)
		}
	}
}

func TestNewPlanRejectsPathsOutsideRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "app")
	testutil.MustWriteFile(t, filepath.Join(root, "lib", "main.dart"), "void main() {}")
	outside := filepath.Join(parent, "keep.dart")
	testutil.MustWriteFile(t, outside, "keep")

	plan, err := NewPlan(root, []string{outside, filepath.Join(root, "lib", "main.dart")})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if !errors.Is(plan.Targets[0].Err, safeio.ErrEscapesRoot) {
		t.Fatalf("expected outside target to be rejected, got %+v", plan.Targets[0])
	}
	if plan.Targets[1].Rel != filepath.Join("lib", "main.dart") {
		t.Fatalf("unexpected rel path %q", plan.Targets[1].Rel)
	}

	results := Apply(context.Background(), plan)
	if results[0].Deleted() {
		t.Fatalf("expected outside target to fail")
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("outside file must survive: %v", err)
	}
	if !results[1].Deleted() {
		t.Fatalf("expected in-root target deleted, got %v", results[1].Err)
	}
}

func TestApplyRefusesDirectories(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "lib", "widgets.dart")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	plan, err := NewPlan(root, []string{dir})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	results := Apply(context.Background(), plan)
	if !errors.Is(results[0].Err, ErrNotRegularFile) {
		t.Fatalf("expected ErrNotRegularFile, got %v", results[0].Err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("directory must survive: %v", err)
	}
}

func TestApplyCanceledContextDeletesNothing(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{"lib/a.dart": "a"})
	path := filepath.Join(root, "lib", "a.dart")
	plan, err := NewPlan(root, []string{path})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	results := Apply(testutil.CanceledContext(), plan)
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", results[0].Err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file must survive a canceled run: %v", err)
	}
}

func TestApplyEmptyPlan(t *testing.T) {
	plan, err := NewPlan(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if results := Apply(context.Background(), plan); len(results) != 0 {
		t.Fatalf("expected no results, got %v", results)
	}
}
