package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ben-ranford/fluttersweep/internal/testutil"
)

func relPaths(files []File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Rel)
	}
	return out
}

func TestCollectSelectsExtensionSorted(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"lib/main.dart":               "void main() {}",
		"lib/src/widgets/button.dart": "class Button {}",
		"lib/src/readme.md":           "docs",
		"test/widget_test.dart":       "test",
		"build/generated.dart":        "gen",
		"lib/a.dart.bak":              "backup",
	})

	files, warnings, err := Collect(context.Background(), root, Options{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	want := []string{"build/generated.dart", "lib/main.dart", "lib/src/widgets/button.dart", "test/widget_test.dart"}
	if got := relPaths(files); !slices.Equal(got, want) {
		t.Fatalf("unexpected files: %v", got)
	}
	if files[2].BaseName != "button" {
		t.Fatalf("unexpected base name %q", files[2].BaseName)
	}
	if files[2].Path != filepath.Join(root, "lib", "src", "widgets", "button.dart") {
		t.Fatalf("unexpected path %q", files[2].Path)
	}
}

func TestCollectEmptyProject(t *testing.T) {
	files, _, err := Collect(context.Background(), t.TempDir(), Options{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no files, got %v", files)
	}
}

func TestCollectCustomExtension(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"src/a.go":   "package a",
		"src/b.dart": "x",
	})

	files, _, err := Collect(context.Background(), root, Options{Extension: ".go"})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got := relPaths(files); !slices.Equal(got, []string{"src/a.go"}) {
		t.Fatalf("unexpected files: %v", got)
	}
	if files[0].BaseName != "a" {
		t.Fatalf("unexpected base name %q", files[0].BaseName)
	}
}

func TestCollectExcludePatterns(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"lib/main.dart":              "x",
		"lib/model.g.dart":           "x",
		".dart_tool/cache/x.dart":    "x",
		"lib/src/model.freezed.dart": "x",
	})

	files, _, err := Collect(context.Background(), root, Options{Exclude: []string{".dart_tool", "**/*.g.dart", "**/*.freezed.dart"}})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got := relPaths(files); !slices.Equal(got, []string{"lib/main.dart"}) {
		t.Fatalf("unexpected files: %v", got)
	}
}

func TestCollectRejectsInvalidPattern(t *testing.T) {
	_, _, err := Collect(context.Background(), t.TempDir(), Options{Exclude: []string{"lib/[unterminated"}})
	if !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern, got %v", err)
	}
}

func TestCollectMissingRoot(t *testing.T) {
	_, _, err := Collect(context.Background(), filepath.Join(t.TempDir(), "missing"), Options{})
	if err == nil {
		t.Fatalf("expected error for missing root")
	}
}

func TestCollectRootIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.dart")
	testutil.MustWriteFile(t, path, "x")
	if _, _, err := Collect(context.Background(), path, Options{}); err == nil {
		t.Fatalf("expected error for file root")
	}
}

func TestCollectCanceledContext(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{"lib/a.dart": "x"})
	_, _, err := Collect(testutil.CanceledContext(), root, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCollectSurvivesSymlinkCycle(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{"lib/a.dart": "x"})
	if err := os.Symlink(root, filepath.Join(root, "lib", "loop")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, warnings, err := Collect(context.Background(), root, Options{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got := relPaths(files); !slices.Equal(got, []string{"lib/a.dart"}) {
		t.Fatalf("unexpected files: %v", got)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "already visited") {
		t.Fatalf("expected one cycle warning, got %v", warnings)
	}
}

func TestCollectFollowsFileSymlinks(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{"lib/a.dart": "x"})
	if err := os.Symlink(filepath.Join(root, "lib", "a.dart"), filepath.Join(root, "lib", "b.dart")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "missing.dart"), filepath.Join(root, "lib", "c.dart")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, warnings, err := Collect(context.Background(), root, Options{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got := relPaths(files); !slices.Equal(got, []string{"lib/a.dart", "lib/b.dart"}) {
		t.Fatalf("unexpected files: %v", got)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "dangling") {
		t.Fatalf("expected dangling symlink warning, got %v", warnings)
	}
}

func TestCollectIsDeterministic(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"z/z.dart": "x", "a/a.dart": "x", "m/n/o.dart": "x",
	})

	first, _, err := Collect(context.Background(), root, Options{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	second, _, err := Collect(context.Background(), root, Options{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if !slices.Equal(first, second) {
		t.Fatalf("expected identical results, got %v and %v", first, second)
	}
}
