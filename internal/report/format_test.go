package report

import (
	"errors"
	"strings"
	"testing"
)

func sampleReport() Report {
	return Report{
		SchemaVersion: SchemaVersion,
		RootPath:      "/work/demo",
		Mode:          "all",
		Match:         "substring",
		Extension:     ".dart",
		Dependencies: &DependencySection{
			Manifest:  "/work/demo/pubspec.yaml",
			Declared:  3,
			Unused:    []string{"provider"},
			UnusedDev: []string{},
			Ignored:   []string{"flutter"},
		},
		Files: &FileSection{
			Scanned: 4,
			Unused: []FileEntry{
				{Index: 1, Path: "/work/demo/lib/a.dart", Rel: "lib/a.dart"},
				{Index: 2, Path: "/work/demo/lib/old.dart", Rel: "lib/old.dart"},
			},
			Retained: []FileEntry{{Index: 1, Path: "/work/demo/lib/main.dart", Rel: "lib/main.dart"}},
		},
		Deletions: []DeletionEntry{
			{Path: "/work/demo/lib/a.dart", Deleted: true, Bytes: 2048},
			{Path: "/work/demo/lib/old.dart", Error: "no such file or directory"},
		},
		Stats:    Stats{FilesScanned: 4, BytesScanned: 4096, ReadErrors: 1},
		Warnings: []string{"read /work/demo/lib/x.dart: permission denied"},
	}
}

func TestFormatTable(t *testing.T) {
	output, err := NewFormatter(false).Format(sampleReport(), FormatTable)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"Project: /work/demo (mode: all, match: substring)",
		"Unused dependencies in pubspec.yaml:\n- provider\n",
		"Unused dev_dependencies in pubspec.yaml:\n  none\n",
		"1 ignored by configuration",
		"Unused .dart files:",
		"/work/demo/lib/old.dart",
		"1 unreferenced entry point(s) kept",
		"Deleted: /work/demo/lib/a.dart (2.0 kB)",
		"Error deleting /work/demo/lib/old.dart: no such file or directory",
		"Scanned 4 files (4.1 kB), 1 unreadable",
		"Warnings:\n- read /work/demo/lib/x.dart: permission denied\n",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "\x1b[") {
		t.Fatalf("expected no color escapes when color is disabled")
	}
}

func TestFormatTableColor(t *testing.T) {
	formatter := NewFormatter(true)
	output, err := formatter.Format(sampleReport(), FormatTable)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "\x1b[31m- provider") {
		t.Fatalf("expected red dependency entry, got:\n%s", output)
	}
}

func TestFormatTableOmitsAbsentSections(t *testing.T) {
	output, err := NewFormatter(false).Format(Report{RootPath: ".", Mode: "deps", Match: "substring", Dependencies: &DependencySection{}}, FormatTable)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(output, "files:") {
		t.Fatalf("unexpected file section in deps-only output:\n%s", output)
	}
	if strings.Count(output, "  none") != 2 {
		t.Fatalf("expected both dependency sections to be empty:\n%s", output)
	}
}

func TestFormatJSON(t *testing.T) {
	output, err := NewFormatter(false).Format(sampleReport(), FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{`"rootPath": "/work/demo"`, `"unusedDev": []`, `"index": 2`} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected json output to include %s, got:\n%s", want, output)
		}
	}
}

func TestFormatUnknown(t *testing.T) {
	if _, err := NewFormatter(false).Format(Report{}, Format("xml")); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatTable, "TABLE": FormatTable, " json ": FormatJSON}
	for input, want := range cases {
		got, err := ParseFormat(input)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", input, got, err)
		}
	}
	if _, err := ParseFormat("sarif"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestReportHelpers(t *testing.T) {
	r := sampleReport()
	paths := r.UnusedPaths()
	if len(paths) != 2 || paths[1] != "/work/demo/lib/old.dart" {
		t.Fatalf("unexpected unused paths: %v", paths)
	}
	if (Report{}).UnusedPaths() != nil {
		t.Fatalf("expected nil paths without file section")
	}
}

func TestFormatDeletionsAndNote(t *testing.T) {
	formatter := NewFormatter(false)
	output := formatter.Deletions(sampleReport().Deletions)
	if !strings.HasPrefix(output, "\nDeleted: /work/demo/lib/a.dart (2.0 kB)\n") {
		t.Fatalf("unexpected deletion output %q", output)
	}
	if got := formatter.Note("No files were deleted."); got != "No files were deleted.\n" {
		t.Fatalf("unexpected note %q", got)
	}
}
