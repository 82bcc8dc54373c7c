package report

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

const SchemaVersion = "1.0.0"

var ErrUnknownFormat = errors.New("unknown format")

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, value)
	}
}

type Report struct {
	SchemaVersion string             `json:"schemaVersion"`
	GeneratedAt   time.Time          `json:"generatedAt"`
	RootPath      string             `json:"rootPath"`
	Mode          string             `json:"mode"`
	Match         string             `json:"match"`
	Extension     string             `json:"extension"`
	Dependencies  *DependencySection `json:"dependencies,omitempty"`
	Files         *FileSection       `json:"files,omitempty"`
	Deletions     []DeletionEntry    `json:"deletions,omitempty"`
	Stats         Stats              `json:"stats"`
	Warnings      []string           `json:"warnings,omitempty"`
}

type DependencySection struct {
	Manifest  string   `json:"manifest"`
	Declared  int      `json:"declared"`
	Unused    []string `json:"unused"`
	UnusedDev []string `json:"unusedDev"`
	Ignored   []string `json:"ignored,omitempty"`
}

type FileSection struct {
	Scanned  int         `json:"scanned"`
	Unused   []FileEntry `json:"unused"`
	Retained []FileEntry `json:"retained,omitempty"`
}

// FileEntry is an unused file. Index is 1-based and stable for a run.
type FileEntry struct {
	Index int    `json:"index"`
	Path  string `json:"path"`
	Rel   string `json:"rel"`
}

type DeletionEntry struct {
	Path    string `json:"path"`
	Deleted bool   `json:"deleted"`
	Bytes   int64  `json:"bytes"`
	Error   string `json:"error,omitempty"`
}

type Stats struct {
	FilesScanned int   `json:"filesScanned"`
	BytesScanned int64 `json:"bytesScanned"`
	ReadErrors   int   `json:"readErrors"`
}

// UnusedPaths returns the paths of the unused files in report order.
func (r Report) UnusedPaths() []string {
	if r.Files == nil {
		return nil
	}
	paths := make([]string, 0, len(r.Files.Unused))
	for _, entry := range r.Files.Unused {
		paths = append(paths, entry.Path)
	}
	return paths
}
