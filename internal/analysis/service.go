// Package analysis runs one scan of a Flutter project: it validates the
// root, collects and loads the source files once, and feeds them to the
// dependency and file detectors.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ben-ranford/fluttersweep/internal/config"
	"github.com/ben-ranford/fluttersweep/internal/corpus"
	"github.com/ben-ranford/fluttersweep/internal/detect"
	"github.com/ben-ranford/fluttersweep/internal/manifest"
	"github.com/ben-ranford/fluttersweep/internal/report"
	"github.com/ben-ranford/fluttersweep/internal/source"
	"github.com/ben-ranford/fluttersweep/internal/workspace"
	"golang.org/x/sync/errgroup"
)

// ErrDependencyScan marks a combined scan whose file results are valid but
// whose manifest could not be read.
var ErrDependencyScan = errors.New("dependency scan failed")

type Analyzer interface {
	Analyse(ctx context.Context, req Request) (report.Report, error)
}

type Service struct {
	Logger *slog.Logger
	Now    func() time.Time
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{Logger: logger, Now: time.Now}
}

func (s *Service) Analyse(ctx context.Context, req Request) (report.Report, error) {
	scope := req.Scope
	if !scope.dependencies() && !scope.files() {
		return report.Report{}, fmt.Errorf("%w: %q", ErrUnknownScope, scope)
	}
	settings := req.Settings
	if err := settings.Validate(); err != nil {
		return report.Report{}, err
	}

	root, err := workspace.NormalizeRoot(req.Root)
	if err != nil {
		return report.Report{}, fmt.Errorf("resolve root path: %w", err)
	}
	if err := workspace.Validate(root); err != nil {
		return report.Report{}, err
	}

	m, manifestErr := s.loadManifest(root, scope, settings)
	if manifestErr != nil && !scope.files() {
		return report.Report{}, manifestErr
	}

	c, warnings, err := s.loadCorpus(ctx, root, settings)
	if err != nil {
		return report.Report{}, err
	}

	opts := settings.DetectOptions(m.Name)
	var deps detect.DependencyResult
	var files detect.FileResult
	runDeps := scope.dependencies() && manifestErr == nil
	group := new(errgroup.Group)
	if runDeps {
		group.Go(func() error {
			var err error
			deps, err = detect.FindUnusedDependencies(m, c, opts)
			return err
		})
	}
	if scope.files() {
		group.Go(func() error {
			var err error
			files, err = detect.FindUnusedFiles(c, opts)
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return report.Report{}, err
	}

	reportData := report.Report{
		SchemaVersion: report.SchemaVersion,
		GeneratedAt:   s.now(),
		RootPath:      root,
		Mode:          string(scope),
		Match:         string(settings.Match),
		Extension:     settings.Extension,
		Stats: report.Stats{
			FilesScanned: len(c.Documents),
			BytesScanned: c.Bytes,
			ReadErrors:   len(c.ReadErrors),
		},
		Warnings: warnings,
	}
	if runDeps {
		reportData.Dependencies = dependencySection(m, deps)
		s.Logger.Debug("dependency scan complete", "declared", len(m.Dependencies)+len(m.DevDependencies), "unused", len(deps.Unused), "unused_dev", len(deps.UnusedDev))
	}
	if scope.files() {
		reportData.Files = fileSection(files)
		s.Logger.Debug("file scan complete", "scanned", files.Scanned, "unused", len(files.Unused), "retained", len(files.Retained))
	}

	if manifestErr != nil {
		s.Logger.Warn("dependency scan skipped", "error", manifestErr)
		reportData.Warnings = append(reportData.Warnings, "dependency scan skipped: "+manifestErr.Error())
		return reportData, fmt.Errorf("%w: %w", ErrDependencyScan, manifestErr)
	}
	return reportData, nil
}

// loadManifest reads pubspec.yaml when the scope needs it. A file-only
// import-mode scan reads it too, for the package name, and tolerates errors.
func (s *Service) loadManifest(root string, scope Scope, settings config.Values) (manifest.Manifest, error) {
	if scope.dependencies() {
		m, err := manifest.Load(root)
		if err != nil {
			return manifest.Manifest{}, err
		}
		s.Logger.Debug("manifest loaded", "path", m.Path, "dependencies", len(m.Dependencies), "dev_dependencies", len(m.DevDependencies))
		return m, nil
	}
	if settings.Match != detect.MatchImport {
		return manifest.Manifest{}, nil
	}
	m, err := manifest.Load(root)
	if err != nil {
		s.Logger.Debug("package name unavailable", "error", err)
		return manifest.Manifest{}, nil
	}
	return m, nil
}

func (s *Service) loadCorpus(ctx context.Context, root string, settings config.Values) (corpus.Corpus, []string, error) {
	started := s.now()
	files, warnings, err := source.Collect(ctx, root, settings.SourceOptions())
	if err != nil {
		return corpus.Corpus{}, nil, err
	}
	c, err := corpus.Load(ctx, root, files, settings.CorpusOptions())
	if err != nil {
		return corpus.Corpus{}, nil, err
	}
	warnings = append(warnings, c.Warnings()...)
	s.Logger.Debug("corpus loaded", "files", len(c.Documents), "bytes", c.Bytes, "read_errors", len(c.ReadErrors), "elapsed", s.now().Sub(started))
	return c, warnings, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func dependencySection(m manifest.Manifest, result detect.DependencyResult) *report.DependencySection {
	return &report.DependencySection{
		Manifest:  m.Path,
		Declared:  len(m.Dependencies) + len(m.DevDependencies),
		Unused:    result.Unused,
		UnusedDev: result.UnusedDev,
		Ignored:   result.Ignored,
	}
}

func fileSection(result detect.FileResult) *report.FileSection {
	return &report.FileSection{
		Scanned:  result.Scanned,
		Unused:   fileEntries(result.Unused),
		Retained: fileEntries(result.Retained),
	}
}

func fileEntries(files []source.File) []report.FileEntry {
	if files == nil {
		return nil
	}
	entries := make([]report.FileEntry, 0, len(files))
	for idx, file := range files {
		entries = append(entries, report.FileEntry{Index: idx + 1, Path: file.Path, Rel: file.Rel})
	}
	return entries
}
