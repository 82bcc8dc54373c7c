package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ben-ranford/fluttersweep/internal/analysis"
	"github.com/ben-ranford/fluttersweep/internal/config"
	"github.com/ben-ranford/fluttersweep/internal/prune"
	"github.com/ben-ranford/fluttersweep/internal/report"
	"github.com/ben-ranford/fluttersweep/internal/ui"
	"github.com/ben-ranford/fluttersweep/internal/workspace"
	"github.com/fatih/color"
)

var ErrUnknownMode = errors.New("unknown mode")

const (
	bannerText    = "=== Flutter Project Analysis Tool ==="
	welcomeText   = "Welcome to the Flutter Project Analysis Tool! This tool helps you analyze your Flutter project to find and manage unused dependencies and Dart files."
	pathQuestion  = "\nEnter the path to your Flutter project (press Enter for current directory):"
	menuTitle     = "Choose an option:"
	deleteConfirm = "Do you want to delete these unused files?"
	noDeletions   = "No files were deleted."
)

var menuOptions = []struct {
	label    string
	scope    analysis.Scope
	progress string
}{
	{"Find unused Flutter packages", analysis.ScopeDependencies, "Finding unused Flutter packages"},
	{"Find unused Dart files", analysis.ScopeFiles, "Finding unused Dart files"},
	{"Do both", analysis.ScopeAll, "Finding unused Flutter packages and Dart files"},
}

type App struct {
	Analyzer  analysis.Analyzer
	Formatter *report.Formatter
	Prompter  *ui.Prompter
	Out       io.Writer
	Logger    *slog.Logger
	LogLevel  *slog.LevelVar
	Getwd     func() (string, error)
}

// New wires an App. out receives prompts, progress and interactive output,
// in supplies answers to prompts and logOut receives diagnostics. Color is
// on only when out is a terminal and NO_COLOR is unset.
func New(out io.Writer, in io.Reader, logOut io.Writer) *App {
	if logOut == nil {
		logOut = io.Discard
	}
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
	useColor := ui.IsTerminal(out) && os.Getenv("NO_COLOR") == ""
	return &App{
		Analyzer:  analysis.NewService(logger),
		Formatter: report.NewFormatter(useColor),
		Prompter:  ui.NewPrompter(in, out, useColor),
		Out:       out,
		Logger:    logger,
		LogLevel:  level,
		Getwd:     os.Getwd,
	}
}

func (a *App) Execute(ctx context.Context, req Request) (string, error) {
	a.configure(req)
	switch req.Mode {
	case ModeInteractive:
		return a.executeInteractive(ctx, req)
	case ModeDeps:
		return a.executeScan(ctx, req, analysis.ScopeDependencies)
	case ModeFiles:
		return a.executeScan(ctx, req, analysis.ScopeFiles)
	case ModeAll:
		return a.executeScan(ctx, req, analysis.ScopeAll)
	default:
		return "", ErrUnknownMode
	}
}

func (a *App) configure(req Request) {
	if req.NoColor {
		a.Formatter.Color = false
		a.Prompter.SetColor(false)
	}
	if req.Verbose && a.LogLevel != nil {
		a.LogLevel.Set(slog.LevelDebug)
	}
}

func (a *App) executeScan(ctx context.Context, req Request, scope analysis.Scope) (string, error) {
	root, err := workspace.NormalizeRoot(req.Root)
	if err != nil {
		return "", err
	}
	settings, err := a.resolveSettings(root, req)
	if err != nil {
		return "", err
	}

	reportData, scanErr := a.Analyzer.Analyse(ctx, analysis.Request{Root: root, Scope: scope, Settings: settings})
	if scanErr != nil && !errors.Is(scanErr, analysis.ErrDependencyScan) {
		return "", scanErr
	}

	paths := reportData.UnusedPaths()
	if !req.Delete || len(paths) == 0 {
		return a.format(reportData, req.Format, scanErr)
	}
	if req.AssumeYes {
		reportData.Deletions = a.deleteFiles(ctx, reportData.RootPath, paths)
		return a.format(reportData, req.Format, scanErr)
	}

	formatted, err := a.Formatter.Format(reportData, req.Format)
	if err != nil {
		return "", err
	}
	if _, err := fmt.Fprint(a.Out, formatted); err != nil {
		return "", err
	}
	return a.confirmAndDelete(ctx, reportData.RootPath, paths, scanErr)
}

func (a *App) executeInteractive(ctx context.Context, req Request) (string, error) {
	heading := color.New(color.Bold, color.FgYellow)
	notice := color.New(color.FgYellow)
	for _, c := range []*color.Color{heading, notice} {
		if a.Formatter.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	if _, err := fmt.Fprintf(a.Out, "%s\n%s\n", heading.Sprint(bannerText), welcomeText); err != nil {
		return "", err
	}

	answer, err := a.Prompter.Ask(pathQuestion, "")
	if err != nil {
		return "", err
	}
	if answer == "" {
		cwd, err := a.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve current directory: %w", err)
		}
		answer = cwd
		if _, err := fmt.Fprintln(a.Out, notice.Sprintf("No path entered. Defaulting to current directory: %s", cwd)); err != nil {
			return "", err
		}
	}
	root, err := workspace.NormalizeRoot(answer)
	if err != nil {
		return "", err
	}
	if err := workspace.Validate(root); err != nil {
		return "", fmt.Errorf("the provided path '%s' is not a valid Flutter project directory: %w", answer, err)
	}

	labels := make([]string, 0, len(menuOptions))
	for _, option := range menuOptions {
		labels = append(labels, option.label)
	}
	choice, err := a.Prompter.Choose(menuTitle, labels)
	if err != nil {
		return "", err
	}
	option := menuOptions[choice-1]

	settings, err := a.resolveSettings(root, req)
	if err != nil {
		return "", err
	}

	progress := ui.NewProgress(a.Out, option.progress)
	a.Logger.Debug("scan started", "root", root, "scope", option.scope, "spinner", progress.Animated())
	progress.Start()
	reportData, scanErr := a.Analyzer.Analyse(ctx, analysis.Request{Root: root, Scope: option.scope, Settings: settings})
	progress.Stop()
	if scanErr != nil && !errors.Is(scanErr, analysis.ErrDependencyScan) {
		return "", scanErr
	}

	formatted, err := a.Formatter.Format(reportData, report.FormatTable)
	if err != nil {
		return "", err
	}
	if _, err := fmt.Fprint(a.Out, formatted); err != nil {
		return "", err
	}

	paths := reportData.UnusedPaths()
	if len(paths) == 0 {
		return "", scanErr
	}
	return a.confirmAndDelete(ctx, reportData.RootPath, paths, scanErr)
}

func (a *App) confirmAndDelete(ctx context.Context, root string, paths []string, scanErr error) (string, error) {
	confirmed, err := a.Prompter.Confirm(deleteConfirm)
	if err != nil {
		return "", err
	}
	if !confirmed {
		return a.Formatter.Note(noDeletions), scanErr
	}
	return a.Formatter.Deletions(a.deleteFiles(ctx, root, paths)), scanErr
}

func (a *App) deleteFiles(ctx context.Context, root string, paths []string) []report.DeletionEntry {
	plan, err := prune.NewPlan(root, paths)
	if err != nil {
		entries := make([]report.DeletionEntry, 0, len(paths))
		for _, path := range paths {
			entries = append(entries, report.DeletionEntry{Path: path, Error: err.Error()})
		}
		return entries
	}
	results := prune.Apply(ctx, plan)
	entries := make([]report.DeletionEntry, 0, len(results))
	for _, result := range results {
		entry := report.DeletionEntry{Path: result.Path, Deleted: result.Deleted(), Bytes: result.Bytes}
		if result.Err != nil {
			entry.Error = result.Err.Error()
			a.Logger.Warn("delete failed", "path", result.Path, "error", result.Err)
		}
		entries = append(entries, entry)
	}
	a.Logger.Info("deleted unused files", "deleted", len(results)-prune.Failures(results), "failed", prune.Failures(results))
	return entries
}

func (a *App) resolveSettings(root string, req Request) (config.Values, error) {
	loaded, err := config.Load(root, req.ConfigPath)
	if err != nil {
		return config.Values{}, err
	}
	if loaded.ConfigPath != "" {
		a.Logger.Debug("config loaded", "path", loaded.ConfigPath)
	}
	merged := loaded.Overrides.Merge(req.Overrides)
	settings, err := merged.Apply(config.Defaults())
	if err != nil {
		return config.Values{}, err
	}
	if err := settings.Validate(); err != nil {
		return config.Values{}, err
	}
	return settings, nil
}

func (a *App) format(reportData report.Report, format report.Format, scanErr error) (string, error) {
	formatted, err := a.Formatter.Format(reportData, format)
	if err != nil {
		return "", err
	}
	return formatted, scanErr
}
