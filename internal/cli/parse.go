package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/ben-ranford/fluttersweep/internal/app"
	"github.com/ben-ranford/fluttersweep/internal/detect"
	"github.com/ben-ranford/fluttersweep/internal/report"
)

var (
	ErrHelpRequested    = errors.New("help requested")
	ErrDeleteNeedsYes   = errors.New("--delete with --format json requires --yes")
	ErrYesWithoutDelete = errors.New("--yes requires --delete")
)

func ParseArgs(args []string) (app.Request, error) {
	req := app.DefaultRequest()
	if len(args) == 0 {
		return req, nil
	}

	if isHelpArg(args[0]) {
		return req, ErrHelpRequested
	}

	switch args[0] {
	case "interactive":
		return parseInteractive(args[1:], req)
	case "deps":
		return parseScan(args[1:], req, app.ModeDeps)
	case "files":
		return parseScan(args[1:], req, app.ModeFiles)
	case "all":
		return parseScan(args[1:], req, app.ModeAll)
	default:
		if strings.HasPrefix(args[0], "-") {
			return parseInteractive(args, req)
		}
		return req, fmt.Errorf("unknown command: %s", args[0])
	}
}

// settingsFlags are the flags shared by every command. They become config
// overrides only when given explicitly.
type settingsFlags struct {
	configPath   *string
	match        *string
	strategy     *string
	extension    *string
	workers      *int
	maxFileBytes *int64
	exclude      stringList
	entryPoints  stringList
	ignoreDeps   stringList
	noColor      *bool
	verbose      *bool
}

func bindSettingsFlags(fs *flag.FlagSet, req app.Request) *settingsFlags {
	s := &settingsFlags{}
	s.configPath = fs.String("config", req.ConfigPath, "config file path")
	s.match = fs.String("match", "", "match mode")
	s.strategy = fs.String("strategy", "", "scan strategy")
	s.extension = fs.String("ext", "", "source file extension")
	s.workers = fs.Int("workers", 0, "concurrent file readers")
	s.maxFileBytes = fs.Int64("max-file-bytes", 0, "per-file read limit in bytes")
	fs.Var(&s.exclude, "exclude", "exclude glob (repeatable)")
	fs.Var(&s.entryPoints, "entry", "entry point glob (repeatable)")
	fs.Var(&s.ignoreDeps, "ignore-dep", "dependency to ignore (repeatable)")
	s.noColor = fs.Bool("no-color", false, "disable colored output")
	s.verbose = fs.Bool("verbose", false, "log diagnostics to stderr")
	return s
}

func (s *settingsFlags) apply(fs *flag.FlagSet, req *app.Request) error {
	visited := visitedFlags(fs)
	if visited["match"] {
		if _, err := detect.ParseMatchMode(*s.match); err != nil {
			return err
		}
		req.Overrides.Match = s.match
	}
	if visited["strategy"] {
		if _, err := detect.ParseStrategy(*s.strategy); err != nil {
			return err
		}
		req.Overrides.Strategy = s.strategy
	}
	if visited["ext"] {
		if strings.Trim(strings.TrimSpace(*s.extension), ".") == "" {
			return fmt.Errorf("--ext must not be empty")
		}
		req.Overrides.Extension = s.extension
	}
	if visited["workers"] {
		if *s.workers < 0 {
			return fmt.Errorf("--workers must be >= 0")
		}
		req.Overrides.Workers = s.workers
	}
	if visited["max-file-bytes"] {
		req.Overrides.MaxFileBytes = s.maxFileBytes
	}
	if visited["exclude"] {
		req.Overrides.Exclude = s.exclude.values()
	}
	if visited["entry"] {
		req.Overrides.EntryPoints = s.entryPoints.values()
	}
	if visited["ignore-dep"] {
		req.Overrides.IgnoreDependencies = s.ignoreDeps.values()
	}
	req.ConfigPath = strings.TrimSpace(*s.configPath)
	req.NoColor = *s.noColor
	req.Verbose = *s.verbose
	return nil
}

func parseScan(args []string, req app.Request, mode app.Mode) (app.Request, error) {
	args = normalizeArgs(args)

	fs := flag.NewFlagSet(string(mode), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	rootPath := fs.String("root", req.Root, "project root")
	formatFlag := fs.String("format", string(req.Format), "output format")
	deleteFlag := fs.Bool("delete", false, "delete unused files after confirmation")
	yesFlag := fs.Bool("yes", false, "skip the deletion prompt")
	settings := bindSettingsFlags(fs, req)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return req, ErrHelpRequested
		}
		return req, err
	}
	if fs.NArg() > 0 {
		return req, fmt.Errorf("unexpected arguments for %s: %s", mode, strings.Join(fs.Args(), " "))
	}

	format, err := report.ParseFormat(*formatFlag)
	if err != nil {
		return req, err
	}
	if *deleteFlag && mode == app.ModeDeps {
		return req, fmt.Errorf("--delete is not supported by deps")
	}
	if *yesFlag && !*deleteFlag {
		return req, ErrYesWithoutDelete
	}
	if *deleteFlag && !*yesFlag && format == report.FormatJSON {
		return req, ErrDeleteNeedsYes
	}
	if err := settings.apply(fs, &req); err != nil {
		return req, err
	}

	req.Mode = mode
	req.Root = strings.TrimSpace(*rootPath)
	req.Format = format
	req.Delete = *deleteFlag
	req.AssumeYes = *yesFlag
	return req, nil
}

func parseInteractive(args []string, req app.Request) (app.Request, error) {
	args = normalizeArgs(args)

	fs := flag.NewFlagSet("interactive", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	settings := bindSettingsFlags(fs, req)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return req, ErrHelpRequested
		}
		return req, err
	}
	if fs.NArg() > 0 {
		return req, fmt.Errorf("unexpected arguments for interactive")
	}
	if err := settings.apply(fs, &req); err != nil {
		return req, err
	}

	req.Mode = app.ModeInteractive
	return req, nil
}

type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			*l = append(*l, trimmed)
		}
	}
	return nil
}

func (l stringList) values() []string {
	return append([]string{}, l...)
}

func isHelpArg(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func normalizeArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	flags := make([]string, 0, len(args))
	positionals := make([]string, 0, 1)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if strings.HasPrefix(arg, "-") {
			flags = append(flags, arg)
			if flagNeedsValue(arg) && i+1 < len(args) {
				flags = append(flags, args[i+1])
				i++
			}
			continue
		}
		positionals = append(positionals, arg)
	}

	return append(flags, positionals...)
}

func flagNeedsValue(arg string) bool {
	if strings.Contains(arg, "=") {
		return false
	}
	switch strings.TrimLeft(arg, "-") {
	case "root", "format", "config", "match", "strategy", "ext", "workers", "max-file-bytes", "exclude", "entry", "ignore-dep":
		return true
	default:
		return false
	}
}

func visitedFlags(fs *flag.FlagSet) map[string]bool {
	visited := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		visited[f.Name] = true
	})
	return visited
}
