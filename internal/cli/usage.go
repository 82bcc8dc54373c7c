package cli

const usage = `Usage:
  fluttersweep [interactive] [--config PATH] [--no-color] [--verbose]
  fluttersweep deps  [--root PATH] [--format table|json] [--match substring|word|import] [--ignore-dep NAME]...
  fluttersweep files [--root PATH] [--format table|json] [--match substring|word|import] [--entry GLOB]... [--delete [--yes]]
  fluttersweep all   [--root PATH] [--format table|json] [--match substring|word|import] [--ignore-dep NAME]... [--entry GLOB]... [--delete [--yes]]

Options:
  --root PATH                Flutter project root (default: .)
  --format table|json        Output format (default: table)
  --match MODE               substring, word or import (default: substring)
  --strategy naive|indexed   Scan strategy (default: naive)
  --config PATH              Config file (default: .fluttersweep.yml|.yaml|.toml in root)
  --ignore-dep NAME          Never report NAME as unused (repeatable, comma separated)
  --entry GLOB               Never report files matching GLOB (repeatable)
  --exclude GLOB             Skip files matching GLOB (repeatable)
  --ext EXT                  Source file extension (default: .dart)
  --workers N                Concurrent file readers (default: GOMAXPROCS)
  --max-file-bytes N         Per-file read limit, negative for none (default: 8 MiB)
  --delete                   Delete unused files after confirmation
  --yes                      Skip the deletion prompt (requires --delete)
  --no-color                 Disable colored output
  --verbose                  Log diagnostics to stderr
  -h, --help                 Show this help text
`

func Usage() string {
	return usage
}
