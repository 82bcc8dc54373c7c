package app

import (
	"github.com/ben-ranford/fluttersweep/internal/config"
	"github.com/ben-ranford/fluttersweep/internal/report"
)

type Mode string

const (
	ModeInteractive Mode = "interactive"
	ModeDeps        Mode = "deps"
	ModeFiles       Mode = "files"
	ModeAll         Mode = "all"
)

type Request struct {
	Mode       Mode
	Root       string
	Format     report.Format
	ConfigPath string
	// Overrides are settings given on the command line; they win over the
	// config file.
	Overrides config.Overrides
	Delete    bool
	AssumeYes bool
	NoColor   bool
	Verbose   bool
}

func DefaultRequest() Request {
	return Request{
		Mode:   ModeInteractive,
		Root:   ".",
		Format: report.FormatTable,
	}
}
