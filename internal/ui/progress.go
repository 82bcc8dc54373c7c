package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

const spinnerCharSet = 14

// Progress shows that a scan is running. It animates a spinner on a
// terminal and prints one static line anywhere else.
type Progress struct {
	out     io.Writer
	message string
	spinner *spinner.Spinner
}

func NewProgress(out io.Writer, message string) *Progress {
	progress := &Progress{out: out, message: message}
	if IsTerminal(out) {
		progress.spinner = spinner.New(spinner.CharSets[spinnerCharSet], 100*time.Millisecond, spinner.WithWriter(out))
		progress.spinner.Suffix = " " + message
	}
	return progress
}

func (p *Progress) Start() {
	if p.spinner != nil {
		p.spinner.Start()
		return
	}
	_, _ = fmt.Fprintf(p.out, "%s...\n", p.message)
}

func (p *Progress) Stop() {
	if p.spinner != nil {
		p.spinner.Stop()
	}
}

func (p *Progress) Animated() bool {
	return p.spinner != nil
}

// IsTerminal reports whether out is a character device such as a TTY.
func IsTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
