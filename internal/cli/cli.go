package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ben-ranford/fluttersweep/internal/app"
)

type Runner interface {
	Execute(ctx context.Context, req app.Request) (string, error)
}

type CLI struct {
	Runner Runner
	Out    io.Writer
	Err    io.Writer
}

func New(runner Runner, out io.Writer, errOut io.Writer) *CLI {
	return &CLI{
		Runner: runner,
		Out:    out,
		Err:    errOut,
	}
}

// Run executes one command and returns the process exit code: 0 on
// success, 1 on runtime failure and 2 on usage errors.
func (c *CLI) Run(ctx context.Context, args []string) int {
	req, err := ParseArgs(args)
	if err != nil {
		if errors.Is(err, ErrHelpRequested) {
			if _, writeErr := fmt.Fprint(c.Out, Usage()); writeErr != nil {
				return 1
			}
			return 0
		}
		if _, writeErr := fmt.Fprintf(c.Err, "error: %v\n\n", err); writeErr != nil {
			return 1
		}
		if _, writeErr := fmt.Fprint(c.Err, Usage()); writeErr != nil {
			return 1
		}
		return 2
	}

	output, runErr := c.Runner.Execute(ctx, req)
	if output != "" {
		if _, err := fmt.Fprint(c.Out, output); err != nil {
			_, _ = fmt.Fprintf(c.Err, "error: write output: %v\n", err)
			return 1
		}
		if !strings.HasSuffix(output, "\n") {
			_, _ = fmt.Fprintln(c.Out)
		}
	}

	if runErr != nil {
		_, _ = fmt.Fprintf(c.Err, "error: %v\n", runErr)
		return 1
	}
	return 0
}
