// Package ui holds the interactive console pieces: line prompts and a
// progress indicator.
package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

var ErrInvalidChoice = errors.New("invalid choice")

type Prompter struct {
	in   *bufio.Reader
	out  io.Writer
	bold *color.Color
	good *color.Color
}

func NewPrompter(in io.Reader, out io.Writer, useColor bool) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out, bold: color.New(color.Bold), good: color.New(color.FgGreen)}
	p.SetColor(useColor)
	return p
}

func (p *Prompter) SetColor(enabled bool) {
	for _, c := range []*color.Color{p.bold, p.good} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// Ask prints question and returns the trimmed answer, or fallback when the
// answer is blank or input is exhausted.
func (p *Prompter) Ask(question, fallback string) (string, error) {
	if _, err := fmt.Fprintln(p.out, p.bold.Sprint(question)); err != nil {
		return "", err
	}
	answer, err := p.readLine()
	if errors.Is(err, io.EOF) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	if answer == "" {
		return fallback, nil
	}
	return answer, nil
}

// Choose prints a numbered menu and returns the 1-based index picked.
func (p *Prompter) Choose(title string, options []string) (int, error) {
	if _, err := fmt.Fprintf(p.out, "\n%s\n", p.bold.Sprint(title)); err != nil {
		return 0, err
	}
	labels := make([]string, 0, len(options))
	for idx, option := range options {
		label := strconv.Itoa(idx + 1)
		labels = append(labels, label)
		if _, err := fmt.Fprintln(p.out, p.good.Sprintf("%s. %s", label, option)); err != nil {
			return 0, err
		}
	}
	if _, err := fmt.Fprintln(p.out, p.bold.Sprintf("Enter your choice (%s):", joinChoices(labels))); err != nil {
		return 0, err
	}

	answer, err := p.readLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}
	picked, convErr := strconv.Atoi(answer)
	if convErr != nil || picked < 1 || picked > len(options) {
		return 0, fmt.Errorf("%w: please enter %s", ErrInvalidChoice, joinChoices(labels))
	}
	return picked, nil
}

// Confirm asks a yes/no question. Only "yes" or "y" (any case) confirms.
func (p *Prompter) Confirm(question string) (bool, error) {
	if _, err := fmt.Fprintf(p.out, "\n%s ", p.bold.Sprintf("%s (yes/no):", question)); err != nil {
		return false, err
	}
	answer, err := p.readLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "yes", "y":
		return true, nil
	default:
		return false, nil
	}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func joinChoices(labels []string) string {
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	case 2:
		return labels[0] + " or " + labels[1]
	default:
		return strings.Join(labels[:len(labels)-1], ", ") + ", or " + labels[len(labels)-1]
	}
}
