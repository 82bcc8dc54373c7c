package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

type Formatter struct {
	Color bool
}

func NewFormatter(useColor bool) *Formatter {
	return &Formatter{Color: useColor}
}

func (f *Formatter) Format(report Report, format Format) (string, error) {
	switch format {
	case FormatTable:
		return f.formatTable(report), nil
	case FormatJSON:
		payload, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return "", err
		}
		return string(payload) + "\n", nil
	default:
		return "", ErrUnknownFormat
	}
}

type palette struct {
	bad, good, note, head func(a ...any) string
}

func (f *Formatter) palette() palette {
	build := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if f.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		bad:  build(color.FgRed),
		good: build(color.FgGreen),
		note: build(color.FgYellow),
		head: build(color.Bold),
	}
}

func (f *Formatter) formatTable(report Report) string {
	p := f.palette()
	var buffer bytes.Buffer
	_, _ = fmt.Fprintf(&buffer, "%s %s (mode: %s, match: %s)\n", p.head("Project:"), report.RootPath, report.Mode, report.Match)

	if report.Dependencies != nil {
		appendDependencies(&buffer, report.Dependencies, p)
	}
	if report.Files != nil {
		appendFiles(&buffer, report.Files, report.Extension, p)
	}
	if len(report.Deletions) > 0 {
		appendDeletions(&buffer, report.Deletions, p)
	}

	_, _ = fmt.Fprintf(&buffer, "\nScanned %d files (%s)", report.Stats.FilesScanned, humanize.Bytes(uint64(max(report.Stats.BytesScanned, 0))))
	if report.Stats.ReadErrors > 0 {
		_, _ = fmt.Fprintf(&buffer, ", %d unreadable", report.Stats.ReadErrors)
	}
	buffer.WriteString("\n")
	appendWarnings(&buffer, report.Warnings, p)
	return buffer.String()
}

func appendDependencies(buffer *bytes.Buffer, section *DependencySection, p palette) {
	appendNameList(buffer, p.head("Unused dependencies in pubspec.yaml:"), section.Unused, p)
	appendNameList(buffer, p.head("Unused dev_dependencies in pubspec.yaml:"), section.UnusedDev, p)
	if len(section.Ignored) > 0 {
		_, _ = fmt.Fprintf(buffer, "%s %d ignored by configuration\n", p.note("Note:"), len(section.Ignored))
	}
}

func appendNameList(buffer *bytes.Buffer, title string, names []string, p palette) {
	buffer.WriteString("\n")
	buffer.WriteString(title)
	buffer.WriteString("\n")
	if len(names) == 0 {
		buffer.WriteString(p.good("  none"))
		buffer.WriteString("\n")
		return
	}
	for _, name := range names {
		buffer.WriteString(p.bad("- " + name))
		buffer.WriteString("\n")
	}
}

func appendFiles(buffer *bytes.Buffer, section *FileSection, extension string, p palette) {
	_, _ = fmt.Fprintf(buffer, "\n%s\n", p.head(fmt.Sprintf("Unused %s files:", extension)))
	if len(section.Unused) == 0 {
		buffer.WriteString(p.good("  none"))
		buffer.WriteString("\n")
	} else {
		writer := table.NewWriter()
		writer.SetStyle(table.StyleLight)
		writer.AppendHeader(table.Row{"#", "File"})
		for _, entry := range section.Unused {
			writer.AppendRow(table.Row{entry.Index, p.bad(entry.Path)})
		}
		buffer.WriteString(writer.Render())
		buffer.WriteString("\n")
	}
	if len(section.Retained) > 0 {
		_, _ = fmt.Fprintf(buffer, "%s %d unreferenced entry point(s) kept\n", p.note("Note:"), len(section.Retained))
	}
}

func appendDeletions(buffer *bytes.Buffer, deletions []DeletionEntry, p palette) {
	buffer.WriteString("\n")
	for _, entry := range deletions {
		if entry.Deleted {
			buffer.WriteString(p.good(fmt.Sprintf("Deleted: %s (%s)", entry.Path, humanize.Bytes(uint64(max(entry.Bytes, 0))))))
		} else {
			buffer.WriteString(p.bad(fmt.Sprintf("Error deleting %s: %s", entry.Path, entry.Error)))
		}
		buffer.WriteString("\n")
	}
}

func appendWarnings(buffer *bytes.Buffer, warnings []string, p palette) {
	if len(warnings) == 0 {
		return
	}
	_, _ = fmt.Fprintf(buffer, "\n%s\n", p.note("Warnings:"))
	for _, warning := range warnings {
		buffer.WriteString("- ")
		buffer.WriteString(warning)
		buffer.WriteString("\n")
	}
}

// Deletions renders only the per-file deletion lines.
func (f *Formatter) Deletions(deletions []DeletionEntry) string {
	var buffer bytes.Buffer
	appendDeletions(&buffer, deletions, f.palette())
	return buffer.String()
}

// Note renders a single highlighted line.
func (f *Formatter) Note(message string) string {
	return f.palette().note(message) + "\n"
}
