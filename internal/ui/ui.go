// Package ui prints styled progress and the end-of-run summary to stderr.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fitzzftw/ftwpatch/model"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	pathStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// Verbosity controls how chatty the Info helper is. 0 keeps only the
// summary and errors.
var Verbosity int

func Header(format string, a ...any) {
	fmt.Fprintln(os.Stderr, headerStyle.Render(fmt.Sprintf(format, a...)))
}

func Info(format string, a ...any) {
	if Verbosity < 1 {
		return
	}
	fmt.Fprintln(os.Stderr, fmt.Sprintf(format, a...))
}

func Warning(format string, a ...any) {
	fmt.Fprintln(os.Stderr, warnStyle.Render(fmt.Sprintf(format, a...)))
}

func Error(format string, a ...any) {
	fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf(format, a...)))
}

// RenderSummary formats the run result for the terminal.
func RenderSummary(s model.Summary) string {
	var b strings.Builder

	if s.DryRun {
		b.WriteString(headerStyle.Render("Dry run: no files were modified."))
		b.WriteString("\n\n")
	}

	section := func(style lipgloss.Style, title string, paths []string) {
		if len(paths) == 0 {
			return
		}
		b.WriteString(style.Render(title))
		b.WriteString("\n")
		for _, p := range paths {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(p)))
		}
	}

	section(successStyle, fmt.Sprintf("Patched %d file(s):", len(s.Changed)), s.Changed)
	section(successStyle, fmt.Sprintf("Created %d file(s):", len(s.Created)), s.Created)
	section(warnStyle, fmt.Sprintf("Deleted %d file(s):", len(s.Deleted)), s.Deleted)
	section(faintStyle, "Backups kept:", s.Backups)

	if s.FileCount() == 0 && !s.DryRun {
		b.WriteString(faintStyle.Render("Nothing to do."))
		b.WriteString("\n")
	}
	return b.String()
}

// PrintSummary writes the rendered summary to stderr.
func PrintSummary(s model.Summary) {
	fmt.Fprint(os.Stderr, RenderSummary(s))
}
