// Package ftwpatch is the library surface of the ftwpatch tool: parse a
// unified diff, verify every hunk against the current file contents, and
// commit all changes in one backed-up, all-or-nothing transaction.
package ftwpatch

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/fitzzftw/ftwpatch/cli"
	"github.com/fitzzftw/ftwpatch/internal/diff"
	"github.com/fitzzftw/ftwpatch/internal/markdown"
	"github.com/fitzzftw/ftwpatch/internal/patcher"
	"github.com/fitzzftw/ftwpatch/internal/source"
	"github.com/fitzzftw/ftwpatch/model"
)

// DetailedError enhances an internal panic with its stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string { return e.Err.Error() }

func (e *DetailedError) Unwrap() error { return e.Err }

// App orchestrates one run of the tool.
type App struct {
	cfg      *cli.Config
	provider *source.Provider
}

// New creates an App from resolved CLI configuration.
func New(cfg *cli.Config) *App {
	return &App{
		cfg:      cfg,
		provider: source.New(cfg.PatchFile),
	}
}

// SourceLabel names the diff source for progress display.
func (a *App) SourceLabel() string { return a.provider.Describe() }

// Run reads the diff, applies it, and returns the summary. Unexpected
// panics are converted into a DetailedError so the caller always sees a
// plain error value.
func (a *App) Run() (summary model.Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	content, err := a.provider.Content()
	if err != nil {
		return model.Summary{}, err
	}
	if strings.TrimSpace(content) == "" {
		return model.Summary{DryRun: a.cfg.Options.DryRun}, nil
	}

	if a.cfg.Markdown || (a.cfg.PatchFile == "" && markdown.LooksFenced(content)) {
		blocks, err := markdown.ExtractDiffBlocks([]byte(content))
		if err != nil {
			return model.Summary{}, &model.ParseError{Msg: "markdown extraction failed", Err: err}
		}
		content = strings.Join(blocks, "")
	}

	return Apply(strings.NewReader(content), a.cfg.Options)
}

// Apply parses a unified diff from r and applies it with the given
// options. This is the library entry point: parse once, stage every file,
// then commit atomically (or stop after staging for a dry run).
func Apply(r io.Reader, opts model.Options) (model.Summary, error) {
	files, err := diff.NewParser().Parse(r)
	if err != nil {
		return model.Summary{}, err
	}
	return patcher.NewSession(opts).Apply(files)
}
