package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/fitzzftw/ftwpatch/cli"
	"github.com/fitzzftw/ftwpatch/ftwpatch"
	"github.com/fitzzftw/ftwpatch/internal/tui"
	"github.com/fitzzftw/ftwpatch/internal/ui"
	"github.com/fitzzftw/ftwpatch/model"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := cli.Parse(os.Args[1:])
	if err != nil {
		// pflag already printed the flag error.
		return 2
	}
	ui.Verbosity = cfg.Verbose

	app := ftwpatch.New(cfg)

	var summary model.Summary
	if cfg.Plain || !isatty.IsTerminal(os.Stdout.Fd()) {
		summary, err = app.Run()
		if err == nil {
			ui.PrintSummary(summary)
		}
	} else {
		summary, err = tui.Run(app.Run, app.SourceLabel())
	}
	if err != nil {
		return exitCode(err)
	}

	if summary.DryRun {
		fmt.Printf("%d file(s) verified\n", summary.FileCount())
	} else {
		fmt.Printf("%d file(s) changed\n", summary.FileCount())
	}
	return 0
}

// exitCode maps the structured error kinds to process exit codes: 1 for
// patch and file-system failures, 2 for anything unexpected.
func exitCode(err error) int {
	ui.Error("%v", err)

	var detailed *ftwpatch.DetailedError
	if errors.As(err, &detailed) {
		fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
		return 2
	}

	var (
		parseErr  *model.ParseError
		applyErr  *model.ApplyError
		backupErr *model.BackupError
		commitErr *model.CommitError
	)
	switch {
	case errors.As(err, &parseErr),
		errors.As(err, &applyErr),
		errors.As(err, &backupErr),
		errors.As(err, &commitErr):
		return 1
	default:
		// Unexpected failure outside the structured taxonomy.
		return 2
	}
}
