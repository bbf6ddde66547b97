// Package cli defines the command-line surface and resolves it, together
// with the layered config files, into the options the core consumes.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/fitzzftw/ftwpatch/internal/config"
	"github.com/fitzzftw/ftwpatch/model"
)

// Config holds the fully-resolved command-line values.
type Config struct {
	// PatchFile is the positional diff file argument; empty means read
	// from stdin or the clipboard.
	PatchFile string
	// Markdown forces fenced-block extraction on the input.
	Markdown bool
	// Plain skips the TUI and prints the summary directly.
	Plain bool
	// Verbose is the counted -v level.
	Verbose int

	Options model.Options
}

// Parse resolves args (without the program name) against the flag set and
// the config files. Precedence: explicit flags, then project
// ftwpatch.toml, then the user config file.
func Parse(args []string) (*Config, error) {
	cfg := &Config{}
	var userConfig string

	fs := pflag.NewFlagSet("ftwpatch", pflag.ContinueOnError)
	fs.SortFlags = false

	fs.IntVarP(&cfg.Options.StripCount, "strip", "p", 0,
		"Number of leading path components to strip from file names before resolving them.")
	fs.StringVarP(&cfg.Options.TargetDirectory, "directory", "d", "",
		"Directory to resolve files against before patching.")
	fs.BoolVar(&cfg.Options.NormalizeWhitespace, "normalize-ws", false,
		"Collapse internal whitespace runs to a single space before comparing context lines.")
	fs.BoolVar(&cfg.Options.IgnoreBlankLines, "ignore-bl", false,
		"Ignore differences in the number of consecutive blank lines when matching context.")
	fs.BoolVar(&cfg.Options.IgnoreAllWhitespace, "ignore-all-ws", false,
		"Ignore all whitespace during comparison. Overrides --normalize-ws.")
	fs.BoolVar(&cfg.Options.DryRun, "dry-run", false,
		"Verify and stage everything, write nothing.")
	fs.BoolVarP(&cfg.Options.KeepBackup, "backup", "b", false,
		"Keep the per-file backups after a successful run.")
	fs.StringVar(&cfg.Options.BackupExt, "backupext", ".bak",
		"Extension for backup files. Keywords date/time/datetime/auto/timestamp produce an ISO-8601 suffix.")
	fs.StringVar(&cfg.Options.BackupDir, "backupdir", "",
		"Collect backups in this directory instead of next to the originals.")
	fs.BoolVar(&cfg.Markdown, "markdown", false,
		"Treat the input as markdown and apply the fenced diff blocks inside it.")
	fs.BoolVar(&cfg.Plain, "plain", false,
		"Disable the spinner TUI; print plain output.")
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase output verbosity (repeatable).")
	fs.StringVar(&userConfig, "userconfig", "",
		"Path to a custom user TOML config.")

	fs.Usage = func() {
		fmt.Println("Usage: ftwpatch [flags] [PATCHFILE]")
		fmt.Println("\nApply a unified diff with Unicode-safe, whitespace-aware matching.")
		fmt.Println("Reads the diff from PATCHFILE, a stdin pipe, or the clipboard.")
		fmt.Println("\nExample: git diff | ftwpatch -p1 --dry-run")
		fmt.Println("\nFlags:")
		fmt.Println(fs.FlagUsages())
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		return nil, fmt.Errorf("expected at most one patch file, got %d arguments", fs.NArg())
	}
	cfg.PatchFile = fs.Arg(0)

	fileCfg, err := config.Load(userConfig)
	if err != nil {
		return nil, err
	}
	applyConfigDefaults(cfg, fs, fileCfg)

	cfg.Options.BackupExt = NormalizeBackupExt(cfg.Options.BackupExt)
	return cfg, nil
}

// applyConfigDefaults fills in config-file values for every flag the user
// did not set explicitly.
func applyConfigDefaults(cfg *Config, fs *pflag.FlagSet, file config.File) {
	set := func(name string) bool { return fs.Changed(name) }

	if file.Strip != nil && !set("strip") {
		cfg.Options.StripCount = *file.Strip
	}
	if file.Directory != nil && !set("directory") {
		cfg.Options.TargetDirectory = *file.Directory
	}
	if file.NormalizeWS != nil && !set("normalize-ws") {
		cfg.Options.NormalizeWhitespace = *file.NormalizeWS
	}
	if file.IgnoreBL != nil && !set("ignore-bl") {
		cfg.Options.IgnoreBlankLines = *file.IgnoreBL
	}
	if file.IgnoreAllWS != nil && !set("ignore-all-ws") {
		cfg.Options.IgnoreAllWhitespace = *file.IgnoreAllWS
	}
	if file.DryRun != nil && !set("dry-run") {
		cfg.Options.DryRun = *file.DryRun
	}
	if file.Backup != nil && !set("backup") {
		cfg.Options.KeepBackup = *file.Backup
	}
	if file.BackupExt != nil && !set("backupext") {
		cfg.Options.BackupExt = *file.BackupExt
	}
	if file.BackupDir != nil && !set("backupdir") {
		cfg.Options.BackupDir = *file.BackupDir
	}
	if file.Verbose != nil && !set("verbose") {
		cfg.Verbose = *file.Verbose
	}
}

// NormalizeBackupExt cleans a backup extension and expands the timestamp
// keywords: "date", "time", "datetime", "auto" and "timestamp" all become
// ".bak_<ISO-8601>" so repeated runs never clobber an older backup.
func NormalizeBackupExt(ext string) string {
	ext = strings.TrimSpace(strings.Trim(strings.TrimSpace(ext), "."))
	switch ext {
	case "auto", "date", "time", "datetime", "timestamp":
		ext = "bak_" + time.Now().Format("2006-01-02T150405")
	case "":
		ext = "bak"
	}
	return "." + ext
}
