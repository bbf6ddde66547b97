package model

// Options carries the fully-resolved settings for one patch run. The CLI
// and config layers produce it; the core only reads it.
type Options struct {
	// StripCount is the number of leading path segments removed from
	// diff-recorded paths before resolving them (patch -pN).
	StripCount int
	// TargetDirectory is the directory the stripped paths are resolved
	// against. Empty means the current working directory.
	TargetDirectory string

	// NormalizeWhitespace collapses internal whitespace runs to a single
	// space and drops trailing whitespace before comparing lines.
	NormalizeWhitespace bool
	// IgnoreBlankLines lets runs of blank lines in the target file match
	// fewer (or zero) blank lines in the hunk context, and vice versa.
	IgnoreBlankLines bool
	// IgnoreAllWhitespace compares lines with every whitespace rune
	// removed. Overrides NormalizeWhitespace.
	IgnoreAllWhitespace bool

	// DryRun verifies and stages everything but commits nothing.
	DryRun bool
	// KeepBackup retains the per-file backups after a successful commit.
	KeepBackup bool
	// BackupExt is the suffix appended to backup file names, e.g. ".bak".
	BackupExt string
	// BackupDir, when set, collects backups in one directory instead of
	// writing them next to the originals.
	BackupDir string
}

// Summary reports what a run did (or, for a dry run, would have done).
type Summary struct {
	// Changed lists the target paths that were patched in place.
	Changed []string
	// Created lists targets that did not exist before the run.
	Created []string
	// Deleted lists targets removed by null-path file blocks.
	Deleted []string
	// Backups lists backup files left on disk (empty unless KeepBackup).
	Backups []string
	// DryRun records whether the commit phase was skipped.
	DryRun bool
}

// FileCount returns the number of files the run touched.
func (s Summary) FileCount() int {
	return len(s.Changed) + len(s.Created) + len(s.Deleted)
}
