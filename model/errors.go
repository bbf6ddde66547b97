package model

import "fmt"

// ParseError reports malformed diff syntax. It is fatal to the whole run:
// once the file grouping is suspect, no partial result is usable.
type ParseError struct {
	// Line is the 1-based line number in the diff input, 0 if unknown.
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Msg)
	}
	return "parse error: " + e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// ApplyError reports a hunk that cannot be applied (context mismatch,
// out-of-bounds coordinates, missing source file, excessive strip count).
// It is always raised before the commit phase, so no file has been touched.
type ApplyError struct {
	// Path is the target file the failure relates to, if known.
	Path string
	Msg  string
	Err  error
}

func (e *ApplyError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("cannot apply patch to %s: %s", e.Path, e.Msg)
	}
	return "cannot apply patch: " + e.Msg
}

func (e *ApplyError) Unwrap() error { return e.Err }

// BackupError reports a failure during the backup phase. By the time it
// propagates, every backup created in the same call has been removed again.
type BackupError struct {
	Path string
	Err  error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("mandatory backup of %s failed: %v (no files were modified)", e.Path, e.Err)
}

func (e *BackupError) Unwrap() error { return e.Err }

// CommitError reports a failure during the move phase. Backups are kept on
// purpose so the caller can recover by hand.
type CommitError struct {
	Path string
	Err  error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("moving patched file onto %s failed: %v; backups have been preserved for recovery", e.Path, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }
