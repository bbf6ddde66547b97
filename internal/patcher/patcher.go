// Package patcher runs the transactional half of a patch: stage every file
// change into a scratch directory, then commit all of them with mandatory
// backups, or roll the backups away if anything goes wrong before the
// first destructive step.
package patcher

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/fitzzftw/ftwpatch/internal/diff"
	"github.com/fitzzftw/ftwpatch/internal/fs"
	"github.com/fitzzftw/ftwpatch/model"
)

type fileOp int

const (
	opModify fileOp = iota
	opCreate
	opDelete
)

// stagedResult pairs one target path with its fully-patched staged copy.
type stagedResult struct {
	target string
	staged string
	op     fileOp
}

// Session applies a parsed patch as one all-or-nothing transaction.
type Session struct {
	opts model.Options
}

// NewSession creates a session for the given options.
func NewSession(opts model.Options) *Session {
	return &Session{opts: opts}
}

// Apply stages every file change and then commits them. The ordering is
// the correctness mechanism: every file is verified and staged before any
// original is touched, so a failure in the staging phase leaves the file
// system exactly as it was. In dry-run mode the staged output is
// discarded and no original is ever written.
func (s *Session) Apply(files []*diff.FileChange) (model.Summary, error) {
	if len(files) == 0 {
		return model.Summary{DryRun: s.opts.DryRun}, nil
	}

	stagingDir, err := os.MkdirTemp("", "ftwpatch-")
	if err != nil {
		return model.Summary{}, &model.ApplyError{Msg: "could not create staging directory", Err: err}
	}
	defer os.RemoveAll(stagingDir)

	results, err := s.stage(files, stagingDir)
	if err != nil {
		return model.Summary{}, err
	}

	summary := model.Summary{DryRun: s.opts.DryRun}
	for _, r := range results {
		switch r.op {
		case opCreate:
			summary.Created = append(summary.Created, r.target)
		case opDelete:
			summary.Deleted = append(summary.Deleted, r.target)
		default:
			summary.Changed = append(summary.Changed, r.target)
		}
	}

	if s.opts.DryRun {
		return summary, nil
	}

	backups, err := s.commit(results)
	if err != nil {
		return model.Summary{}, err
	}
	summary.Backups = backups
	return summary, nil
}

// stage computes every patched result and writes it into stagingDir.
// Originals are only read here. Files stage concurrently: each worker
// reads a distinct original and writes a distinct staging path, which is
// the one parallelism the transaction allows.
func (s *Session) stage(files []*diff.FileChange, stagingDir string) ([]stagedResult, error) {
	results := make([]stagedResult, len(files))

	var g errgroup.Group
	for i, fc := range files {
		g.Go(func() error {
			target, err := fc.TargetPath(s.opts)
			if err != nil {
				return err
			}
			patched, err := fc.Apply(s.opts)
			if err != nil {
				return err
			}

			r := stagedResult{target: target}
			switch {
			case fc.IsCreation():
				r.op = opCreate
			case fc.IsDeletion():
				r.op = opDelete
			}

			// A creation must not clobber an existing file: the commit
			// phase only backs up originals it knows about, and a file
			// sitting at a creation target is not one of them.
			if r.op == opCreate {
				if _, statErr := os.Lstat(target); statErr == nil {
					return &model.ApplyError{Path: target, Msg: "refusing to create a file that already exists"}
				} else if !os.IsNotExist(statErr) {
					return &model.ApplyError{Path: target, Msg: "could not check creation target", Err: statErr}
				}
			}

			if r.op != opDelete {
				r.staged = filepath.Join(stagingDir, fmt.Sprintf("%s_%d.tmp", filepath.Base(target), i))
				content := diff.RenderLines(patched)
				if err := os.WriteFile(r.staged, []byte(content), 0o644); err != nil {
					return &model.ApplyError{Path: target, Msg: "could not write staging file", Err: err}
				}
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// commit runs the destructive phases in strict order: back up every
// existing original, move every staged file into place, then drop the
// backups unless the caller asked to keep them.
func (s *Session) commit(results []stagedResult) ([]string, error) {
	backups, err := s.createBackups(results)
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		switch r.op {
		case opDelete:
			if err := os.Remove(r.target); err != nil {
				return nil, &model.CommitError{Path: r.target, Err: err}
			}
		case opCreate:
			if err := fs.EnsureDir(filepath.Dir(r.target)); err != nil {
				return nil, &model.CommitError{Path: r.target, Err: err}
			}
			fallthrough
		default:
			if err := fs.MoveFile(r.staged, r.target); err != nil {
				return nil, &model.CommitError{Path: r.target, Err: err}
			}
		}
	}

	if s.opts.KeepBackup {
		return backups, nil
	}
	for _, b := range backups {
		os.Remove(b)
	}
	return nil, nil
}

// createBackups copies every existing original to its backup location.
// Creations have no original and are skipped. If any copy fails, every
// backup made in this call is removed again before the error propagates:
// a partial backup set is worse than none.
func (s *Session) createBackups(results []stagedResult) ([]string, error) {
	ext := s.opts.BackupExt
	if ext == "" {
		ext = ".ftwBak"
	}
	if s.opts.BackupDir != "" {
		if err := fs.EnsureDir(s.opts.BackupDir); err != nil {
			return nil, &model.BackupError{Path: s.opts.BackupDir, Err: err}
		}
	}

	var created []string
	for _, r := range results {
		if r.op == opCreate {
			continue
		}
		bak := fs.BackupPath(r.target, ext, s.opts.BackupDir)
		if err := fs.CopyFile(r.target, bak); err != nil {
			for _, b := range created {
				os.Remove(b)
			}
			return nil, &model.BackupError{Path: r.target, Err: err}
		}
		created = append(created, bak)
	}
	return created, nil
}
