// Package fs wraps the handful of file-system primitives the patch
// session needs: copying originals to backups, placing staged results and
// computing backup locations.
package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyFile copies src to dst, carrying the source's permission bits. dst
// must not be an existing directory.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// MoveFile renames src onto dst, falling back to copy-and-remove when the
// rename crosses file systems (the staging directory usually lives on
// tmpfs).
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := CopyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// BackupPath computes where the backup of original goes: either
// "<original><ext>" next to it, or "<backupDir>/<name><ext>" when a backup
// directory is configured.
func BackupPath(original, ext, backupDir string) string {
	if backupDir != "" {
		return filepath.Join(backupDir, filepath.Base(original)+ext)
	}
	return original + ext
}

// EnsureDir creates dir (and parents) if it does not exist yet.
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create directory %s: %w", dir, err)
	}
	return nil
}
