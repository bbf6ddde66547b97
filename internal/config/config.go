// Package config loads flag defaults from layered TOML files: the
// platform user config first, then a project-local ftwpatch.toml, which
// wins. Explicit command-line flags override both.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// File mirrors the keys a config file may set. Pointer fields distinguish
// "not set" from a zero value so lower layers are only overridden by keys
// that are actually present.
type File struct {
	Strip       *int    `toml:"strip"`
	Directory   *string `toml:"directory"`
	NormalizeWS *bool   `toml:"normalize-ws"`
	IgnoreBL    *bool   `toml:"ignore-bl"`
	IgnoreAllWS *bool   `toml:"ignore-all-ws"`
	DryRun      *bool   `toml:"dry-run"`
	Backup      *bool   `toml:"backup"`
	BackupExt   *string `toml:"backupext"`
	BackupDir   *string `toml:"backupdir"`
	Verbose     *int    `toml:"verbose"`
}

// projectFile is the project-level config looked up in the working
// directory.
const projectFile = "ftwpatch.toml"

// Load merges the user config (userConfig path if given, otherwise the
// platform default location) with the project config. Missing files are
// fine; unreadable or malformed TOML is not.
func Load(userConfig string) (File, error) {
	var merged File

	userPath := userConfig
	if userPath == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			userPath = filepath.Join(dir, "ftwpatch", projectFile)
		}
	}
	if userPath != "" {
		if err := mergeFile(&merged, userPath, userConfig != ""); err != nil {
			return File{}, err
		}
	}
	if err := mergeFile(&merged, projectFile, false); err != nil {
		return File{}, err
	}
	return merged, nil
}

// mergeFile overlays the keys set in path onto dst. A missing file is an
// error only when the caller named it explicitly.
func mergeFile(dst *File, path string, required bool) error {
	var layer File
	if _, err := toml.DecodeFile(path, &layer); err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("config file %s: %w", path, err)
	}
	overlay(dst, layer)
	return nil
}

func overlay(dst *File, src File) {
	if src.Strip != nil {
		dst.Strip = src.Strip
	}
	if src.Directory != nil {
		dst.Directory = src.Directory
	}
	if src.NormalizeWS != nil {
		dst.NormalizeWS = src.NormalizeWS
	}
	if src.IgnoreBL != nil {
		dst.IgnoreBL = src.IgnoreBL
	}
	if src.IgnoreAllWS != nil {
		dst.IgnoreAllWS = src.IgnoreAllWS
	}
	if src.DryRun != nil {
		dst.DryRun = src.DryRun
	}
	if src.Backup != nil {
		dst.Backup = src.Backup
	}
	if src.BackupExt != nil {
		dst.BackupExt = src.BackupExt
	}
	if src.BackupDir != nil {
		dst.BackupDir = src.BackupDir
	}
	if src.Verbose != nil {
		dst.Verbose = src.Verbose
	}
}
