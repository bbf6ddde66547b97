// Package source decides where the diff text comes from: an explicit
// patch file, a stdin pipe, or the system clipboard.
package source

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
)

// Provider retrieves the raw diff content for one run.
type Provider struct {
	// PatchFile is the explicit file argument; empty means read from
	// stdin (if piped) or the clipboard.
	PatchFile string
}

// New creates a Provider for the given optional patch file.
func New(patchFile string) *Provider {
	return &Provider{PatchFile: patchFile}
}

// Describe names the source for progress output.
func (p *Provider) Describe() string {
	switch {
	case p.PatchFile != "":
		return p.PatchFile
	case stdinPiped():
		return "stdin"
	default:
		return "clipboard"
	}
}

// Content returns the diff text. An empty clipboard is not an error; the
// caller treats empty content as "nothing to do".
func (p *Provider) Content() (string, error) {
	if p.PatchFile != "" {
		data, err := os.ReadFile(p.PatchFile)
		if err != nil {
			return "", fmt.Errorf("could not read patch file: %w", err)
		}
		return string(data), nil
	}

	if stdinPiped() {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(data), nil
	}

	content, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read from clipboard: %w", err)
	}
	return content, nil
}

func stdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}
