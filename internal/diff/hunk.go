package diff

import (
	"fmt"
	"slices"

	"github.com/fitzzftw/ftwpatch/model"
)

// Hunk is one "@@ ... @@" block: its coordinates plus the ordered body
// lines.
type Hunk struct {
	Header HunkHeader
	Lines  []HunkLine
}

// NewHunk creates an empty hunk for the given header.
func NewHunk(header HunkHeader) *Hunk {
	return &Hunk{Header: header}
}

// AddLine appends one body line. Only the parser calls this, while the
// hunk is still being assembled.
func (h *Hunk) AddLine(line HunkLine) {
	h.Lines = append(h.Lines, line)
}

// OldStart is the 1-based start line in the original file.
func (h *Hunk) OldStart() int { return h.Header.OldStart }

// NewStart is the 1-based start line in the new file.
func (h *Hunk) NewStart() int { return h.Header.NewStart }

// expected returns the body lines that must already exist in the target
// buffer: context and deletions.
func (h *Hunk) expected() []HunkLine {
	var exp []HunkLine
	for _, l := range h.Lines {
		if !l.IsAddition() {
			exp = append(exp, l)
		}
	}
	return exp
}

// linesEqual compares one expected/actual pair under the active whitespace
// policy. Precedence: ignore-all-whitespace, then blank-vs-blank, then
// ignore-space-change, then raw content.
func linesEqual(opts model.Options, exp, act FileLine) bool {
	if opts.IgnoreBlankLines && exp.IsBlank() && act.IsBlank() {
		return true
	}
	switch {
	case opts.IgnoreAllWhitespace:
		return exp.IgnoreAllWS() == act.IgnoreAllWS()
	case opts.NormalizeWhitespace:
		return exp.NormalizedWS() == act.NormalizedWS()
	default:
		return exp.Content == act.Content
	}
}

// Apply verifies the hunk against buf and returns the patched line
// sequence. buf is never modified. There is no fuzzy offset search: the
// context must match at exactly OldStart, subject only to the whitespace
// and blank-line policies in opts.
//
// With IgnoreBlankLines the match walks both sides with independent
// cursors: a blank line in the hunk matches any run of blank target lines
// (including none), and blank target lines may sit between non-blank
// context lines. Blank target lines skipped while matching a context
// region are preserved in the output, so an all-context hunk always
// reproduces the buffer unchanged.
func (h *Hunk) Apply(buf []FileLine, opts model.Options) ([]FileLine, error) {
	start := h.OldStart() - 1
	if h.OldStart() == 0 {
		// "@@ -0,0 ..." inserts before the first line; creation diffs are
		// written this way.
		start = 0
	}
	expected := h.expected()
	if start < 0 || start > len(buf) {
		return nil, h.boundsErr(len(buf))
	}
	if !opts.IgnoreBlankLines && start+len(expected) > len(buf) {
		return nil, h.boundsErr(len(buf))
	}

	out := slices.Clone(buf[:start])
	j := start
	for _, hl := range h.Lines {
		if hl.IsAddition() {
			out = append(out, hl.FileLine)
			continue
		}
		if opts.IgnoreBlankLines {
			if hl.IsBlank() {
				// A blank hunk line swallows the whole blank run: kept for
				// context, dropped for deletion.
				for j < len(buf) && buf[j].IsBlank() {
					if hl.IsContext() {
						out = append(out, buf[j])
					}
					j++
				}
				continue
			}
			for j < len(buf) && buf[j].IsBlank() {
				out = append(out, buf[j])
				j++
			}
		}
		if j >= len(buf) {
			return nil, h.boundsErr(len(buf))
		}
		if !linesEqual(opts, hl.FileLine, buf[j]) {
			return nil, &model.ApplyError{
				Msg: fmt.Sprintf("hunk mismatch at line %d: expected %q, file has %q", j+1, hl.Content, buf[j].Content),
			}
		}
		if hl.IsContext() {
			fl := hl.FileLine
			fl.HasNewline = buf[j].HasNewline
			out = append(out, fl)
		}
		j++
	}
	out = append(out, buf[j:]...)

	// A file that used to end without a terminator keeps that shape only
	// if its old last line is still last; any line above the end is
	// terminated.
	for i := 0; i < len(out)-1; i++ {
		out[i].HasNewline = true
	}
	return out, nil
}

func (h *Hunk) boundsErr(fileLen int) error {
	return &model.ApplyError{
		Msg: fmt.Sprintf("hunk starting at line %d exceeds file bounds (file has %d lines)", h.OldStart(), fileLen),
	}
}
