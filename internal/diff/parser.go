package diff

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fitzzftw/ftwpatch/model"
)

// Parser turns a raw unified-diff stream into FileChange values. It is a
// single-pass state machine; classification is line-local, so no lookahead
// is ever needed.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads the whole stream and returns its file blocks in input
// order. Each FileChange is fully assembled before the next one is
// started; blocks are never touched again after that.
//
// Outside a hunk, unrecognized lines (git metadata, blank separators) are
// ignored. Inside a hunk they are a hard error: a hunk body may contain
// only ' '/'+'/'-' lines and the no-newline marker, which both catches
// truncated diffs and keeps the end of a hunk from being swallowed
// silently.
func (p *Parser) Parse(r io.Reader) ([]*FileChange, error) {
	var (
		files    []*FileChange
		current  *FileChange
		hunk     *Hunk
		lineNo   int
		scanner  = bufio.NewReader(r)
		finished bool
	)

	for !finished {
		raw, err := scanner.ReadString('\n')
		if err == io.EOF {
			finished = true
			if raw == "" {
				break
			}
		} else if err != nil {
			return nil, &model.ParseError{Line: lineNo, Msg: "diff stream unreadable", Err: err}
		}
		lineNo++

		switch Classify(raw) {
		case KindHeader:
			header, err := ParseHeaderLine(raw)
			if err != nil {
				return nil, &model.ParseError{Line: lineNo, Msg: err.Error(), Err: err}
			}
			if header.IsOriginal() {
				if current != nil {
					files = append(files, current)
				}
				current, err = NewFileChange(header)
				if err != nil {
					return nil, &model.ParseError{Line: lineNo, Msg: err.Error(), Err: err}
				}
				hunk = nil
				continue
			}
			if current == nil {
				return nil, &model.ParseError{Line: lineNo, Msg: "found '+++' before '---'"}
			}
			current.SetNewHeader(header)

		case KindHunkHeader:
			if current == nil {
				return nil, &model.ParseError{Line: lineNo, Msg: "found '@@ ' before file headers"}
			}
			header, err := ParseHunkHeader(raw)
			if err != nil {
				return nil, &model.ParseError{Line: lineNo, Msg: err.Error(), Err: err}
			}
			hunk = NewHunk(header)
			current.AddHunk(hunk)

		case KindContent:
			if hunk == nil {
				return nil, &model.ParseError{Line: lineNo, Msg: "found content line before '@@' header"}
			}
			line, err := ParseHunkLine(raw)
			if err != nil {
				return nil, &model.ParseError{Line: lineNo, Msg: err.Error(), Err: err}
			}
			hunk.AddLine(line)

		case KindNoNewline:
			// Consumed transparently. Terminator fidelity is tracked on the
			// target file's lines, not on the diff text.

		default:
			if hunk != nil {
				return nil, &model.ParseError{
					Line: lineNo,
					Msg:  fmt.Sprintf("invalid line within hunk, missing prefix (' ', '+', '-'): %q", raw),
				}
			}
			// Metadata and noise between file blocks is safely ignored.
		}
	}

	if current != nil {
		files = append(files, current)
	}
	return files, nil
}
