package diff

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fitzzftw/ftwpatch/model"
)

// FileChange is one file block of a patch: the "---"/"+++" headers plus
// the ordered hunks recorded against that file.
type FileChange struct {
	OrigHeader HeaderLine
	// NewHeader is the "+++" side; HasNewHeader is false for a bare "---"
	// block.
	NewHeader    HeaderLine
	HasNewHeader bool
	Hunks        []*Hunk
}

// NewFileChange starts a file block from its mandatory "---" header.
func NewFileChange(orig HeaderLine) (*FileChange, error) {
	if !orig.IsOriginal() {
		return nil, fmt.Errorf("file block must start with an original header (---), got %q", orig.Prefix+orig.Path)
	}
	return &FileChange{OrigHeader: orig}, nil
}

// SetNewHeader attaches the "+++" side.
func (f *FileChange) SetNewHeader(h HeaderLine) {
	f.NewHeader = h
	f.HasNewHeader = true
}

// AddHunk appends a hunk. Only the parser calls this, while the block is
// still being assembled.
func (f *FileChange) AddHunk(h *Hunk) {
	f.Hunks = append(f.Hunks, h)
}

// IsCreation reports a "---"/null block: the original side does not exist.
func (f *FileChange) IsCreation() bool { return f.OrigHeader.IsNullPath() }

// IsDeletion reports a "+++"/null block: the new side does not exist.
func (f *FileChange) IsDeletion() bool { return f.HasNewHeader && f.NewHeader.IsNullPath() }

// TargetPath resolves the on-disk path this block modifies, creates or
// deletes: the stripped header path joined under the target directory.
// For a creation the path comes from the "+++" header, otherwise from the
// "---" header.
func (f *FileChange) TargetPath(opts model.Options) (string, error) {
	header := f.OrigHeader
	if f.IsCreation() {
		if !f.HasNewHeader {
			return "", &model.ApplyError{Path: f.OrigHeader.Path, Msg: "file creation block has no +++ header"}
		}
		if f.NewHeader.IsNullPath() {
			return "", &model.ApplyError{Path: f.OrigHeader.Path, Msg: "both sides of the file block are null paths"}
		}
		header = f.NewHeader
	}
	stripped, err := header.StrippedPath(opts.StripCount)
	if err != nil {
		return "", err
	}
	return filepath.Join(opts.TargetDirectory, filepath.FromSlash(stripped)), nil
}

// Apply reads the source file and applies every hunk, returning the
// patched line sequence. Purely logical: nothing is written.
//
// Hunks are applied in descending old_start order. Coordinates in a
// unified diff are expressed against the original file, so working bottom
// up keeps every remaining hunk's line numbers valid without tracking a
// running offset.
func (f *FileChange) Apply(opts model.Options) ([]FileLine, error) {
	var buf []FileLine
	if !f.IsCreation() {
		path, err := f.TargetPath(opts)
		if err != nil {
			return nil, err
		}
		buf, err = ReadFileLines(path)
		if err != nil {
			return nil, err
		}
	}

	hunks := make([]*Hunk, len(f.Hunks))
	copy(hunks, f.Hunks)
	sort.Slice(hunks, func(i, j int) bool { return hunks[i].OldStart() > hunks[j].OldStart() })

	for _, h := range hunks {
		var err error
		buf, err = h.Apply(buf, opts)
		if err != nil {
			if ae, ok := err.(*model.ApplyError); ok && ae.Path == "" {
				ae.Path = f.OrigHeader.Path
			}
			return nil, err
		}
	}
	return buf, nil
}

// ReadFileLines reads path into FileLines, one per physical line. Line
// endings are normalized to LF; the final line's HasNewline records
// whether the file ended with a terminator.
func ReadFileLines(path string) ([]FileLine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &model.ApplyError{Path: path, Msg: "could not read source file", Err: err}
	}
	return SplitFileLines(string(data)), nil
}

// SplitFileLines converts raw file content into FileLines.
func SplitFileLines(content string) []FileLine {
	if content == "" {
		return nil
	}
	var lines []FileLine
	for len(content) > 0 {
		idx := strings.IndexByte(content, '\n')
		if idx < 0 {
			lines = append(lines, NewFileLine(content))
			break
		}
		lines = append(lines, NewFileLine(content[:idx+1]))
		content = content[idx+1:]
	}
	return lines
}

// RenderLines reassembles FileLines into file content, honoring each
// line's terminator flag.
func RenderLines(lines []FileLine) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.Render())
	}
	return b.String()
}
