// Package diff implements the unified-diff model: line classification, hunk
// verification and application, and the stateful patch parser. Matching is
// done on whole lines with selectable whitespace policies, so it behaves the
// same regardless of locale or encoding quirks that trip up classic patch.
package diff

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/fitzzftw/ftwpatch/model"
)

// noNewlineMarker is the marker unified diff emits after a line that lacks
// a trailing terminator.
const noNewlineMarker = `\ No newline at end of file`

// Kind is the structural role of one raw diff line.
type Kind int

const (
	// KindMeta covers everything without a recognized prefix: git metadata
	// ("diff --git", "index ..."), blank separator lines, comments.
	KindMeta Kind = iota
	// KindHeader is a "--- " or "+++ " file header.
	KindHeader
	// KindHunkHeader is an "@@ -o,l +n,m @@" coordinate line.
	KindHunkHeader
	// KindContent is a hunk body line prefixed with ' ', '+' or '-'.
	KindContent
	// KindNoNewline is the "\ No newline at end of file" marker line.
	KindNoNewline
)

// Classify maps a raw line to its structural role. Classification happens
// once, here; everything downstream dispatches on the returned kind.
func Classify(raw string) Kind {
	switch {
	case strings.HasPrefix(raw, "--- ") || strings.HasPrefix(raw, "+++ "):
		return KindHeader
	case strings.HasPrefix(raw, "@@ "):
		return KindHunkHeader
	case strings.HasPrefix(raw, noNewlineMarker):
		return KindNoNewline
	case len(raw) > 0 && (raw[0] == ' ' || raw[0] == '+' || raw[0] == '-'):
		return KindContent
	default:
		return KindMeta
	}
}

var trailingWS = regexp.MustCompile(`[ \t\f\v]+$`)

// sanitize strips the no-newline marker and the line terminator from a raw
// line and reports whether the remaining content carried trailing
// whitespace. The returned content never contains '\n' or '\r'.
func sanitize(raw string) (content string, hasTrailingWS bool) {
	clean := strings.TrimSuffix(raw, noNewlineMarker+"\n")
	clean = strings.TrimSuffix(clean, noNewlineMarker+"\r\n")
	clean = strings.TrimRight(clean, "\n\r")
	return clean, trailingWS.MatchString(clean)
}

// HeaderLine is a "--- " or "+++ " file header.
type HeaderLine struct {
	// Prefix is "--- " or "+++ ".
	Prefix string
	// Path is the diff-recorded path, without the optional tab metadata.
	Path string
	// Info is the metadata after the tab separator, usually a timestamp.
	Info string
	// HasInfo distinguishes an absent tab section from an empty one.
	HasInfo bool
	// TrailingWS reports trailing whitespace on the raw header.
	TrailingWS bool
}

// ParseHeaderLine parses a raw "--- "/"+++ " line.
func ParseHeaderLine(raw string) (HeaderLine, error) {
	if len(raw) < 4 || (raw[:4] != "--- " && raw[:4] != "+++ ") {
		return HeaderLine{}, fmt.Errorf("invalid file header: expected %q or %q prefix in %q", "--- ", "+++ ", raw)
	}
	h := HeaderLine{Prefix: raw[:4]}
	rest := raw[4:]
	if path, info, ok := strings.Cut(rest, "\t"); ok {
		h.Path = strings.TrimRight(path, " ")
		h.Info, h.TrailingWS = sanitize(info)
		h.HasInfo = true
	} else {
		h.Path, h.TrailingWS = sanitize(rest)
	}
	if h.Path == "" {
		return HeaderLine{}, fmt.Errorf("invalid file header: missing path in %q", raw)
	}
	return h, nil
}

// IsOriginal reports whether this is the "--- " (source) side.
func (h HeaderLine) IsOriginal() bool { return h.Prefix == "--- " }

// IsNew reports whether this is the "+++ " (target) side.
func (h HeaderLine) IsNew() bool { return h.Prefix == "+++ " }

// IsNullPath reports whether the header's path denotes "no file".
func (h HeaderLine) IsNullPath() bool { return IsNullPath(h.Path) }

// IsNullPath reports whether path is a null-device marker: "/dev/null"
// exactly (POSIX, case-sensitive) or "NUL" in any case (Windows).
func IsNullPath(path string) bool {
	if path == "/dev/null" {
		return true
	}
	return strings.EqualFold(path, "NUL")
}

// StrippedPath returns the header path with the first strip leading
// segments removed, mirroring patch -pN. Segments equal to "." do not
// count. Stripping away every segment is an error.
func (h HeaderLine) StrippedPath(strip int) (string, error) {
	if strip < 0 {
		return "", &model.ApplyError{Path: h.Path, Msg: fmt.Sprintf("strip count must be non-negative, got %d", strip)}
	}
	var segments []string
	for _, seg := range strings.Split(strings.ReplaceAll(h.Path, `\`, "/"), "/") {
		if seg == "" || seg == "." {
			continue
		}
		segments = append(segments, seg)
	}
	if strip >= len(segments) {
		return "", &model.ApplyError{
			Path: h.Path,
			Msg:  fmt.Sprintf("strip level -p%d is too high for path %q (only %d segments available)", strip, h.Path, len(segments)),
		}
	}
	return strings.Join(segments[strip:], "/"), nil
}

// HunkHeader holds the coordinates of one "@@ -o,l +n,m @@" line.
type HunkHeader struct {
	OldStart int
	OldLen   int
	NewStart int
	NewLen   int
	// Info is the optional trailer after the closing "@@", typically the
	// enclosing function signature.
	Info string
}

var hunkCoords = regexp.MustCompile(`^-(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))?$`)

// ParseHunkHeader parses a raw "@@ " line. Omitted lengths default to 1;
// anything outside the fixed coordinate grammar is an error, never a
// silent default.
func ParseHunkHeader(raw string) (HunkHeader, error) {
	if !strings.HasPrefix(raw, "@@ ") {
		return HunkHeader{}, fmt.Errorf("invalid hunk header: expected %q prefix in %q", "@@ ", raw)
	}
	coords, info, ok := strings.Cut(raw[3:], " @@")
	if !ok {
		return HunkHeader{}, fmt.Errorf("invalid hunk header: missing closing %q in %q", " @@", raw)
	}
	m := hunkCoords.FindStringSubmatch(coords)
	if m == nil {
		return HunkHeader{}, fmt.Errorf("invalid hunk coordinates %q", coords)
	}
	h := HunkHeader{OldLen: 1, NewLen: 1}
	h.OldStart, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		h.OldLen, _ = strconv.Atoi(m[2])
	}
	h.NewStart, _ = strconv.Atoi(m[3])
	if m[4] != "" {
		h.NewLen, _ = strconv.Atoi(m[4])
	}
	if trimmed, _ := sanitize(info); strings.TrimSpace(trimmed) != "" {
		h.Info = strings.TrimSpace(trimmed)
	}
	return h, nil
}

// String renders the header back in unified-diff form.
func (h HunkHeader) String() string {
	s := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLen, h.NewStart, h.NewLen)
	if h.Info != "" {
		s += " " + h.Info
	}
	return s
}

// FileLine is one physical line, either read from a target file or carried
// inside a hunk body. HasNewline is the only mutable piece of the model:
// it is cleared on the last line of a file that lacks a trailing
// terminator, and carried through reconstruction so the patched file ends
// exactly like its inputs did.
type FileLine struct {
	Content    string
	HasNewline bool

	trailingWS bool
}

// NewFileLine builds a FileLine from a raw physical line. The terminator
// and the no-newline marker are stripped; HasNewline records whether the
// raw line carried a terminator.
func NewFileLine(raw string) FileLine {
	content, tws := sanitize(raw)
	return FileLine{
		Content:    content,
		HasNewline: strings.HasSuffix(raw, "\n"),
		trailingWS: tws,
	}
}

// HasTrailingWhitespace reports whether the original raw line had trailing
// whitespace before its terminator.
func (l FileLine) HasTrailingWhitespace() bool { return l.trailingWS }

// IsBlank reports whether the line is empty or whitespace-only. This is
// the notion of "blank" used by the ignore-blank-lines policy.
func (l FileLine) IsBlank() bool { return strings.TrimSpace(l.Content) == "" }

var internalWS = regexp.MustCompile(`[ \t\f\v]+`)

// NormalizedWS returns the content view used by the ignore-space-change
// policy: leading whitespace preserved, internal whitespace runs collapsed
// to a single space, trailing whitespace removed. Non-breaking spaces are
// treated as ordinary spaces first, so patches pasted through word
// processors still match.
func (l FileLine) NormalizedWS() string {
	content := strings.ReplaceAll(l.Content, "\u00a0", " ")
	stripped := strings.TrimLeft(content, " \t\f\v")
	leading := content[:len(content)-len(stripped)]
	collapsed := internalWS.ReplaceAllString(stripped, " ")
	return leading + strings.TrimRight(collapsed, " \t\f\v")
}

// IgnoreAllWS returns the content with every whitespace rune removed,
// Unicode whitespace included.
func (l FileLine) IgnoreAllWS() string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, l.Content)
}

// Render returns the line as written to disk: the content plus a
// terminator when the line has one.
func (l FileLine) Render() string {
	if l.HasNewline {
		return l.Content + "\n"
	}
	return l.Content
}

// HunkLine is a hunk body line: a FileLine plus its one-character diff
// prefix.
type HunkLine struct {
	FileLine
	Prefix byte
}

// ParseHunkLine parses a raw hunk body line. The first character must be
// ' ', '+' or '-'.
func ParseHunkLine(raw string) (HunkLine, error) {
	if len(raw) == 0 || (raw[0] != ' ' && raw[0] != '+' && raw[0] != '-') {
		return HunkLine{}, fmt.Errorf("hunk content line missing valid prefix (' ', '+', '-'): %q", raw)
	}
	fl := NewFileLine(raw[1:])
	// Hunk bodies describe logical lines; terminator fidelity comes from
	// reading the target file, not from the diff text.
	fl.HasNewline = true
	return HunkLine{FileLine: fl, Prefix: raw[0]}, nil
}

// IsContext reports an unchanged line shared by both sides.
func (l HunkLine) IsContext() bool { return l.Prefix == ' ' }

// IsAddition reports a line present only in the new file.
func (l HunkLine) IsAddition() bool { return l.Prefix == '+' }

// IsDeletion reports a line present only in the original file.
func (l HunkLine) IsDeletion() bool { return l.Prefix == '-' }
