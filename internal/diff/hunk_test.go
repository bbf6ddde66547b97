package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitzzftw/ftwpatch/model"
)

// mkHunk assembles a hunk from raw diff lines, failing the test on any
// syntax error.
func mkHunk(t *testing.T, header string, body ...string) *Hunk {
	t.Helper()
	hh, err := ParseHunkHeader(header + "\n")
	require.NoError(t, err)
	h := NewHunk(hh)
	for _, raw := range body {
		hl, err := ParseHunkLine(raw + "\n")
		require.NoError(t, err)
		h.AddLine(hl)
	}
	return h
}

// mkBuf builds a fully-terminated line buffer.
func mkBuf(lines ...string) []FileLine {
	if len(lines) == 0 {
		return nil
	}
	return SplitFileLines(strings.Join(lines, "\n") + "\n")
}

func contents(lines []FileLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Content
	}
	return out
}

func TestHunkApply(t *testing.T) {
	t.Parallel()

	t.Run("context only hunk is a no-op", func(t *testing.T) {
		t.Parallel()
		buf := mkBuf("alpha", "beta", "gamma")
		h := mkHunk(t, "@@ -1,3 +1,3 @@", " alpha", " beta", " gamma")

		out, err := h.Apply(buf, model.Options{})
		require.NoError(t, err)
		assert.Equal(t, contents(buf), contents(out))
	})

	t.Run("replace one line", func(t *testing.T) {
		t.Parallel()
		buf := mkBuf("context", "removed", "keep")
		h := mkHunk(t, "@@ -1,3 +1,3 @@", " context", "-removed", "+added", " keep")

		out, err := h.Apply(buf, model.Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"context", "added", "keep"}, contents(out))
	})

	t.Run("input buffer is never modified", func(t *testing.T) {
		t.Parallel()
		buf := mkBuf("context", "removed", "keep")
		h := mkHunk(t, "@@ -1,3 +1,3 @@", " context", "-removed", "+added", " keep")

		_, err := h.Apply(buf, model.Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"context", "removed", "keep"}, contents(buf))
	})

	t.Run("insertion at the top of an empty file", func(t *testing.T) {
		t.Parallel()
		h := mkHunk(t, "@@ -0,0 +1,2 @@", "+one", "+two")

		out, err := h.Apply(nil, model.Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"one", "two"}, contents(out))
	})

	t.Run("pure deletion", func(t *testing.T) {
		t.Parallel()
		buf := mkBuf("keep", "drop", "keep too")
		h := mkHunk(t, "@@ -1,3 +1,2 @@", " keep", "-drop", " keep too")

		out, err := h.Apply(buf, model.Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"keep", "keep too"}, contents(out))
	})

	t.Run("context mismatch", func(t *testing.T) {
		t.Parallel()
		buf := mkBuf("alpha", "beta")
		h := mkHunk(t, "@@ -1,2 +1,2 @@", " alpha", " wrong")

		_, err := h.Apply(buf, model.Options{})
		var applyErr *model.ApplyError
		require.ErrorAs(t, err, &applyErr)
		assert.Contains(t, applyErr.Msg, "hunk mismatch at line 2")
	})

	t.Run("start beyond end of file", func(t *testing.T) {
		t.Parallel()
		buf := mkBuf("one", "two", "three")
		h := mkHunk(t, "@@ -99,1 +99,1 @@", " anything")

		_, err := h.Apply(buf, model.Options{})
		var applyErr *model.ApplyError
		require.ErrorAs(t, err, &applyErr)
		assert.Contains(t, applyErr.Msg, "exceeds file bounds")
	})

	t.Run("expected lines overrun the file", func(t *testing.T) {
		t.Parallel()
		buf := mkBuf("one", "two", "three")
		h := mkHunk(t, "@@ -3,2 +3,2 @@", " three", " four")

		_, err := h.Apply(buf, model.Options{})
		var applyErr *model.ApplyError
		require.ErrorAs(t, err, &applyErr)
	})
}

func TestHunkApplyWhitespacePolicies(t *testing.T) {
	t.Parallel()

	t.Run("normalize whitespace matches collapsed runs", func(t *testing.T) {
		t.Parallel()
		buf := mkBuf("context with spaces")
		h := mkHunk(t, "@@ -1,1 +1,2 @@", " context    with   spaces", "+next")

		_, err := h.Apply(buf, model.Options{})
		require.Error(t, err)

		out, err := h.Apply(buf, model.Options{NormalizeWhitespace: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"context    with   spaces", "next"}, contents(out))
	})

	t.Run("ignore all whitespace wins over normalize", func(t *testing.T) {
		t.Parallel()
		buf := mkBuf("func main() {")
		h := mkHunk(t, "@@ -1,1 +1,1 @@", " funcmain(){")

		_, err := h.Apply(buf, model.Options{NormalizeWhitespace: true})
		require.Error(t, err)

		_, err = h.Apply(buf, model.Options{NormalizeWhitespace: true, IgnoreAllWhitespace: true})
		require.NoError(t, err)
	})

	t.Run("blank lines compare blank under ignore blank lines", func(t *testing.T) {
		t.Parallel()
		buf := mkBuf("a", "   ", "b")
		h := mkHunk(t, "@@ -1,3 +1,3 @@", " a", " ", " b")

		_, err := h.Apply(buf, model.Options{})
		require.Error(t, err)

		out, err := h.Apply(buf, model.Options{IgnoreBlankLines: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "   ", "b"}, contents(out))
	})
}

func TestHunkApplyIgnoreBlankLines(t *testing.T) {
	t.Parallel()

	t.Run("extra blanks in the file are skipped and preserved", func(t *testing.T) {
		t.Parallel()
		buf := mkBuf("A", "", "", "B")
		h := mkHunk(t, "@@ -1,2 +1,2 @@", " A", " B")

		_, err := h.Apply(buf, model.Options{})
		require.Error(t, err)

		out, err := h.Apply(buf, model.Options{IgnoreBlankLines: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "", "", "B"}, contents(out))
	})

	t.Run("blank context line matches a whole run", func(t *testing.T) {
		t.Parallel()
		buf := mkBuf("A", "", "", "", "B")
		h := mkHunk(t, "@@ -1,3 +1,3 @@", " A", " ", " B")

		out, err := h.Apply(buf, model.Options{IgnoreBlankLines: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "", "", "", "B"}, contents(out))
	})

	t.Run("blank context line matches zero blanks", func(t *testing.T) {
		t.Parallel()
		buf := mkBuf("A", "B")
		h := mkHunk(t, "@@ -1,3 +1,3 @@", " A", " ", " B")

		out, err := h.Apply(buf, model.Options{IgnoreBlankLines: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, contents(out))
	})

	t.Run("blank deletion drops the whole run", func(t *testing.T) {
		t.Parallel()
		buf := mkBuf("A", "", "", "B")
		h := mkHunk(t, "@@ -1,4 +1,2 @@", " A", "-", " B")

		out, err := h.Apply(buf, model.Options{IgnoreBlankLines: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, contents(out))
	})
}

func TestHunkApplyTerminatorFidelity(t *testing.T) {
	t.Parallel()

	t.Run("unterminated last line survives when untouched", func(t *testing.T) {
		t.Parallel()
		buf := SplitFileLines("a\nb")
		h := mkHunk(t, "@@ -1,2 +1,2 @@", "-a", "+A", " b")

		out, err := h.Apply(buf, model.Options{})
		require.NoError(t, err)
		assert.Equal(t, "A\nb", RenderLines(out))
	})

	t.Run("lines above the end are always terminated", func(t *testing.T) {
		t.Parallel()
		buf := SplitFileLines("a")
		h := mkHunk(t, "@@ -1,1 +1,2 @@", " a", "+b")

		out, err := h.Apply(buf, model.Options{})
		require.NoError(t, err)
		assert.Equal(t, "a\nb\n", RenderLines(out))
	})
}
