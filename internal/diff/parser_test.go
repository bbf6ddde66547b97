package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitzzftw/ftwpatch/model"
)

func parse(t *testing.T, input string) []*FileChange {
	t.Helper()
	files, err := NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	return files
}

func TestParserMultiFile(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"diff --git a/first.txt b/first.txt",
		"index 83db48f..bf269f4 100644",
		"--- a/first.txt",
		"+++ b/first.txt",
		"@@ -1,3 +1,3 @@ func header()",
		" context",
		"-old",
		"+new",
		"--- a/second.txt\t2024-01-02 10:11:12",
		"+++ b/second.txt\t2024-01-02 10:11:13",
		"@@ -5,2 +5,3 @@",
		" keep",
		"+inserted",
		" keep too",
		"",
	}, "\n")

	files := parse(t, input)
	require.Len(t, files, 2)

	first := files[0]
	assert.Equal(t, "a/first.txt", first.OrigHeader.Path)
	require.True(t, first.HasNewHeader)
	assert.Equal(t, "b/first.txt", first.NewHeader.Path)
	require.Len(t, first.Hunks, 1)
	assert.Equal(t, 1, first.Hunks[0].OldStart())
	assert.Equal(t, "func header()", first.Hunks[0].Header.Info)
	require.Len(t, first.Hunks[0].Lines, 3)
	assert.True(t, first.Hunks[0].Lines[0].IsContext())
	assert.True(t, first.Hunks[0].Lines[1].IsDeletion())
	assert.True(t, first.Hunks[0].Lines[2].IsAddition())

	second := files[1]
	assert.Equal(t, "a/second.txt", second.OrigHeader.Path)
	assert.Equal(t, "2024-01-02 10:11:12", second.OrigHeader.Info)
	require.Len(t, second.Hunks, 1)
	assert.Equal(t, 5, second.Hunks[0].OldStart())
	assert.Len(t, second.Hunks[0].Lines, 3)
}

func TestParserMultipleHunksPerFile(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"--- a/data.txt",
		"+++ b/data.txt",
		"@@ -1,2 +1,2 @@",
		"-one",
		"+ONE",
		" two",
		"@@ -9,2 +9,2 @@",
		" nine",
		"-ten",
		"+TEN",
		"",
	}, "\n")

	files := parse(t, input)
	require.Len(t, files, 1)
	require.Len(t, files[0].Hunks, 2)
	assert.Equal(t, 1, files[0].Hunks[0].OldStart())
	assert.Equal(t, 9, files[0].Hunks[1].OldStart())
}

func TestParserNoNewlineMarker(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"--- a/tail.txt",
		"+++ b/tail.txt",
		"@@ -1,1 +1,1 @@",
		"-old tail",
		`\ No newline at end of file`,
		"+new tail",
		`\ No newline at end of file`,
		"",
	}, "\n")

	files := parse(t, input)
	require.Len(t, files, 1)
	require.Len(t, files[0].Hunks, 1)
	// The marker is consumed, never stored as a body line.
	require.Len(t, files[0].Hunks[0].Lines, 2)
	assert.Equal(t, "old tail", files[0].Hunks[0].Lines[0].Content)
	assert.Equal(t, "new tail", files[0].Hunks[0].Lines[1].Content)
}

func TestParserCreationAndDeletionBlocks(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"--- /dev/null",
		"+++ b/new.txt",
		"@@ -0,0 +1,1 @@",
		"+born",
		"--- a/old.txt",
		"+++ /dev/null",
		"@@ -1,1 +0,0 @@",
		"-gone",
		"",
	}, "\n")

	files := parse(t, input)
	require.Len(t, files, 2)
	assert.True(t, files[0].IsCreation())
	assert.False(t, files[0].IsDeletion())
	assert.False(t, files[1].IsCreation())
	assert.True(t, files[1].IsDeletion())
}

func TestParserEmptyInput(t *testing.T) {
	t.Parallel()

	files, err := NewParser().Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestParserMetadataOutsideHunksIsIgnored(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"Some chatter before the patch.",
		"",
		"--- a/f.txt",
		"+++ b/f.txt",
		"@@ -1,1 +1,1 @@",
		"-x",
		"+y",
		"",
	}, "\n")

	files := parse(t, input)
	require.Len(t, files, 1)
	require.Len(t, files[0].Hunks, 1)
	assert.Len(t, files[0].Hunks[0].Lines, 2)
}

func TestParserErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "new header before original",
			input:    "+++ b/foo.txt\n",
			wantLine: 1,
			wantMsg:  "'+++' before '---'",
		},
		{
			name:     "hunk header before file headers",
			input:    "@@ -1,1 +1,1 @@\n x\n",
			wantLine: 1,
			wantMsg:  "'@@ ' before file headers",
		},
		{
			name:     "content before hunk header",
			input:    "--- a/f.txt\n+++ b/f.txt\n x\n",
			wantLine: 3,
			wantMsg:  "content line before '@@' header",
		},
		{
			name:     "bad hunk coordinates",
			input:    "--- a/f.txt\n+++ b/f.txt\n@@ -x,y +1,1 @@\n",
			wantLine: 3,
			wantMsg:  "invalid hunk coordinates",
		},
		{
			name:     "garbage inside hunk",
			input:    "--- a/f.txt\n+++ b/f.txt\n@@ -1,1 +1,1 @@\n x\ngarbage\n",
			wantLine: 5,
			wantMsg:  "invalid line within hunk",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewParser().Parse(strings.NewReader(tc.input))
			var parseErr *model.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tc.wantLine, parseErr.Line)
			assert.Contains(t, parseErr.Msg, tc.wantMsg)
			assert.Contains(t, err.Error(), "parse error at line")
		})
	}
}
