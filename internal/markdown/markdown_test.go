package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooksFenced(t *testing.T) {
	t.Parallel()

	assert.True(t, LooksFenced("text\n```diff\n--- a/f\n```\n"))
	assert.True(t, LooksFenced("  ```\nindented fence\n"))
	assert.False(t, LooksFenced("--- a/f.txt\n+++ b/f.txt\n"))
	assert.False(t, LooksFenced(""))
}

func TestExtractDiffBlocks(t *testing.T) {
	t.Parallel()

	t.Run("tagged blocks in document order", func(t *testing.T) {
		t.Parallel()
		source := []byte("Intro text.\n\n" +
			"```diff\n--- a/one.txt\n+++ b/one.txt\n@@ -1,1 +1,1 @@\n-a\n+b\n```\n\n" +
			"Some prose.\n\n" +
			"```patch\n--- a/two.txt\n+++ b/two.txt\n@@ -1,1 +1,1 @@\n-c\n+d\n```\n")

		blocks, err := ExtractDiffBlocks(source)
		require.NoError(t, err)
		require.Len(t, blocks, 2)
		assert.Contains(t, blocks[0], "--- a/one.txt")
		assert.Contains(t, blocks[1], "--- a/two.txt")
	})

	t.Run("other languages are skipped", func(t *testing.T) {
		t.Parallel()
		source := []byte("```go\nfunc main() {}\n```\n\n```diff\n--- a/f\n+++ b/f\n```\n")

		blocks, err := ExtractDiffBlocks(source)
		require.NoError(t, err)
		require.Len(t, blocks, 1)
		assert.Contains(t, blocks[0], "--- a/f")
	})

	t.Run("untagged block starting with a header counts", func(t *testing.T) {
		t.Parallel()
		source := []byte("```\n--- a/f.txt\n+++ b/f.txt\n```\n")

		blocks, err := ExtractDiffBlocks(source)
		require.NoError(t, err)
		require.Len(t, blocks, 1)
	})

	t.Run("untagged non-diff block is skipped", func(t *testing.T) {
		t.Parallel()
		source := []byte("```\njust some text\n```\n")

		blocks, err := ExtractDiffBlocks(source)
		require.NoError(t, err)
		assert.Empty(t, blocks)
	})

	t.Run("no blocks at all", func(t *testing.T) {
		t.Parallel()
		blocks, err := ExtractDiffBlocks([]byte("plain prose only\n"))
		require.NoError(t, err)
		assert.Empty(t, blocks)
	})
}
