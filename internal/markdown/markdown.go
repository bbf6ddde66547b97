// Package markdown pulls unified diffs out of fenced code blocks, so the
// tool can be fed raw LLM or chat output instead of a bare patch file.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// LooksFenced is a cheap pre-check for markdown input: a line starting a
// code fence anywhere in the content.
func LooksFenced(source string) bool {
	for _, line := range strings.Split(source, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			return true
		}
	}
	return false
}

// ExtractDiffBlocks walks the markdown AST and returns the raw content of
// every fenced code block tagged "diff" or "patch", in document order.
// Untagged blocks whose first line is a "---"/"+++" header are included
// too, since diffs in the wild are often fenced without a language.
func ExtractDiffBlocks(source []byte) ([]string, error) {
	var blocks []string
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var lang string
		if fenced.Info != nil {
			lang = string(fenced.Info.Text(source))
		}

		var content bytes.Buffer
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			content.Write(seg.Value(source))
		}

		switch lang {
		case "diff", "patch":
			blocks = append(blocks, content.String())
		case "":
			if strings.HasPrefix(content.String(), "--- ") {
				blocks = append(blocks, content.String())
			}
		}
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}
	return blocks, nil
}
