// Package search wraps web-grounded LLM providers used to research merger parties.
package search

import (
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type Result struct {
	Content   string   `json:"content"`
	Citations []string `json:"citations"`
	Model     string   `json:"model"`
}

type Searcher interface {
	Search(ctx context.Context, query string) (*Result, error)
}

// StripMarkdown renders markdown as plain text, one line per block. Link
// targets are dropped and their labels kept.
func StripMarkdown(s string) string {
	src := []byte(s)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var b strings.Builder
	newline := func() {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
	}

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				b.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				b.Write(node.Value)
			}
		case *ast.AutoLink:
			b.Write(node.Label(src))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					b.Write(seg.Value(src))
				}
			}
		}

		if !entering && n.Type() == ast.TypeBlock {
			newline()
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}
