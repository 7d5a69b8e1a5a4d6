package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/genomepuzzle/site/internal/sanitize"
)

// MarkdownRenderer renders page copy written in Markdown to HTML.
type MarkdownRenderer struct {
	md goldmark.Markdown
}

// NewMarkdownRenderer creates a renderer with GitHub Flavored Markdown,
// footnotes, definition lists and typographic punctuation.
func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
			extension.Typographer,
		),
	)

	return &MarkdownRenderer{md: md}
}

// Render converts markdown source to sanitized HTML. Raw HTML in the source
// is dropped.
func (r *MarkdownRenderer) Render(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return sanitize.HTML(buf.Bytes()), nil
}
