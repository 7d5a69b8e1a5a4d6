package site

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	g "maragu.dev/gomponents"

	"github.com/genomepuzzle/site/internal/dataset"
	"github.com/genomepuzzle/site/internal/render"
)

// Renderer renders full HTML documents. It holds no per-request state, so
// the same input always produces the same bytes.
type Renderer struct {
	meta    Metadata
	font    Typeface
	baseURL string
	intro   []byte
}

// NewRenderer creates a renderer using the site metadata and the given
// typeface. baseURL is the public origin pages are served from; when set,
// the About and landing documents carry a canonical link under it.
func NewRenderer(font Typeface, baseURL string) (*Renderer, error) {
	intro, err := render.NewMarkdownRenderer().Render(homeMarkdown)
	if err != nil {
		return nil, fmt.Errorf("home page copy: %w", err)
	}
	return &Renderer{
		meta:    DefaultMetadata,
		font:    font,
		baseURL: strings.TrimRight(baseURL, "/"),
		intro:   intro,
	}, nil
}

// Page writes content wrapped in the layout shell. path is the route the
// document is canonical for; empty means it has none.
func (r *Renderer) Page(w io.Writer, path string, content g.Node) error {
	meta := r.meta
	if r.baseURL != "" && path != "" {
		meta.Canonical = r.baseURL + path
	}
	return Layout(meta, r.font, content).Render(w)
}

// RenderAbout produces the About document.
func (r *Renderer) RenderAbout() ([]byte, error) {
	return r.document("/about", AboutPage())
}

// RenderHome produces the landing document. details may be nil.
func (r *Renderer) RenderHome(details *dataset.FileDetails) ([]byte, error) {
	return r.document("/", HomePage(r.intro, details))
}

// RenderError produces an error document.
func (r *Renderer) RenderError(status int, message string) ([]byte, error) {
	return r.document("", ErrorPage(status, message))
}

// RenderNotFound produces the not-found document for path.
func (r *Renderer) RenderNotFound(path string) ([]byte, error) {
	return r.document("", NotFoundPage(path))
}

func (r *Renderer) document(path string, content g.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Page(&buf, path, content); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}
