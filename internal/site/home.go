package site

import (
	_ "embed"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/genomepuzzle/site/internal/dataset"
)

//go:embed content/home.md
var homeMarkdown []byte

// HomePage is the landing page: the intro copy, then the current dataset's
// downloads when one has been published.
func HomePage(intro []byte, details *dataset.FileDetails) g.Node {
	return h.Main(
		h.Class("flex flex-col max-w-[800px] mx-auto"),
		g.Raw(string(intro)),
		downloads(details),
	)
}

func downloads(d *dataset.FileDetails) g.Node {
	if d == nil {
		return nil
	}
	return h.Section(
		h.ID("downloads"),
		h.H2(g.Text("Current dataset")),
		h.P(
			g.Textf("%d samples", len(d.Samples)),
			g.If(len(d.AnswerSheet.Species) > 0, g.Textf(" covering %d species", len(d.AnswerSheet.Species))),
			g.Text(". Fetch every read pair at once with a download script:"),
		),
		h.Ul(
			g.Map(dataset.Downloaders, func(tool dataset.Downloader) g.Node {
				return h.Li(h.A(h.Href("/"+tool.ScriptName()), g.Text(tool.ScriptName())))
			}),
			h.Li(h.A(h.Href(d.SampleSheet.URL), g.Text(d.SampleSheet.Filename))),
		),
		h.Ul(
			h.Class("samples"),
			g.Map(d.Samples, func(s dataset.SampleLinks) g.Node {
				return h.Li(
					h.Span(g.Text(s.PublicName)),
					g.Text(" "),
					h.A(h.Href(s.R1URL), g.Text("R1")),
					g.Text(" "),
					h.A(h.Href(s.R2URL), g.Text("R2")),
				)
			}),
		),
	)
}
