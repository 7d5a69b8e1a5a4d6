package site

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Layout wraps content in the document shell: English document, metadata
// head, typeface on the body and the global navigation before the content.
func Layout(meta Metadata, font Typeface, content ...g.Node) g.Node {
	return h.Doctype(
		h.HTML(
			h.Lang("en"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				h.TitleEl(g.Text(meta.Title)),
				h.Meta(h.Name("description"), h.Content(meta.Description)),
				g.If(meta.Canonical != "", h.Link(h.Rel("canonical"), h.Href(meta.Canonical))),
				g.If(meta.Canonical != "", h.Meta(g.Attr("property", "og:url"), h.Content(meta.Canonical))),
				g.If(font.Provider != "", h.Link(h.Rel("stylesheet"), h.Href(font.StylesheetURL()))),
				h.Link(h.Rel("stylesheet"), h.Href(StylesheetPath)),
				h.StyleEl(g.Raw(font.Rule())),
			),
			h.Body(
				h.Class(font.ClassName()+" antialiased"),
				Nav(),
				g.Group(content),
			),
		),
	)
}

// Nav renders the global navigation list.
func Nav() g.Node {
	return h.Nav(
		h.Ul(
			h.Class("flex space-x-4"),
			g.Map(navigation, func(item NavItem) g.Node {
				return h.Li(
					h.Class("font-bold mr-6"),
					h.A(h.Href(item.Href), g.Text(item.Label)),
				)
			}),
		),
	)
}
