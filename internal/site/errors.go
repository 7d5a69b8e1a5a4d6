package site

import (
	"net/http"
	"strconv"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// ErrorPage is the content shown for a failed request.
func ErrorPage(status int, message string) g.Node {
	return h.Div(
		h.ID("error"),
		h.Class("flex flex-col items-center max-w-[800px] mx-auto"),
		g.Attr("data-status-code", strconv.Itoa(status)),
		h.H1(g.Textf("%d %s", status, http.StatusText(status))),
		h.P(g.Text(message)),
	)
}

// NotFoundPage is the content shown for an unknown path.
func NotFoundPage(path string) g.Node {
	return ErrorPage(http.StatusNotFound, "Nothing lives at "+path+".")
}
