package site

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// AboutHeading is the About page heading.
const AboutHeading = "About Us"

// AboutText is the About page welcome paragraph.
const AboutText = "Welcome to GenomePuzzle! We are dedicated to providing the best resources and tools for genome analysis and research. " +
	"Our mission is to make genome data accessible and understandable for everyone, from researchers to enthusiasts. " +
	"Thank you for visiting our site. If you have any questions or feedback, please feel free to contact us."

// AboutPage is the About page content.
func AboutPage() g.Node {
	return h.Div(
		h.Class("flex flex-col items-center max-w-[800px] mx-auto"),
		h.H1(g.Text(AboutHeading)),
		h.P(g.Text(AboutText)),
	)
}
