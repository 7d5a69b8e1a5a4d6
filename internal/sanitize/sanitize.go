package sanitize

import "github.com/microcosm-cc/bluemonday"

// policy allows user-generated-content markup: headings, paragraphs,
// lists, links, emphasis and code. Links get rel="nofollow noreferrer".
var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoReferrerOnLinks(true)
	return p
}

// HTML strips everything outside the allowed markup from rendered Markdown.
func HTML(input []byte) []byte {
	return policy.SanitizeBytes(input)
}
