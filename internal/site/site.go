// Package site renders the GenomePuzzle pages: a shared layout shell with
// global navigation, and the pages wrapped in it.
package site

import (
	"net/url"
	"strings"
)

// Document metadata shared by every page.
const (
	Title       = "Genome puzzles for Microbial genomes"
	Description = "Created by Nabil-Fareed Alikhan"
)

// StylesheetPath is where the site stylesheet is served from.
const StylesheetPath = "/_genome/globals.css"

// Metadata is what the page head is generated from.
type Metadata struct {
	Title       string
	Description string
	// Canonical is the absolute URL of the page. Empty omits the link.
	Canonical string
}

// DefaultMetadata is the site-wide title and description.
var DefaultMetadata = Metadata{Title: Title, Description: Description}

// NavItem is one global navigation link.
type NavItem struct {
	Label string
	Href  string
}

var navigation = []NavItem{
	{Label: "Home", Href: "/"},
	{Label: "About", Href: "/about"},
	{Label: "Genome assembly puzzle", Href: "/assembly"},
}

// Navigation returns the global navigation links in display order.
func Navigation() []NavItem {
	out := make([]NavItem, len(navigation))
	copy(out, navigation)
	return out
}

// Typeface is a font loaded by family name from a stylesheet provider.
type Typeface struct {
	Family   string
	Provider string // empty: no remote stylesheet, rely on local fonts
}

// ClassName is the CSS class that applies the typeface.
func (t Typeface) ClassName() string {
	var b strings.Builder
	b.WriteString("font-")
	for _, r := range strings.ToLower(t.Family) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// StylesheetURL is the provider URL for the family, or "" without a provider.
func (t Typeface) StylesheetURL() string {
	if t.Provider == "" {
		return ""
	}
	q := url.Values{}
	q.Set("family", t.Family)
	q.Set("display", "swap")
	return t.Provider + "?" + q.Encode()
}

// Rule is the CSS rule behind ClassName.
func (t Typeface) Rule() string {
	family := strings.NewReplacer(`"`, "", `\`, "", "<", "", ">", "").Replace(t.Family)
	return "." + t.ClassName() + ` { font-family: "` + family + `", Georgia, serif; }`
}
