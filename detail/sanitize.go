package detail

import (
	"github.com/microcosm-cc/bluemonday"
)

var descriptionPolicy = newDescriptionPolicy()

// Only inline formatting, lists and plain http(s) links survive. Every other
// element is stripped along with all attributes except href.
func newDescriptionPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "b", "strong", "i", "em", "ul", "ol", "li")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https")
	p.RequireParseableURLs(true)
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// SanitizeHTML makes upstream markup safe to render.
func SanitizeHTML(s string) string {
	if s == "" {
		return ""
	}
	return descriptionPolicy.Sanitize(s)
}
