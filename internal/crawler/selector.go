package crawler

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// nextPage resolves the href of the first element matching selector against
// base. Fragment-only and javascript links are ignored.
func nextPage(doc *goquery.Document, selector, base string) (string, bool) {
	if selector == "" {
		return "", false
	}

	href, ok := doc.Find(selector).First().Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return "", false
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", false
	}
	link, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if !link.IsAbs() {
		link = baseURL.ResolveReference(link)
	}
	link.Fragment = ""
	return link.String(), true
}
