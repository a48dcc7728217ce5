package scrape

import (
	"strings"

	"golang.org/x/net/html"
)

// Elements whose text never belongs in scraped page content.
var skipElements = map[string]bool{
	"script": true,
	"style":  true,
	"nav":    true,
	"header": true,
	"footer": true,
	"aside":  true,
}

// findByID returns the first element node carrying the given id attribute.
func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// elementText extracts the whitespace-normalized text of a single subtree.
func elementText(n *html.Node) string {
	var sb strings.Builder
	collectText(n, &sb, false)
	return normalizeSpace(sb.String())
}

// mainContent extracts the whole page's text, skipping non-content elements.
func mainContent(doc *html.Node) string {
	var sb strings.Builder
	collectText(doc, &sb, true)
	return normalizeSpace(sb.String())
}

func collectText(n *html.Node, sb *strings.Builder, skipNonContent bool) {
	if n.Type == html.ElementNode && skipNonContent && skipElements[n.Data] {
		return
	}
	if n.Type == html.TextNode {
		text := strings.TrimSpace(n.Data)
		if text != "" {
			sb.WriteString(text)
			sb.WriteString(" ")
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb, skipNonContent)
	}
}

// normalizeSpace collapses all runs of whitespace into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
