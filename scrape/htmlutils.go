package scrape

import (
	"strings"

	"golang.org/x/net/html"
)

// findByID finds the first element with the given id attribute.
func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
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

// attrVal returns the value of the named attribute, or "".
func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// elements collects all elements with the given tag name, in document order.
func elements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	if n.Type == html.ElementNode && n.Data == tag {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, elements(c, tag)...)
	}
	return out
}

// tableRows returns the tr elements belonging to table itself, skipping
// rows of nested tables. The parser may or may not insert tbody wrappers,
// so rows are matched by their nearest table ancestor.
func tableRows(table *html.Node) []*html.Node {
	var out []*html.Node
	for _, tr := range elements(table, "tr") {
		if nearestTable(tr) == table {
			out = append(out, tr)
		}
	}
	return out
}

func nearestTable(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "table" {
			return p
		}
	}
	return nil
}

// rowCells returns the td elements directly belonging to the row.
func rowCells(row *html.Node) []*html.Node {
	var out []*html.Node
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "td" {
			out = append(out, c)
		}
	}
	return out
}

// findAnchor finds the first a element whose href contains substr.
func findAnchor(n *html.Node, substr string) *html.Node {
	if n.Type == html.ElementNode && n.Data == "a" && strings.Contains(attrVal(n, "href"), substr) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findAnchor(c, substr); found != nil {
			return found
		}
	}
	return nil
}

// cellText renders the text content of a node with br elements turned into
// newlines, so label/value lines of the site's table cells stay separable.
func cellText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			b.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

// cellLines splits cellText into trimmed, non-empty lines.
func cellLines(n *html.Node) []string {
	var out []string
	for _, line := range strings.Split(cellText(n), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// scriptContents returns the text of every script element in the document.
func scriptContents(doc *html.Node) []string {
	var out []string
	for _, s := range elements(doc, "script") {
		var b strings.Builder
		for c := s.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
		if b.Len() > 0 {
			out = append(out, b.String())
		}
	}
	return out
}
