package scrape

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/yoktez/yoktez-mcp/service/vo"
)

// pdfLinkMarker appears in the href of the download anchor when the full
// text is accessible.
const pdfLinkMarker = "TezGoster?key="

// restrictedMarker is the site's wording for theses whose PDF may not be
// published through the database.
const restrictedMarker = "veri tabanı üzerinden yayınlanma izni bulunmamaktadır"

// The citation cell lists labeled lines below the title block.
var citationLabels = []string{"Yazar:", "Danışman:", "Yer Bilgisi:", "Konu:", "Dizin:"}

// ParseDetail extracts a metadata record from a thesis detail page. It
// fails with vo.ErrNotFound when the page does not have the expected
// detail shape (e.g. the site redirected to an error page). A restricted
// thesis still yields its readable metadata with Permitted set to false.
func ParseDetail(raw []byte, pageURL string) (*vo.ThesisMetadata, error) {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing detail page: %v", vo.ErrUpstream, err)
	}

	table := detailTable(doc)
	if table == nil {
		return nil, fmt.Errorf("%w: detail table missing at %s", vo.ErrNotFound, pageURL)
	}
	rows := tableRows(table)
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: detail table has no data row at %s", vo.ErrNotFound, pageURL)
	}
	cells := topCells(rows[1])
	if len(cells) < 4 {
		return nil, fmt.Errorf("%w: detail row incomplete at %s", vo.ErrNotFound, pageURL)
	}

	meta := &vo.ThesisMetadata{
		ThesisNo:      strings.TrimSpace(cellText(cells[0])),
		DetailPageURL: pageURL,
	}

	// A missing download link means the thesis is not accessible, whether
	// the cell carries the refusal wording or something unexpected.
	if link := findAnchor(cells[1], pdfLinkMarker); link != nil {
		meta.Permitted = true
		meta.PDFUrl = resolveHref(pageURL, attrVal(link, "href"))
	}

	parseCitation(cells[2], meta)
	parseStatusColumn(cells[3], meta)

	if td := findByID(table, "td0"); td != nil {
		meta.AbstractTR = nodeMarkdown(td)
	}
	if td := findByID(table, "td1"); td != nil {
		meta.AbstractEN = nodeMarkdown(td)
	}
	return meta, nil
}

// detailTable locates the main metadata table by its fixed attributes.
func detailTable(doc *html.Node) *html.Node {
	for _, t := range elements(doc, "table") {
		if attrVal(t, "width") == "100%" && attrVal(t, "cellspacing") == "0" && attrVal(t, "cellpadding") == "1" {
			return t
		}
	}
	return nil
}

// topCells returns the row's td elements with valign="top"; the detail row
// uses that alignment on its four data cells.
func topCells(row *html.Node) []*html.Node {
	var out []*html.Node
	for _, td := range rowCells(row) {
		if attrVal(td, "valign") == "top" {
			out = append(out, td)
		}
	}
	return out
}

// parseCitation fills the title block and the labeled lines of the
// citation cell. Unlabeled leading lines form the (possibly bilingual)
// title.
func parseCitation(cell *html.Node, meta *vo.ThesisMetadata) {
	lines := cellLines(cell)
	i := 0
	var titleParts []string
	for ; i < len(lines) && !isLabeled(lines[i]); i++ {
		titleParts = append(titleParts, lines[i])
	}
	if len(titleParts) > 0 {
		combined := norm.NFC.String(strings.Join(titleParts, " "))
		split := strings.SplitN(combined, "/", 2)
		meta.Title = strings.TrimSpace(split[0])
		if len(split) > 1 {
			meta.TitleEN = strings.TrimSpace(split[1])
		}
	}
	for ; i < len(lines); i++ {
		line := norm.NFC.String(lines[i])
		switch {
		case strings.HasPrefix(line, "Yazar:"):
			meta.Author = labelValue(line, "Yazar:")
		case strings.HasPrefix(line, "Danışman:"):
			meta.Advisor = labelValue(line, "Danışman:")
		case strings.HasPrefix(line, "Yer Bilgisi:"):
			meta.University = labelValue(line, "Yer Bilgisi:")
		case strings.HasPrefix(line, "Konu:"):
			meta.Subject = labelValue(line, "Konu:")
		case strings.HasPrefix(line, "Dizin:"):
			meta.IndexTerms = labelValue(line, "Dizin:")
		}
	}
}

// parseStatusColumn fills the positional status cell: approval status,
// thesis type, language, year, page count, in that order.
func parseStatusColumn(cell *html.Node, meta *vo.ThesisMetadata) {
	lines := cellLines(cell)
	fields := []*string{&meta.Status, &meta.ThesisType, &meta.Language, &meta.Year, &meta.PageCount}
	for i, f := range fields {
		if i < len(lines) {
			*f = norm.NFC.String(lines[i])
		}
	}
}

func isLabeled(line string) bool {
	for _, label := range citationLabels {
		if strings.HasPrefix(line, label) {
			return true
		}
	}
	return false
}

func labelValue(line, label string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, label))
}

// nodeMarkdown converts an abstract cell to markdown, falling back to its
// plain text when conversion fails.
func nodeMarkdown(n *html.Node) vo.Markdown {
	md, err := htmltomarkdown.ConvertNode(n)
	if err != nil {
		return vo.Markdown(strings.TrimSpace(norm.NFC.String(cellText(n))))
	}
	return vo.Markdown(strings.TrimSpace(norm.NFC.String(string(md))))
}

// resolveHref resolves a (usually relative) link against the page it was
// found on.
func resolveHref(pageURL, href string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
