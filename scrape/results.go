// Package scrape turns the thesis center's HTML into value objects: result
// listings into paginated summary pages, detail pages into metadata
// records.
package scrape

import (
	"bytes"
	"fmt"
	stdhtml "html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/yoktez/yoktez-mcp/service/vo"
)

// The result listing is rendered client-side: the server embeds one batch
// of rows as "var doc = {...};" literals inside the WATable bootstrap
// script, and a banner div reports the total count. Parsing therefore
// works on the script text, not on table markup.
var (
	totalRe   = regexp.MustCompile(`(\d+)\s*kayıt bulundu`)
	docRe     = regexp.MustCompile(`(?s)var doc = \{(.+?)\};`)
	rowHeadRe = regexp.MustCompile(`(?s)userId:\s*"<span[^>]*onclick=tezDetay\(\s*'([^']+)'\s*,\s*'[^']*'\s*\)>([^<]+)</span>"`)
	authorRe  = regexp.MustCompile(`name:\s*"([^"]*)"`)
	yearRe    = regexp.MustCompile(`age:\s*"([^"]*)"`)
	titleRe   = regexp.MustCompile(`(?s)weight:\s*"((?:[^"\\]|\\.)*)"`)
	uniRe     = regexp.MustCompile(`uni:\s*"([^"]*)"`)
	typeRe    = regexp.MustCompile(`important:\s*"([^"]*)"`)
	subjectRe = regexp.MustCompile(`someDate:\s*"([^"]*)"`)
	brSplitRe = regexp.MustCompile(`(?i)<br\s*/?>`)
)

// stripTags removes every element from embedded HTML fragments, leaving
// escaped text only.
var stripTags = bluemonday.StrictPolicy()

const detailPagePath = "/UlusalTezMerkezi/tezDetay.jsp"

// DetailPageURL builds the detail page address for a thesis key.
func DetailPageURL(baseURL, thesisKey string) string {
	return baseURL + detailPagePath + "?id=" + url.QueryEscape(thesisKey)
}

// ParseResults assembles one page of search results from a raw result
// listing. Rows missing their thesis key or title are skipped and counted,
// never fatal. The requested page is sliced out of the embedded batch;
// ordering is preserved as returned by the site.
func ParseResults(raw []byte, baseURL string, page, perPage int) (*vo.SearchResultPage, error) {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing result listing: %v", vo.ErrUpstream, err)
	}

	total := -1 // -1: site did not report a count
	if banner := findByID(doc, "divuyari"); banner != nil {
		text := cellText(banner)
		if m := totalRe.FindStringSubmatch(text); m != nil {
			total, _ = strconv.Atoi(m[1])
		}
		lower := strings.ToLower(text)
		if strings.Contains(lower, "kayıt bulunamadı") || strings.Contains(lower, "tez bulunamadı") {
			total = 0
		}
	}

	script := resultScript(doc)
	if script == "" {
		if total == 0 {
			zero := 0
			return &vo.SearchResultPage{Theses: []vo.ThesisSummary{}, TotalResults: &zero, TotalPages: &zero, Page: page, PerPage: perPage}, nil
		}
		return nil, fmt.Errorf("%w: result listing carries no row data", vo.ErrUpstream)
	}

	var all []vo.ThesisSummary
	skipped := 0
	for _, m := range docRe.FindAllStringSubmatch(script, -1) {
		row, ok := parseRow(m[1], baseURL)
		if !ok {
			skipped++
			continue
		}
		all = append(all, row)
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}
	theses := all[start:end]

	result := &vo.SearchResultPage{
		Theses:      theses,
		Page:        page,
		PerPage:     perPage,
		SkippedRows: skipped,
	}
	switch {
	case total >= 0:
		result.TotalResults = &total
		pages := 0
		if total > 0 {
			pages = (total + perPage - 1) / perPage
		}
		result.TotalPages = &pages
	case end == len(all):
		// Last page of the batch: estimate from what is visible. Anything
		// earlier stays an explicit unknown.
		estimate := len(theses) * page
		pages := page
		if len(theses) == 0 {
			pages = 0
		}
		result.TotalResults = &estimate
		result.TotalPages = &pages
	}
	return result, nil
}

// resultScript finds the script that bootstraps the result table.
func resultScript(doc *html.Node) string {
	for _, s := range scriptContents(doc) {
		if strings.Contains(s, "WATable") && strings.Contains(s, "function getData()") {
			return s
		}
	}
	return ""
}

// parseRow extracts one summary from a "var doc" literal. The thesis key
// and a title are mandatory; everything else may be absent.
func parseRow(body, baseURL string) (vo.ThesisSummary, bool) {
	head := rowHeadRe.FindStringSubmatch(body)
	if head == nil {
		return vo.ThesisSummary{}, false
	}
	key := strings.TrimSpace(head[1])
	thesisNo := strings.TrimSpace(head[2])
	if key == "" {
		return vo.ThesisSummary{}, false
	}

	title := ""
	if m := titleRe.FindStringSubmatch(body); m != nil {
		title = parseEmbeddedTitle(m[1])
	}
	if title == "" {
		return vo.ThesisSummary{}, false
	}

	row := vo.ThesisSummary{
		ThesisNo:      thesisNo,
		Title:         title,
		ThesisKey:     key,
		DetailPageURL: DetailPageURL(baseURL, key),
	}
	if m := authorRe.FindStringSubmatch(body); m != nil {
		row.Author = cleanFragment(m[1])
	}
	if m := yearRe.FindStringSubmatch(body); m != nil {
		row.Year = strings.TrimSpace(m[1])
	}
	if m := uniRe.FindStringSubmatch(body); m != nil {
		row.University = cleanFragment(m[1])
	}
	if m := typeRe.FindStringSubmatch(body); m != nil {
		row.ThesisType = cleanFragment(m[1])
	}
	if m := subjectRe.FindStringSubmatch(body); m != nil {
		row.Subject = joinSubjects(cleanFragment(m[1]))
	}
	return row, true
}

// parseEmbeddedTitle renders the "weight" fragment: an HTML snippet with
// the original title before a br and the translated title after it.
func parseEmbeddedTitle(raw string) string {
	decoded := decodeJSString(raw)
	var parts []string
	for _, chunk := range brSplitRe.Split(decoded, -1) {
		if chunk = strings.Trim(cleanFragment(chunk), "' "); chunk != "" {
			parts = append(parts, chunk)
		}
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return parts[0] + " / " + strings.Join(parts[1:], " / ")
}

// decodeJSString resolves backslash escapes (\", \\, \uXXXX) in a
// JavaScript string literal body.
func decodeJSString(raw string) string {
	if !strings.Contains(raw, `\`) {
		return raw
	}
	if unquoted, err := strconv.Unquote(`"` + raw + `"`); err == nil {
		return unquoted
	}
	return raw
}

// cleanFragment strips markup and entities and normalizes to NFC, the
// fixups the site's mixed encodings tend to need.
func cleanFragment(s string) string {
	s = stripTags.Sanitize(s)
	s = stdhtml.UnescapeString(s)
	return strings.TrimSpace(norm.NFC.String(s))
}

// joinSubjects normalizes the ;-separated subject list spacing.
func joinSubjects(s string) string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, "; ")
}
