// Package convert implements PDF-to-markdown conversion and the page
// surgery around it: counting pages and isolating a single page so only
// that page goes through the converter.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/yoktez/yoktez-mcp/service/vo"
)

// Converter turns PDF bytes into markdown text. Implementations wrap
// external renderers.
type Converter interface {
	Convert(ctx context.Context, pdf []byte) (string, error)
}

// Pager counts and isolates PDF pages.
type Pager struct{}

// NewPager returns a Pager.
func NewPager() *Pager {
	return &Pager{}
}

// PageCount returns the number of pages in the document. Unreadable bytes
// fail with vo.ErrConversion.
func (p *Pager) PageCount(pdf []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(pdf), pdfConfig())
	if err != nil {
		return 0, fmt.Errorf("%w: counting pages: %v", vo.ErrConversion, err)
	}
	return count, nil
}

// ExtractPage returns a single-page document holding only the given
// 1-based page. The caller is responsible for range-checking page.
func (p *Pager) ExtractPage(pdf []byte, page int) ([]byte, error) {
	var out bytes.Buffer
	if err := api.Trim(bytes.NewReader(pdf), &out, []string{strconv.Itoa(page)}, pdfConfig()); err != nil {
		return nil, fmt.Errorf("%w: isolating page %d: %v", vo.ErrConversion, page, err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("%w: isolating page %d produced no output", vo.ErrConversion, page)
	}
	return out.Bytes(), nil
}

// pdfConfig returns a fresh relaxed-validation configuration; scanned
// theses are frequently produced by tools that bend the PDF spec.
func pdfConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
