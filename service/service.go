// Package service composes the query builder, site client, scrapers, and
// converter into the two operations the tools expose.
package service

import (
	"context"
	"fmt"
	"net/url"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/yoktez/yoktez-mcp/convert"
	"github.com/yoktez/yoktez-mcp/query"
	"github.com/yoktez/yoktez-mcp/scrape"
	"github.com/yoktez/yoktez-mcp/service/vo"
)

// Service is the tool facade. Both operations are single-shot
// request/response transactions; the facade holds no cross-request state.
type Service interface {
	Search(ctx context.Context, criteria vo.SearchCriteria) (*vo.SearchResultPage, error)
	DocumentPage(ctx context.Context, detailPageURL string, pageNumber int) (*vo.DocumentPage, error)
}

// SiteClient fetches raw content from the thesis center.
type SiteClient interface {
	BaseURL() string
	FetchSearchResults(ctx context.Context, form url.Values) ([]byte, error)
	FetchDetailPage(ctx context.Context, pageURL string) ([]byte, error)
	FetchPDF(ctx context.Context, pdfURL string) ([]byte, error)
}

// Pager counts and isolates PDF pages.
type Pager interface {
	PageCount(pdf []byte) (int, error)
	ExtractPage(pdf []byte, page int) ([]byte, error)
}

type service struct {
	site   SiteClient
	pager  Pager
	conv   convert.Converter
	logger *zap.Logger
}

// NewService wires the facade.
func NewService(site SiteClient, pager Pager, conv convert.Converter, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{site: site, pager: pager, conv: conv, logger: logger}
}

func (s *service) Search(ctx context.Context, criteria vo.SearchCriteria) (*vo.SearchResultPage, error) {
	params, err := query.Build(criteria)
	if err != nil {
		return nil, err
	}

	raw, err := s.site.FetchSearchResults(ctx, params.Form)
	if err != nil {
		return nil, err
	}

	page, err := scrape.ParseResults(raw, s.site.BaseURL(), params.Page, params.PerPage)
	if err != nil {
		return nil, err
	}
	if page.SkippedRows > 0 {
		s.logger.Warn("skipped unparseable result rows", zap.Int("skipped", page.SkippedRows), zap.Int("page", page.Page))
	}
	return page, nil
}

func (s *service) DocumentPage(ctx context.Context, detailPageURL string, pageNumber int) (*vo.DocumentPage, error) {
	if pageNumber < 1 {
		return nil, fmt.Errorf("%w: page %d, pages are numbered from 1", vo.ErrPageOutOfRange, pageNumber)
	}

	raw, err := s.site.FetchDetailPage(ctx, detailPageURL)
	if err != nil {
		return nil, err
	}
	meta, err := scrape.ParseDetail(raw, detailPageURL)
	if err != nil {
		return nil, err
	}
	if !meta.Permitted {
		return nil, fmt.Errorf("%w: thesis %s", vo.ErrPermissionDenied, meta.ThesisNo)
	}

	pdf, err := s.site.FetchPDF(ctx, meta.PDFUrl)
	if err != nil {
		return nil, err
	}

	total, err := s.pager.PageCount(pdf)
	if err != nil {
		return nil, err
	}
	if pageNumber > total {
		return nil, fmt.Errorf("%w: page %d of %d", vo.ErrPageOutOfRange, pageNumber, total)
	}

	single, err := s.pager.ExtractPage(pdf, pageNumber)
	if err != nil {
		return nil, err
	}
	markdown, err := s.conv.Convert(ctx, single)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("document page converted",
		zap.String("detail_url", detailPageURL),
		zap.Int("page", pageNumber),
		zap.Int("total_pages", total),
		zap.Int("characters", utf8.RuneCountInString(markdown)),
	)

	return &vo.DocumentPage{
		Markdown:            vo.Markdown(markdown),
		SourceDetailPageURL: detailPageURL,
		RetrievedPDFURL:     meta.PDFUrl,
		PageNumber:          pageNumber,
		TotalPages:          total,
		Paginated:           total > 1,
		Characters:          utf8.RuneCountInString(markdown),
		ThesisTitle:         meta.Title,
		ThesisAuthor:        meta.Author,
	}, nil
}
