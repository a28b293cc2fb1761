// Package yoktez is the HTTP client for the thesis center. It owns every
// piece of cross-request state the server has: the request-rate cap, the
// PDF byte cache, and download deduplication. The parsing core above it
// stays stateless.
package yoktez

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/yoktez/yoktez-mcp/config"
	"github.com/yoktez/yoktez-mcp/service/vo"
)

// searchPath is the form action of the detailed search.
const searchPath = "/UlusalTezMerkezi/SearchTez"

// Client talks to the thesis center. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	pdfClient  *http.Client // PDFs are large; double timeout
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	cache      *pdfCache
	group      singleflight.Group
	logger     *zap.Logger
}

// New builds a client from cfg. The logger must not be nil.
func New(cfg *config.Config, logger *zap.Logger) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		pdfClient:  &http.Client{Timeout: 2 * cfg.RequestTimeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		cache:      newPDFCache(cfg.CacheDir, cfg.CacheMaxItems, cfg.CacheMaxMB, cfg.CacheTTL, logger),
		logger:     logger,
	}
}

// BaseURL returns the site root the client is bound to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchSearchResults submits the detailed search form and returns the raw
// result listing, decoded to UTF-8.
func (c *Client) FetchSearchResults(ctx context.Context, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: building search request: %v", vo.ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.fetchHTML(req)
}

// FetchDetailPage fetches a thesis detail page, decoded to UTF-8.
func (c *Client) FetchDetailPage(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building detail request for %s: %v", vo.ErrUpstream, pageURL, err)
	}
	return c.fetchHTML(req)
}

// FetchPDF downloads a thesis PDF. Bytes are cached, and concurrent
// requests for the same document share one download.
func (c *Client) FetchPDF(ctx context.Context, pdfURL string) ([]byte, error) {
	if data, ok := c.cache.get(pdfURL); ok {
		c.logger.Debug("pdf cache hit", zap.String("url", pdfURL))
		return data, nil
	}

	v, err, _ := c.group.Do(pdfURL, func() (interface{}, error) {
		if data, ok := c.cache.get(pdfURL); ok {
			return data, nil
		}
		data, err := c.downloadPDF(ctx, pdfURL)
		if err != nil {
			return nil, err
		}
		c.cache.put(pdfURL, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Client) downloadPDF(ctx context.Context, pdfURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", vo.ErrUpstream, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building pdf request for %s: %v", vo.ErrUpstream, pdfURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.pdfClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: downloading pdf %s: %v", vo.ErrUpstream, pdfURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: pdf download %s returned status %d", vo.ErrUpstream, pdfURL, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading pdf %s: %v", vo.ErrUpstream, pdfURL, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: pdf %s is empty", vo.ErrUpstream, pdfURL)
	}
	c.logger.Debug("pdf downloaded", zap.String("url", pdfURL), zap.Int("bytes", len(data)))
	return data, nil
}

// fetchHTML performs an HTML request under the rate cap and decodes the
// body according to the response charset; the site still serves legacy
// Turkish encodings on some pages.
func (c *Client) fetchHTML(req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("%w: %v", vo.ErrUpstream, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", vo.ErrUpstream, req.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", vo.ErrUpstream, req.URL, resp.StatusCode)
	}

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", vo.ErrUpstream, req.URL, err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", vo.ErrUpstream, req.URL, err)
	}
	return body, nil
}
