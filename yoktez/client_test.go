package yoktez

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yoktez/yoktez-mcp/config"
	"github.com/yoktez/yoktez-mcp/service/vo"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := &config.Config{
		BaseURL:           baseURL,
		RequestTimeout:    5 * time.Second,
		UserAgent:         "test-agent",
		RequestsPerSecond: 1000, // keep the limiter out of the tests' way
		CacheDir:          t.TempDir(),
		CacheMaxMB:        10,
		CacheMaxItems:     8,
		CacheTTL:          time.Hour,
	}
	return New(cfg, zap.NewNop())
}

func TestFetchSearchResultsPostsForm(t *testing.T) {
	var gotPath, gotIslem, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotIslem = r.PostFormValue("islem")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>sonuç</body></html>"))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	form := url.Values{"islem": {"2"}, "Durum": {"3"}}
	body, err := c.FetchSearchResults(t.Context(), form)
	require.NoError(t, err)

	assert.Equal(t, "/UlusalTezMerkezi/SearchTez", gotPath)
	assert.Equal(t, "2", gotIslem)
	assert.Equal(t, "test-agent", gotUA)
	assert.Contains(t, string(body), "sonuç")
}

func TestFetchDetailPageDecodesLegacyCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-9")
		// "Danışman" in ISO-8859-9: ı is 0xFD, ş is 0xFE.
		w.Write([]byte("Dan\xfd\xfeman"))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	body, err := c.FetchDetailPage(t.Context(), srv.URL+"/UlusalTezMerkezi/tezDetay.jsp?id=x")
	require.NoError(t, err)
	assert.Equal(t, "Danışman", string(body))
}

func TestFetchHTMLUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "kapalı", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.FetchSearchResults(t.Context(), url.Values{})
	require.ErrorIs(t, err, vo.ErrUpstream)
}

func TestFetchPDFCachesDownloads(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	pdfURL := srv.URL + "/UlusalTezMerkezi/TezGoster?key=abc"

	first, err := c.FetchPDF(t.Context(), pdfURL)
	require.NoError(t, err)
	second, err := c.FetchPDF(t.Context(), pdfURL)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetchPDFEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.FetchPDF(t.Context(), srv.URL+"/pdf")
	require.ErrorIs(t, err, vo.ErrUpstream)
}

func TestFetchPDFUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "yok", http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.FetchPDF(t.Context(), srv.URL+"/pdf")
	require.ErrorIs(t, err, vo.ErrUpstream)
}
