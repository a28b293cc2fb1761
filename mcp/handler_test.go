package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoktez/yoktez-mcp/service/vo"
)

// fakeService returns canned results so the handlers can be exercised
// without any site traffic.
type fakeService struct {
	searchResult *vo.SearchResultPage
	searchErr    error
	pageResult   *vo.DocumentPage
	pageErr      error

	gotCriteria vo.SearchCriteria
	gotURL      string
	gotPage     int
}

func (f *fakeService) Search(_ context.Context, criteria vo.SearchCriteria) (*vo.SearchResultPage, error) {
	f.gotCriteria = criteria
	return f.searchResult, f.searchErr
}

func (f *fakeService) DocumentPage(_ context.Context, detailPageURL string, pageNumber int) (*vo.DocumentPage, error) {
	f.gotURL = detailPageURL
	f.gotPage = pageNumber
	return f.pageResult, f.pageErr
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return text.Text
}

func TestNewServer(t *testing.T) {
	s := NewServer(&fakeService{})
	require.NotNil(t, s)
}

func TestSearchHandler(t *testing.T) {
	total := 1
	svc := &fakeService{
		searchResult: &vo.SearchResultPage{
			Theses: []vo.ThesisSummary{{
				ThesisNo:      "800001",
				Title:         "Yapay zeka destekli sistemler",
				ThesisKey:     "key1",
				DetailPageURL: "https://tez.example/UlusalTezMerkezi/tezDetay.jsp?id=key1",
			}},
			TotalResults: &total,
			Page:         1,
			PerPage:      10,
			TotalPages:   &total,
		},
	}
	handler := getSearchHandler(svc)

	args := SearchRequest{KonuBasliklari: "yapay zeka", YilBaslangic: 2020, TezTuru: "1"}
	result, err := handler(t.Context(), mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Equal(t, "yapay zeka", svc.gotCriteria.KonuBasliklari)
	assert.Equal(t, 2020, svc.gotCriteria.YilBaslangic)
	assert.Equal(t, vo.ThesisTypeMasters, svc.gotCriteria.TezTuru)

	var page vo.SearchResultPage
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &page))
	require.Len(t, page.Theses, 1)
	assert.Equal(t, "800001", page.Theses[0].ThesisNo)
}

func TestSearchHandlerErrorKind(t *testing.T) {
	svc := &fakeService{searchErr: fmt.Errorf("%w: start 2024 after end 2020", vo.ErrInvalidRange)}
	handler := getSearchHandler(svc)

	result, err := handler(t.Context(), mcp.CallToolRequest{}, SearchRequest{})
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "[invalid_range]")
}

func TestDocumentHandler(t *testing.T) {
	svc := &fakeService{
		pageResult: &vo.DocumentPage{
			Markdown:            "# Sayfa",
			SourceDetailPageURL: "https://tez.example/UlusalTezMerkezi/tezDetay.jsp?id=key1",
			PageNumber:          2,
			TotalPages:          5,
			Paginated:           true,
			Characters:          7,
		},
	}
	handler := getDocumentHandler(svc)

	args := DocumentRequest{DetailPageURL: "https://tez.example/UlusalTezMerkezi/tezDetay.jsp?id=key1", PageNumber: 2}
	result, err := handler(t.Context(), mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, 2, svc.gotPage)

	var page vo.DocumentPage
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &page))
	assert.Equal(t, vo.Markdown("# Sayfa"), page.Markdown)
	assert.Equal(t, 5, page.TotalPages)
}

func TestDocumentHandlerDefaultsPageNumber(t *testing.T) {
	svc := &fakeService{pageResult: &vo.DocumentPage{Markdown: "x", PageNumber: 1, TotalPages: 1}}
	handler := getDocumentHandler(svc)

	_, err := handler(t.Context(), mcp.CallToolRequest{}, DocumentRequest{DetailPageURL: "https://tez.example/x"})
	require.NoError(t, err)
	assert.Equal(t, 1, svc.gotPage)
}

func TestDocumentHandlerMissingURL(t *testing.T) {
	handler := getDocumentHandler(&fakeService{})

	result, err := handler(t.Context(), mcp.CallToolRequest{}, DocumentRequest{})
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "detail_page_url")
}

func TestDocumentHandlerPermissionDenied(t *testing.T) {
	svc := &fakeService{pageErr: fmt.Errorf("%w: thesis 800002", vo.ErrPermissionDenied)}
	handler := getDocumentHandler(svc)

	result, err := handler(t.Context(), mcp.CallToolRequest{}, DocumentRequest{DetailPageURL: "https://tez.example/x"})
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "[permission_denied]")
}
