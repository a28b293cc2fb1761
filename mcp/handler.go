package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/yoktez/yoktez-mcp/service"
	"github.com/yoktez/yoktez-mcp/service/vo"
)

const Version = "0.1.0"

// SearchRequest carries the tool arguments for the detailed thesis search.
// Parameter names match the site's search vocabulary.
type SearchRequest struct {
	TezAd           string `json:"tez_ad,omitempty"`
	YazarAdSoyad    string `json:"yazar_ad_soyad,omitempty"`
	DanismanAdSoyad string `json:"danisman_ad_soyad,omitempty"`
	UniversiteAd    string `json:"universite_ad,omitempty"`
	EnstituAd       string `json:"enstitu_ad,omitempty"`
	AnabilimDalAd   string `json:"anabilim_dal_ad,omitempty"`
	BilimDalAd      string `json:"bilim_dal_ad,omitempty"`
	TezNo           string `json:"tez_no,omitempty"`
	KonuBasliklari  string `json:"konu_basliklari,omitempty"`
	DizinTerimleri  string `json:"dizin_terimleri,omitempty"`
	OzetMetni       string `json:"ozet_metni,omitempty"`
	TezTuru         string `json:"tez_turu,omitempty"`
	IzinDurumu      string `json:"izin_durumu,omitempty"`
	TezDurumu       string `json:"tez_durumu,omitempty"`
	Dil             string `json:"dil,omitempty"`
	EnstituGrubu    string `json:"enstitu_grubu,omitempty"`
	YilBaslangic    int    `json:"yil_baslangic,omitempty"`
	YilBitis        int    `json:"yil_bitis,omitempty"`
	Page            int    `json:"page,omitempty"`
	ResultsPerPage  int    `json:"results_per_page,omitempty"`
}

// DocumentRequest carries the tool arguments for PDF page retrieval.
type DocumentRequest struct {
	DetailPageURL string `json:"detail_page_url"`
	PageNumber    int    `json:"page_number,omitempty"`
}

// NewServer creates the MCP server with the search and document tools.
func NewServer(svc service.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"YokTez MCP",
		Version,
		server.WithToolCapabilities(false),
	)

	searchTool := mcp.NewTool("search_yok_tez_detailed",
		mcp.WithDescription("Detailed search on the YÖK National Thesis Center. Returns a paginated list of thesis summaries whose detail page URLs feed get_yok_tez_document_markdown."),
		mcp.WithString("tez_ad", mcp.Description("Thesis title to search for, e.g. 'yapay zeka'.")),
		mcp.WithString("yazar_ad_soyad", mcp.Description("Author name and surname. The site matches uppercase, e.g. 'AYŞE YILMAZ'.")),
		mcp.WithString("danisman_ad_soyad", mcp.Description("Advisor name and surname, e.g. 'MEHMET ÖZTÜRK'.")),
		mcp.WithString("universite_ad", mcp.Description("University name, e.g. 'ANKARA ÜNİVERSİTESİ'.")),
		mcp.WithString("enstitu_ad", mcp.Description("Institute name, e.g. 'SOSYAL BİLİMLER ENSTİTÜSÜ'.")),
		mcp.WithString("anabilim_dal_ad", mcp.Description("Main discipline name, e.g. 'İşletme'.")),
		mcp.WithString("bilim_dal_ad", mcp.Description("Specific discipline name, e.g. 'Pazarlama'.")),
		mcp.WithString("tez_no", mcp.Description("Specific thesis number.")),
		mcp.WithString("konu_basliklari", mcp.Description("Subject headings or keywords.")),
		mcp.WithString("dizin_terimleri", mcp.Description("Index terms.")),
		mcp.WithString("ozet_metni", mcp.Description("Text to match inside the thesis abstract.")),
		mcp.WithString("tez_turu", mcp.Description("Thesis type code: 1 master's, 2 doctorate, 3 medical specialty, 4 proficiency in art, 5 dentistry, 6 medical subspecialty, 7 pharmacy.")),
		mcp.WithString("izin_durumu", mcp.Description("PDF permission filter: 1 permitted, 2 restricted.")),
		mcp.WithString("tez_durumu", mcp.Description("Submission status: 3 approved (default), 1 in preparation, 0 all.")),
		mcp.WithString("dil", mcp.Description("Language code: 1 Turkish, 2 English, 3 Arabic, 4 German, 5 French, 6 Spanish, 7 Italian, 8 Russian, 11 Kurdish, 12 Azeri.")),
		mcp.WithString("enstitu_grubu", mcp.Description("Institute group: F science, S social sciences, T medical and health sciences.")),
		mcp.WithNumber("yil_baslangic", mcp.Description("Start year of the range, e.g. 2020. Omit for no lower bound.")),
		mcp.WithNumber("yil_bitis", mcp.Description("End year of the range, e.g. 2023. Omit for no upper bound.")),
		mcp.WithNumber("page", mcp.Description("Result page number, starting at 1.")),
		mcp.WithNumber("results_per_page", mcp.Description("Results per page, 1-20, default 10.")),
	)
	s.AddTool(searchTool, mcp.NewTypedToolHandler(getSearchHandler(svc)))

	documentTool := mcp.NewTool("get_yok_tez_document_markdown",
		mcp.WithDescription("Fetch one page of a thesis PDF as markdown. Takes a detail page URL from search_yok_tez_detailed, checks the access permission, and converts the requested PDF page."),
		mcp.WithString("detail_page_url",
			mcp.Required(),
			mcp.Description("The thesis detail page URL on the YÖK National Thesis Center."),
		),
		mcp.WithNumber("page_number",
			mcp.Description("1-based PDF page number to convert, default 1."),
		),
	)
	s.AddTool(documentTool, mcp.NewTypedToolHandler(getDocumentHandler(svc)))

	return s
}

func getSearchHandler(svc service.Service) func(ctx context.Context, request mcp.CallToolRequest, args SearchRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args SearchRequest) (*mcp.CallToolResult, error) {
		result, err := svc.Search(ctx, args.criteria())
		if err != nil {
			return toolError("search failed", err), nil
		}

		responseBytes, err := json.Marshal(result)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
		}
		return mcp.NewToolResultText(string(responseBytes)), nil
	}
}

func getDocumentHandler(svc service.Service) func(ctx context.Context, request mcp.CallToolRequest, args DocumentRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args DocumentRequest) (*mcp.CallToolResult, error) {
		if args.DetailPageURL == "" {
			return mcp.NewToolResultError("detail_page_url is required"), nil
		}
		pageNumber := args.PageNumber
		if pageNumber == 0 {
			pageNumber = 1
		}

		result, err := svc.DocumentPage(ctx, args.DetailPageURL, pageNumber)
		if err != nil {
			return toolError("document retrieval failed", err), nil
		}

		responseBytes, err := json.Marshal(result)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
		}
		return mcp.NewToolResultText(string(responseBytes)), nil
	}
}

// criteria converts tool arguments into search criteria.
func (r SearchRequest) criteria() vo.SearchCriteria {
	return vo.SearchCriteria{
		TezAd:           r.TezAd,
		YazarAdSoyad:    r.YazarAdSoyad,
		DanismanAdSoyad: r.DanismanAdSoyad,
		UniversiteAd:    r.UniversiteAd,
		EnstituAd:       r.EnstituAd,
		AnabilimDalAd:   r.AnabilimDalAd,
		BilimDalAd:      r.BilimDalAd,
		TezNo:           r.TezNo,
		KonuBasliklari:  r.KonuBasliklari,
		DizinTerimleri:  r.DizinTerimleri,
		OzetMetni:       r.OzetMetni,
		TezTuru:         vo.ThesisType(r.TezTuru),
		IzinDurumu:      vo.PermissionFilter(r.IzinDurumu),
		TezDurumu:       vo.ThesisStatus(r.TezDurumu),
		Dil:             vo.Language(r.Dil),
		EnstituGrubu:    vo.InstituteGroup(r.EnstituGrubu),
		YilBaslangic:    r.YilBaslangic,
		YilBitis:        r.YilBitis,
		Page:            r.Page,
		ResultsPerPage:  r.ResultsPerPage,
	}
}

// toolError shapes a failure as a tool error with a stable kind code that
// clients can branch on.
func toolError(action string, err error) *mcp.CallToolResult {
	if kind := vo.ErrorKind(err); kind != "" {
		return mcp.NewToolResultError(fmt.Sprintf("%s [%s]: %v", action, kind, err))
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", action, err))
}
