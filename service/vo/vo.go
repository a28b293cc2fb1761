package vo

// Markdown is converted document content.
type Markdown string

// ThesisType mirrors the values of the site's "Tur" select box.
type ThesisType string

const (
	ThesisTypeAny                 ThesisType = "0"
	ThesisTypeMasters             ThesisType = "1"
	ThesisTypeDoctorate           ThesisType = "2"
	ThesisTypeMedicalSpecialty    ThesisType = "3"
	ThesisTypeProficiencyInArt    ThesisType = "4"
	ThesisTypeDentistrySpecialty  ThesisType = "5"
	ThesisTypeMedicalSubspecialty ThesisType = "6"
	ThesisTypePharmacySpecialty   ThesisType = "7"
)

// PermissionFilter mirrors the "izin" select box (PDF access permission).
type PermissionFilter string

const (
	PermissionAny        PermissionFilter = "0"
	PermissionPermitted  PermissionFilter = "1"
	PermissionRestricted PermissionFilter = "2"
)

// ThesisStatus mirrors the "Durum" select box (submission status).
type ThesisStatus string

const (
	StatusAll           ThesisStatus = "0"
	StatusInPreparation ThesisStatus = "1"
	StatusApproved      ThesisStatus = "3"
)

// Language mirrors the "Dil" select box.
type Language string

const (
	LanguageAny     Language = "0"
	LanguageTurkish Language = "1"
	LanguageEnglish Language = "2"
	LanguageArabic  Language = "3"
	LanguageGerman  Language = "4"
	LanguageFrench  Language = "5"
	LanguageSpanish Language = "6"
	LanguageItalian Language = "7"
	LanguageRussian Language = "8"
	LanguageKurdish Language = "11"
	LanguageAzeri   Language = "12"
)

// InstituteGroup mirrors the "EnstituGrubu" select box. The site uses an
// empty value for "not selected".
type InstituteGroup string

const (
	InstituteGroupAny           InstituteGroup = ""
	InstituteGroupScience       InstituteGroup = "F"
	InstituteGroupSocial        InstituteGroup = "S"
	InstituteGroupMedicalHealth InstituteGroup = "T"
)

// SearchCriteria holds the optional fields of the site's detailed search
// form. Zero values mean "no filter". Field names follow the site's form
// vocabulary so tool parameters and form fields stay recognizably aligned.
type SearchCriteria struct {
	TezAd           string           `json:"tez_ad,omitempty"`            // thesis title
	YazarAdSoyad    string           `json:"yazar_ad_soyad,omitempty"`    // author name
	DanismanAdSoyad string           `json:"danisman_ad_soyad,omitempty"` // advisor name
	UniversiteAd    string           `json:"universite_ad,omitempty"`
	EnstituAd       string           `json:"enstitu_ad,omitempty"`
	AnabilimDalAd   string           `json:"anabilim_dal_ad,omitempty"` // main discipline
	BilimDalAd      string           `json:"bilim_dal_ad,omitempty"`    // specific discipline
	TezNo           string           `json:"tez_no,omitempty"`
	KonuBasliklari  string           `json:"konu_basliklari,omitempty"` // subject headings
	DizinTerimleri  string           `json:"dizin_terimleri,omitempty"` // index terms
	OzetMetni       string           `json:"ozet_metni,omitempty"`      // abstract full text
	TezTuru         ThesisType       `json:"tez_turu,omitempty"`
	IzinDurumu      PermissionFilter `json:"izin_durumu,omitempty"`
	TezDurumu       ThesisStatus     `json:"tez_durumu,omitempty"`
	Dil             Language         `json:"dil,omitempty"`
	EnstituGrubu    InstituteGroup   `json:"enstitu_grubu,omitempty"`
	YilBaslangic    int              `json:"yil_baslangic,omitempty"` // start year, 0 = unset
	YilBitis        int              `json:"yil_bitis,omitempty"`     // end year, 0 = unset
	Page            int              `json:"page,omitempty"`
	ResultsPerPage  int              `json:"results_per_page,omitempty"`
}

// ThesisSummary is one row of a search result listing.
type ThesisSummary struct {
	ThesisNo      string `json:"thesis_no"`
	Title         string `json:"title"` // possibly bilingual, "TR title / EN title"
	Author        string `json:"author,omitempty"`
	Year          string `json:"year,omitempty"`
	University    string `json:"university_info,omitempty"`
	ThesisType    string `json:"thesis_type,omitempty"`
	Subject       string `json:"subject,omitempty"`
	ThesisKey     string `json:"thesis_key"`
	DetailPageURL string `json:"detail_page_url"`
}

// SearchResultPage is one page of assembled search results. TotalResults
// and TotalPages are nil when the site did not report a count.
type SearchResultPage struct {
	Theses       []ThesisSummary `json:"theses"`
	TotalResults *int            `json:"total_results_found,omitempty"`
	Page         int             `json:"current_page"`
	PerPage      int             `json:"results_per_page"`
	TotalPages   *int            `json:"total_pages,omitempty"`
	SkippedRows  int             `json:"skipped_rows,omitempty"`
}

// ThesisMetadata is the parsed content of a thesis detail page. When
// Permitted is false the PDF is not downloadable and PDFUrl is empty.
type ThesisMetadata struct {
	ThesisNo      string   `json:"thesis_no,omitempty"`
	Title         string   `json:"title,omitempty"`    // Turkish title
	TitleEN       string   `json:"title_en,omitempty"` // English title, if bilingual
	Author        string   `json:"author,omitempty"`
	Advisor       string   `json:"advisor,omitempty"`
	University    string   `json:"university_info,omitempty"`
	Subject       string   `json:"subject,omitempty"`
	IndexTerms    string   `json:"index_terms,omitempty"`
	Status        string   `json:"status,omitempty"`
	ThesisType    string   `json:"thesis_type,omitempty"`
	Language      string   `json:"language,omitempty"`
	Year          string   `json:"year,omitempty"`
	PageCount     string   `json:"pages,omitempty"`
	AbstractTR    Markdown `json:"abstract_tr,omitempty"`
	AbstractEN    Markdown `json:"abstract_en,omitempty"`
	Permitted     bool     `json:"is_pdf_permitted"`
	PDFUrl        string   `json:"pdf_url,omitempty"`
	DetailPageURL string   `json:"detail_page_url,omitempty"`
}

// DisplayTitle joins the Turkish and English titles the way result rows do.
func (m *ThesisMetadata) DisplayTitle() string {
	switch {
	case m.TitleEN == "":
		return m.Title
	case m.Title == "":
		return m.TitleEN
	}
	return m.Title + " / " + m.TitleEN
}

// DocumentPage is the markdown rendition of one PDF page.
type DocumentPage struct {
	Markdown            Markdown `json:"page_markdown_content"`
	SourceDetailPageURL string   `json:"source_detail_page_url"`
	RetrievedPDFURL     string   `json:"retrieved_pdf_url,omitempty"`
	PageNumber          int      `json:"current_pdf_page"`
	TotalPages          int      `json:"total_pdf_pages"`
	Paginated           bool     `json:"is_paginated"`
	Characters          int      `json:"characters_on_page"`
	ThesisTitle         string   `json:"thesis_title,omitempty"`
	ThesisAuthor        string   `json:"thesis_author,omitempty"`
}
