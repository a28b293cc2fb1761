// Package query maps search criteria onto the thesis center's detailed
// search form ("Detaylı Tarama"). Unset criteria are omitted entirely; the
// site treats a missing field as "no filter".
package query

import (
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yoktez/yoktez-mcp/service/vo"
)

const (
	// DefaultPageSize is used when the caller does not ask for a page size.
	DefaultPageSize = 10
	// MaxPageSize is the largest page size the site renders per batch.
	MaxPageSize = 20

	// detailedSearchMode is the hidden "islem" form value that selects the
	// detailed search code path on the site.
	detailedSearchMode = "2"
)

// Params is a built request: the form values to submit plus normalized
// pagination. Page and PerPage are kept out of the form because the site
// returns one batch and pagination is bookkeeping on our side.
type Params struct {
	Form    url.Values
	Page    int
	PerPage int
}

// Build validates criteria and produces the site form values. The year
// range must satisfy start <= end when both bounds are set; otherwise it
// fails with vo.ErrInvalidRange. Page defaults to 1, PerPage to
// DefaultPageSize, clamped to MaxPageSize.
func Build(c vo.SearchCriteria) (Params, error) {
	if c.YilBaslangic > 0 && c.YilBitis > 0 && c.YilBaslangic > c.YilBitis {
		return Params{}, fmt.Errorf("%w: start %d after end %d", vo.ErrInvalidRange, c.YilBaslangic, c.YilBitis)
	}

	// The site folds name and institution fields to uppercase before
	// matching. Turkish casing (dotted vs dotless i) matters, so
	// strings.ToUpper is not usable here.
	upper := cases.Upper(language.Turkish)

	form := url.Values{}
	form.Set("islem", detailedSearchMode)

	setIf(form, "TezAd", c.TezAd)
	setIf(form, "AdSoyad", upperIf(upper, c.YazarAdSoyad))
	setIf(form, "DanismanAdSoyad", upperIf(upper, c.DanismanAdSoyad))
	setIf(form, "uniad", upperIf(upper, c.UniversiteAd))
	setIf(form, "ensad", upperIf(upper, c.EnstituAd))
	setIf(form, "abdad", c.AnabilimDalAd)
	setIf(form, "bilim", c.BilimDalAd)
	setIf(form, "TezNo", c.TezNo)
	setIf(form, "Konu", c.KonuBasliklari)
	setIf(form, "Dizin", c.DizinTerimleri)
	setIf(form, "Metin", c.OzetMetni)

	if c.TezTuru != "" && c.TezTuru != vo.ThesisTypeAny {
		form.Set("Tur", string(c.TezTuru))
	}
	if c.IzinDurumu != "" && c.IzinDurumu != vo.PermissionAny {
		form.Set("izin", string(c.IzinDurumu))
	}
	// The status box always carries a value; the site's default is "Approved".
	status := c.TezDurumu
	if status == "" {
		status = vo.StatusApproved
	}
	form.Set("Durum", string(status))
	if c.Dil != "" && c.Dil != vo.LanguageAny {
		form.Set("Dil", string(c.Dil))
	}
	if c.EnstituGrubu != vo.InstituteGroupAny {
		form.Set("EnstituGrubu", string(c.EnstituGrubu))
	}

	if c.YilBaslangic > 0 {
		form.Set("yil1", strconv.Itoa(c.YilBaslangic))
	}
	if c.YilBitis > 0 {
		form.Set("yil2", strconv.Itoa(c.YilBitis))
	}

	page := c.Page
	if page < 1 {
		page = 1
	}
	perPage := c.ResultsPerPage
	if perPage < 1 {
		perPage = DefaultPageSize
	}
	if perPage > MaxPageSize {
		perPage = MaxPageSize
	}

	return Params{Form: form, Page: page, PerPage: perPage}, nil
}

func setIf(form url.Values, key, value string) {
	if value != "" {
		form.Set(key, value)
	}
}

func upperIf(c cases.Caser, value string) string {
	if value == "" {
		return ""
	}
	return c.String(value)
}
