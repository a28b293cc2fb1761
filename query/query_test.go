package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoktez/yoktez-mcp/service/vo"
)

func TestBuildDefaults(t *testing.T) {
	params, err := Build(vo.SearchCriteria{TezAd: "yapay zeka"})
	require.NoError(t, err)

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, DefaultPageSize, params.PerPage)
	assert.Equal(t, "yapay zeka", params.Form.Get("TezAd"))
	assert.Equal(t, "2", params.Form.Get("islem"))
	// The status box always carries the site default.
	assert.Equal(t, "3", params.Form.Get("Durum"))
}

func TestBuildOmitsUnsetFields(t *testing.T) {
	params, err := Build(vo.SearchCriteria{})
	require.NoError(t, err)

	for _, key := range []string{"TezAd", "AdSoyad", "DanismanAdSoyad", "uniad", "ensad", "abdad", "bilim", "TezNo", "Konu", "Dizin", "Metin", "Tur", "izin", "Dil", "EnstituGrubu", "yil1", "yil2"} {
		_, present := params.Form[key]
		assert.False(t, present, "unset field %q must not be sent", key)
	}
}

func TestBuildTurkishUppercase(t *testing.T) {
	params, err := Build(vo.SearchCriteria{
		YazarAdSoyad: "ayşe yılmaz",
		UniversiteAd: "istanbul üniversitesi",
	})
	require.NoError(t, err)

	// Dotted i must fold to İ, not I.
	assert.Equal(t, "AYŞE YILMAZ", params.Form.Get("AdSoyad"))
	assert.Equal(t, "İSTANBUL ÜNİVERSİTESİ", params.Form.Get("uniad"))
}

func TestBuildYearRange(t *testing.T) {
	params, err := Build(vo.SearchCriteria{YilBaslangic: 2020, YilBitis: 2023})
	require.NoError(t, err)
	assert.Equal(t, "2020", params.Form.Get("yil1"))
	assert.Equal(t, "2023", params.Form.Get("yil2"))

	// Open-ended ranges are valid.
	params, err = Build(vo.SearchCriteria{YilBaslangic: 2020})
	require.NoError(t, err)
	assert.Equal(t, "2020", params.Form.Get("yil1"))
	assert.Empty(t, params.Form.Get("yil2"))
}

func TestBuildInvalidYearRange(t *testing.T) {
	_, err := Build(vo.SearchCriteria{YilBaslangic: 2023, YilBitis: 2020})
	require.ErrorIs(t, err, vo.ErrInvalidRange)
}

func TestBuildPageSizeClamp(t *testing.T) {
	params, err := Build(vo.SearchCriteria{Page: 3, ResultsPerPage: 50})
	require.NoError(t, err)
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, MaxPageSize, params.PerPage)

	params, err = Build(vo.SearchCriteria{Page: -2, ResultsPerPage: -1})
	require.NoError(t, err)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, DefaultPageSize, params.PerPage)
}

func TestBuildEnumFields(t *testing.T) {
	params, err := Build(vo.SearchCriteria{
		TezTuru:      vo.ThesisTypeDoctorate,
		IzinDurumu:   vo.PermissionPermitted,
		Dil:          vo.LanguageTurkish,
		EnstituGrubu: vo.InstituteGroupScience,
		TezDurumu:    vo.StatusAll,
	})
	require.NoError(t, err)
	assert.Equal(t, "2", params.Form.Get("Tur"))
	assert.Equal(t, "1", params.Form.Get("izin"))
	assert.Equal(t, "1", params.Form.Get("Dil"))
	assert.Equal(t, "F", params.Form.Get("EnstituGrubu"))
	assert.Equal(t, "0", params.Form.Get("Durum"))

	// "Any" selections are omitted, matching the site's blank form.
	params, err = Build(vo.SearchCriteria{TezTuru: vo.ThesisTypeAny, IzinDurumu: vo.PermissionAny, Dil: vo.LanguageAny})
	require.NoError(t, err)
	for _, key := range []string{"Tur", "izin", "Dil", "EnstituGrubu"} {
		_, present := params.Form[key]
		assert.False(t, present, "%q must be omitted for 'any'", key)
	}
}
