package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoktez/yoktez-mcp/service/vo"
)

func TestPageCountRejectsGarbage(t *testing.T) {
	p := NewPager()

	_, err := p.PageCount([]byte("bu bir pdf değil"))
	require.ErrorIs(t, err, vo.ErrConversion)
}

func TestExtractPageRejectsGarbage(t *testing.T) {
	p := NewPager()

	_, err := p.ExtractPage([]byte("bu bir pdf değil"), 1)
	require.ErrorIs(t, err, vo.ErrConversion)
}

func TestNewMarkitdownConverterMissingExecutable(t *testing.T) {
	_, err := NewMarkitdownConverter("definitely-not-a-real-binary-name")
	require.Error(t, err)
}

func TestMarkitdownConvertPipesStdout(t *testing.T) {
	// cat echoes stdin so the converter's plumbing can be checked without
	// the real executable.
	c, err := NewMarkitdownConverter("cat")
	require.NoError(t, err)

	out, err := c.Convert(t.Context(), []byte("# Başlık\n\nMetin"))
	require.NoError(t, err)
	assert.Equal(t, "# Başlık\n\nMetin", out)
}

func TestMarkitdownConvertFailure(t *testing.T) {
	c, err := NewMarkitdownConverter("false")
	require.NoError(t, err)

	_, err = c.Convert(t.Context(), []byte("%PDF"))
	require.ErrorIs(t, err, vo.ErrConversion)
}

func TestMarkitdownConvertEmptyOutput(t *testing.T) {
	c, err := NewMarkitdownConverter("true")
	require.NoError(t, err)

	out, err := c.Convert(t.Context(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
