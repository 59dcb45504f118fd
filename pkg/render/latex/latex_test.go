package latex_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/numsimcas/pkg/core/cas"
	"github.com/itohio/numsimcas/pkg/render/latex"
)

func TestToLatex_RejectsUnsupportedType(t *testing.T) {
	_, err := latex.ToLatex("not an expr", latex.DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, latex.ErrUnsupportedExpr))
}

func TestToLatex_ExpUsesSuperscript(t *testing.T) {
	x := cas.ScalarSymbol("x")
	s, err := latex.ToLatex(cas.ScalarExp(x), latex.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "e^{x}", s)
}

func TestToLatex_TensorUsesDefaultFontForUnconfiguredRank(t *testing.T) {
	a := cas.TensorSymbol("A", 3, 2)
	s, err := latex.ToLatex(a, latex.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, `\boldsymbol{A}`, s)
}

func TestToLatex_TensorUsesConfiguredFontForRank4(t *testing.T) {
	a := cas.TensorSymbol("C", 3, 4)
	s, err := latex.ToLatex(a, latex.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, `\mathbb{C}`, s)
}

func TestToLatex_TraceUsesMathrmTr(t *testing.T) {
	a := cas.TensorSymbol("A", 3, 2)
	tr, err := cas.TTOSTrace(a)
	require.NoError(t, err)
	s, err := latex.ToLatex(tr, latex.DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, s, `\mathrm{tr}`)
}

func TestToLatex_ZeroConfigFallsBackToDefault(t *testing.T) {
	x := cas.ScalarSymbol("x")
	s, err := latex.ToLatex(x, latex.Config{})
	require.NoError(t, err)
	assert.Equal(t, "x", s)
}

func TestRender_WritesToWriter(t *testing.T) {
	x := cas.ScalarSymbol("x")
	var buf bytes.Buffer
	require.NoError(t, latex.Render(&buf, x, latex.DefaultConfig()))
	assert.Equal(t, "x", buf.String())
}

func TestConfig_WithFontOverridesRank(t *testing.T) {
	cfg := latex.NewConfig(latex.WithFont(2, `\mathbf`))
	assert.Equal(t, `\mathbf`, cfg.FontFor(2))
	assert.Equal(t, `\mathbb`, cfg.FontFor(4))
}

func TestConfig_WithDefaultFontOverridesFallback(t *testing.T) {
	cfg := latex.NewConfig(latex.WithDefaultFont(`\vec`))
	assert.Equal(t, `\vec`, cfg.FontFor(7))
}

func TestConfig_LoadSaveRoundTrip(t *testing.T) {
	cfg := latex.NewConfig(latex.WithFont(2, `\mathbf`), latex.WithDefaultFont(`\vec`))

	var buf bytes.Buffer
	require.NoError(t, cfg.Save(&buf))
	assert.True(t, strings.Contains(buf.String(), "fonts"))

	loaded, err := latex.LoadConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, `\mathbf`, loaded.FontFor(2))
	assert.Equal(t, `\vec`, loaded.FontFor(7))
}

func TestConfig_LoadConfigFillsDefaultWhenBlank(t *testing.T) {
	r := strings.NewReader("fonts:\n  1: \\mathit\n")
	cfg, err := latex.LoadConfig(r)
	require.NoError(t, err)
	assert.Equal(t, `\mathit`, cfg.FontFor(1))
	assert.Equal(t, `\boldsymbol`, cfg.FontFor(9))
}
