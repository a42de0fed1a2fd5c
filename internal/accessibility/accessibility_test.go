package accessibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartel-dev/chartel/internal/spec"
)

func TestResolveExplicitMetadata(t *testing.T) {
	s := &spec.ChartSpec{
		Accessibility: spec.Accessibility{
			Title:       "Quarterly revenue",
			Description: "Revenue by region, stacked by year",
		},
	}
	title, desc := Resolve(s)
	assert.Equal(t, "Quarterly revenue", title)
	assert.Equal(t, "Revenue by region, stacked by year", desc)
}

func TestResolveDerivesTitleFromEncoding(t *testing.T) {
	s := &spec.ChartSpec{
		Type: spec.TypeBar,
		Encoding: spec.Encoding{
			Category: spec.FieldRef{Field: "region"},
			Value:    spec.FieldRef{Field: "revenue"},
		},
	}
	title, desc := Resolve(s)
	assert.Equal(t, "bar chart of revenue by region", title)
	assert.Empty(t, desc)
}

func TestCheckPalette(t *testing.T) {
	s := &spec.ChartSpec{}
	s.Style.Background = "#ffffff"
	s.Style.Palette = []string{"#000000", "#fefefe", "not-a-color"}

	issues := CheckPalette(s)
	require.Len(t, issues, 1, "black passes, near-white fails, garbage is skipped")
	assert.Equal(t, "#fefefe", issues[0].Color)
	assert.Less(t, issues[0].Ratio, MinContrastRatio)
	assert.Contains(t, issues[0].String(), "#fefefe")
}

func TestCheckPaletteFlagsLightDefaultColors(t *testing.T) {
	s := &spec.ChartSpec{}
	spec.ApplyDefaults(s)

	flagged := make(map[string]bool)
	for _, issue := range CheckPalette(s) {
		flagged[issue.Color] = true
	}
	assert.False(t, flagged["#4e79a7"], "the dark blue passes on white")
	assert.True(t, flagged["#edc949"], "the light yellow is reported")
}

func TestCheckPaletteUnparsableBackground(t *testing.T) {
	s := &spec.ChartSpec{}
	s.Style.Background = "transparent"
	s.Style.Palette = []string{"#ffffff"}
	assert.Nil(t, CheckPalette(s))
}

func TestParseHex(t *testing.T) {
	c, ok := parseHex("#4e79a7")
	require.True(t, ok)
	assert.InDelta(t, 0x4e/255.0, c.r, 1e-9)
	assert.InDelta(t, 0x79/255.0, c.g, 1e-9)
	assert.InDelta(t, 0xa7/255.0, c.b, 1e-9)

	short, ok := parseHex("#fff")
	require.True(t, ok)
	assert.Equal(t, rgb{1, 1, 1}, short)

	_, ok = parseHex("#12345")
	assert.False(t, ok)
	_, ok = parseHex("red")
	assert.False(t, ok)
}

func TestContrastRatioBounds(t *testing.T) {
	white := luminance(rgb{1, 1, 1})
	black := luminance(rgb{0, 0, 0})

	assert.InDelta(t, 21.0, contrastRatio(white, black), 0.01, "white on black is the WCAG maximum")
	assert.Equal(t, 1.0, contrastRatio(white, white), "identical colors have no contrast")
	assert.Equal(t, contrastRatio(black, white), contrastRatio(white, black), "ratio is symmetric")
}
