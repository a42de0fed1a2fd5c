// Package accessibility resolves a spec's assistive metadata into the
// attributes carried on exported documents, and checks palette contrast.
package accessibility

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/chartel-dev/chartel/internal/spec"
)

// Resolve produces the title and description for a chart's exports. When
// the spec carries no explicit metadata, a serviceable title is derived
// from the encoding so screen readers never meet an unnamed graphic.
func Resolve(s *spec.ChartSpec) (title, description string) {
	title = s.Accessibility.Title
	description = s.Accessibility.Description
	if title == "" {
		title = fmt.Sprintf("%s chart of %s by %s", s.Type, s.Encoding.Value.Field, s.Encoding.Category.Field)
	}
	return title, description
}

// MinContrastRatio is the WCAG AA threshold for graphical objects.
const MinContrastRatio = 3.0

// ContrastIssue reports a palette color too close to the background.
type ContrastIssue struct {
	Color string
	Ratio float64
}

func (i ContrastIssue) String() string {
	return fmt.Sprintf("palette color %s has contrast ratio %.2f against the background (minimum %.1f)", i.Color, i.Ratio, MinContrastRatio)
}

// CheckPalette computes the contrast ratio of each palette color against
// the background and reports those below the AA threshold. Unparsable
// colors are skipped.
func CheckPalette(s *spec.ChartSpec) []ContrastIssue {
	bg, ok := parseHex(s.Style.Background)
	if !ok {
		return nil
	}
	var issues []ContrastIssue
	for _, c := range s.Style.Palette {
		rgb, ok := parseHex(c)
		if !ok {
			continue
		}
		ratio := contrastRatio(luminance(rgb), luminance(bg))
		if ratio < MinContrastRatio {
			issues = append(issues, ContrastIssue{Color: c, Ratio: ratio})
		}
	}
	return issues
}

type rgb struct{ r, g, b float64 }

func parseHex(s string) (rgb, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return rgb{}, false
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{
		r: float64(n>>16&0xff) / 255,
		g: float64(n>>8&0xff) / 255,
		b: float64(n&0xff) / 255,
	}, true
}

// luminance implements the WCAG relative luminance formula.
func luminance(c rgb) float64 {
	lin := func(v float64) float64 {
		if v <= 0.03928 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.r) + 0.7152*lin(c.g) + 0.0722*lin(c.b)
}

func contrastRatio(l1, l2 float64) float64 {
	if l2 > l1 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}
