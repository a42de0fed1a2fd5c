package render

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders numeric mark labels: percentage format for percent
// mode, magnitude-suffixed format otherwise, honoring the spec locale.
type Formatter struct {
	printer *message.Printer
	percent bool
}

// NewFormatter builds a formatter for the given BCP 47 locale tag. An
// unparsable locale falls back to English rather than failing the render.
func NewFormatter(locale string, percent bool) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Formatter{printer: message.NewPrinter(tag), percent: percent}
}

// Format produces the label text for one mark value.
func (f *Formatter) Format(v float64) string {
	if f.percent {
		return f.printer.Sprintf("%.1f%%", v*100)
	}
	return f.magnitude(v)
}

// magnitude renders 1234 as "1.2K", 5600000 as "5.6M", and small values
// with at most one decimal place.
func (f *Formatter) magnitude(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e9:
		return f.printer.Sprintf("%.1fB", v/1e9)
	case abs >= 1e6:
		return f.printer.Sprintf("%.1fM", v/1e6)
	case abs >= 1e3:
		return f.printer.Sprintf("%.1fK", v/1e3)
	case abs == math.Trunc(abs):
		return f.printer.Sprintf("%d", int64(v))
	default:
		return f.printer.Sprintf("%.1f", v)
	}
}
