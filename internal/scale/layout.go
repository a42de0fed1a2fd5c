package scale

import (
	"sort"

	"github.com/chartel-dev/chartel/internal/data"
	"github.com/chartel-dev/chartel/internal/errors"
	"github.com/chartel-dev/chartel/internal/spec"
)

// Headroom stretches the grouped/stacked value domain past the observed
// maximum so the tallest mark does not touch the plot edge.
const Headroom = 1.05

// Cell is one (category, series) aggregate with its stacking interval in
// value-domain units. For percent mode Start/End are fractions of the
// category total.
type Cell struct {
	Category string
	Series   string
	Value    float64
	Start    float64
	End      float64
}

// Plot is the computed geometry for one render pass.
type Plot struct {
	Mode        spec.StackMode
	Orientation spec.Orientation

	Margin      spec.Margin
	InnerWidth  float64
	InnerHeight float64

	// Category is the band scale over [0, band-axis length]; Series is
	// the nested band subdividing one category band in grouped mode.
	Category *Band
	Series   *Band
	// Value maps the value domain to [0, value-axis length], growing
	// from the zero baseline.
	Value *Linear

	Categories []string
	SeriesKeys []string
	Cells      []Cell
}

// BandLength returns the pixel length of the band axis for the plot's
// orientation.
func (p *Plot) BandLength() float64 {
	if p.Orientation == spec.Horizontal {
		return p.InnerHeight
	}
	return p.InnerWidth
}

// ValueLength returns the pixel length of the value axis.
func (p *Plot) ValueLength() float64 {
	if p.Orientation == spec.Horizontal {
		return p.InnerWidth
	}
	return p.InnerHeight
}

// Build computes scales and stack offsets for the given spec and the
// already-filtered record set. An empty record set yields trivial scales
// and zero cells, not an error. Non-numeric values are coerced to 0 and
// reported through diag.
func Build(s *spec.ChartSpec, records []data.Record, diag errors.Diagnostics) (*Plot, error) {
	margin := spec.DefaultMargin
	if s.Layout.Margin != nil {
		margin = *s.Layout.Margin
	}

	innerW := s.Layout.Width - margin.Left - margin.Right
	innerH := s.Layout.Height - margin.Top - margin.Bottom
	if innerW <= 0 || innerH <= 0 {
		return nil, errors.NewValidationError(errors.Issue{
			Path:    "$.layout",
			Message: "computed drawing area must be positive",
		})
	}

	p := &Plot{
		Mode:        s.Mode,
		Orientation: s.Orientation,
		Margin:      margin,
		InnerWidth:  innerW,
		InnerHeight: innerH,
	}

	catField := s.Encoding.Category.Field
	valField := s.Encoding.Value.Field
	seriesField := ""
	if s.Encoding.Series != nil {
		seriesField = s.Encoding.Series.Field
	}

	// Collect per-cell values in first-appearance order. Series key
	// ordering fixes both color assignment and stacking layer order, so
	// it is never sorted.
	type cellKey struct{ cat, ser string }
	cellValues := make(map[cellKey][]float64)
	var catOrder, serOrder []string
	seenCat := make(map[string]bool)
	seenSer := make(map[string]bool)

	for i, r := range records {
		cat := data.String(r[catField])
		ser := valField
		if seriesField != "" {
			ser = data.String(r[seriesField])
		}

		v, ok := data.Number(r[valField])
		if !ok {
			diag.Emit(errors.DataQualityWarning{
				Field:    valField,
				Raw:      r[valField],
				Record:   i,
				Severity: errors.SeverityWarning,
			})
			v = 0
		}

		if !seenCat[cat] {
			seenCat[cat] = true
			catOrder = append(catOrder, cat)
		}
		if !seenSer[ser] {
			seenSer[ser] = true
			serOrder = append(serOrder, ser)
		}
		k := cellKey{cat, ser}
		cellValues[k] = append(cellValues[k], v)
	}

	// Reduce multi-row cells per the aggregate directive.
	cellValue := make(map[cellKey]float64, len(cellValues))
	for k, vs := range cellValues {
		cellValue[k] = data.Aggregate(vs, s.Encoding.Value.Aggregate)
	}

	catTotals := make(map[string]float64, len(catOrder))
	for k, v := range cellValue {
		catTotals[k.cat] += v
	}
	applySort(s.Encoding.Sort, catOrder, catTotals)

	// Stack offsets: cumulative sum per category in series order. Percent
	// mode normalizes by the sum of the values present in that category,
	// so a missing series contributes nothing to the denominator.
	var maxValue, maxTotal float64
	for _, cat := range catOrder {
		var cum float64
		for _, ser := range serOrder {
			v, ok := cellValue[cellKey{cat, ser}]
			if !ok {
				continue
			}
			p.Cells = append(p.Cells, Cell{
				Category: cat,
				Series:   ser,
				Value:    v,
				Start:    cum,
				End:      cum + v,
			})
			cum += v
			if v > maxValue {
				maxValue = v
			}
		}
		if cum > maxTotal {
			maxTotal = cum
		}
		if s.Mode == spec.ModePercent {
			normalizeCategory(p.Cells, cat, cum)
		}
	}

	p.Categories = catOrder
	p.SeriesKeys = serOrder

	// Value domain per mode. A degenerate max falls back to [0,1] so the
	// scales stay usable for an empty or all-zero record set.
	var dMax float64
	switch s.Mode {
	case spec.ModePercent:
		dMax = 1
	case spec.ModeStacked:
		dMax = maxTotal * Headroom
	default:
		dMax = maxValue * Headroom
	}
	if dMax <= 0 {
		dMax = 1
	}

	p.Category = NewBand(catOrder, 0, p.BandLength(), s.Layout.Padding)
	p.Value = NewLinear(0, dMax, 0, p.ValueLength())
	if s.Mode == spec.ModeGrouped {
		p.Series = NewBand(serOrder, 0, p.Category.Bandwidth(), 0.05)
	}

	return p, nil
}

func normalizeCategory(cells []Cell, cat string, total float64) {
	for i := range cells {
		if cells[i].Category != cat {
			continue
		}
		if total == 0 {
			cells[i].Start, cells[i].End = 0, 0
			continue
		}
		cells[i].Start /= total
		cells[i].End /= total
	}
}

// applySort reorders the category domain per the sort directive. Series
// order is deliberately left alone: it is fixed by first appearance.
func applySort(directive *spec.SortDirective, catOrder []string, totals map[string]float64) {
	if directive == nil || directive.By == "" {
		return
	}
	switch directive.By {
	case "category":
		sort.SliceStable(catOrder, func(i, j int) bool {
			if directive.Descending {
				return catOrder[i] > catOrder[j]
			}
			return catOrder[i] < catOrder[j]
		})
	case "value":
		sort.SliceStable(catOrder, func(i, j int) bool {
			if directive.Descending {
				return totals[catOrder[i]] > totals[catOrder[j]]
			}
			return totals[catOrder[i]] < totals[catOrder[j]]
		})
	}
}
