package render

import (
	"github.com/chartel-dev/chartel/internal/accessibility"
	"github.com/chartel-dev/chartel/internal/animate"
	"github.com/chartel-dev/chartel/internal/data"
	"github.com/chartel-dev/chartel/internal/scale"
	"github.com/chartel-dev/chartel/internal/scene"
	"github.com/chartel-dev/chartel/internal/spec"
)

// BarRenderer draws categorical bars in grouped, stacked, or
// percent-stacked mode, in either orientation. The orientation rule is a
// pure axis swap: vertical maps bands to x and values to height growing
// up from the baseline, horizontal maps bands to y and values to width
// growing right. There is no other special-casing.
type BarRenderer struct{}

// NewBarRenderer creates a bar renderer.
func NewBarRenderer() *BarRenderer {
	return &BarRenderer{}
}

// Render implements Renderer. The surface is mutated only after layout
// succeeds, so a failed pass leaves the previously rendered scene
// untouched.
func (r *BarRenderer) Render(surface *scene.Surface, s *spec.ChartSpec, records []data.Record, opts Options) (Size, error) {
	plot, err := scale.Build(s, records, opts.Diagnostics)
	if err != nil {
		return Size{}, err
	}

	marks := buildMarks(s, plot)

	now := opts.now()
	patches := scene.Diff(surface.Resting(), marks)
	fillBaselines(patches, plot)

	surface.Resize(s.Layout.Width, s.Layout.Height)
	title, desc := accessibility.Resolve(s)
	surface.SetMeta(s.Style.Background, title, desc)
	surface.Apply(patches, now, transitionOptions(s, opts, animate.Easing(s.Animation.Easing)))

	return Size{Width: s.Layout.Width, Height: s.Layout.Height}, nil
}

// markKey builds the stable identity key for one cell. Grouped marks key
// on category and series; stacked and percent marks key on the stack
// layer within the category.
func markKey(mode spec.StackMode, category, series string) string {
	if mode == spec.ModeGrouped {
		return category + "-" + series
	}
	return category + "~" + series
}

// buildMarks converts layout cells into target marks. It is deterministic
// for a given (spec, records) pair.
func buildMarks(s *spec.ChartSpec, plot *scale.Plot) []scene.Mark {
	formatter := NewFormatter(s.Style.Locale, s.Mode == spec.ModePercent)
	serIndex := make(map[string]int, len(plot.SeriesKeys))
	for i, ser := range plot.SeriesKeys {
		serIndex[ser] = i
	}

	marks := make([]scene.Mark, 0, len(plot.Cells))
	for i, cell := range plot.Cells {
		bandPos, ok := plot.Category.Position(cell.Category)
		if !ok {
			continue
		}
		bandWidth := plot.Category.Bandwidth()
		if s.Mode == spec.ModeGrouped && plot.Series != nil {
			subPos, ok := plot.Series.Position(cell.Series)
			if !ok {
				continue
			}
			bandPos += subPos
			bandWidth = plot.Series.Bandwidth()
		}

		lo, hi := cell.Start, cell.End
		if s.Mode == spec.ModeGrouped {
			lo, hi = 0, cell.Value
		}
		v0 := plot.Value.Scale(lo)
		v1 := plot.Value.Scale(hi)

		m := scene.Mark{
			Key:   markKey(s.Mode, cell.Category, cell.Series),
			Fill:  s.Style.Palette[serIndex[cell.Series]%len(s.Style.Palette)],
			Value: cell.Value,
			Index: i,
		}

		if s.Orientation == spec.Horizontal {
			m.X = plot.Margin.Left + v0
			m.W = v1 - v0
			m.Y = plot.Margin.Top + bandPos
			m.H = bandWidth
		} else {
			m.X = plot.Margin.Left + bandPos
			m.W = bandWidth
			m.Y = plot.Margin.Top + plot.InnerHeight - v1
			m.H = v1 - v0
		}

		if s.Style.Labels {
			labelValue := cell.Value
			if s.Mode == spec.ModePercent {
				labelValue = hi - lo
			}
			m.Label = formatter.Format(labelValue)
			if s.Orientation == spec.Horizontal {
				m.LabelX = m.X + m.W + labelGap
				m.LabelY = m.Y + m.H/2
			} else {
				m.LabelX = m.X + m.W/2
				m.LabelY = m.Y - labelGap
			}
		}

		marks = append(marks, m)
	}
	return marks
}

// labelGap separates a label from its mark edge, in pixels.
const labelGap = 4

// fillBaselines sets enter-from and exit-to geometry: a zero-size mark at
// the value-zero position within the mark's own band.
func fillBaselines(patches []scene.Patch, plot *scale.Plot) {
	for i := range patches {
		switch patches[i].Op {
		case scene.OpEnter:
			patches[i].From = baseline(patches[i].To, plot)
		case scene.OpExit:
			patches[i].To = baseline(patches[i].From, plot)
		}
	}
}

func baseline(m scene.Mark, plot *scale.Plot) scene.Mark {
	b := m
	if plot.Orientation == spec.Horizontal {
		b.X = plot.Margin.Left
		b.W = 0
		b.LabelX = plot.Margin.Left + labelGap
	} else {
		b.Y = plot.Margin.Top + plot.InnerHeight
		b.H = 0
		b.LabelY = plot.Margin.Top + plot.InnerHeight - labelGap
	}
	return b
}
