package render

import (
	"github.com/chartel-dev/chartel/internal/accessibility"
	"github.com/chartel-dev/chartel/internal/animate"
	"github.com/chartel-dev/chartel/internal/data"
	"github.com/chartel-dev/chartel/internal/scale"
	"github.com/chartel-dev/chartel/internal/scene"
	"github.com/chartel-dev/chartel/internal/spec"
)

// RaceRenderer draws one frame of a temporal bar race: the frame's
// records ranked by value descending, truncated to the bar budget, and
// keyed by category alone so bars reorder smoothly across frames instead
// of losing identity. Fill color is assigned on a category's first
// appearance and persists for the life of the renderer, so a bar keeps
// its color as it moves through the ranking.
type RaceRenderer struct {
	colors map[string]string
	next   int
}

// NewRaceRenderer creates a race renderer with an empty color assignment.
func NewRaceRenderer() *RaceRenderer {
	return &RaceRenderer{colors: make(map[string]string)}
}

// Render implements Renderer for one frame's record subset.
func (r *RaceRenderer) Render(surface *scene.Surface, s *spec.ChartSpec, records []data.Record, opts Options) (Size, error) {
	catField := s.Encoding.Category.Field
	valField := s.Encoding.Value.Field

	ranked := animate.Rank(records, catField, valField, s.Race.MaxBars)

	// Layout as a horizontal single-series bar chart over the ranked
	// order. Rank order is first-seen order here, so the band scale
	// places the largest value in the top band.
	frameSpec := *s
	frameSpec.Mode = spec.ModeGrouped
	frameSpec.Orientation = spec.Horizontal
	frameSpec.Encoding.Sort = nil

	plot, err := scale.Build(&frameSpec, ranked, opts.Diagnostics)
	if err != nil {
		return Size{}, err
	}

	formatter := NewFormatter(s.Style.Locale, false)
	marks := make([]scene.Mark, 0, len(plot.Cells))
	for i, cell := range plot.Cells {
		bandPos, ok := plot.Category.Position(cell.Category)
		if !ok {
			continue
		}
		w := plot.Value.Scale(cell.Value)
		m := scene.Mark{
			Key:   cell.Category,
			X:     plot.Margin.Left,
			Y:     plot.Margin.Top + bandPos,
			W:     w,
			H:     plot.Category.Bandwidth(),
			Fill:  r.colorFor(cell.Category, s.Style.Palette),
			Value: cell.Value,
			Index: i,
		}
		m.Label = cell.Category + " " + formatter.Format(cell.Value)
		m.LabelX = m.X + m.W + labelGap
		m.LabelY = m.Y + m.H/2
		marks = append(marks, m)
	}

	now := opts.now()
	patches := scene.Diff(surface.Resting(), marks)
	fillBaselines(patches, plot)

	surface.Resize(s.Layout.Width, s.Layout.Height)
	title, desc := accessibility.Resolve(s)
	surface.SetMeta(s.Style.Background, title, desc)
	surface.Apply(patches, now, transitionOptions(s, opts, animate.Easing(s.Animation.Easing)))

	return Size{Width: s.Layout.Width, Height: s.Layout.Height}, nil
}

func (r *RaceRenderer) colorFor(category string, palette []string) string {
	if c, ok := r.colors[category]; ok {
		return c
	}
	c := palette[r.next%len(palette)]
	r.next++
	r.colors[category] = c
	return c
}
