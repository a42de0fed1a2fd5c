package spec

import (
	"fmt"

	"github.com/chartel-dev/chartel/internal/errors"
)

var validModes = map[StackMode]bool{
	ModeGrouped: true,
	ModeStacked: true,
	ModePercent: true,
}

var validAggregates = map[Aggregate]bool{
	AggregateNone:   true,
	AggregateSum:    true,
	AggregateAvg:    true,
	AggregateMedian: true,
	AggregateCount:  true,
}

var validEasings = map[string]bool{
	"linear":       true,
	"cubic-in":     true,
	"cubic-out":    true,
	"cubic-in-out": true,
}

var validLegendPositions = map[string]bool{
	"right":  true,
	"left":   true,
	"top":    true,
	"bottom": true,
}

// Validate checks a spec against the schema rules and returns a
// *errors.ValidationError listing every violation found. Defaults are
// expected to have been applied first. Pure function, no side effects.
func Validate(s *ChartSpec) error {
	if s == nil {
		return errors.NewValidationError(errors.Issue{Path: "$", Message: "spec is nil"})
	}

	var issues []errors.Issue
	add := func(path, format string, args ...interface{}) {
		issues = append(issues, errors.Issue{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if s.Version != Version {
		add("$.version", "unsupported version %q, want %q", s.Version, Version)
	}

	switch s.Type {
	case TypeBar, TypeRace:
	case "":
		add("$.type", "chart type is required")
	default:
		add("$.type", "unknown chart type %q", s.Type)
	}

	if !validModes[s.Mode] {
		add("$.mode", "unknown stacking mode %q", s.Mode)
	}
	if s.Orientation != Vertical && s.Orientation != Horizontal {
		add("$.orientation", "unknown orientation %q", s.Orientation)
	}

	if s.Encoding.Category.Field == "" {
		add("$.encoding.category.field", "category field reference is required")
	}
	if s.Encoding.Value.Field == "" {
		add("$.encoding.value.field", "value field reference is required")
	}
	if !validAggregates[s.Encoding.Value.Aggregate] {
		add("$.encoding.value.aggregate", "unknown aggregate %q", s.Encoding.Value.Aggregate)
	}
	if s.Encoding.Sort != nil {
		if by := s.Encoding.Sort.By; by != "" && by != "category" && by != "value" {
			add("$.encoding.sort.by", "sort key must be \"category\" or \"value\", got %q", by)
		}
	}

	if s.Layout.Width <= 0 {
		add("$.layout.width", "width must be positive, got %v", s.Layout.Width)
	}
	if s.Layout.Height <= 0 {
		add("$.layout.height", "height must be positive, got %v", s.Layout.Height)
	}
	if s.Layout.Padding < 0 || s.Layout.Padding >= 1 {
		add("$.layout.padding", "band padding must be in [0,1), got %v", s.Layout.Padding)
	}
	if m := s.Layout.Margin; m != nil {
		if s.Layout.Width-m.Left-m.Right <= 0 {
			add("$.layout.margin", "margins consume the full width: drawing area must be positive")
		}
		if s.Layout.Height-m.Top-m.Bottom <= 0 {
			add("$.layout.margin", "margins consume the full height: drawing area must be positive")
		}
	}
	if g := s.Layout.Grid; g != nil {
		if g.Rows < 0 || g.Cols < 0 {
			add("$.layout.grid", "grid rows/cols must be non-negative")
		}
	}

	if !validEasings[s.Animation.Easing] {
		add("$.animation.easing", "unknown easing curve %q", s.Animation.Easing)
	}
	if s.Animation.Duration < 0 {
		add("$.animation.duration", "duration must be non-negative, got %d", s.Animation.Duration)
	}

	if !validLegendPositions[s.Style.Legend.Position] {
		add("$.style.legend.position", "unknown legend position %q", s.Style.Legend.Position)
	}

	if s.Type == TypeRace {
		if s.Race.TimeField == "" {
			add("$.race.timeField", "race charts require a time field to slice frames")
		}
		if s.Race.MaxBars < 0 {
			add("$.race.maxBars", "maxBars must be non-negative, got %d", s.Race.MaxBars)
		}
	}

	if len(issues) > 0 {
		return errors.NewValidationError(issues...)
	}
	return nil
}
