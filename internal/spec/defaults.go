package spec

// Default values applied to a parsed spec before validation. Matching the
// documented spec defaults: layout.preset "single", animation.duration
// 600ms, legend.position "right", value.aggregate "none".
const (
	DefaultPreset     = "single"
	DefaultWidth      = 960.0
	DefaultHeight     = 540.0
	DefaultPadding    = 0.1
	DefaultDuration   = 600
	DefaultEasing     = "cubic-in-out"
	DefaultLegendPos  = "right"
	DefaultLocale     = "en"
	DefaultRaceBars   = 12
	DefaultBackground = "#ffffff"
)

// DefaultMargin leaves room for axis ticks and labels.
var DefaultMargin = Margin{Top: 20, Right: 20, Bottom: 40, Left: 56}

// ApplyDefaults fills unset fields in place. It is idempotent and never
// overwrites a value the document set explicitly.
func ApplyDefaults(s *ChartSpec) {
	if s == nil {
		return
	}
	if s.Version == "" {
		s.Version = Version
	}
	if s.Mode == "" {
		s.Mode = ModeGrouped
	}
	if s.Orientation == "" {
		s.Orientation = Vertical
	}
	if s.Encoding.Value.Aggregate == "" {
		s.Encoding.Value.Aggregate = AggregateNone
	}
	if s.Layout.Preset == "" {
		s.Layout.Preset = DefaultPreset
	}
	if s.Layout.Width == 0 {
		s.Layout.Width = DefaultWidth
	}
	if s.Layout.Height == 0 {
		s.Layout.Height = DefaultHeight
	}
	if s.Layout.Padding == 0 {
		s.Layout.Padding = DefaultPadding
	}
	if s.Layout.Margin == nil {
		m := DefaultMargin
		s.Layout.Margin = &m
	}
	if s.Animation.Duration == 0 {
		s.Animation.Duration = DefaultDuration
	}
	if s.Animation.Easing == "" {
		s.Animation.Easing = DefaultEasing
	}
	if s.Style.Legend.Position == "" {
		s.Style.Legend.Position = DefaultLegendPos
	}
	if len(s.Style.Palette) == 0 {
		s.Style.Palette = append([]string(nil), DefaultPalette...)
	}
	if s.Style.Background == "" {
		s.Style.Background = DefaultBackground
	}
	if s.Style.Locale == "" {
		s.Style.Locale = DefaultLocale
	}
	if s.Type == TypeRace && s.Race.MaxBars == 0 {
		s.Race.MaxBars = DefaultRaceBars
	}
}
