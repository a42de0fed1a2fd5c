// Package spec defines the versioned chart specification document and its
// validation rules.
//
// A ChartSpec is the single declarative input that drives rendering: it
// names a data binding, maps record fields onto visual encodings, and
// configures layout, style, and animation. Specs are parsed from JSON or
// YAML; unrecognized fields are ignored so the format can evolve
// additively without breaking older readers. Validation is a pure
// function with no I/O.
package spec

// Version is the only spec document version this engine reads and writes.
const Version = "1.0"

// ChartType identifies the renderer family for a spec.
type ChartType string

const (
	// TypeBar renders categorical bars in grouped, stacked, or
	// percent-stacked mode.
	TypeBar ChartType = "bar"
	// TypeRace renders a temporal bar race driven by the animation
	// controller.
	TypeRace ChartType = "race"
)

// StackMode selects how per-series values compose within a category band.
type StackMode string

const (
	ModeGrouped StackMode = "grouped"
	ModeStacked StackMode = "stacked"
	ModePercent StackMode = "percent"
)

// Orientation selects which screen axis carries the category bands.
type Orientation string

const (
	// Vertical maps categories to horizontal position and values to
	// height growing upward from the zero baseline.
	Vertical Orientation = "vertical"
	// Horizontal maps categories to vertical position and values to
	// width growing rightward.
	Horizontal Orientation = "horizontal"
)

// Aggregate is the value aggregation directive applied per category/series
// cell before layout.
type Aggregate string

const (
	AggregateNone   Aggregate = "none"
	AggregateSum    Aggregate = "sum"
	AggregateAvg    Aggregate = "avg"
	AggregateMedian Aggregate = "median"
	AggregateCount  Aggregate = "count"
)

// ChartSpec is the root of a chart specification document. It is treated
// as immutable input for the duration of a render call.
type ChartSpec struct {
	Version       string        `json:"version" yaml:"version"`
	ID            string        `json:"id" yaml:"id"`
	Type          ChartType     `json:"type" yaml:"type"`
	Mode          StackMode     `json:"mode,omitempty" yaml:"mode,omitempty"`
	Orientation   Orientation   `json:"orientation,omitempty" yaml:"orientation,omitempty"`
	Data          DataBinding   `json:"data" yaml:"data"`
	Encoding      Encoding      `json:"encoding" yaml:"encoding"`
	Layout        Layout        `json:"layout,omitempty" yaml:"layout,omitempty"`
	Style         Style         `json:"style,omitempty" yaml:"style,omitempty"`
	Animation     Animation     `json:"animation,omitempty" yaml:"animation,omitempty"`
	Race          RaceConfig    `json:"race,omitempty" yaml:"race,omitempty"`
	Accessibility Accessibility `json:"accessibility,omitempty" yaml:"accessibility,omitempty"`
}

// DataBinding names the external data source for a chart.
type DataBinding struct {
	Provider string `json:"provider" yaml:"provider"`
	Kind     string `json:"kind" yaml:"kind"` // json | http | db
	Query    Query  `json:"query" yaml:"query"`
	Sync     string `json:"sync,omitempty" yaml:"sync,omitempty"` // live | snapshot
}

// Query locates records within a provider.
type Query struct {
	Source string                 `json:"source" yaml:"source"`
	Params map[string]interface{} `json:"params,omitempty" yaml:"params,omitempty"`
}

// FieldRef names a record field feeding one visual channel.
type FieldRef struct {
	Field     string    `json:"field" yaml:"field"`
	Aggregate Aggregate `json:"aggregate,omitempty" yaml:"aggregate,omitempty"`
}

// SortDirective orders categories before layout.
type SortDirective struct {
	By         string `json:"by,omitempty" yaml:"by,omitempty"` // category | value
	Descending bool   `json:"descending,omitempty" yaml:"descending,omitempty"`
}

// Encoding maps record fields onto visual channels. Category and Value are
// required; the rest are optional refinements.
type Encoding struct {
	Category FieldRef       `json:"category" yaml:"category"`
	Value    FieldRef       `json:"value" yaml:"value"`
	Series   *FieldRef      `json:"series,omitempty" yaml:"series,omitempty"`
	X        *FieldRef      `json:"x,omitempty" yaml:"x,omitempty"`
	Y        *FieldRef      `json:"y,omitempty" yaml:"y,omitempty"`
	Size     *FieldRef      `json:"size,omitempty" yaml:"size,omitempty"`
	Color    *FieldRef      `json:"color,omitempty" yaml:"color,omitempty"`
	Sort     *SortDirective `json:"sort,omitempty" yaml:"sort,omitempty"`
}

// Margin is the spacing reserved around the inner drawing area, in pixels.
type Margin struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

// GridSpec configures small-multiple faceting.
type GridSpec struct {
	Rows  int    `json:"rows,omitempty" yaml:"rows,omitempty"`
	Cols  int    `json:"cols,omitempty" yaml:"cols,omitempty"`
	Field string `json:"field,omitempty" yaml:"field,omitempty"`
}

// Layout configures the drawing canvas.
type Layout struct {
	Preset  string    `json:"preset,omitempty" yaml:"preset,omitempty"`
	Width   float64   `json:"width,omitempty" yaml:"width,omitempty"`
	Height  float64   `json:"height,omitempty" yaml:"height,omitempty"`
	Padding float64   `json:"padding,omitempty" yaml:"padding,omitempty"` // band padding ratio, 0..1
	Margin  *Margin   `json:"margin,omitempty" yaml:"margin,omitempty"`
	Grid    *GridSpec `json:"grid,omitempty" yaml:"grid,omitempty"`
}

// AxisConfig configures one axis line.
type AxisConfig struct {
	Show  bool   `json:"show" yaml:"show"`
	Ticks int    `json:"ticks,omitempty" yaml:"ticks,omitempty"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// LegendConfig configures the series legend.
type LegendConfig struct {
	Show     bool   `json:"show" yaml:"show"`
	Position string `json:"position,omitempty" yaml:"position,omitempty"` // right | bottom | top | left
}

// Style configures colors, axes, and locale.
type Style struct {
	Palette    []string     `json:"palette,omitempty" yaml:"palette,omitempty"`
	Background string       `json:"background,omitempty" yaml:"background,omitempty"`
	AxisX      AxisConfig   `json:"axisX,omitempty" yaml:"axisX,omitempty"`
	AxisY      AxisConfig   `json:"axisY,omitempty" yaml:"axisY,omitempty"`
	Legend     LegendConfig `json:"legend,omitempty" yaml:"legend,omitempty"`
	Labels     bool         `json:"labels,omitempty" yaml:"labels,omitempty"`
	Locale     string       `json:"locale,omitempty" yaml:"locale,omitempty"`
}

// Animation configures mark transitions.
type Animation struct {
	Enabled  *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Duration int    `json:"duration,omitempty" yaml:"duration,omitempty"` // milliseconds
	Easing   string `json:"easing,omitempty" yaml:"easing,omitempty"`
	Stagger  bool   `json:"stagger,omitempty" yaml:"stagger,omitempty"`
}

// On reports whether animated transitions are enabled. The flag defaults
// to true when the spec omits it.
func (a Animation) On() bool {
	return a.Enabled == nil || *a.Enabled
}

// RaceConfig configures the temporal race variant.
type RaceConfig struct {
	// TimeField is the record field whose distinct values slice the data
	// into animation frames, in first-seen order.
	TimeField string `json:"timeField,omitempty" yaml:"timeField,omitempty"`
	// MaxBars truncates each frame's ranking. Zero means the default of 12.
	MaxBars int `json:"maxBars,omitempty" yaml:"maxBars,omitempty"`
}

// Accessibility carries assistive metadata injected into exports.
type Accessibility struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// DefaultPalette is the fill rotation used when the spec omits one.
var DefaultPalette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}
