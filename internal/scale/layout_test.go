package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartel-dev/chartel/internal/data"
	"github.com/chartel-dev/chartel/internal/errors"
	"github.com/chartel-dev/chartel/internal/spec"
)

func testSpec(mode spec.StackMode) *spec.ChartSpec {
	s := &spec.ChartSpec{
		Version: spec.Version,
		Type:    spec.TypeBar,
		Mode:    mode,
		Encoding: spec.Encoding{
			Category: spec.FieldRef{Field: "category"},
			Value:    spec.FieldRef{Field: "value"},
			Series:   &spec.FieldRef{Field: "series"},
		},
	}
	spec.ApplyDefaults(s)
	return s
}

func scenarioRecords() []data.Record {
	return []data.Record{
		{"category": "A", "series": "2024", "value": 10.0},
		{"category": "A", "series": "2025", "value": 20.0},
		{"category": "B", "series": "2024", "value": 5.0},
	}
}

func cell(t *testing.T, p *Plot, cat, ser string) Cell {
	t.Helper()
	for _, c := range p.Cells {
		if c.Category == cat && c.Series == ser {
			return c
		}
	}
	t.Fatalf("no cell for %s/%s", cat, ser)
	return Cell{}
}

func TestStackedScenario(t *testing.T) {
	p, err := Build(testSpec(spec.ModeStacked), scenarioRecords(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, p.Categories)
	assert.Equal(t, []string{"2024", "2025"}, p.SeriesKeys, "layer order is first appearance")

	a24 := cell(t, p, "A", "2024")
	a25 := cell(t, p, "A", "2025")
	b24 := cell(t, p, "B", "2024")

	assert.Equal(t, 0.0, a24.Start)
	assert.Equal(t, 10.0, a24.End)
	assert.Equal(t, 10.0, a25.Start)
	assert.Equal(t, 30.0, a25.End, "category A stacks to 30")
	assert.Equal(t, 5.0, b24.End, "category B stacks to 5")

	_, dMax := p.Value.Domain()
	assert.InDelta(t, 30*Headroom, dMax, 1e-9, "stacked domain is cumulative max with headroom")
}

func TestPercentScenario(t *testing.T) {
	p, err := Build(testSpec(spec.ModePercent), scenarioRecords(), nil)
	require.NoError(t, err)

	a24 := cell(t, p, "A", "2024")
	a25 := cell(t, p, "A", "2025")
	b24 := cell(t, p, "B", "2024")

	assert.InDelta(t, 1.0/3.0, a24.End-a24.Start, 1e-9)
	assert.InDelta(t, 2.0/3.0, a25.End-a25.Start, 1e-9)
	assert.InDelta(t, 1.0, a25.End, 1e-9, "category A layers sum to 1")
	assert.InDelta(t, 1.0, b24.End-b24.Start, 1e-9, "missing series is excluded from B's denominator")

	_, dMax := p.Value.Domain()
	assert.Equal(t, 1.0, dMax, "percent mode forces the value domain to [0,1]")
}

func TestGroupedDomainUsesSingleMax(t *testing.T) {
	p, err := Build(testSpec(spec.ModeGrouped), scenarioRecords(), nil)
	require.NoError(t, err)

	_, dMax := p.Value.Domain()
	assert.InDelta(t, 20*Headroom, dMax, 1e-9, "grouped domain is the single maximum value, not a total")
	require.NotNil(t, p.Series, "grouped mode subdivides each band")
	assert.Equal(t, []string{"2024", "2025"}, p.Series.Domain())
}

func TestSeriesOrderIsFirstAppearance(t *testing.T) {
	records := []data.Record{
		{"category": "X", "series": "beta", "value": 1.0},
		{"category": "X", "series": "alpha", "value": 2.0},
		{"category": "Y", "series": "gamma", "value": 3.0},
	}
	p, err := Build(testSpec(spec.ModeStacked), records, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"beta", "alpha", "gamma"}, p.SeriesKeys, "never sorted")
}

func TestEmptyRecordsYieldTrivialScales(t *testing.T) {
	p, err := Build(testSpec(spec.ModeGrouped), nil, nil)
	require.NoError(t, err, "an empty record set is not an error")
	assert.Empty(t, p.Cells)
	assert.Equal(t, 0, p.Category.Len())
	_, dMax := p.Value.Domain()
	assert.Equal(t, 1.0, dMax, "degenerate domain falls back to [0,1]")
}

func TestNonNumericValuesCoerceToZero(t *testing.T) {
	records := []data.Record{
		{"category": "A", "series": "s", "value": "oops"},
		{"category": "A", "series": "t", "value": 10.0},
	}

	var warnings []errors.DataQualityWarning
	p, err := Build(testSpec(spec.ModeStacked), records, func(w errors.DataQualityWarning) {
		warnings = append(warnings, w)
	})
	require.NoError(t, err, "data quality problems are non-fatal")

	assert.Equal(t, 0.0, cell(t, p, "A", "s").Value)
	assert.Equal(t, 10.0, cell(t, p, "A", "t").End)
	require.Len(t, warnings, 1)
	assert.Equal(t, "value", warnings[0].Field)
}

func TestSortByValueDescending(t *testing.T) {
	s := testSpec(spec.ModeStacked)
	s.Encoding.Sort = &spec.SortDirective{By: "value", Descending: true}

	p, err := Build(s, scenarioRecords(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, p.Categories)

	s.Encoding.Sort.Descending = false
	p, err = Build(s, scenarioRecords(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, p.Categories)
}

func TestAggregateSumCollapsesDuplicateCells(t *testing.T) {
	s := testSpec(spec.ModeStacked)
	s.Encoding.Value.Aggregate = spec.AggregateSum

	records := []data.Record{
		{"category": "A", "series": "s", "value": 3.0},
		{"category": "A", "series": "s", "value": 4.0},
	}
	p, err := Build(s, records, nil)
	require.NoError(t, err)
	assert.Equal(t, 7.0, cell(t, p, "A", "s").Value)
}

func TestBandScale(t *testing.T) {
	b := NewBand([]string{"a", "b", "c", "d"}, 0, 400, 0.1)

	assert.Equal(t, 100.0, b.Step())
	assert.Equal(t, 90.0, b.Bandwidth())

	pos, ok := b.Position("a")
	require.True(t, ok)
	assert.InDelta(t, 5.0, pos, 1e-9, "half the padding precedes the first band")

	pos, ok = b.Position("c")
	require.True(t, ok)
	assert.InDelta(t, 205.0, pos, 1e-9)

	_, ok = b.Position("zzz")
	assert.False(t, ok)
}

func TestLinearScale(t *testing.T) {
	l := NewLinear(0, 100, 0, 500)
	assert.Equal(t, 0.0, l.Scale(0))
	assert.Equal(t, 250.0, l.Scale(50))
	assert.Equal(t, 500.0, l.Scale(100))

	degenerate := NewLinear(5, 5, 0, 500)
	assert.Equal(t, 0.0, degenerate.Scale(5), "degenerate domains collapse to the range start")
}
