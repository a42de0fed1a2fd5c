//go:build property

package scale

import (
	"fmt"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/chartel-dev/chartel/internal/data"
	"github.com/chartel-dev/chartel/internal/spec"
)

func propSpec(mode spec.StackMode) *spec.ChartSpec {
	s := &spec.ChartSpec{
		Version: spec.Version,
		Type:    spec.TypeBar,
		Mode:    mode,
		Encoding: spec.Encoding{
			Category: spec.FieldRef{Field: "cat"},
			Value:    spec.FieldRef{Field: "val"},
			Series:   &spec.FieldRef{Field: "ser"},
		},
	}
	spec.ApplyDefaults(s)
	return s
}

// genRecords produces record sets over a small category/series alphabet
// so collisions (duplicate cells, missing series) occur frequently.
func genRecords() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, 10_000)).Map(func(values []int) []data.Record {
		records := make([]data.Record, len(values))
		for i, v := range values {
			records[i] = data.Record{
				"cat": fmt.Sprintf("c%d", i%4),
				"ser": fmt.Sprintf("s%d", (i/2)%3),
				"val": float64(v),
			}
		}
		return records
	})
}

// TestLayoutProperties validates stacking and domain invariants over
// arbitrary record sets.
func TestLayoutProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("grouped domain bounds every cell value", prop.ForAll(
		func(records []data.Record) bool {
			p, err := Build(propSpec(spec.ModeGrouped), records, nil)
			if err != nil {
				return false
			}
			_, dMax := p.Value.Domain()
			for _, c := range p.Cells {
				if c.Value > dMax {
					return false
				}
			}
			return true
		},
		genRecords(),
	))

	properties.Property("percent layers sum to one per category", prop.ForAll(
		func(records []data.Record) bool {
			p, err := Build(propSpec(spec.ModePercent), records, nil)
			if err != nil {
				return false
			}
			sums := make(map[string]float64)
			totals := make(map[string]float64)
			for _, c := range p.Cells {
				sums[c.Category] += c.End - c.Start
				totals[c.Category] += c.Value
			}
			for cat, sum := range sums {
				want := 1.0
				if totals[cat] == 0 {
					want = 0.0
				}
				if math.Abs(sum-want) > 1e-6 {
					return false
				}
			}
			return true
		},
		genRecords(),
	))

	properties.Property("stacked layers are contiguous and non-overlapping", prop.ForAll(
		func(records []data.Record) bool {
			p, err := Build(propSpec(spec.ModeStacked), records, nil)
			if err != nil {
				return false
			}
			cursor := make(map[string]float64)
			for _, c := range p.Cells {
				if c.Start != cursor[c.Category] {
					return false
				}
				if c.End < c.Start {
					return false
				}
				cursor[c.Category] = c.End
			}
			_, dMax := p.Value.Domain()
			for _, total := range cursor {
				if total > dMax {
					return false
				}
			}
			return true
		},
		genRecords(),
	))

	properties.Property("layout is deterministic", prop.ForAll(
		func(records []data.Record) bool {
			first, err1 := Build(propSpec(spec.ModeStacked), records, nil)
			second, err2 := Build(propSpec(spec.ModeStacked), records, nil)
			if err1 != nil || err2 != nil {
				return err1 != nil && err2 != nil
			}
			if len(first.Cells) != len(second.Cells) {
				return false
			}
			for i := range first.Cells {
				if first.Cells[i] != second.Cells[i] {
					return false
				}
			}
			return true
		},
		genRecords(),
	))

	properties.TestingRun(t)
}

// TestBandScaleProperties validates band geometry over arbitrary domains.
func TestBandScaleProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("bands stay inside the range and never overlap", prop.ForAll(
		func(n int, length float64) bool {
			if n < 1 || n > 50 || length < 1 || length > 10_000 {
				return true
			}
			domain := make([]string, n)
			for i := range domain {
				domain[i] = fmt.Sprintf("d%d", i)
			}
			b := NewBand(domain, 0, length, 0.1)

			prevEnd := 0.0
			for _, d := range domain {
				pos, ok := b.Position(d)
				if !ok {
					return false
				}
				if pos < prevEnd-1e-9 || pos+b.Bandwidth() > length+1e-9 {
					return false
				}
				prevEnd = pos + b.Bandwidth()
			}
			return true
		},
		gen.IntRange(1, 50),
		gen.Float64Range(1, 10_000),
	))

	properties.TestingRun(t)
}
