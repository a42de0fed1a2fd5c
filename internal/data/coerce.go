package data

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/chartel-dev/chartel/internal/errors"
	"github.com/chartel-dev/chartel/internal/spec"
)

// Number coerces a record value to float64. Strings are parsed after
// stripping common formatting (thousands separators, leading currency
// signs). The second return is false when the value cannot be used as a
// number, in which case callers treat it as 0 and emit a data-quality
// warning.
func Number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(n)
		s = strings.ReplaceAll(s, ",", "")
		s = strings.TrimPrefix(s, "$")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// String coerces a record value to its category/series label form.
func String(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	case float64:
		// JSON numbers decode as float64; integral labels like years
		// should not render as "2024.000000".
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'g', -1, 64)
	default:
		return fmt.Sprint(s)
	}
}

// Values extracts the numeric value of a field from each record, coercing
// per Number and reporting unparsable entries through diag.
func Values(records []Record, field string, diag errors.Diagnostics) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		v, ok := Number(r[field])
		if !ok {
			diag.Emit(errors.DataQualityWarning{
				Field:    field,
				Raw:      r[field],
				Record:   i,
				Severity: errors.SeverityWarning,
			})
			v = 0
		}
		out[i] = v
	}
	return out
}

// Aggregate reduces a slice of numeric values per the encoding directive.
// An empty input aggregates to 0 regardless of directive.
func Aggregate(values []float64, directive spec.Aggregate) float64 {
	if len(values) == 0 {
		return 0
	}
	switch directive {
	case spec.AggregateSum:
		return sum(values)
	case spec.AggregateAvg:
		return sum(values) / float64(len(values))
	case spec.AggregateMedian:
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			return (sorted[mid-1] + sorted[mid]) / 2
		}
		return sorted[mid]
	case spec.AggregateCount:
		return float64(len(values))
	default: // none: last value wins, matching single-row cells
		return values[len(values)-1]
	}
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
