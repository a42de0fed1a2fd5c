package data

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartel-dev/chartel/internal/errors"
	"github.com/chartel-dev/chartel/internal/spec"
)

func TestShape(t *testing.T) {
	tests := []struct {
		name    string
		payload interface{}
		want    int
	}{
		{
			"top-level array",
			[]interface{}{map[string]interface{}{"a": 1.0}, map[string]interface{}{"a": 2.0}},
			2,
		},
		{
			"first array-valued field of object",
			map[string]interface{}{
				"meta": "ignored",
				"rows": []interface{}{map[string]interface{}{"a": 1.0}},
			},
			1,
		},
		{"scalar payload treated as empty", 42.0, 0},
		{"object without arrays treated as empty", map[string]interface{}{"a": "b"}, 0},
		{"nil payload treated as empty", nil, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Len(t, Shape(tc.payload), tc.want)
		})
	}
}

func TestShapeSkipsNonObjectRows(t *testing.T) {
	records := Shape([]interface{}{
		map[string]interface{}{"a": 1.0},
		"not a row",
		map[string]interface{}{"a": 2.0},
	})
	assert.Len(t, records, 2)
}

func TestNumberCoercion(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want float64
		ok   bool
	}{
		{"float", 3.5, 3.5, true},
		{"int", 7, 7, true},
		{"numeric string", "42", 42, true},
		{"formatted string", "1,234.5", 1234.5, true},
		{"currency string", "$99", 99, true},
		{"bool true", true, 1, true},
		{"garbage string", "n/a", 0, false},
		{"empty string", "", 0, false},
		{"nil", nil, 0, false},
		{"object", map[string]interface{}{}, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Number(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestValuesEmitsDataQualityWarnings(t *testing.T) {
	records := []Record{
		{"v": 10.0},
		{"v": "broken"},
		{"v": 5.0},
	}

	var warnings []errors.DataQualityWarning
	values := Values(records, "v", func(w errors.DataQualityWarning) {
		warnings = append(warnings, w)
	})

	assert.Equal(t, []float64{10, 0, 5}, values, "unparsable values contribute 0")
	require.Len(t, warnings, 1)
	assert.Equal(t, "v", warnings[0].Field)
	assert.Equal(t, 1, warnings[0].Record)
}

func TestAggregate(t *testing.T) {
	values := []float64{4, 1, 3, 2}

	assert.Equal(t, 10.0, Aggregate(values, spec.AggregateSum))
	assert.Equal(t, 2.5, Aggregate(values, spec.AggregateAvg))
	assert.Equal(t, 2.5, Aggregate(values, spec.AggregateMedian))
	assert.Equal(t, 4.0, Aggregate(values, spec.AggregateCount))
	assert.Equal(t, 2.0, Aggregate(values, spec.AggregateNone))
	assert.Equal(t, 3.0, Aggregate([]float64{1, 3, 9}, spec.AggregateMedian))
	assert.Equal(t, 0.0, Aggregate(nil, spec.AggregateSum))
}

func TestHTTPProviderFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024", r.URL.Query().Get("year"))
		w.Write([]byte(`{"data": [{"region": "EMEA", "revenue": 12}]}`))
	}))
	defer srv.Close()

	binding := spec.DataBinding{
		Provider: "api",
		Kind:     "http",
		Query: spec.Query{
			Source: srv.URL,
			Params: map[string]interface{}{"year": "2024"},
		},
	}

	records, err := HTTPProvider{}.Fetch(context.Background(), binding)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "EMEA", records[0]["region"])
}

func TestHTTPProviderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	binding := spec.DataBinding{Provider: "api", Kind: "http", Query: spec.Query{Source: srv.URL}}
	_, err := HTTPProvider{}.Fetch(context.Background(), binding)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDataFetch))
}

func TestForBinding(t *testing.T) {
	_, err := ForBinding(spec.DataBinding{Kind: "json"})
	assert.NoError(t, err)
	_, err = ForBinding(spec.DataBinding{Kind: "http"})
	assert.NoError(t, err)
	_, err = ForBinding(spec.DataBinding{Kind: "db", Provider: "pg"})
	assert.Error(t, err, "db bindings have no built-in provider")
}
