package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartel-dev/chartel/internal/animate"
	"github.com/chartel-dev/chartel/internal/errors"
	"github.com/chartel-dev/chartel/internal/scene"
	"github.com/chartel-dev/chartel/internal/spec"
)

func newSurfaceFor(s *spec.ChartSpec) *scene.Surface {
	return scene.NewSurface(s.Layout.Width, s.Layout.Height)
}

func writeData(t *testing.T, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))
	return path
}

func barChart(t *testing.T, dataPath string) *spec.ChartSpec {
	t.Helper()
	s, err := spec.Parse([]byte(`{
		"version": "1.0",
		"type": "bar",
		"mode": "stacked",
		"data": {"provider": "local", "kind": "json", "query": {"source": "` + dataPath + `"}},
		"encoding": {
			"category": {"field": "region"},
			"value": {"field": "revenue"},
			"series": {"field": "year"}
		}
	}`))
	require.NoError(t, err)
	return s
}

func TestRenderStatic(t *testing.T) {
	path := writeData(t, `[
		{"region": "EMEA", "year": "2024", "revenue": 10},
		{"region": "EMEA", "year": "2025", "revenue": 20},
		{"region": "APAC", "year": "2024", "revenue": 5}
	]`)

	e := New(nil)
	surface, err := e.RenderStatic(context.Background(), barChart(t, path))
	require.NoError(t, err)
	assert.Len(t, surface.Marks(), 3)
	assert.False(t, surface.Advance(time.Now().Add(time.Hour)), "static renders are fully settled")
}

func TestRenderStaticMissingData(t *testing.T) {
	s := barChart(t, filepath.Join(t.TempDir(), "absent.json"))
	_, err := New(nil).RenderStatic(context.Background(), s)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDataFetch))
}

func raceChart(t *testing.T, dataPath string) *spec.ChartSpec {
	t.Helper()
	s, err := spec.Parse([]byte(`{
		"version": "1.0",
		"type": "race",
		"race": {"timeField": "year", "maxBars": 3},
		"data": {"provider": "local", "kind": "json", "query": {"source": "` + dataPath + `"}},
		"encoding": {
			"category": {"field": "country"},
			"value": {"field": "pop"}
		}
	}`))
	require.NoError(t, err)
	return s
}

func TestRenderStaticRaceShowsFinalFrame(t *testing.T) {
	path := writeData(t, `[
		{"year": "2023", "country": "A", "pop": 10},
		{"year": "2023", "country": "B", "pop": 20},
		{"year": "2024", "country": "A", "pop": 99}
	]`)

	s := raceChart(t, path)
	surface, err := New(nil).RenderStatic(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, surface.Marks(), 1, "the one-shot render shows the final frame only")
	assert.Equal(t, "A", surface.Marks()[0].Key)
}

func TestStartRace(t *testing.T) {
	path := writeData(t, `[
		{"year": "2023", "country": "A", "pop": 10},
		{"year": "2024", "country": "A", "pop": 20}
	]`)

	clock := animate.NewManualClock(time.Unix(0, 0))
	e := New(nil, WithClock(clock))

	s := raceChart(t, path)
	records, err := e.Fetch(context.Background(), s)
	require.NoError(t, err)

	surface, labels := newSurfaceFor(s), []string{}
	controller, err := e.StartRace(context.Background(), surface, s, records, func(f animate.Frame) {
		labels = append(labels, f.Label)
	})
	require.NoError(t, err)
	defer controller.Stop()

	assert.Equal(t, []string{"2023"}, labels, "frame zero renders on start")
	clock.Advance(time.Duration(s.Animation.Duration) * time.Millisecond)
	assert.Equal(t, []string{"2023", "2024"}, labels, "frame interval follows the animation duration")
	assert.NotEmpty(t, surface.Marks())
}

func TestStartRaceRejectsNonRaceSpec(t *testing.T) {
	path := writeData(t, `[]`)
	s := barChart(t, path)
	_, err := New(nil).StartRace(context.Background(), newSurfaceFor(s), s, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedType))
}

func TestExportDispatch(t *testing.T) {
	path := writeData(t, `[{"region": "EMEA", "year": "2024", "revenue": 10}]`)
	s := barChart(t, path)

	e := New(nil)
	surface, err := e.RenderStatic(context.Background(), s)
	require.NoError(t, err)
	sc := surface.Snapshot()

	svg, err := e.Export(sc, s, ExportRequest{Format: FormatSVG})
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")

	jsonOut, err := e.Export(sc, s, ExportRequest{Format: FormatJSON})
	require.NoError(t, err)
	back, err := spec.Parse(jsonOut)
	require.NoError(t, err)
	assert.Equal(t, s, back)

	html, err := e.Export(sc, s, ExportRequest{Format: FormatHTML})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(html, []byte("<!DOCTYPE html>")))

	_, err = e.Export(sc, s, ExportRequest{Format: "docx"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInternal))
}
