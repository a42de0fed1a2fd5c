// Package engine wires the pipeline together: fetch records through the
// provider boundary, render them onto a surface, and hand completed
// scenes to the export pipeline. The CLI and the preview server both sit
// on top of this package.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/chartel-dev/chartel/internal/animate"
	"github.com/chartel-dev/chartel/internal/data"
	"github.com/chartel-dev/chartel/internal/errors"
	"github.com/chartel-dev/chartel/internal/export"
	"github.com/chartel-dev/chartel/internal/logging"
	"github.com/chartel-dev/chartel/internal/render"
	"github.com/chartel-dev/chartel/internal/scene"
	"github.com/chartel-dev/chartel/internal/spec"
)

// Engine bundles the renderer registry with logging and diagnostics
// plumbing. A single engine serves any number of render calls; the only
// state crossing calls lives in the surfaces handed to Render.
type Engine struct {
	registry *render.Registry
	logger   logging.Logger
	clock    animate.Clock
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock, used by tests and the preview
// server's deterministic mode.
func WithClock(c animate.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithRegistry overrides the renderer registry.
func WithRegistry(r *render.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// New creates an engine with the built-in renderers.
func New(logger logging.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = logging.Nop()
	}
	e := &Engine{
		registry: render.NewRegistry(),
		logger:   logger.WithComponent("engine"),
		clock:    animate.NewClock(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Fetch resolves the spec's data binding to records. Provider failures
// surface as DataFetchError; the caller decides retry policy, the engine
// never retries on its own.
func (e *Engine) Fetch(ctx context.Context, s *spec.ChartSpec) ([]data.Record, error) {
	provider, err := data.ForBinding(s.Data)
	if err != nil {
		return nil, err
	}
	records, err := provider.Fetch(ctx, s.Data)
	if err != nil {
		return nil, err
	}
	e.logger.Debug(ctx, "fetched records", "provider", s.Data.Provider, "count", len(records))
	return records, nil
}

// Render runs one reconciliation pass onto the surface. Data-quality
// warnings are logged and forwarded to diag when non-nil.
func (e *Engine) Render(ctx context.Context, surface *scene.Surface, s *spec.ChartSpec, records []data.Record, opts render.Options) (render.Size, error) {
	if opts.Diagnostics == nil {
		opts.Diagnostics = func(w errors.DataQualityWarning) {
			e.logger.Warn(ctx, nil, "data quality", "detail", w.String())
		}
	}
	return e.registry.Render(surface, s, records, opts)
}

// RenderStatic fetches, renders, and finalizes all transitions, yielding
// the resting scene used by one-shot CLI exports.
func (e *Engine) RenderStatic(ctx context.Context, s *spec.ChartSpec) (*scene.Surface, error) {
	records, err := e.Fetch(ctx, s)
	if err != nil {
		return nil, err
	}
	surface := scene.NewSurface(s.Layout.Width, s.Layout.Height)

	if s.Type == spec.TypeRace {
		// A one-shot render of a race chart shows its final frame.
		frames := animate.BuildFrames(records, s.Race.TimeField)
		if len(frames) > 0 {
			records = frames[len(frames)-1].Records
		}
	}

	if _, err := e.Render(ctx, surface, s, records, render.Options{ReducedMotion: true}); err != nil {
		return nil, err
	}
	surface.Finalize()
	return surface, nil
}

// StartRace builds the frame list for a race spec and starts its
// controller against the surface. onFrame, when non-nil, observes each
// rendered frame (the preview server uses it to push updates). The caller
// owns the returned controller and must Stop it before tearing down the
// surface.
func (e *Engine) StartRace(ctx context.Context, surface *scene.Surface, s *spec.ChartSpec, records []data.Record, onFrame func(frame animate.Frame)) (*animate.RaceController, error) {
	if s.Type != spec.TypeRace {
		return nil, errors.NewUnsupportedTypeError(string(s.Type))
	}

	frames := animate.BuildFrames(records, s.Race.TimeField)
	interval := time.Duration(s.Animation.Duration) * time.Millisecond

	controller := animate.NewRaceController(e.clock, interval, frames, func(frame animate.Frame) error {
		_, err := e.Render(ctx, surface, s, frame.Records, render.Options{Now: e.clock.Now()})
		if err == nil && onFrame != nil {
			onFrame(frame)
		}
		return err
	}, e.logger)

	controller.Start()
	return controller, nil
}

// Format names one of the export deliverables.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
	FormatJSON Format = "json"
)

// ExportRequest selects a deliverable and its options.
type ExportRequest struct {
	Format   Format
	Vector   export.VectorOptions
	Bitmap   export.BitmapOptions
	Document export.DocumentOptions
}

// Export serializes a scene snapshot (or, for FormatJSON, the spec alone)
// into the requested deliverable.
func (e *Engine) Export(sc *scene.Scene, s *spec.ChartSpec, req ExportRequest) ([]byte, error) {
	switch req.Format {
	case FormatSVG:
		return export.Vector(sc, req.Vector)
	case FormatPNG:
		return export.Bitmap(sc, req.Bitmap)
	case FormatPDF:
		return export.Document(sc, req.Document)
	case FormatHTML:
		return export.Bundle(sc, s, req.Vector)
	case FormatJSON:
		return export.Spec(s)
	default:
		return nil, errors.NewInternalError(fmt.Sprintf("unknown export format %q", req.Format), nil)
	}
}
