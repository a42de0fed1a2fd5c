// Package render implements the keyed reconciliation renderer.
//
// A render pass is a pure recomputation: target marks are derived from
// (spec, records) by the scale engine, diffed by stable identity key
// against the surface's previous resting marks, and applied as
// enter/update/exit transitions. Rendering the same inputs twice yields
// identical resting geometry regardless of in-flight animation.
package render

import (
	"time"

	"github.com/chartel-dev/chartel/internal/data"
	"github.com/chartel-dev/chartel/internal/errors"
	"github.com/chartel-dev/chartel/internal/scene"
	"github.com/chartel-dev/chartel/internal/spec"
)

// Size is the rendered surface extent reported back to the caller.
type Size struct {
	Width  float64
	Height float64
}

// Options carries per-call render knobs that are host state, not spec
// state.
type Options struct {
	// ReducedMotion applies every transition with zero duration,
	// honoring a host reduced-motion preference.
	ReducedMotion bool
	// Now anchors transition start times; the zero value means the wall
	// clock.
	Now time.Time
	// Diagnostics receives non-fatal data-quality warnings.
	Diagnostics errors.Diagnostics
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// Renderer draws one chart type onto a surface.
type Renderer interface {
	Render(surface *scene.Surface, s *spec.ChartSpec, records []data.Record, opts Options) (Size, error)
}

// Registry maps chart types to renderers.
type Registry struct {
	renderers map[spec.ChartType]Renderer
}

// NewRegistry creates a registry with the built-in renderers installed.
func NewRegistry() *Registry {
	r := &Registry{renderers: make(map[spec.ChartType]Renderer)}
	r.Register(spec.TypeBar, NewBarRenderer())
	r.Register(spec.TypeRace, NewRaceRenderer())
	return r
}

// Register installs a renderer for a chart type, replacing any previous
// one.
func (r *Registry) Register(t spec.ChartType, renderer Renderer) {
	r.renderers[t] = renderer
}

// Render dispatches to the renderer for the spec's type. An unregistered
// type yields an UnsupportedTypeError naming it, with no partial draw.
func (r *Registry) Render(surface *scene.Surface, s *spec.ChartSpec, records []data.Record, opts Options) (Size, error) {
	renderer, ok := r.renderers[s.Type]
	if !ok {
		return Size{}, errors.NewUnsupportedTypeError(string(s.Type))
	}
	return renderer.Render(surface, s, records, opts)
}

// transitionOptions derives the surface transition parameters from the
// spec's animation block and the per-call options.
func transitionOptions(s *spec.ChartSpec, opts Options, ease scene.EaseFunc) scene.TransitionOptions {
	to := scene.TransitionOptions{Ease: ease}
	if s.Animation.On() && !opts.ReducedMotion {
		to.Duration = time.Duration(s.Animation.Duration) * time.Millisecond
		if s.Animation.Stagger {
			to.Stagger = staggerStep
		}
	}
	return to
}

// staggerStep is the per-index label/mark delay when spec.animation.stagger
// is set.
const staggerStep = 40 * time.Millisecond
