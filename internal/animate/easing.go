// Package animate provides transition easing, the host clock capability,
// and the temporal animation controller that drives race charts.
package animate

import "github.com/chartel-dev/chartel/internal/scene"

// Linear is the identity easing curve.
func Linear(t float64) float64 { return t }

// CubicIn accelerates from zero velocity.
func CubicIn(t float64) float64 { return t * t * t }

// CubicOut decelerates to zero velocity.
func CubicOut(t float64) float64 {
	u := t - 1
	return u*u*u + 1
}

// CubicInOut accelerates until halfway, then decelerates.
func CubicInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := 2*t - 2
	return 0.5*u*u*u + 1
}

var easings = map[string]scene.EaseFunc{
	"linear":       Linear,
	"cubic-in":     CubicIn,
	"cubic-out":    CubicOut,
	"cubic-in-out": CubicInOut,
}

// Easing returns the named curve, falling back to cubic-in-out for
// unknown names. Validation rejects unknown names up front, so the
// fallback only covers direct library use.
func Easing(name string) scene.EaseFunc {
	if fn, ok := easings[name]; ok {
		return fn
	}
	return CubicInOut
}
