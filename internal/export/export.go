// Package export serializes a completed rendered scene into independent
// static deliverables: vector markup, a rasterized bitmap, a paginated
// document, a self-contained bundle, or the spec alone.
//
// Every export operates on a Surface.Snapshot(), never the live surface,
// so an export may run concurrently with a subsequent render. Rasterizer
// failure is fatal only to the bitmap and document exports; vector and
// spec-only exports cannot fail for that reason.
package export

import (
	"image"
)

// Rasterizer turns vector markup into a pixel buffer. It is a capability
// interface so the export pipeline stays independent of any concrete
// drawing backend; the default implementation parses and scan-converts
// the SVG in process.
type Rasterizer interface {
	Rasterize(markup []byte, width, height int) (image.Image, error)
}

// VectorOptions configures the vector markup export.
type VectorOptions struct {
	// Background injects a solid background rectangle sized to the scene
	// bounds. Empty means the scene's own background; "none" omits the
	// rectangle entirely.
	Background string
}

// BitmapOptions configures the rasterized bitmap export.
type BitmapOptions struct {
	// Scale multiplies the declared scene dimensions; output pixel
	// dimensions are declared × scale rounded to the nearest integer.
	// Zero means 1.
	Scale float64
	VectorOptions
	// Rasterizer overrides the default in-process rasterizer.
	Rasterizer Rasterizer
}

func (o BitmapOptions) scale() float64 {
	if o.Scale <= 0 {
		return 1
	}
	return o.Scale
}

func (o BitmapOptions) rasterizer() Rasterizer {
	if o.Rasterizer != nil {
		return o.Rasterizer
	}
	return defaultRasterizer{}
}

// PageSize names a paper format for the document export.
type PageSize string

const (
	PageA4     PageSize = "A4"
	PageA3     PageSize = "A3"
	PageLetter PageSize = "Letter"
	PageLegal  PageSize = "Legal"
)

// DocumentOptions configures the paginated document export.
type DocumentOptions struct {
	Page      PageSize
	Landscape bool
	// Margin is the page margin in points. Zero means the default of 36
	// (half an inch).
	Margin float64
	BitmapOptions
}

func (o DocumentOptions) page() PageSize {
	if o.Page == "" {
		return PageA4
	}
	return o.Page
}

func (o DocumentOptions) margin() float64 {
	if o.Margin <= 0 {
		return 36
	}
	return o.Margin
}
