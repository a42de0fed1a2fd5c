package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/chartel-dev/chartel/internal/errors"
	"github.com/chartel-dev/chartel/internal/scene"
)

// defaultRasterizer scan-converts SVG markup in process via oksvg.
type defaultRasterizer struct{}

// Rasterize implements Rasterizer.
func (defaultRasterizer) Rasterize(markup []byte, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster dimensions %dx%d", width, height)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing vector markup: %w", err)
	}

	icon.SetTarget(0, 0, float64(width), float64(height))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1)
	return img, nil
}

// Bitmap rasterizes a scene snapshot at the requested scale factor and
// encodes it as PNG. Output pixel dimensions equal the declared scene
// dimensions times the scale, rounded to the nearest integer. A
// rasterization failure is fatal to this export call only and surfaces as
// a RasterizationError.
func Bitmap(sc *scene.Scene, opts BitmapOptions) ([]byte, error) {
	if sc == nil {
		return nil, errors.NewRasterizationError("bitmap export requires a scene snapshot", nil)
	}

	markup, err := Vector(sc, opts.VectorOptions)
	if err != nil {
		return nil, err
	}

	img, err := Raster(markup, sc, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.NewRasterizationError("encoding bitmap", err)
	}
	return buf.Bytes(), nil
}

// Raster produces the pixel buffer for a scene's markup without encoding
// it, shared by the bitmap and document exports.
func Raster(markup []byte, sc *scene.Scene, opts BitmapOptions) (image.Image, error) {
	scale := opts.scale()
	width := int(math.Round(sc.Width * scale))
	height := int(math.Round(sc.Height * scale))

	img, err := opts.rasterizer().Rasterize(markup, width, height)
	if err != nil {
		return nil, errors.NewRasterizationError("drawing surface unavailable for rasterization", err)
	}
	return img, nil
}
