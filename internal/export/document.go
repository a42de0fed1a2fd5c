package export

import (
	"bytes"
	"image/png"

	"github.com/go-pdf/fpdf"

	"github.com/chartel-dev/chartel/internal/errors"
	"github.com/chartel-dev/chartel/internal/scene"
)

// Document rasterizes a scene at the requested scale and embeds it as the
// maximal centered image on one page of the requested size and
// orientation, honoring the page margin. Rasterization failure is fatal
// to this export call only.
func Document(sc *scene.Scene, opts DocumentOptions) ([]byte, error) {
	if sc == nil {
		return nil, errors.NewRasterizationError("document export requires a scene snapshot", nil)
	}

	markup, err := Vector(sc, opts.VectorOptions)
	if err != nil {
		return nil, err
	}
	img, err := Raster(markup, sc, opts.BitmapOptions)
	if err != nil {
		return nil, err
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, errors.NewRasterizationError("encoding page image", err)
	}

	orientation := "P"
	if opts.Landscape {
		orientation = "L"
	}
	pdf := fpdf.New(orientation, "pt", string(opts.page()), "")
	pdf.SetTitle(sc.Title, true)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	margin := opts.margin()
	x, y, w, h := centeredPlacement(sc.Width, sc.Height, pageW, pageH, margin)

	imgOpts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("chart", imgOpts, &pngBuf)
	pdf.ImageOptions("chart", x, y, w, h, false, imgOpts, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, errors.NewRasterizationError("writing document", err)
	}
	return out.Bytes(), nil
}

// centeredPlacement computes the largest aspect-preserving placement of a
// w×h image inside a page with the given margin, centered both ways.
func centeredPlacement(imgW, imgH, pageW, pageH, margin float64) (x, y, w, h float64) {
	availW := pageW - 2*margin
	availH := pageH - 2*margin
	if availW <= 0 || availH <= 0 || imgW <= 0 || imgH <= 0 {
		return margin, margin, availW, availH
	}

	ratio := imgW / imgH
	w = availW
	h = w / ratio
	if h > availH {
		h = availH
		w = h * ratio
	}
	x = margin + (availW-w)/2
	y = margin + (availH-h)/2
	return x, y, w, h
}
