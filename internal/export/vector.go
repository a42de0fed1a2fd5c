package export

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/chartel-dev/chartel/internal/errors"
	"github.com/chartel-dev/chartel/internal/scene"
)

// Vector serializes a scene snapshot to SVG markup. It cannot fail for
// rasterizer unavailability; the only error condition is a nil scene.
func Vector(sc *scene.Scene, opts VectorOptions) ([]byte, error) {
	if sc == nil {
		return nil, errors.NewInternalError("vector export requires a scene snapshot", nil)
	}

	w := round(sc.Width)
	h := round(sc.Height)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(w, h, `role="img"`)

	// Title and description originate in spec text; Title and Desc escape
	// their content, so spec text cannot inject markup into the document.
	if sc.Title != "" {
		canvas.Title(sc.Title)
	}
	if sc.Description != "" {
		canvas.Desc(sc.Description)
	}

	background := opts.Background
	if background == "" {
		background = sc.Background
	}
	if background != "" && background != "none" {
		canvas.Rect(0, 0, w, h, "fill:"+background)
	}

	canvas.Group(`class="marks"`)
	for _, m := range sc.Marks {
		if m.W <= 0 || m.H <= 0 {
			continue
		}
		canvas.Rect(round(m.X), round(m.Y), round(m.W), round(m.H), "fill:"+m.Fill)
	}
	canvas.Gend()

	canvas.Gstyle("font-family:sans-serif;font-size:11px;fill:#333")
	for _, m := range sc.Marks {
		if m.Label == "" || m.W <= 0 || m.H <= 0 {
			continue
		}
		anchor := "middle"
		if m.LabelX > m.X+m.W {
			// Adjacent-right placement used by horizontal bars.
			anchor = "start"
		}
		canvas.Text(round(m.LabelX), round(m.LabelY), m.Label,
			fmt.Sprintf("text-anchor:%s;dominant-baseline:middle", anchor))
	}
	canvas.Gend()

	canvas.End()
	return buf.Bytes(), nil
}

func round(v float64) int {
	return int(math.Round(v))
}
