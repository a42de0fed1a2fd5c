package export

import (
	"bytes"
	"html/template"

	"github.com/chartel-dev/chartel/internal/errors"
	"github.com/chartel-dev/chartel/internal/scene"
	"github.com/chartel-dev/chartel/internal/spec"
)

// bundleTemplate wraps the vector markup and the pretty-printed spec in
// one self-contained HTML document. The spec text flows through
// html/template's contextual auto-escaping, so spec content cannot inject
// markup into the bundle.
var bundleTemplate = template.Must(template.New("bundle").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
figure { margin: 0 0 2rem 0; }
pre { background: #f6f6f6; padding: 1rem; overflow-x: auto; font-size: 13px; }
</style>
</head>
<body>
<figure role="img" aria-label="{{.Title}}">
{{.SVG}}
{{if .Description}}<figcaption>{{.Description}}</figcaption>{{end}}
</figure>
<details open>
<summary>Chart specification</summary>
<pre>{{.Spec}}</pre>
</details>
</body>
</html>
`))

type bundleData struct {
	Title       string
	Description string
	SVG         template.HTML
	Spec        string
}

// Bundle produces a self-contained HTML document embedding both the
// scene's vector markup and a pretty-printed copy of the spec.
func Bundle(sc *scene.Scene, s *spec.ChartSpec, opts VectorOptions) ([]byte, error) {
	if sc == nil {
		return nil, errors.NewInternalError("bundle export requires a scene snapshot", nil)
	}

	markup, err := Vector(sc, opts)
	if err != nil {
		return nil, err
	}
	pretty, err := Spec(s)
	if err != nil {
		return nil, err
	}

	d := bundleData{
		Title:       sc.Title,
		Description: sc.Description,
		// The markup is produced by our own serializer from numeric
		// geometry and palette colors, never from spec text, so it is
		// safe to embed unescaped.
		SVG:  template.HTML(markup),
		Spec: string(pretty),
	}
	if d.Title == "" {
		d.Title = "Chart"
	}

	var buf bytes.Buffer
	if err := bundleTemplate.Execute(&buf, d); err != nil {
		return nil, errors.NewInternalError("rendering bundle template", err)
	}
	return buf.Bytes(), nil
}

// Spec serializes the spec alone as pretty-printed JSON, independent of
// any rendering state. Parsing the output back yields a spec deep-equal
// to the input.
func Spec(s *spec.ChartSpec) ([]byte, error) {
	if s == nil {
		return nil, errors.NewValidationError(errors.Issue{Path: "$", Message: "spec is nil"})
	}
	return spec.Pretty(s)
}
