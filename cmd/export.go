package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chartel-dev/chartel/internal/config"
	"github.com/chartel-dev/chartel/internal/engine"
	"github.com/chartel-dev/chartel/internal/export"
	"github.com/chartel-dev/chartel/internal/logging"
	"github.com/chartel-dev/chartel/internal/scene"
	"github.com/chartel-dev/chartel/internal/spec"
)

var (
	exportFormat     string
	exportOutput     string
	exportScale      float64
	exportPage       string
	exportLandscape  bool
	exportMargin     float64
	exportBackground string
)

var exportCmd = &cobra.Command{
	Use:     "export <spec-file>",
	Aliases: []string{"e"},
	Short:   "Export a chart to a static deliverable",
	Long: `Export renders the spec and serializes the completed scene into one of
five deliverables:

  svg   raw vector markup
  png   rasterized bitmap at --scale
  pdf   one-page document with the chart centered on --page
  html  self-contained bundle embedding markup and spec
  json  the pretty-printed spec alone (no rendering)`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := logging.NewLogger(&logging.Config{
			Level:  logging.ParseLevel(cfg.Logging.Level),
			Format: cfg.Logging.Format,
			Output: cmd.ErrOrStderr(),
		})

		s, err := spec.ParseFile(args[0])
		if err != nil {
			return err
		}

		format := engine.Format(strings.ToLower(exportFormat))
		eng := engine.New(logger)

		// The spec-only export is independent of any rendering state.
		var sc *scene.Scene
		if format != engine.FormatJSON {
			surface, err := eng.RenderStatic(cmd.Context(), s)
			if err != nil {
				return err
			}
			sc = surface.Snapshot()
		}

		req := buildRequest(format, cfg)
		out, err := eng.Export(sc, s, req)
		if err != nil {
			return err
		}

		dest := exportOutput
		if dest == "" {
			dest = strings.TrimSuffix(args[0], ".json")
			dest = strings.TrimSuffix(dest, ".yml")
			dest = strings.TrimSuffix(dest, ".yaml")
			dest = dest + "." + string(format)
		}
		if dest == "-" {
			_, err = cmd.OutOrStdout().Write(out)
			return err
		}
		if err := os.WriteFile(dest, out, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", dest, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", dest, len(out))
		return nil
	},
}

func buildRequest(format engine.Format, cfg *config.Config) engine.ExportRequest {
	vector := export.VectorOptions{Background: exportBackground}

	scale := exportScale
	if scale == 0 {
		scale = cfg.Export.Scale
	}
	bitmap := export.BitmapOptions{Scale: scale, VectorOptions: vector}

	page := exportPage
	if page == "" {
		page = cfg.Export.Page
	}
	margin := exportMargin
	if margin == 0 {
		margin = cfg.Export.MarginPt
	}
	document := export.DocumentOptions{
		Page:          export.PageSize(page),
		Landscape:     exportLandscape || cfg.Export.Landscape,
		Margin:        margin,
		BitmapOptions: bitmap,
	}

	return engine.ExportRequest{
		Format:   format,
		Vector:   vector,
		Bitmap:   bitmap,
		Document: document,
	}
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "svg", "deliverable format: svg, png, pdf, html, json")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default derived from spec file name)")
	exportCmd.Flags().Float64Var(&exportScale, "scale", 0, "bitmap scale factor (default from config)")
	exportCmd.Flags().StringVar(&exportPage, "page", "", "document page size: A3, A4, Letter, Legal")
	exportCmd.Flags().BoolVar(&exportLandscape, "landscape", false, "landscape page orientation")
	exportCmd.Flags().Float64Var(&exportMargin, "margin", 0, "document page margin in points")
	exportCmd.Flags().StringVar(&exportBackground, "background", "", `background color ("none" to omit)`)
	rootCmd.AddCommand(exportCmd)
}
