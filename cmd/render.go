package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chartel-dev/chartel/internal/config"
	"github.com/chartel-dev/chartel/internal/engine"
	"github.com/chartel-dev/chartel/internal/export"
	"github.com/chartel-dev/chartel/internal/logging"
	"github.com/chartel-dev/chartel/internal/spec"
)

var renderOutput string

var renderCmd = &cobra.Command{
	Use:     "render <spec-file>",
	Aliases: []string{"r"},
	Short:   "Render a chart spec to SVG",
	Long: `Render fetches the spec's data binding, runs a full reconciliation pass,
and writes the resting scene as SVG. For race charts the final frame is
rendered.`,
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

		eng := engine.New(logger)
		surface, err := eng.RenderStatic(cmd.Context(), s)
		if err != nil {
			return err
		}

		out, err := export.Vector(surface.Snapshot(), export.VectorOptions{})
		if err != nil {
			return err
		}

		if renderOutput == "" || renderOutput == "-" {
			_, err = cmd.OutOrStdout().Write(out)
			return err
		}
		if err := os.WriteFile(renderOutput, out, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", renderOutput, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", renderOutput, len(out))
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(renderCmd)
}
