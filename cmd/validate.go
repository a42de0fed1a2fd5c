package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chartel-dev/chartel/internal/accessibility"
	chartelerrors "github.com/chartel-dev/chartel/internal/errors"
	"github.com/chartel-dev/chartel/internal/spec"
)

var validateCmd = &cobra.Command{
	Use:     "validate <spec-file>",
	Aliases: []string{"v"},
	Short:   "Validate a chart specification",
	Long: `Validate parses a chart spec document (JSON or YAML), applies defaults,
and checks it against the schema rules. Every violation is reported with
its JSON path.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := spec.ParseFile(args[0])
		if err != nil {
			var ve *chartelerrors.ValidationError
			if errors.As(err, &ve) {
				fmt.Fprintf(cmd.ErrOrStderr(), "spec is invalid (%d issue(s)):\n", len(ve.Issues))
				for _, issue := range ve.Issues {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", issue)
				}
				return err
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: valid %s chart spec (version %s)\n", args[0], s.Type, s.Version)
		for _, issue := range accessibility.CheckPalette(s) {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", issue)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
