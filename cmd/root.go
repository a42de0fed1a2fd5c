// Package cmd provides the command-line interface for chartel with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration with clear precedence:
//	1. Command-line flags (--config, --port, etc.) - highest priority
//	2. CHARTEL_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (CHARTEL_SERVER_PORT, etc.)
//	4. Configuration files (.chartel.yml) - lowest priority
//
// Environment Variables:
//
//	CHARTEL_CONFIG_FILE: Path to custom configuration file
//	CHARTEL_SERVER_PORT: Override preview server port
//	CHARTEL_EXPORT_SCALE: Override bitmap export scale
//	And more following the CHARTEL_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chartel",
	Short: "A declarative chart rendering and export engine",
	Long: `Chartel turns a versioned chart specification plus a tabular record set
into an animated vector drawing, and serializes completed drawings into
static deliverables.

Key Features:
  • Spec-driven bar charts: grouped, stacked, and percent-stacked modes
  • Temporal bar races with smooth keyed transitions
  • SVG, PNG, PDF, HTML bundle, and spec-only exports
  • Live preview server with file watching and websocket updates

Quick Start:
  chartel validate chart.json        Validate a chart spec
  chartel render chart.json          Render a spec to SVG
  chartel export chart.json -f png   Export to another format
  chartel serve chart.json           Live preview with hot re-render

Command Aliases (for faster typing):
  validate (v), render (r), export (e), serve (s)`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .chartel.yml, can also use CHARTEL_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system with support for
// multiple config sources, highest priority first: the --config flag, the
// CHARTEL_CONFIG_FILE environment variable, then .chartel.yml in the
// current directory.
func initConfig() {
	switch {
	case cfgFile != "":
		viper.SetConfigFile(cfgFile)
	case os.Getenv("CHARTEL_CONFIG_FILE") != "":
		viper.SetConfigFile(os.Getenv("CHARTEL_CONFIG_FILE"))
	default:
		viper.AddConfigPath(".")
		viper.SetConfigName(".chartel")
		viper.SetConfigType("yml")
	}

	viper.SetEnvPrefix("CHARTEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Missing config files are fine; syntax errors are not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "reading config: %v\n", err)
		}
	}
}
