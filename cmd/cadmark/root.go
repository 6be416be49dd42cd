package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cadmark",
	Short: "cadmark places and edits parametric CAD annotations",
	Long: `cadmark runs the annotation engine over drawing snapshots kept in a
file, memory or Redis store. Points are given on the command line in place
of a pointing device.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "cadmark.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().String("drawing", "default", "Drawing to work on")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level")
}
