package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/cadmark"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of cadmark",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cadmark version %s\n", strings.TrimSpace(cadmark.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
