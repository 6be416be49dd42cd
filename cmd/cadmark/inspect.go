package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/cadmark"
	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <handle>",
	Short: "Print the stored parameters of an instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDrawing(cmd, false, func(ctx context.Context, eng *cadmark.Engine) error {
			blob, err := eng.Inspect(ctx, domain.Handle(args[0]))
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(blob, "", "  ")
			if err != nil {
				return fmt.Errorf("error marshaling parameters: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
