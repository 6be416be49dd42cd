package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var errFailed = errors.New("some drawings could not be removed")

var drawingCmd = &cobra.Command{
	Use:   "drawing",
	Short: "Manage stored drawings",
}

var drawingLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored drawings",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		ids, err := e.manager.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			cmd.Println("No drawings found.")
			return nil
		}
		for _, id := range ids {
			cmd.Println("- " + id)
		}
		return nil
	},
}

var drawingRmCmd = &cobra.Command{
	Use:   "rm <drawing-id>...",
	Short: "Remove one or more drawings",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		var failed bool
		for _, id := range args {
			if err := e.manager.Delete(cmd.Context(), id); err != nil {
				cmd.PrintErrf("Error removing '%s': %v\n", id, err)
				failed = true
				continue
			}
			cmd.Printf("Removed drawing '%s'\n", id)
		}
		if failed {
			return errFailed
		}
		return nil
	},
}

func init() {
	drawingCmd.AddCommand(drawingLsCmd)
	drawingCmd.AddCommand(drawingRmCmd)
	rootCmd.AddCommand(drawingCmd)
}
