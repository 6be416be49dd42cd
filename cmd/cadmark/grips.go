package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/aretw0/cadmark"
	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/spf13/cobra"
)

var gripsCmd = &cobra.Command{
	Use:   "grips <handle>",
	Short: "List the grip handles of an instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDrawing(cmd, false, func(ctx context.Context, eng *cadmark.Engine) error {
			h := domain.Handle(args[0])
			hs, err := eng.Grips().Collect(ctx, h, nil)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tKIND\tINDEX\tPOSITION\tPROPERTY")
			for i, g := range hs {
				fmt.Fprintf(w, "%d\t%s\t%d\t%g,%g\t%s\n", i, g.Kind, g.Index, g.Position.X, g.Position.Y, g.Property)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			return eng.Grips().Abort(ctx, h)
		})
	},
}

var moveGripCmd = &cobra.Command{
	Use:   "move-grip <handle> <grip#> <dx,dy>",
	Short: "Drag a grip handle and commit the edit",
	Long: `Drag grip <grip#>, as numbered by the grips command, by dx,dy. Handles
that act on click (add, remove, reverse and hot) are activated instead
when the offset is 0,0.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid grip number %q", args[1])
		}
		delta, err := parsePoint(args[2])
		if err != nil {
			return err
		}
		return withDrawing(cmd, true, func(ctx context.Context, eng *cadmark.Engine) error {
			h := domain.Handle(args[0])
			hs, err := eng.Grips().Collect(ctx, h, nil)
			if err != nil {
				return err
			}
			if idx < 0 || idx >= len(hs) {
				return fmt.Errorf("grip %d out of range (instance has %d)", idx, len(hs))
			}
			g := hs[idx]
			if delta.X == 0 && delta.Y == 0 {
				err = eng.Grips().Activate(ctx, g)
			} else {
				err = eng.Grips().Move(ctx, g, delta)
			}
			if err != nil {
				_ = eng.Grips().Abort(ctx, h)
				return err
			}
			if err := eng.Grips().Commit(ctx, h); err != nil {
				return err
			}
			cmd.Printf("Edited %s grip %d of %s\n", g.Kind, idx, h)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(gripsCmd)
	rootCmd.AddCommand(moveGripCmd)
}
