package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/cadmark"
	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/ports"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the instances and containers of a drawing",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDrawing(cmd, false, func(ctx context.Context, eng *cadmark.Engine) error {
			return eng.Document().View(ctx, func(tx ports.Transaction) error {
				recs := tx.Instances()
				if len(recs) == 0 {
					cmd.Println("No instances.")
					return nil
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "HANDLE\tTYPE\tPOSITION\tCONTAINER\tREFS")
				seen := make(map[domain.DefinitionID]bool)
				for _, rec := range recs {
					seen[rec.Definition] = true
					fmt.Fprintf(w, "%s\t%s\t%g,%g\t%s\t%d\n",
						rec.Handle, rec.TypeName,
						rec.InsertionPoint.X, rec.InsertionPoint.Y,
						rec.Definition, tx.References(rec.Definition))
				}
				if err := w.Flush(); err != nil {
					return err
				}
				cmd.Printf("%d instances, %d containers\n", len(recs), len(seen))
				return nil
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
