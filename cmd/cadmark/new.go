package main

import (
	"context"
	"fmt"

	"github.com/aretw0/cadmark"
	"github.com/aretw0/cadmark/pkg/ports"
	"github.com/spf13/cobra"
	"seehuhn.de/go/geom/vec"
)

// scripted answers prompts from a fixed list of points. Once the list is
// exhausted it declines; at cancelAt it cancels.
type scripted struct {
	cmd      *cobra.Command
	points   []vec.Vec2
	cancelAt int
	n        int
}

func (s *scripted) AcquirePoint(_ context.Context, req ports.PointRequest) (vec.Vec2, ports.PointStatus, error) {
	s.n++
	if s.n == s.cancelAt {
		s.cmd.Printf("%s: *cancel*\n", req.Prompt)
		return vec.Vec2{}, ports.PointCancelled, nil
	}
	if len(s.points) == 0 {
		s.cmd.Printf("%s: <enter>\n", req.Prompt)
		return vec.Vec2{}, ports.PointNone, nil
	}
	p := s.points[0]
	s.points = s.points[1:]
	if req.Preview != nil {
		p = req.Preview(p)
	}
	s.cmd.Printf("%s: %g,%g\n", req.Prompt, p.X, p.Y)
	return p, ports.PointAccepted, nil
}

var newCmd = &cobra.Command{
	Use:   "new <type>",
	Short: "Place an annotation from scripted points",
	Long: `Place an annotation, answering its prompts with the --point values in
order. Once the points run out the remaining optional prompts are declined.`,
	Example: `  cadmark new Leader --point 0,0 --point 10,5
  cadmark new Section --point 0,0 --point 20,0 --point 20,15
  cadmark new Leader --point 0,0 --cancel-at 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetStringArray("point")
		cancelAt, _ := cmd.Flags().GetInt("cancel-at")
		src := &scripted{cmd: cmd, cancelAt: cancelAt}
		for _, s := range raw {
			p, err := parsePoint(s)
			if err != nil {
				return err
			}
			src.points = append(src.points, p)
		}

		return withDrawing(cmd, true, func(ctx context.Context, eng *cadmark.Engine) error {
			out, err := eng.Place(ctx, args[0], src)
			if err != nil {
				return err
			}
			if !out.Committed {
				cmd.Println("Cancelled.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Placed %s as %s\n", args[0], out.Handle)
			return nil
		})
	},
}

func init() {
	newCmd.Flags().StringArray("point", nil, "Point as x,y (repeatable)")
	newCmd.Flags().Int("cancel-at", 0, "Cancel at the n-th prompt")
	rootCmd.AddCommand(newCmd)
}
