package jig

import (
	"context"

	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/ports"
	"seehuhn.de/go/geom/vec"
)

// Outcome is the result of a driven session.
type Outcome struct {
	Committed bool
	Handle    domain.Handle
	Points    []vec.Vec2
}

// Drive runs s through steps against src and finishes it. A cancelled
// prompt, or a declined required step, aborts the session and is reported
// as an uncommitted Outcome rather than an error.
func Drive(ctx context.Context, s *Session, src ports.PointSource, steps ...Step) (Outcome, error) {
	var out Outcome
	if len(steps) > 0 {
		s.Expect(steps[0])
	}
	if err := s.Begin(ctx); err != nil {
		return out, err
	}
	for _, step := range steps {
		s.Expect(step)
		for {
			req := ports.PointRequest{
				Prompt: step.Prompt,
				Preview: func(p vec.Vec2) vec.Vec2 {
					pv, err := s.Sample(p)
					if err != nil {
						return p
					}
					return pv.Point
				},
			}
			req.Base, req.HasBase = s.Base()

			p, status, err := src.AcquirePoint(ctx, req)
			if err != nil {
				_ = s.Abort(ctx)
				return out, err
			}
			if status == ports.PointAccepted {
				resolved, err := s.Accept(ctx, p)
				if err != nil {
					_ = s.Abort(ctx)
					return out, err
				}
				out.Points = append(out.Points, resolved)
				if step.Repeat {
					continue
				}
				break
			}
			if status == ports.PointNone && (step.Optional || (step.Repeat && s.Accepted() > 0)) {
				break
			}
			return out, s.Abort(ctx)
		}
	}

	if err := s.Finish(ctx); err != nil {
		_ = s.Abort(ctx)
		return out, err
	}
	out.Committed = true
	out.Handle = s.Annotation().Handle
	return out, nil
}
