package jig

import (
	"github.com/aretw0/cadmark/pkg/domain"
	"seehuhn.de/go/geom/vec"
)

// Step is one point acquisition of a creation session.
type Step struct {
	State  domain.JigState
	Prompt string

	// Anchor returns the previous point a sample must keep the minimum
	// distance from, and the rubber-band base. ok=false means neither.
	Anchor func(a *domain.Annotation) (p vec.Vec2, ok bool)
	// Apply writes an accepted point into the annotation.
	Apply func(a *domain.Annotation, p vec.Vec2)

	// Repeat keeps Drive on this step after each accepted point until the
	// user declines.
	Repeat bool
	// Optional lets the user skip the step without picking a point.
	Optional bool
}

// InsertionPoint places the insertion point.
func InsertionPoint(prompt string) Step {
	return Step{
		State:  domain.StateAwaitInsertionPoint,
		Prompt: prompt,
		Apply: func(a *domain.Annotation, p vec.Vec2) {
			a.SetInsertionPoint(p)
		},
	}
}

// EndPoint places the end point, kept away from the last chain point.
func EndPoint(prompt string) Step {
	return Step{
		State:  domain.StateAwaitNextPoint,
		Prompt: prompt,
		Anchor: lastBeforeEnd,
		Apply: func(a *domain.Annotation, p vec.Vec2) {
			a.SetEndPoint(p)
		},
	}
}

// NextPoints extends the point chain until the user declines. The first
// point becomes the end point, later ones push it along.
func NextPoints(prompt string) Step {
	return Step{
		State:  domain.StateAwaitNextPoint,
		Prompt: prompt,
		Anchor: lastVertex,
		Apply: func(a *domain.Annotation, p vec.Vec2) {
			if !a.HasEndPoint || !a.AppendVertex(p) {
				a.SetEndPoint(p)
			}
		},
		Repeat: true,
	}
}

// CustomPoint places custom point i of a CustomPointShape. The shape owns
// any spacing rule for its custom points.
func CustomPoint(prompt string, i int) Step {
	return Step{
		State:  domain.StateAwaitCustomPoint,
		Prompt: prompt,
		Apply: func(a *domain.Annotation, p vec.Vec2) {
			if cp, ok := a.Shape.(domain.CustomPointShape); ok {
				cp.SetCustomPoint(a, i, p)
			}
		},
	}
}

func lastVertex(a *domain.Annotation) (vec.Vec2, bool) {
	v := a.Vertices()
	return v[len(v)-1], true
}

func lastBeforeEnd(a *domain.Annotation) (vec.Vec2, bool) {
	v := a.Vertices()
	if a.HasEndPoint {
		v = v[:len(v)-1]
	}
	return v[len(v)-1], true
}
