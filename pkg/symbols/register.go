package symbols

import (
	"github.com/aretw0/cadmark/pkg/codec"
	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/jig"
	"github.com/aretw0/cadmark/pkg/registry"
	"seehuhn.de/go/geom/vec"
)

// Register adds the reference types to r.
func Register(r *registry.Registry) {
	r.Register("Leader", NewLeader)
	r.Register("LevelMark", NewLevelMark)
	r.Register("Section", NewSection)
}

// NewRegistry returns a registry holding the reference types.
func NewRegistry() *registry.Registry {
	r := registry.NewRegistry()
	Register(r)
	return r
}

// Steps returns the creation steps of the named type.
func Steps(name string) ([]jig.Step, bool) {
	switch codec.SimpleTypeName(name) {
	case "Leader":
		return []jig.Step{
			jig.InsertionPoint("Specify arrow point"),
			jig.EndPoint("Specify shelf point"),
		}, true
	case "LevelMark":
		return []jig.Step{
			jig.InsertionPoint("Specify base point"),
			jig.CustomPoint("Specify object point", 0),
			{
				State:  domain.StateAwaitNextPoint,
				Prompt: "Specify shelf point",
				Anchor: func(a *domain.Annotation) (vec.Vec2, bool) {
					return levelOf(a).ObjectPoint, true
				},
				Apply: func(a *domain.Annotation, p vec.Vec2) { a.SetEndPoint(p) },
			},
		}, true
	case "Section":
		return []jig.Step{
			jig.InsertionPoint("Specify start point"),
			jig.NextPoints("Specify next point"),
		}, true
	}
	return nil, false
}
