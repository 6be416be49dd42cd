package domain

import (
	"github.com/aretw0/cadmark/pkg/schema"
	"seehuhn.de/go/geom/vec"
)

// Shape is the type-specific strategy composed into an Annotation.
// A shape owns the type's own persisted fields.
type Shape interface {
	// TypeName is the simple, version-independent type name.
	TypeName() string
	// Properties declares the shape's persisted properties, re-targeted on
	// the owning annotation.
	Properties() schema.Table[*Annotation]
	// MinDistance is the unscaled minimum separation between adjacent
	// placement points.
	MinDistance() float64
	// Rebuild computes the primitives in local (OCS) space from the current
	// state. It may correct points that violate the minimum distance and
	// cache derived values, and must not otherwise mutate its inputs.
	Rebuild(a *Annotation) ([]Primitive, error)
	// OsnapPoints returns snap points in world space.
	OsnapPoints(a *Annotation) []vec.Vec2
	// Clone returns an independent copy of the shape.
	Clone() Shape
}

// HotGrip places an enum-cycle handle for the named enum property.
type HotGrip struct {
	Property string
	Position vec.Vec2 // world space
}

// HotShape is implemented by shapes that expose enum-cycle handles.
type HotShape interface {
	HotGrips(a *Annotation) []HotGrip
}

// CustomPointShape is implemented by shapes with placement points beyond
// the insertion point, middle points and end point.
type CustomPointShape interface {
	CustomPoints(a *Annotation) []vec.Vec2
	SetCustomPoint(a *Annotation, i int, p vec.Vec2)
}

// ReversibleShape is notified after the point order of a linear annotation
// was reversed.
type ReversibleShape interface {
	Reversed(a *Annotation)
}

// NeighborShape is implemented by shapes whose vertex i keeps its minimum
// distance to a point other than its predecessor in the placement chain.
type NeighborShape interface {
	Neighbor(a *Annotation, i int) (vec.Vec2, bool)
}
