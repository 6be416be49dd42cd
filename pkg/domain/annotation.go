package domain

import (
	"math"
	"slices"

	"github.com/aretw0/cadmark/pkg/schema"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Annotation is a placed parametric symbol: the fields every annotation type
// shares, composed with a type-specific Shape.
//
// InsertionPoint, EndPoint and MiddlePoints are world coordinates. Local
// (OCS) coordinates are world coordinates transformed by the inverse of
// BlockTransform.
type Annotation struct {
	Handle   Handle
	TypeName string

	InsertionPoint vec.Vec2
	EndPoint       vec.Vec2
	HasEndPoint    bool

	Rotation       float64
	ScaleFactorX   float64
	BlockTransform matrix.Matrix

	Scale         AnnotationScale
	LineType      string
	LineTypeScale float64
	Layer         string

	JigState   JigState
	Definition DefinitionID

	// Linear is set for annotation types made of a chain of points.
	Linear *Linear
	Shape  Shape

	primitives []Primitive
}

// Linear is the optional component for annotations drawn through an
// ordered chain of points: InsertionPoint, MiddlePoints..., EndPoint.
type Linear struct {
	MiddlePoints []vec.Vec2
}

// NewAnnotation creates an annotation with type defaults for shape.
func NewAnnotation(shape Shape) *Annotation {
	a := &Annotation{
		TypeName:      shape.TypeName(),
		ScaleFactorX:  1,
		Scale:         DefaultScale,
		LineType:      "Continuous",
		LineTypeScale: 1,
		Layer:         "0",
		Shape:         shape,
	}
	a.updateTransform()
	return a
}

// SetPlacement sets the insertion point, rotation and X scale and
// recomputes the block transform. Other world points are left unchanged.
func (a *Annotation) SetPlacement(ip vec.Vec2, rotation, scaleX float64) {
	a.InsertionPoint = ip
	a.Rotation = rotation
	if scaleX == 0 {
		scaleX = 1
	}
	a.ScaleFactorX = scaleX
	a.updateTransform()
}

// SetInsertionPoint moves the insertion point alone.
func (a *Annotation) SetInsertionPoint(p vec.Vec2) {
	a.SetPlacement(p, a.Rotation, a.ScaleFactorX)
}

// SetEndPoint sets the end point.
func (a *Annotation) SetEndPoint(p vec.Vec2) {
	a.EndPoint = p
	a.HasEndPoint = true
}

func (a *Annotation) updateTransform() {
	a.BlockTransform = Placement(a.InsertionPoint, a.Rotation, a.ScaleFactorX)
}

// MoveBy translates the whole annotation, every placement point included.
func (a *Annotation) MoveBy(d vec.Vec2) {
	if cp, ok := a.Shape.(CustomPointShape); ok {
		for i, p := range cp.CustomPoints(a) {
			cp.SetCustomPoint(a, i, p.Add(d))
		}
	}
	a.EndPoint = a.EndPoint.Add(d)
	if a.Linear != nil {
		for i := range a.Linear.MiddlePoints {
			a.Linear.MiddlePoints[i] = a.Linear.MiddlePoints[i].Add(d)
		}
	}
	a.SetInsertionPoint(a.InsertionPoint.Add(d))
}

// ToOCS transforms a world point into local space.
func (a *Annotation) ToOCS(p vec.Vec2) vec.Vec2 {
	return Transform(Inverse(a.BlockTransform), p)
}

// ToWorld transforms a local point into world space.
func (a *Annotation) ToWorld(p vec.Vec2) vec.Vec2 {
	return Transform(a.BlockTransform, p)
}

// InsertionPointOCS is the insertion point in local space.
func (a *Annotation) InsertionPointOCS() vec.Vec2 {
	return a.ToOCS(a.InsertionPoint)
}

// XAxis is the unit direction of the local X axis in world space.
func (a *Annotation) XAxis() vec.Vec2 {
	d := a.ToWorld(vec.Vec2{X: 1}).Sub(a.ToWorld(vec.Vec2{}))
	if d.Length() == 0 {
		return vec.Vec2{X: 1}
	}
	return d.Normalize()
}

// BlockScale is the magnitude of the block transform's scale.
func (a *Annotation) BlockScale() float64 {
	if a.ScaleFactorX == 0 {
		return 1
	}
	return math.Abs(a.ScaleFactorX)
}

// MinDistanceOCS is the scaled minimum separation in local space.
func (a *Annotation) MinDistanceOCS() float64 {
	if a.Shape == nil {
		return 0
	}
	return a.Shape.MinDistance() * a.Scale.Factor()
}

// MinDistanceWorld is the scaled minimum separation in world space.
func (a *Annotation) MinDistanceWorld() float64 {
	return a.MinDistanceOCS() * a.BlockScale()
}

// Vertices returns the placement chain in world space: the insertion
// point, any middle points, and the end point when set.
func (a *Annotation) Vertices() []vec.Vec2 {
	pts := []vec.Vec2{a.InsertionPoint}
	if a.Linear != nil {
		pts = append(pts, a.Linear.MiddlePoints...)
	}
	if a.HasEndPoint {
		pts = append(pts, a.EndPoint)
	}
	return pts
}

// SetVertex replaces vertex i of the placement chain. Vertex 0 moves the
// insertion point alone.
func (a *Annotation) SetVertex(i int, p vec.Vec2) {
	n := len(a.Vertices())
	switch {
	case i <= 0:
		a.SetInsertionPoint(p)
	case a.HasEndPoint && i == n-1:
		a.EndPoint = p
	case a.Linear != nil && i-1 < len(a.Linear.MiddlePoints):
		a.Linear.MiddlePoints[i-1] = p
	}
}

// InsertVertex inserts p before vertex i (0 < i < len(Vertices())).
// Requires the Linear component.
func (a *Annotation) InsertVertex(i int, p vec.Vec2) bool {
	if a.Linear == nil || i <= 0 || i >= len(a.Vertices()) {
		return false
	}
	a.Linear.MiddlePoints = slices.Insert(a.Linear.MiddlePoints, i-1, p)
	return true
}

// AppendVertex extends the chain: the current end point becomes a middle
// point and p becomes the end point.
func (a *Annotation) AppendVertex(p vec.Vec2) bool {
	if a.Linear == nil {
		return false
	}
	if a.HasEndPoint {
		a.Linear.MiddlePoints = append(a.Linear.MiddlePoints, a.EndPoint)
	}
	a.SetEndPoint(p)
	return true
}

// RemoveVertex removes interior vertex i.
func (a *Annotation) RemoveVertex(i int) bool {
	if a.Linear == nil || i <= 0 || i-1 >= len(a.Linear.MiddlePoints) {
		return false
	}
	a.Linear.MiddlePoints = slices.Delete(a.Linear.MiddlePoints, i-1, i)
	return true
}

// Reverse reverses the direction of a linear annotation: the end point
// becomes the insertion point and the middle points are reversed.
func (a *Annotation) Reverse() bool {
	if a.Linear == nil || !a.HasEndPoint {
		return false
	}
	start := a.InsertionPoint
	slices.Reverse(a.Linear.MiddlePoints)
	a.SetInsertionPoint(a.EndPoint)
	a.EndPoint = start
	if r, ok := a.Shape.(ReversibleShape); ok {
		r.Reversed(a)
	}
	return true
}

// Primitives returns the last valid primitive set.
func (a *Annotation) Primitives() []Primitive {
	return a.primitives
}

// SetPrimitives records a valid primitive set.
func (a *Annotation) SetPrimitives(prims []Primitive) {
	a.primitives = prims
}

// Clone returns an independent copy of the annotation.
func (a *Annotation) Clone() *Annotation {
	out := *a
	if a.Linear != nil {
		out.Linear = &Linear{MiddlePoints: slices.Clone(a.Linear.MiddlePoints)}
	}
	if a.Shape != nil {
		out.Shape = a.Shape.Clone()
	}
	out.primitives = slices.Clone(a.primitives)
	return &out
}

// ApplyRecord copies the host-owned placement of rec onto the annotation.
func (a *Annotation) ApplyRecord(rec InstanceRecord) {
	a.Handle = rec.Handle
	a.Definition = rec.Definition
	if rec.Layer != "" {
		a.Layer = rec.Layer
	}
	a.SetPlacement(rec.InsertionPoint, rec.Rotation, rec.ScaleFactorX)
}

// Record returns the host-side placement of the annotation.
// XData is left for the caller to fill.
func (a *Annotation) Record() InstanceRecord {
	return InstanceRecord{
		Handle:         a.Handle,
		TypeName:       a.TypeName,
		InsertionPoint: a.InsertionPoint,
		Rotation:       a.Rotation,
		ScaleFactorX:   a.ScaleFactorX,
		Layer:          a.Layer,
		Definition:     a.Definition,
	}
}

// Properties returns the full persisted property table: the common
// properties, the Linear component's points, then the shape's own.
func (a *Annotation) Properties() schema.Table[*Annotation] {
	table := slices.Clone(commonProperties)
	if a.Linear != nil {
		table = append(table, linearProperties...)
	}
	if a.Shape != nil {
		table = append(table, a.Shape.Properties()...)
	}
	return table
}

var commonProperties = schema.Table[*Annotation]{
	schema.ScaleProperty("Scale",
		func(a *Annotation) string { return a.Scale.Name() },
		func(a *Annotation, v string) {
			if s, err := ParseScale(v); err == nil {
				a.Scale = s
			}
		}),
	schema.StringProperty("LineType",
		func(a *Annotation) string { return a.LineType },
		func(a *Annotation, v string) { a.LineType = v }),
	schema.FloatProperty("LineTypeScale",
		func(a *Annotation) float64 { return a.LineTypeScale },
		func(a *Annotation, v float64) { a.LineTypeScale = v }),
	{
		Name: "EndPoint",
		Type: schema.Point(),
		Get:  func(a *Annotation) any { return a.EndPoint },
		Set: func(a *Annotation, v any) {
			if p, ok := v.(vec.Vec2); ok {
				a.SetEndPoint(p)
			}
		},
		Omit: func(a *Annotation) bool { return !a.HasEndPoint },
	},
}

var linearProperties = schema.Table[*Annotation]{
	schema.PointListProperty("MiddlePoints",
		func(a *Annotation) []vec.Vec2 { return a.Linear.MiddlePoints },
		func(a *Annotation, v []vec.Vec2) { a.Linear.MiddlePoints = v }),
}
