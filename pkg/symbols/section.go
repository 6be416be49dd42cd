package symbols

import (
	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/geometry"
	"github.com/aretw0/cadmark/pkg/schema"
	"seehuhn.de/go/geom/vec"
)

// ArrowSide is the viewing side of a section, relative to the direction
// from the insertion point to the end point.
type ArrowSide int

const (
	ArrowLeft ArrowSide = iota
	ArrowRight
)

var arrowSides = []string{"Left", "Right"}

// Section paper sizes.
const (
	strokeLength     = 8.0
	strokeWidth      = 0.5
	viewArrowLength  = 6.0
	designationTextH = 3.5
)

// Section is a section line through the placement chain with end strokes,
// optional middle strokes, view-direction arrows and a designation at both
// ends.
type Section struct {
	Designation   string
	Side          ArrowSide
	MiddleStrokes bool
	TextHeight    float64
}

// NewSection returns a section annotation designated "A".
func NewSection() *domain.Annotation {
	a := domain.NewAnnotation(&Section{Designation: "A", TextHeight: designationTextH})
	a.Linear = &domain.Linear{}
	return a
}

func sectionOf(a *domain.Annotation) *Section { return a.Shape.(*Section) }

func (s *Section) TypeName() string     { return "Section" }
func (s *Section) MinDistance() float64 { return 0.5 }
func (s *Section) Clone() domain.Shape  { c := *s; return &c }

func (s *Section) Properties() schema.Table[*domain.Annotation] {
	return schema.Table[*domain.Annotation]{
		schema.StringProperty("Designation",
			func(a *domain.Annotation) string { return sectionOf(a).Designation },
			func(a *domain.Annotation, v string) { sectionOf(a).Designation = v }),
		schema.EnumProperty("ArrowSide", arrowSides,
			func(a *domain.Annotation) ArrowSide { return sectionOf(a).Side },
			func(a *domain.Annotation, v ArrowSide) { sectionOf(a).Side = v }),
		schema.BoolProperty("MiddleStrokes",
			func(a *domain.Annotation) bool { return sectionOf(a).MiddleStrokes },
			func(a *domain.Annotation, v bool) { sectionOf(a).MiddleStrokes = v }),
		schema.FloatProperty("TextHeight",
			func(a *domain.Annotation) float64 { return sectionOf(a).TextHeight },
			func(a *domain.Annotation, v float64) { sectionOf(a).TextHeight = v }),
	}
}

// Reversed keeps the viewing direction when the chain is flipped.
func (s *Section) Reversed(a *domain.Annotation) {
	if s.Side == ArrowLeft {
		s.Side = ArrowRight
	} else {
		s.Side = ArrowLeft
	}
}

// chain returns the placement chain in local space with the minimum
// distance applied. Corrected points are written back.
func (s *Section) chain(a *domain.Annotation) []vec.Vec2 {
	verts := a.Vertices()
	pts := make([]vec.Vec2, len(verts))
	for i, v := range verts {
		pts[i] = a.ToOCS(v)
	}
	if !a.HasEndPoint {
		return append(pts, pts[len(pts)-1].Add(vec.Vec2{X: strokeLength * a.Scale.Factor()}))
	}
	geometry.EnforceChain(pts, a.MinDistanceOCS(), vec.Vec2{X: 1})
	for i := 1; i < len(pts); i++ {
		if w := a.ToWorld(pts[i]); domain.Distance(w, verts[i]) > geometry.Epsilon {
			a.SetVertex(i, w)
		}
	}
	return pts
}

// view is the unit direction the arrows point to for a segment along d.
func (s *Section) view(d vec.Vec2) vec.Vec2 {
	n := d.Rot90()
	if s.Side == ArrowRight {
		return n.Neg()
	}
	return n
}

func (s *Section) Rebuild(a *domain.Annotation) ([]domain.Primitive, error) {
	f := a.Scale.Factor()
	h := s.TextHeight * f
	if h <= 0 {
		h = designationTextH * f
	}
	stroke := strokeLength * f
	width := strokeWidth * f
	pts := s.chain(a)
	n := len(pts)

	first := unit(pts[1].Sub(pts[0]), vec.Vec2{X: 1})
	last := unit(pts[n-1].Sub(pts[n-2]), vec.Vec2{X: 1})

	var prims []domain.Primitive
	prims = append(prims,
		domain.Polyline{Points: []vec.Vec2{pts[0], pts[0].Add(first.Mul(stroke))}, Width: width},
		domain.Polyline{Points: []vec.Vec2{pts[n-1].Sub(last.Mul(stroke)), pts[n-1]}, Width: width},
	)
	if s.MiddleStrokes {
		for i := 1; i < n-1; i++ {
			in := unit(pts[i].Sub(pts[i-1]), first)
			out := unit(pts[i+1].Sub(pts[i]), last)
			prims = append(prims, domain.Polyline{
				Points: []vec.Vec2{pts[i].Sub(in.Mul(stroke / 2)), pts[i], pts[i].Add(out.Mul(stroke / 2))},
				Width:  width,
			})
		}
	}
	if a.JigState == domain.StateAwaitInsertionPoint {
		return prims, nil
	}

	for _, end := range []struct{ at, along vec.Vec2 }{{pts[0], first}, {pts[n-1], last}} {
		v := s.view(end.along)
		base := end.at.Add(end.along.Mul(stroke / 2))
		tip := base.Add(v.Mul(viewArrowLength * f))
		head, shaft := terminator(ArrowFilled, tip, v, f)
		prims = append(prims, domain.Line{Start: base, End: shaft})
		prims = append(prims, head...)
		label := tip.Add(v.Mul(textGap * f))
		if v.Y < 0 {
			label = label.Sub(vec.Vec2{Y: h})
		}
		prims = append(prims, geometry.Masked(domain.Text{Position: label, Value: s.Designation, Height: h, Align: domain.AlignCenter}, h/10)...)
	}
	return prims, nil
}

func (s *Section) OsnapPoints(a *domain.Annotation) []vec.Vec2 {
	return a.Vertices()
}

// HotGrips places the side handle at the tip of the first view arrow.
func (s *Section) HotGrips(a *domain.Annotation) []domain.HotGrip {
	if !a.HasEndPoint {
		return nil
	}
	verts := a.Vertices()
	p0, p1 := a.ToOCS(verts[0]), a.ToOCS(verts[1])
	first := unit(p1.Sub(p0), vec.Vec2{X: 1})
	f := a.Scale.Factor()
	tip := p0.Add(first.Mul(strokeLength * f / 2)).Add(s.view(first).Mul(viewArrowLength * f))
	return []domain.HotGrip{{Property: "ArrowSide", Position: a.ToWorld(tip)}}
}
