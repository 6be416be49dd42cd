package symbols

import (
	"strconv"

	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/geometry"
	"github.com/aretw0/cadmark/pkg/schema"
	"seehuhn.de/go/geom/vec"
)

// MarkSide selects the direction of a level mark shelf.
type MarkSide int

const (
	MarkRight MarkSide = iota
	MarkLeft
)

var markSides = []string{"Right", "Left"}

// LevelMark marks the elevation of an object point. The insertion point
// is the base point at BaseElevation; the elevation text sits on a shelf
// ending at the end point.
type LevelMark struct {
	ObjectPoint   vec.Vec2 // world space
	BaseElevation float64
	// UnitFactor converts drawing units to elevation units.
	UnitFactor float64
	Precision  int
	Note       string
	Side       MarkSide
	TextHeight float64

	// Elevation is the measured value at the object point, cached by
	// Rebuild.
	Elevation float64
}

// NewLevelMark returns a level mark measuring millimetre drawings in metres.
func NewLevelMark() *domain.Annotation {
	return domain.NewAnnotation(&LevelMark{UnitFactor: 0.001, Precision: 3, TextHeight: textHeight})
}

func levelOf(a *domain.Annotation) *LevelMark { return a.Shape.(*LevelMark) }

func (m *LevelMark) TypeName() string     { return "LevelMark" }
func (m *LevelMark) MinDistance() float64 { return 1 }
func (m *LevelMark) Clone() domain.Shape  { c := *m; return &c }

func (m *LevelMark) Properties() schema.Table[*domain.Annotation] {
	return schema.Table[*domain.Annotation]{
		schema.PointProperty("ObjectPoint",
			func(a *domain.Annotation) vec.Vec2 { return levelOf(a).ObjectPoint },
			func(a *domain.Annotation, v vec.Vec2) { levelOf(a).ObjectPoint = v }),
		schema.FloatProperty("BaseElevation",
			func(a *domain.Annotation) float64 { return levelOf(a).BaseElevation },
			func(a *domain.Annotation, v float64) { levelOf(a).BaseElevation = v }),
		schema.FloatProperty("UnitFactor",
			func(a *domain.Annotation) float64 { return levelOf(a).UnitFactor },
			func(a *domain.Annotation, v float64) { levelOf(a).UnitFactor = v }),
		schema.IntProperty("Precision",
			func(a *domain.Annotation) int { return levelOf(a).Precision },
			func(a *domain.Annotation, v int) { levelOf(a).Precision = v }),
		schema.StringProperty("Note",
			func(a *domain.Annotation) string { return levelOf(a).Note },
			func(a *domain.Annotation, v string) { levelOf(a).Note = v }),
		schema.EnumProperty("MarkSide", markSides,
			func(a *domain.Annotation) MarkSide { return levelOf(a).Side },
			func(a *domain.Annotation, v MarkSide) { levelOf(a).Side = v }),
		schema.FloatProperty("TextHeight",
			func(a *domain.Annotation) float64 { return levelOf(a).TextHeight },
			func(a *domain.Annotation, v float64) { levelOf(a).TextHeight = v }),
		schema.FloatProperty("Elevation",
			func(a *domain.Annotation) float64 { return levelOf(a).Elevation },
			func(a *domain.Annotation, v float64) { levelOf(a).Elevation = v }),
	}
}

func (m *LevelMark) CustomPoints(a *domain.Annotation) []vec.Vec2 {
	return []vec.Vec2{m.ObjectPoint}
}

func (m *LevelMark) SetCustomPoint(a *domain.Annotation, i int, p vec.Vec2) {
	if i == 0 {
		m.ObjectPoint = p
	}
}

// Neighbor keeps the end point away from the object point rather than the
// base point.
func (m *LevelMark) Neighbor(a *domain.Annotation, i int) (vec.Vec2, bool) {
	if a.HasEndPoint && i == len(a.Vertices())-1 {
		return m.ObjectPoint, true
	}
	return vec.Vec2{}, false
}

// Text returns the formatted elevation, signed except for zero.
func (m *LevelMark) Text() string {
	prec := max(m.Precision, 0)
	v := strconv.FormatFloat(m.Elevation, 'f', prec, 64)
	zero := strconv.FormatFloat(0, 'f', prec, 64)
	switch {
	case v == zero || v == "-"+zero:
		return "±" + zero
	case m.Elevation > 0:
		return "+" + v
	}
	return v
}

func (m *LevelMark) Rebuild(a *domain.Annotation) ([]domain.Primitive, error) {
	s := a.Scale.Factor()
	h := m.TextHeight * s
	if h <= 0 {
		h = textHeight * s
	}
	gap := textGap * s

	// The object point follows the base point until it is picked.
	if a.JigState == domain.StateAwaitInsertionPoint {
		m.ObjectPoint = a.InsertionPoint
	}
	obj := a.ToOCS(m.ObjectPoint)
	m.Elevation = m.BaseElevation + (m.ObjectPoint.Y-a.InsertionPoint.Y)*m.UnitFactor

	var end vec.Vec2
	if a.HasEndPoint && a.JigState != domain.StateAwaitCustomPoint {
		end = a.ToOCS(a.EndPoint)
		fixed := geometry.EnforceMinDistance(obj, end, a.MinDistanceOCS(), vec.Vec2{X: 1})
		if fixed != end {
			a.EndPoint = a.ToWorld(fixed)
			end = fixed
		}
	} else {
		end = obj.Add(vec.Vec2{X: 2 * arrowLength * s, Y: 2 * arrowLength * s})
	}

	text := m.Text()
	dir := 1.0
	align := domain.AlignLeft
	if m.Side == MarkLeft {
		dir, align = -1, domain.AlignRight
	}
	length := max(geometry.TextWidth(text, h), geometry.TextWidth(m.Note, h)) + 2*gap

	// Triangle standing on the object point.
	half := arrowWidth * s
	mark := domain.Polyline{Points: []vec.Vec2{
		obj,
		obj.Add(vec.Vec2{X: -half, Y: half * 1.5}),
		obj.Add(vec.Vec2{X: half, Y: half * 1.5}),
	}, Closed: true}

	corner := vec.Vec2{X: obj.X, Y: end.Y}
	shelfEnd := end.Add(vec.Vec2{X: dir * length})
	prims := []domain.Primitive{
		mark,
		domain.Polyline{Points: []vec.Vec2{obj, corner, end, shelfEnd}},
	}
	prims = append(prims, geometry.Masked(domain.Text{Position: vec.Vec2{X: end.X + dir*gap, Y: end.Y + gap}, Value: text, Height: h, Align: align}, gap/2)...)
	prims = append(prims, geometry.Masked(domain.Text{Position: vec.Vec2{X: end.X + dir*gap, Y: end.Y - gap - h}, Value: m.Note, Height: h, Align: align}, gap/2)...)
	return prims, nil
}

func (m *LevelMark) OsnapPoints(a *domain.Annotation) []vec.Vec2 {
	pts := []vec.Vec2{a.InsertionPoint, m.ObjectPoint}
	if a.HasEndPoint {
		pts = append(pts, a.EndPoint)
	}
	return pts
}

// HotGrips places the side handle under the shelf start.
func (m *LevelMark) HotGrips(a *domain.Annotation) []domain.HotGrip {
	if !a.HasEndPoint {
		return nil
	}
	off := vec.Vec2{Y: -2 * textHeight * a.Scale.Factor()}
	return []domain.HotGrip{{Property: "MarkSide", Position: a.ToWorld(a.ToOCS(a.EndPoint).Add(off))}}
}
