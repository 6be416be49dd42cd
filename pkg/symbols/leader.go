package symbols

import (
	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/geometry"
	"github.com/aretw0/cadmark/pkg/schema"
	"seehuhn.de/go/geom/vec"
)

// ShelfSide selects the direction of a leader shelf.
type ShelfSide int

const (
	// ShelfAuto points the shelf away from the arrow.
	ShelfAuto ShelfSide = iota
	ShelfLeft
	ShelfRight
)

var shelfSides = []string{"Auto", "Left", "Right"}

// Leader is a call-out: an arrow at the insertion point, a leader line to
// the end point and a horizontal shelf carrying a top and a bottom text.
type Leader struct {
	TopText    string
	BottomText string
	Arrow      ArrowType
	Side       ShelfSide
	TextHeight float64

	// ShelfLength is the drawn shelf length in local units, cached by
	// Rebuild.
	ShelfLength float64
}

// NewLeader returns a leader annotation with default settings.
func NewLeader() *domain.Annotation {
	return domain.NewAnnotation(&Leader{TextHeight: textHeight})
}

func leaderOf(a *domain.Annotation) *Leader { return a.Shape.(*Leader) }

func (l *Leader) TypeName() string     { return "Leader" }
func (l *Leader) MinDistance() float64 { return 1 }
func (l *Leader) Clone() domain.Shape  { c := *l; return &c }

func (l *Leader) Properties() schema.Table[*domain.Annotation] {
	return schema.Table[*domain.Annotation]{
		schema.StringProperty("TopText",
			func(a *domain.Annotation) string { return leaderOf(a).TopText },
			func(a *domain.Annotation, v string) { leaderOf(a).TopText = v }),
		schema.StringProperty("BottomText",
			func(a *domain.Annotation) string { return leaderOf(a).BottomText },
			func(a *domain.Annotation, v string) { leaderOf(a).BottomText = v }),
		schema.EnumProperty("ArrowType", arrowTypes,
			func(a *domain.Annotation) ArrowType { return leaderOf(a).Arrow },
			func(a *domain.Annotation, v ArrowType) { leaderOf(a).Arrow = v }),
		schema.EnumProperty("ShelfSide", shelfSides,
			func(a *domain.Annotation) ShelfSide { return leaderOf(a).Side },
			func(a *domain.Annotation, v ShelfSide) { leaderOf(a).Side = v }),
		schema.FloatProperty("TextHeight",
			func(a *domain.Annotation) float64 { return leaderOf(a).TextHeight },
			func(a *domain.Annotation, v float64) { leaderOf(a).TextHeight = v }),
		schema.FloatProperty("ShelfLength",
			func(a *domain.Annotation) float64 { return leaderOf(a).ShelfLength },
			func(a *domain.Annotation, v float64) { leaderOf(a).ShelfLength = v }),
	}
}

// end returns the shelf point in local space. Before the end point is
// picked a default offset is previewed. A shelf point closer than the
// minimum distance is pushed out and written back.
func (l *Leader) end(a *domain.Annotation) vec.Vec2 {
	ip := a.InsertionPointOCS()
	if !a.HasEndPoint {
		s := a.Scale.Factor()
		return ip.Add(vec.Vec2{X: 5 * s, Y: 5 * s})
	}
	end := a.ToOCS(a.EndPoint)
	fixed := geometry.EnforceMinDistance(ip, end, a.MinDistanceOCS(), vec.Vec2{X: 1})
	if fixed != end {
		a.EndPoint = a.ToWorld(fixed)
	}
	return fixed
}

// direction is the local X direction of the shelf.
func (l *Leader) direction(ip, end vec.Vec2) float64 {
	switch l.Side {
	case ShelfLeft:
		return -1
	case ShelfRight:
		return 1
	}
	if end.X < ip.X {
		return -1
	}
	return 1
}

func (l *Leader) Rebuild(a *domain.Annotation) ([]domain.Primitive, error) {
	s := a.Scale.Factor()
	h := l.TextHeight * s
	if h <= 0 {
		h = textHeight * s
	}
	gap := textGap * s
	ip := a.InsertionPointOCS()
	end := l.end(a)
	dir := l.direction(ip, end)

	w := max(geometry.TextWidth(l.TopText, h), geometry.TextWidth(l.BottomText, h))
	l.ShelfLength = w + 2*gap
	if w == 0 {
		l.ShelfLength = arrowLength * s
	}
	shelfEnd := end.Add(vec.Vec2{X: dir * l.ShelfLength})

	prims, shaft := terminator(l.Arrow, ip, unit(ip.Sub(end), vec.Vec2{X: -1}), s)
	prims = append(prims,
		domain.Line{Start: shaft, End: end},
		domain.Line{Start: end, End: shelfEnd},
	)

	align := domain.AlignLeft
	textX := end.X + gap
	if dir < 0 {
		align = domain.AlignRight
		textX = end.X - gap
	}
	prims = append(prims, geometry.Masked(domain.Text{Position: vec.Vec2{X: textX, Y: end.Y + gap}, Value: l.TopText, Height: h, Align: align}, gap/2)...)
	prims = append(prims, geometry.Masked(domain.Text{Position: vec.Vec2{X: textX, Y: end.Y - gap - h}, Value: l.BottomText, Height: h, Align: align}, gap/2)...)
	return prims, nil
}

func (l *Leader) shelfEnd(a *domain.Annotation) vec.Vec2 {
	ip := a.InsertionPointOCS()
	end := a.ToOCS(a.EndPoint)
	return end.Add(vec.Vec2{X: l.direction(ip, end) * l.ShelfLength})
}

func (l *Leader) OsnapPoints(a *domain.Annotation) []vec.Vec2 {
	if !a.HasEndPoint {
		return []vec.Vec2{a.InsertionPoint}
	}
	return []vec.Vec2{a.InsertionPoint, a.EndPoint, a.ToWorld(l.shelfEnd(a))}
}

// HotGrips places the arrow type handle just past the shelf end.
func (l *Leader) HotGrips(a *domain.Annotation) []domain.HotGrip {
	if !a.HasEndPoint {
		return nil
	}
	ip := a.InsertionPointOCS()
	end := a.ToOCS(a.EndPoint)
	p := l.shelfEnd(a).Add(vec.Vec2{X: l.direction(ip, end) * textGap * a.Scale.Factor()})
	return []domain.HotGrip{{Property: "ArrowType", Position: a.ToWorld(p)}}
}
