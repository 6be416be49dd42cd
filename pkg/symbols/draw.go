package symbols

import (
	"math"

	"github.com/aretw0/cadmark/pkg/domain"
	"seehuhn.de/go/geom/vec"
)

// ArrowType is the terminator drawn at the start of a leader.
type ArrowType int

const (
	ArrowFilled ArrowType = iota
	ArrowOpen
	ArrowDot
	ArrowTick
	ArrowNone
)

var arrowTypes = []string{"Filled", "Open", "Dot", "Tick", "None"}

func (t ArrowType) String() string {
	if t < 0 || int(t) >= len(arrowTypes) {
		return "unknown"
	}
	return arrowTypes[t]
}

// Paper sizes shared by the symbols.
const (
	arrowLength = 3.0
	arrowWidth  = 1.0
	dotRadius   = 0.6
	textGap     = 0.5
	textHeight  = 2.5
)

// unit returns d normalized, or fallback when d has no length.
func unit(d, fallback vec.Vec2) vec.Vec2 {
	if d.Length() == 0 {
		return fallback
	}
	return d.Normalize()
}

// terminator draws an arrow of type t whose tip is at tip and whose shaft
// runs along dir (pointing towards tip). It returns the primitives and the
// point where the shaft should end.
func terminator(t ArrowType, tip, dir vec.Vec2, scale float64) ([]domain.Primitive, vec.Vec2) {
	length := arrowLength * scale
	half := arrowWidth * scale / 2
	back := tip.Sub(dir.Mul(length))
	side := dir.Rot90().Mul(half)

	switch t {
	case ArrowFilled:
		return []domain.Primitive{
			domain.Polyline{Points: []vec.Vec2{tip, back.Add(side), back.Sub(side)}, Closed: true, Width: half},
		}, back
	case ArrowOpen:
		return []domain.Primitive{
			domain.Polyline{Points: []vec.Vec2{back.Add(side), tip, back.Sub(side)}},
		}, tip
	case ArrowDot:
		r := dotRadius * scale
		return []domain.Primitive{
			domain.Polyline{Points: circle(tip, r/2, 12), Closed: true, Width: r},
		}, tip.Sub(dir.Mul(r))
	case ArrowTick:
		tick := dir.Add(dir.Rot90()).Normalize().Mul(length / 2)
		return []domain.Primitive{
			domain.Line{Start: tip.Sub(tick), End: tip.Add(tick)},
		}, tip
	}
	return nil, tip
}

// circle approximates a circle with n vertices.
func circle(c vec.Vec2, r float64, n int) []vec.Vec2 {
	pts := make([]vec.Vec2, n)
	for i := range pts {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		pts[i] = c.Add(vec.Vec2{X: cos * r, Y: sin * r})
	}
	return pts
}
