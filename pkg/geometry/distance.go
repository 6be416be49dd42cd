package geometry

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Epsilon is the tolerance used when comparing distances.
const Epsilon = 1e-9

// EnforceMinDistance returns p unchanged when it lies at least min away from
// anchor. Otherwise p is relocated onto the boundary, exactly min away from
// anchor along the anchor→p direction. When p coincides with anchor the
// fallback direction is used.
func EnforceMinDistance(anchor, p vec.Vec2, min float64, fallback vec.Vec2) vec.Vec2 {
	if min <= 0 {
		return p
	}
	d := p.Sub(anchor)
	if d.Length() >= min-Epsilon {
		return p
	}
	dir := fallback
	if d.Length() > Epsilon {
		dir = d
	}
	if dir.Length() == 0 {
		dir = vec.Vec2{X: 1}
	}
	return anchor.Add(dir.Normalize().Mul(min))
}

// EnforceNeighbors keeps an interior point min away from both neighbours.
// A violated neighbour pushes p out along its own direction; when both are
// violated the nearer one wins.
func EnforceNeighbors(prev, p, next vec.Vec2, min float64, fallback vec.Vec2) vec.Vec2 {
	dp := p.Sub(prev).Length()
	dn := p.Sub(next).Length()
	switch {
	case dp >= min-Epsilon && dn >= min-Epsilon:
		return p
	case dn < dp:
		return EnforceMinDistance(next, p, min, fallback.Neg())
	default:
		return EnforceMinDistance(prev, p, min, fallback)
	}
}

// EnforceChain walks pts from the first point and pushes every point that
// falls closer than min to its predecessor out along the connecting
// direction. pts is modified in place.
func EnforceChain(pts []vec.Vec2, min float64, fallback vec.Vec2) {
	for i := 1; i < len(pts); i++ {
		pts[i] = EnforceMinDistance(pts[i-1], pts[i], min, fallback)
	}
}

// Direction is the unit vector at angle radians from the X axis.
func Direction(angle float64) vec.Vec2 {
	sin, cos := math.Sincos(angle)
	return vec.Vec2{X: cos, Y: sin}
}

// Polar returns the point at distance r from origin in direction angle.
func Polar(origin vec.Vec2, angle, r float64) vec.Vec2 {
	return origin.Add(Direction(angle).Mul(r))
}

// Angle is the direction of v in radians.
func Angle(v vec.Vec2) float64 {
	return math.Atan2(v.Y, v.X)
}
