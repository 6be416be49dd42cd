package domain

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Placement returns the block transform mapping local (OCS) coordinates to
// world coordinates for an instance placed at ip, rotated by rotation
// radians and scaled by scaleX. A negative scaleX mirrors the local X axis.
func Placement(ip vec.Vec2, rotation, scaleX float64) matrix.Matrix {
	if scaleX == 0 {
		scaleX = 1
	}
	s := math.Abs(scaleX)
	sin, cos := math.Sincos(rotation)
	return matrix.Matrix{
		scaleX * cos, scaleX * sin,
		-s * sin, s * cos,
		ip.X, ip.Y,
	}
}

// Transform applies m to p.
func Transform(m matrix.Matrix, p vec.Vec2) vec.Vec2 {
	x, y := m.Apply(p.X, p.Y)
	return vec.Vec2{X: x, Y: y}
}

// Inverse returns the inverse of m. A singular transform, such as the zero
// matrix of an unplaced instance, yields the identity.
func Inverse(m matrix.Matrix) matrix.Matrix {
	if m[0]*m[3]-m[1]*m[2] == 0 {
		return matrix.Identity
	}
	return m.Inv()
}

// Distance returns the Euclidean distance between p and q.
func Distance(p, q vec.Vec2) float64 {
	return q.Sub(p).Length()
}
