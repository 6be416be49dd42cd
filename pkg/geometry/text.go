package geometry

import (
	"unicode"

	"github.com/aretw0/cadmark/pkg/domain"
	"golang.org/x/text/width"
	"seehuhn.de/go/geom/vec"
)

// Advance factors relative to the text height.
const (
	NarrowAdvance = 0.7
	WideAdvance   = 1.0
)

// TextWidth estimates the advance width of s set at height.
// East Asian wide and fullwidth runes take a full em, combining marks
// take nothing.
func TextWidth(s string, height float64) float64 {
	var w float64
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Mn, r), unicode.IsControl(r):
		case isWide(r):
			w += WideAdvance
		default:
			w += NarrowAdvance
		}
	}
	return w * height
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}

// TextBox returns the outline of t enlarged by margin on every side,
// honouring alignment and rotation.
func TextBox(t domain.Text, margin float64) []vec.Vec2 {
	w := TextWidth(t.Value, t.Height)
	var left float64
	switch t.Align {
	case domain.AlignCenter:
		left = -w / 2
	case domain.AlignRight:
		left = -w
	}
	corners := []vec.Vec2{
		{X: left - margin, Y: -margin},
		{X: left + w + margin, Y: -margin},
		{X: left + w + margin, Y: t.Height + margin},
		{X: left - margin, Y: t.Height + margin},
	}
	dir := Direction(t.Rotation)
	up := dir.Rot90()
	for i, c := range corners {
		corners[i] = t.Position.Add(dir.Mul(c.X)).Add(up.Mul(c.Y))
	}
	return corners
}

// Masked returns t preceded by a background mask covering its box enlarged
// by margin. Empty or hidden texts get no mask.
func Masked(t domain.Text, margin float64) []domain.Primitive {
	if !t.Visible() {
		return []domain.Primitive{t}
	}
	return []domain.Primitive{domain.Mask{Outline: TextBox(t, margin)}, t}
}
