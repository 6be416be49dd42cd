package domain

import (
	"encoding/json"
	"fmt"
	"slices"

	"seehuhn.de/go/geom/vec"
)

// PrimitiveKind identifies a primitive's concrete type in serialized form.
type PrimitiveKind string

const (
	KindLine     PrimitiveKind = "line"
	KindPolyline PrimitiveKind = "polyline"
	KindText     PrimitiveKind = "text"
	KindMask     PrimitiveKind = "mask"
)

// Primitive is a drawable element produced by a shape's Rebuild.
// Coordinates are in the annotation's local (OCS) space.
type Primitive interface {
	Kind() PrimitiveKind
	// Visible reports whether the primitive should be published to the container.
	Visible() bool
	// Translate returns a copy of the primitive moved by d.
	Translate(d vec.Vec2) Primitive
}

// Line is a single straight segment.
type Line struct {
	Start  vec.Vec2 `json:"start"`
	End    vec.Vec2 `json:"end"`
	Hidden bool     `json:"hidden,omitempty"`
}

func (l Line) Kind() PrimitiveKind { return KindLine }
func (l Line) Visible() bool       { return !l.Hidden }

func (l Line) Translate(d vec.Vec2) Primitive {
	return Line{Start: l.Start.Add(d), End: l.End.Add(d), Hidden: l.Hidden}
}

// Polyline is a sequence of connected segments with a constant width.
type Polyline struct {
	Points []vec.Vec2 `json:"points"`
	Closed bool       `json:"closed,omitempty"`
	Width  float64    `json:"width,omitempty"`
	Hidden bool       `json:"hidden,omitempty"`
}

func (p Polyline) Kind() PrimitiveKind { return KindPolyline }
func (p Polyline) Visible() bool       { return !p.Hidden && len(p.Points) > 1 }

func (p Polyline) Translate(d vec.Vec2) Primitive {
	p.Points = translateAll(p.Points, d)
	return p
}

// TextAlign is the horizontal attachment of a text run.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// Text is a single-line text run anchored at Position (baseline).
type Text struct {
	Position vec.Vec2  `json:"position"`
	Value    string    `json:"value"`
	Height   float64   `json:"height"`
	Rotation float64   `json:"rotation,omitempty"`
	Align    TextAlign `json:"align,omitempty"`
	Style    string    `json:"style,omitempty"`
	Hidden   bool      `json:"hidden,omitempty"`
}

func (t Text) Kind() PrimitiveKind { return KindText }
func (t Text) Visible() bool       { return !t.Hidden && t.Value != "" }

func (t Text) Translate(d vec.Vec2) Primitive {
	t.Position = t.Position.Add(d)
	return t
}

// Mask is a background mask hiding whatever lies beneath its outline.
type Mask struct {
	Outline []vec.Vec2 `json:"outline"`
	Hidden  bool       `json:"hidden,omitempty"`
}

func (m Mask) Kind() PrimitiveKind { return KindMask }
func (m Mask) Visible() bool       { return !m.Hidden && len(m.Outline) > 2 }

func (m Mask) Translate(d vec.Vec2) Primitive {
	m.Outline = translateAll(m.Outline, d)
	return m
}

func translateAll(points []vec.Vec2, d vec.Vec2) []vec.Vec2 {
	out := slices.Clone(points)
	for i := range out {
		out[i] = out[i].Add(d)
	}
	return out
}

// VisiblePrimitives returns the visible primitives translated by d.
func VisiblePrimitives(prims []Primitive, d vec.Vec2) []Primitive {
	out := make([]Primitive, 0, len(prims))
	for _, p := range prims {
		if p == nil || !p.Visible() {
			continue
		}
		out = append(out, p.Translate(d))
	}
	return out
}

type primitiveEnvelope struct {
	Kind PrimitiveKind   `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// MarshalPrimitives encodes a primitive list with its kind tags.
func MarshalPrimitives(prims []Primitive) ([]byte, error) {
	envs := make([]primitiveEnvelope, 0, len(prims))
	for _, p := range prims {
		data, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", p.Kind(), err)
		}
		envs = append(envs, primitiveEnvelope{Kind: p.Kind(), Data: data})
	}
	return json.Marshal(envs)
}

// UnmarshalPrimitives decodes a list produced by MarshalPrimitives.
func UnmarshalPrimitives(data []byte) ([]Primitive, error) {
	var envs []primitiveEnvelope
	if err := json.Unmarshal(data, &envs); err != nil {
		return nil, err
	}
	prims := make([]Primitive, 0, len(envs))
	for _, env := range envs {
		var (
			p   Primitive
			err error
		)
		switch env.Kind {
		case KindLine:
			var l Line
			err = json.Unmarshal(env.Data, &l)
			p = l
		case KindPolyline:
			var pl Polyline
			err = json.Unmarshal(env.Data, &pl)
			p = pl
		case KindText:
			var t Text
			err = json.Unmarshal(env.Data, &t)
			p = t
		case KindMask:
			var m Mask
			err = json.Unmarshal(env.Data, &m)
			p = m
		default:
			err = fmt.Errorf("unknown primitive kind %q", env.Kind)
		}
		if err != nil {
			return nil, err
		}
		prims = append(prims, p)
	}
	return prims, nil
}
