package schema

import (
	"slices"

	"seehuhn.de/go/geom/vec"
)

// Property is one persisted property of a target of type T.
type Property[T any] struct {
	Name string
	Type Type
	// Get returns the current value in the canonical Go type for Type.
	Get func(T) any
	// Set applies a value that already passed Type.Validate.
	Set func(T, any)
	// Omit, if set, reports that the property has no meaningful value on
	// this target and should not be persisted.
	Omit func(T) bool
}

// Skip reports whether the property should be left out for target.
func (p Property[T]) Skip(target T) bool {
	return p.Omit != nil && p.Omit(target)
}

// Table is an ordered list of properties.
type Table[T any] []Property[T]

// Lookup finds a property by name.
func (t Table[T]) Lookup(name string) (Property[T], bool) {
	i := slices.IndexFunc(t, func(p Property[T]) bool { return p.Name == name })
	if i < 0 {
		return Property[T]{}, false
	}
	return t[i], true
}

// Names returns the property names in declaration order.
func (t Table[T]) Names() []string {
	names := make([]string, len(t))
	for i, p := range t {
		names[i] = p.Name
	}
	return names
}

// Lift re-targets a table declared on a component S to the owner T,
// using get to reach the component.
func Lift[T, S any](table Table[S], get func(T) S) Table[T] {
	out := make(Table[T], len(table))
	for i, p := range table {
		lifted := Property[T]{
			Name: p.Name,
			Type: p.Type,
			Get:  func(t T) any { return p.Get(get(t)) },
			Set:  func(t T, v any) { p.Set(get(t), v) },
		}
		if p.Omit != nil {
			lifted.Omit = func(t T) bool { return p.Omit(get(t)) }
		}
		out[i] = lifted
	}
	return out
}

// --- Typed property constructors ---

// BoolProperty declares a boolean property.
func BoolProperty[T any](name string, get func(T) bool, set func(T, bool)) Property[T] {
	return Property[T]{
		Name: name,
		Type: Bool(),
		Get:  func(t T) any { return get(t) },
		Set: func(t T, v any) {
			if b, ok := v.(bool); ok {
				set(t, b)
			}
		},
	}
}

// IntProperty declares an integer property.
func IntProperty[T any](name string, get func(T) int, set func(T, int)) Property[T] {
	return Property[T]{
		Name: name,
		Type: Int(),
		Get:  func(t T) any { return get(t) },
		Set: func(t T, v any) {
			if i, ok := v.(int); ok {
				set(t, i)
			}
		},
	}
}

// FloatProperty declares a floating-point property.
func FloatProperty[T any](name string, get func(T) float64, set func(T, float64)) Property[T] {
	return Property[T]{
		Name: name,
		Type: Float(),
		Get:  func(t T) any { return get(t) },
		Set: func(t T, v any) {
			if f, ok := v.(float64); ok {
				set(t, f)
			}
		},
	}
}

// StringProperty declares a string property.
func StringProperty[T any](name string, get func(T) string, set func(T, string)) Property[T] {
	return Property[T]{
		Name: name,
		Type: String(),
		Get:  func(t T) any { return get(t) },
		Set: func(t T, v any) {
			if s, ok := v.(string); ok {
				set(t, s)
			}
		},
	}
}

// EnumProperty declares an enumeration property persisted by member name.
// The numeric value of E indexes members.
func EnumProperty[T any, E ~int](name string, members []string, get func(T) E, set func(T, E)) Property[T] {
	return Property[T]{
		Name: name,
		Type: Enum(members...),
		Get: func(t T) any {
			i := int(get(t))
			if i < 0 || i >= len(members) {
				return members[0]
			}
			return members[i]
		},
		Set: func(t T, v any) {
			s, _ := v.(string)
			if i := slices.Index(members, s); i >= 0 {
				set(t, E(i))
			}
		},
	}
}

// PointProperty declares a world-space point property.
func PointProperty[T any](name string, get func(T) vec.Vec2, set func(T, vec.Vec2)) Property[T] {
	return Property[T]{
		Name: name,
		Type: Point(),
		Get:  func(t T) any { return get(t) },
		Set: func(t T, v any) {
			if p, ok := v.(vec.Vec2); ok {
				set(t, p)
			}
		},
	}
}

// PointListProperty declares a list of world-space points.
func PointListProperty[T any](name string, get func(T) []vec.Vec2, set func(T, []vec.Vec2)) Property[T] {
	return Property[T]{
		Name: name,
		Type: PointList(),
		Get:  func(t T) any { return slices.Clone(get(t)) },
		Set: func(t T, v any) {
			if pts, ok := v.([]vec.Vec2); ok {
				set(t, slices.Clone(pts))
			}
		},
	}
}

// FloatListProperty declares a list of floating-point values.
func FloatListProperty[T any](name string, get func(T) []float64, set func(T, []float64)) Property[T] {
	return Property[T]{
		Name: name,
		Type: FloatList(),
		Get:  func(t T) any { return slices.Clone(get(t)) },
		Set: func(t T, v any) {
			if fs, ok := v.([]float64); ok {
				set(t, slices.Clone(fs))
			}
		},
	}
}

// ScaleProperty declares a symbolic annotation scale property.
func ScaleProperty[T any](name string, get func(T) string, set func(T, string)) Property[T] {
	return Property[T]{
		Name: name,
		Type: Scale(),
		Get:  func(t T) any { return get(t) },
		Set: func(t T, v any) {
			if s, ok := v.(string); ok {
				set(t, s)
			}
		},
	}
}
