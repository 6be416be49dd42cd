// Package schema declares the persisted properties of an annotation type.
//
// Each annotation type publishes an ordered [Table] of properties. A
// property couples a name and a value [Type] with a typed getter and setter,
// so that "declare once, persist automatically" works without runtime
// reflection:
//
//	var props = schema.Table[*Leader]{
//	    schema.StringProperty("TopText", func(l *Leader) string { return l.TopText },
//	        func(l *Leader, v string) { l.TopText = v }),
//	    schema.FloatProperty("TextHeight", func(l *Leader) float64 { return l.TextHeight },
//	        func(l *Leader, v float64) { l.TextHeight = v }),
//	}
//
// Declaration order is significant: the parameter codec applies values in
// table order (after a fixed set of priority properties).
//
// Values travel through the table in a small set of canonical Go types:
//
//	Bool       bool
//	Int        int
//	Float      float64
//	String     string
//	Enum       string (the member name)
//	Point      vec.Vec2 (world space)
//	PointList  []vec.Vec2 (world space)
//	FloatList  []float64
//	Scale      string (symbolic annotation scale, "1:100")
package schema
