// Package geometry holds the planar helpers shared by every annotation type
// and the Builder that regenerates an annotation's primitives.
package geometry
