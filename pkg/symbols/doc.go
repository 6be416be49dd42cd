/*
Package symbols provides the reference annotation types:

  - Leader: a call-out with an arrow, a leader line and a text shelf.
  - LevelMark: an elevation marker measured from a base point.
  - Section: a section line with end strokes, view arrows and designation.

Sizes are given in paper units and multiplied by the annotation scale.
Register adds all of them to a registry; Steps returns the creation steps
of a type.
*/
package symbols
