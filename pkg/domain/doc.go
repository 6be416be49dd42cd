/*
Package domain contains the core model of the parametric annotation engine.

It defines the placed annotation, the strategy contract implemented by each
annotation type, the graphic primitives those strategies emit, and the
host-side records (instances, attached data, graphic definitions) the engine
reads and writes. This package is kept pure and free of I/O, following
Hexagonal Architecture principles.

# Key Entities

  - Annotation: a placed symbol. Common placement fields plus a type-specific Shape.
  - Shape: the per-type strategy (property table, Rebuild, minimum distance, snap points).
  - Linear: optional component adding middle points and direction reversal.
  - Primitive: Line, Polyline, Text and Mask, expressed in the annotation's local space.
  - InstanceRecord / Definition: the host's view of an instance and its shared graphic container.
*/
package domain
