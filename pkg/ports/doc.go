/*
Package ports defines the driven ports (interfaces) of the annotation engine.

These interfaces decouple the core logic from the CAD host, allowing the engine
to run against a live drawing, an in-memory document or a test double.

# Key Interfaces

  - Document / Transaction: the host drawing. Instances, shared graphic
    definitions with their reference counts, atomic mutation scopes and the
    graphics flush.
  - PointSource: prompted point acquisition with a live preview callback.
  - ChoiceSurface: the small menu opened by an enum-cycle grip.
  - Notifier: the blocking notice shown for failures that reach the user.
  - DrawingStore: persistence of whole drawing snapshots.
  - DistributedLocker: cross-process locking of a drawing.
*/
package ports
