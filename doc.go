/*
Package cadmark is the core of a parametric annotation engine for CAD hosts.

An annotation (leader, level mark, section line...) is a placed instance of
a graphic container. Its editable parameters travel with the instance as a
chunked text blob. Its geometry is rebuilt from those parameters and
published into the container. The user edits it through an interactive
creation session and grip handles.

# Architecture

The host document is reached through ports.Document and its transactions.
On top of it:

  - codec stores and restores the parameters (ParameterStore).
  - geometry rebuilds primitives and enforces point spacing (GeometryBuilder).
  - container keeps each instance's container in step with it, copying a
    shared container on write (ContainerSync).
  - jig drives creation one point at a time (InteractionSession).
  - grips exposes the editing handles (GripHandleLayer).
  - symbols provides the reference types.

# Usage

	doc := memory.NewDocument("plan")
	eng, err := cadmark.New(doc)
	if err != nil {
		log.Fatal(err)
	}

	// src is a ports.PointSource fed by the host UI.
	out, err := eng.Place(ctx, "Leader", src)
	if err != nil {
		log.Fatal(err)
	}

	handles, _ := eng.Grips().Collect(ctx, out.Handle, nil)
	_ = eng.Grips().Move(ctx, handles[1], vec.Vec2{X: 5})
	_ = eng.Grips().Commit(ctx, out.Handle)

The cmd/cadmark tool runs the same engine over drawing snapshots kept in a
file, memory or Redis store.
*/
package cadmark
