/*
Package jig implements the interactive creation session of an annotation.

A Session is an explicit state machine driven by the host. Each Step
holds the annotation in one JigState and supplies the prompt, the optional
rubber-band base point and the function writing the accepted point into
the annotation:

	s := jig.New(syncer, a)
	s.Expect(jig.InsertionPoint("Insertion point"))
	s.Begin(ctx)              // places the instance and its preview container
	s.Sample(p)               // live preview, nothing is written
	s.Accept(ctx, p)          // writes the point, rebuilds and flushes
	s.Finish(ctx)             // or s.Abort(ctx)

Drive runs the same loop against a ports.PointSource. Aborting erases the
instance together with its container.
*/
package jig
