// Package container publishes annotation geometry into the shared graphic
// definitions of the host drawing.
//
// An instance draws through a definition (the container) that other
// instances may reference too, e.g. after the host copied the instance.
// A definition referenced by a single instance is rewritten in place. A
// shared one is never mutated: the flushing instance gets a new definition
// and is repointed. Primitives are stored relative to the instance's
// insertion point so that the definition origin matches the placement.
//
// Every write runs under the drawing lock inside one host transaction and
// the host graphics are flushed after commit.
package container
