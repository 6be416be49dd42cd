// Package codec persists an annotation's declared properties in the
// parameter blob attached to its host instance.
//
// A blob is an ordered list of name/value pairs tagged with the owner's
// qualified type name. Point values are stored as offsets from the
// insertion point in local space so that they survive moving, rotating and
// scaling the host instance. The encoded blob is cut into chunks of at most
// ChunkSize bytes under the application name "mp"+TypeName.
//
// Decoding is all-or-nothing: a blob written for another type, or one that
// fails to parse, is discarded and the annotation keeps its defaults.
package codec
