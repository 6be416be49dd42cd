package domain

import (
	"errors"
	"fmt"
)

// ErrProxyObject is returned by the host when an operation is not permitted
// on a proxy-like object. Callers treat it as expected and ignore it.
var ErrProxyObject = errors.New("operation not permitted on proxy object")

// ErrSerialization is returned when a parameter blob is absent, foreign or corrupt.
// The annotation keeps its type defaults.
var ErrSerialization = errors.New("parameter blob unusable")

// ErrForeignBlob is returned when a parameter blob belongs to another annotation type.
var ErrForeignBlob = fmt.Errorf("%w: foreign type", ErrSerialization)

// ErrGeometryBuild is returned when a shape fails to rebuild its primitives.
var ErrGeometryBuild = errors.New("geometry rebuild failed")

// ErrTransaction is returned when a scoped document mutation is abandoned.
var ErrTransaction = errors.New("transaction abandoned")

// ErrCancelled is the outcome of an interactive session the user cancelled.
var ErrCancelled = errors.New("cancelled by user")

// ErrInstanceNotFound is returned when a handle does not resolve to an instance.
var ErrInstanceNotFound = errors.New("instance not found")

// ErrDefinitionNotFound is returned when a graphic definition does not exist.
var ErrDefinitionNotFound = errors.New("definition not found")

// ErrUnknownType is returned when an annotation type is not registered.
var ErrUnknownType = errors.New("unknown annotation type")

// ErrDrawingNotFound is returned when a drawing snapshot cannot be found in the store.
var ErrDrawingNotFound = errors.New("drawing not found")

// BuildError wraps a failure raised while rebuilding an annotation's geometry.
type BuildError struct {
	TypeName string
	Handle   Handle
	Cause    error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("rebuild %s %s: %v", e.TypeName, e.Handle, e.Cause)
}

func (e *BuildError) Unwrap() []error {
	return []error{ErrGeometryBuild, e.Cause}
}
