package ports

import (
	"context"

	"github.com/aretw0/cadmark/pkg/domain"
)

// Document is the host drawing as seen by the engine.
type Document interface {
	// ID identifies the drawing. It is used as the lock key.
	ID() string

	// RunInTransaction runs fn inside an atomic scope. Everything fn wrote is
	// committed when it returns nil and abandoned otherwise. A panic inside fn
	// abandons the scope and is reported as domain.ErrTransaction.
	RunInTransaction(ctx context.Context, fn func(tx Transaction) error) error

	// View runs fn against a read-only view of the drawing. Writes made
	// through tx are discarded.
	View(ctx context.Context, fn func(tx Transaction) error) error

	// FlushGraphics flushes the host's display cache after a commit.
	FlushGraphics(ctx context.Context) error
}

// Transaction is the open-for-read/write view of a drawing inside a scope.
type Transaction interface {
	// Instance returns the record for h, or domain.ErrInstanceNotFound.
	Instance(h domain.Handle) (domain.InstanceRecord, error)
	// PutInstance creates or replaces an instance. Replacing a proxy object
	// returns domain.ErrProxyObject.
	PutInstance(rec domain.InstanceRecord) error
	// EraseInstance removes an instance.
	EraseInstance(h domain.Handle) error
	// Instances lists every instance in handle order.
	Instances() []domain.InstanceRecord

	// Definition returns the shared definition id, or domain.ErrDefinitionNotFound.
	Definition(id domain.DefinitionID) (domain.Definition, error)
	// CreateDefinition allocates a new anonymous definition.
	CreateDefinition(prims []domain.Primitive) (domain.DefinitionID, error)
	// ReplaceDefinition erases the content of id and writes prims.
	ReplaceDefinition(id domain.DefinitionID, prims []domain.Primitive) error
	// EraseDefinition removes a definition.
	EraseDefinition(id domain.DefinitionID) error
	// References counts the instances pointing at id.
	References(id domain.DefinitionID) int

	// NewHandle allocates a handle for a new instance.
	NewHandle() domain.Handle
}
