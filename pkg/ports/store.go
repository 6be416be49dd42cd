package ports

import (
	"context"

	"github.com/aretw0/cadmark/pkg/domain"
)

// DrawingStore persists whole drawing snapshots.
type DrawingStore interface {
	// Save persists the drawing under its ID.
	Save(ctx context.Context, d *domain.Drawing) error

	// Load retrieves the drawing with the given ID.
	// Returns domain.ErrDrawingNotFound if it does not exist.
	Load(ctx context.Context, id string) (*domain.Drawing, error)

	// Delete removes the drawing with the given ID.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored drawings.
	List(ctx context.Context) ([]string, error)
}
