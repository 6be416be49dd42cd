package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/ports"
)

// Manager keeps drawing snapshots in a ports.DrawingStore. Every store
// access holds the drawing's lock.
type Manager struct {
	*Locks
	store ports.DrawingStore
}

// NewManager returns a Manager over store.
func NewManager(store ports.DrawingStore, opts ...Option) *Manager {
	return &Manager{Locks: NewLocks(opts...), store: store}
}

// Store returns the underlying drawing store, for use inside WithLock.
func (m *Manager) Store() ports.DrawingStore {
	return m.store
}

// Load reads drawing id.
func (m *Manager) Load(ctx context.Context, id string) (d *domain.Drawing, err error) {
	err = m.WithLock(ctx, id, func(ctx context.Context) error {
		d, err = m.store.Load(ctx, id)
		return err
	})
	return d, err
}

// LoadOrCreate reads drawing id, storing an empty one first if it does not
// exist yet.
func (m *Manager) LoadOrCreate(ctx context.Context, id string) (d *domain.Drawing, err error) {
	err = m.WithLock(ctx, id, func(ctx context.Context) error {
		d, err = m.store.Load(ctx, id)
		switch {
		case err == nil:
			return nil
		case !errors.Is(err, domain.ErrDrawingNotFound):
			return fmt.Errorf("load drawing %q: %w", id, err)
		}
		d = &domain.Drawing{ID: id}
		if err := m.store.Save(ctx, d); err != nil {
			return fmt.Errorf("create drawing %q: %w", id, err)
		}
		m.logger.Debug("drawing created", "drawing_id", id)
		return nil
	})
	return d, err
}

// Save writes d.
func (m *Manager) Save(ctx context.Context, d *domain.Drawing) error {
	return m.WithLock(ctx, d.ID, func(ctx context.Context) error {
		return m.store.Save(ctx, d)
	})
}

// Delete removes drawing id.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// List returns the stored drawing IDs.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}
