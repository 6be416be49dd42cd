package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/cadmark/pkg/domain"
)

// Store implements ports.DrawingStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Drawing
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Drawing),
	}
}

// Save persists the drawing in memory.
func (s *Store) Save(ctx context.Context, d *domain.Drawing) error {
	// Copy through the document so the store never shares slices with the caller
	copied := FromDrawing(d).Drawing()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[d.ID] = copied
	return nil
}

// Load retrieves the drawing from memory.
func (s *Store) Load(ctx context.Context, id string) (*domain.Drawing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.data[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDrawingNotFound, id)
	}

	// Create a copy on read so caller can't mutate store state directly by pointer
	return FromDrawing(d).Drawing(), nil
}

// Delete removes the drawing.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns stored drawing ids.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
