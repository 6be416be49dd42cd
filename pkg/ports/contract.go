package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"
)

// RunDrawingStoreContract runs a suite of tests to verify that a DrawingStore implementation
// adheres to the defined interface contract.
func RunDrawingStoreContract(t *testing.T, store DrawingStore) {
	ctx := context.Background()
	drawingID := "contract-test-drawing-" + time.Now().Format("20060102150405")

	sample := func(id string) *domain.Drawing {
		return &domain.Drawing{
			ID: id,
			Instances: []domain.InstanceRecord{{
				Handle:         "1",
				TypeName:       "Leader",
				InsertionPoint: vec.Vec2{X: 5, Y: 5},
				Rotation:       0.5,
				ScaleFactorX:   2,
				Definition:     "*U1",
				XData:          []domain.XData{{App: "mpLeader", Chunks: [][]byte{[]byte(`{"type":"Leader"}`)}}},
			}},
			Definitions: []domain.Definition{{
				ID: "*U1",
				Primitives: []domain.Primitive{
					domain.Line{End: vec.Vec2{X: 1}},
					domain.Text{Position: vec.Vec2{Y: 1}, Value: "A", Height: 2.5},
				},
			}},
			Sequence: 2,
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		// 1. Save
		d := sample(drawingID)
		err := store.Save(ctx, d)
		require.NoError(t, err, "Save should not return error")

		// 2. Load
		loaded, err := store.Load(ctx, drawingID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, d.Sequence, loaded.Sequence)
		require.Len(t, loaded.Instances, 1)
		assert.Equal(t, d.Instances[0], loaded.Instances[0])
		require.Len(t, loaded.Definitions, 1)
		assert.Equal(t, d.Definitions[0].Primitives, loaded.Definitions[0].Primitives)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+drawingID)
		assert.ErrorIs(t, err, domain.ErrDrawingNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		// Setup
		err := store.Save(ctx, sample(drawingID))
		require.NoError(t, err)

		// Delete
		err = store.Delete(ctx, drawingID)
		require.NoError(t, err, "Delete should not return error")

		// Verify gone
		_, err = store.Load(ctx, drawingID)
		assert.ErrorIs(t, err, domain.ErrDrawingNotFound, "Load after Delete should return ErrDrawingNotFound")
	})

	t.Run("List", func(t *testing.T) {
		// Setup: Create 2 drawings
		id1 := drawingID + "-1"
		id2 := drawingID + "-2"
		_ = store.Save(ctx, sample(id1))
		_ = store.Save(ctx, sample(id2))

		// Ensure cleanup
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		// List
		drawings, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, drawings, id1)
		assert.Contains(t, drawings, id2)
	})
}
