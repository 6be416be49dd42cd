package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"
)

// DocumentContractTest is a reusable test suite that verifies if an adapter complies with ports.Document.
// The document must be empty.
func DocumentContractTest(t *testing.T, doc ports.Document) {
	t.Helper()
	ctx := context.Background()

	var handle domain.Handle
	var def domain.DefinitionID

	// 1. Commit
	t.Run("Commit", func(t *testing.T) {
		err := doc.RunInTransaction(ctx, func(tx ports.Transaction) error {
			var err error
			def, err = tx.CreateDefinition([]domain.Primitive{domain.Line{End: vec.Vec2{X: 1}}})
			if err != nil {
				return err
			}
			handle = tx.NewHandle()
			return tx.PutInstance(domain.InstanceRecord{Handle: handle, TypeName: "Leader", ScaleFactorX: 1, Definition: def})
		})
		require.NoError(t, err)

		err = doc.View(ctx, func(tx ports.Transaction) error {
			rec, err := tx.Instance(handle)
			require.NoError(t, err)
			assert.Equal(t, def, rec.Definition)
			assert.Equal(t, 1, tx.References(def))
			return nil
		})
		require.NoError(t, err)
	})

	// 2. Rollback on error
	t.Run("Rollback", func(t *testing.T) {
		boom := errors.New("boom")
		err := doc.RunInTransaction(ctx, func(tx ports.Transaction) error {
			if err := tx.EraseInstance(handle); err != nil {
				return err
			}
			if err := tx.ReplaceDefinition(def, nil); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		err = doc.View(ctx, func(tx ports.Transaction) error {
			_, err := tx.Instance(handle)
			assert.NoError(t, err, "erase must be abandoned")
			d, err := tx.Definition(def)
			require.NoError(t, err)
			assert.Len(t, d.Primitives, 1, "replace must be abandoned")
			return nil
		})
		require.NoError(t, err)
	})

	// 3. Rollback on panic
	t.Run("Panic", func(t *testing.T) {
		err := doc.RunInTransaction(ctx, func(tx ports.Transaction) error {
			_ = tx.EraseInstance(handle)
			panic("host fault")
		})
		assert.ErrorIs(t, err, domain.ErrTransaction)

		err = doc.View(ctx, func(tx ports.Transaction) error {
			_, err := tx.Instance(handle)
			assert.NoError(t, err)
			return nil
		})
		require.NoError(t, err)
	})

	// 4. Not found
	t.Run("NotFound", func(t *testing.T) {
		err := doc.View(ctx, func(tx ports.Transaction) error {
			_, err := tx.Instance("missing")
			assert.ErrorIs(t, err, domain.ErrInstanceNotFound)
			_, err = tx.Definition("missing")
			assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
			assert.Zero(t, tx.References("missing"))
			return nil
		})
		require.NoError(t, err)
	})

	// 5. Reference counting
	t.Run("References", func(t *testing.T) {
		var second domain.Handle
		err := doc.RunInTransaction(ctx, func(tx ports.Transaction) error {
			second = tx.NewHandle()
			assert.NotEqual(t, handle, second)
			return tx.PutInstance(domain.InstanceRecord{Handle: second, TypeName: "Leader", ScaleFactorX: 1, Definition: def})
		})
		require.NoError(t, err)

		err = doc.RunInTransaction(ctx, func(tx ports.Transaction) error {
			assert.Equal(t, 2, tx.References(def))
			return tx.EraseInstance(second)
		})
		require.NoError(t, err)

		err = doc.View(ctx, func(tx ports.Transaction) error {
			assert.Equal(t, 1, tx.References(def))
			assert.Len(t, tx.Instances(), 1)
			return nil
		})
		require.NoError(t, err)
	})

	// 6. Graphics flush
	t.Run("FlushGraphics", func(t *testing.T) {
		assert.NoError(t, doc.FlushGraphics(ctx))
	})
}
