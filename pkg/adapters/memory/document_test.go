package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/cadmark/pkg/adapters/memory"
	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/ports"
	contract "github.com/aretw0/cadmark/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Contract(t *testing.T) {
	contract.DocumentContractTest(t, memory.NewDocument("contract"))
}

func TestDocument_ProxyRejectsWrites(t *testing.T) {
	ctx := context.Background()
	doc := memory.FromDrawing(&domain.Drawing{
		ID:        "proxy",
		Instances: []domain.InstanceRecord{{Handle: "A", TypeName: "Leader", Proxy: true}},
	})

	err := doc.RunInTransaction(ctx, func(tx ports.Transaction) error {
		rec, err := tx.Instance("A")
		require.NoError(t, err)
		return tx.PutInstance(rec)
	})
	assert.ErrorIs(t, err, domain.ErrProxyObject)
}

func TestDocument_DrawingRoundTrip(t *testing.T) {
	ctx := context.Background()
	doc := memory.NewDocument("d1")
	require.NoError(t, doc.RunInTransaction(ctx, func(tx ports.Transaction) error {
		id, err := tx.CreateDefinition([]domain.Primitive{domain.Line{}})
		if err != nil {
			return err
		}
		return tx.PutInstance(domain.InstanceRecord{Handle: tx.NewHandle(), Definition: id, ScaleFactorX: 1})
	}))

	snap := doc.Drawing()
	assert.Equal(t, "d1", snap.ID)
	assert.Len(t, snap.Instances, 1)
	assert.Len(t, snap.Definitions, 1)
	assert.Equal(t, 2, snap.Sequence)

	again := memory.FromDrawing(snap).Drawing()
	assert.Equal(t, snap, again)
}
