package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/cadmark/pkg/adapters/file"
	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunDrawingStoreContract(t, store)
}

func TestFileStore_OverwriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Drawing{ID: "plan", Sequence: 1}))
	require.NoError(t, store.Save(ctx, &domain.Drawing{ID: "plan", Sequence: 2}))

	loaded, err := store.Load(ctx, "plan")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Sequence)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.FileExists(t, filepath.Join(dir, "plan.json"))
}

func TestFileStore_RejectsPathIDs(t *testing.T) {
	store := file.New(t.TempDir())
	err := store.Save(context.Background(), &domain.Drawing{ID: "../escape"})
	assert.Error(t, err)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "missing"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
