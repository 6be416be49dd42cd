package memory_test

import (
	"testing"

	"github.com/aretw0/cadmark/pkg/adapters/memory"
	"github.com/aretw0/cadmark/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunDrawingStoreContract(t, store)
}
