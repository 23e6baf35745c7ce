package memory_test

import (
	"testing"

	"github.com/aretw0/framepilot/pkg/adapters/memory"
	"github.com/aretw0/framepilot/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, memory.NewStore())
}
