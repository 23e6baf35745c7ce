package ports

import (
	"context"

	"github.com/aretw0/framepilot/pkg/domain"
)

// SnapshotStore persists read-only session snapshots. It backs the snapshot
// mirror: a projection for inspection tooling, never the source of truth.
// The authoritative machine state always lives in the registry's memory.
type SnapshotStore interface {
	// Save persists the snapshot for a given session ID.
	Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error

	// Load retrieves the snapshot for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Snapshot, error)

	// Delete removes the snapshot for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
