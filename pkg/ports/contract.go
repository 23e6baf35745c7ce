package ports

import (
	"context"
	"testing"

	"github.com/aretw0/framepilot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract verifies that a SnapshotStore implementation
// honors the interface semantics. Every adapter's test suite runs it.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	t.Helper()
	ctx := context.Background()
	const sessionID = "contract-session"

	// Load of a non-existent session reports ErrSessionNotFound.
	_, err := store.Load(ctx, sessionID)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	snap := &domain.Snapshot{
		SessionID:    sessionID,
		CurrentState: "WorkMode/Entity",
		CurrentFrame: "E2",
		Context: domain.FrameContext{
			EntityList:     []string{"E1", "E2"},
			EntityCursor:   1,
			GeneralList:    []string{},
			EmergencyList:  []string{},
			DisplayContext: domain.DisplayEntity,
			CurrentFrame:   "E2",
			OriginState:    domain.OriginWorkMode,
		},
	}
	require.NoError(t, store.Save(ctx, sessionID, snap))

	// Round trip preserves the projection.
	loaded, err := store.Load(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, snap.CurrentState, loaded.CurrentState)
	assert.Equal(t, snap.CurrentFrame, loaded.CurrentFrame)
	assert.Equal(t, snap.Context.EntityList, loaded.Context.EntityList)
	assert.Equal(t, snap.Context.EntityCursor, loaded.Context.EntityCursor)

	// Stored snapshots are isolated from later caller mutation.
	snap.Context.EntityList[0] = "MUTATED"
	reloaded, err := store.Load(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "E1", reloaded.Context.EntityList[0])

	// List includes the session.
	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, sessionID)

	// Delete is effective and idempotent.
	require.NoError(t, store.Delete(ctx, sessionID))
	_, err = store.Load(ctx, sessionID)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
	require.NoError(t, store.Delete(ctx, sessionID))
}
