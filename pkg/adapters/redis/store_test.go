package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/framepilot/pkg/adapters/redis"
	"github.com/aretw0/framepilot/pkg/domain"
	"github.com/aretw0/framepilot/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *backend.Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	return backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
}

func TestRedisStore_Contract(t *testing.T) {
	store := redis.NewFromClient(newTestClient(t))
	ports.RunSnapshotStoreContract(t, store)
}

func TestRedisStore_Prefix(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	a := redis.NewFromClient(client, redis.WithPrefix("a:"))
	b := redis.NewFromClient(client, redis.WithPrefix("b:"))

	snap := &domain.Snapshot{
		SessionID:    "s1",
		CurrentState: "Inactive",
		CurrentFrame: domain.EmptyFrame,
		Context:      domain.NewFrameContext(),
	}
	require.NoError(t, a.Save(ctx, "s1", snap))

	_, err := b.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	loaded, err := a.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Inactive", loaded.CurrentState)
}

func TestRedisStore_ListTracksIndex(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	store := redis.NewFromClient(client, redis.WithTTL(time.Hour))

	for _, id := range []string{"s1", "s2"} {
		snap := &domain.Snapshot{
			SessionID:    id,
			CurrentState: "Inactive",
			CurrentFrame: domain.EmptyFrame,
			Context:      domain.NewFrameContext(),
		}
		require.NoError(t, store.Save(ctx, id, snap))
	}

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s1", "s2"}, ids)

	require.NoError(t, store.Delete(ctx, "s1"))
	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s2"}, ids)
}
