package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/identify-labs/marquee/pkg/adapters/memory"
	"github.com/identify-labs/marquee/pkg/domain"
	"github.com/identify-labs/marquee/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSnapshotStoreContract(t, store)
}

func TestMemoryStore_TTL(t *testing.T) {
	store := memory.NewStore(memory.WithStoreTTL(20 * time.Millisecond))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "hero-1", domain.Snapshot{SessionID: "hero-1"}))
	_, err := store.Load(ctx, "hero-1")
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	_, err = store.Load(ctx, "hero-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
