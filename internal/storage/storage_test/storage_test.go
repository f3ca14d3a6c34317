package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavprovich/nft-indexer/internal/service"
	"github.com/vladislavprovich/nft-indexer/internal/storage"
)

func sampleResult(id string) *service.QueryResult {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &service.QueryResult{
		ID:         id,
		Address:    "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		Status:     service.StatusLoaded,
		TotalCount: 2,
		Tokens: []service.Token{
			{Index: 0, ContractAddress: "0xabc", TokenID: "1", Metadata: &service.Metadata{Title: "One", ImageURL: "ipfs://1"}},
			{Index: 1, ContractAddress: "0xabc", TokenID: "2", Error: "fetch failed: timeout"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) storage.QueryStore{
		"memory": func(*testing.T) storage.QueryStore {
			return storage.NewMemoryStore()
		},
		"redis": func(t *testing.T) storage.QueryStore {
			mr := miniredis.RunT(t)
			rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { _ = rdb.Close() })
			return storage.NewRedisStore(rdb, time.Hour)
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			_, err := store.Get(ctx, "missing")
			require.ErrorIs(t, err, storage.ErrNotFound)

			want := sampleResult("q-1")
			require.NoError(t, store.Save(ctx, want))

			got, err := store.Get(ctx, "q-1")
			require.NoError(t, err)
			assert.Equal(t, want, got)

			want.Status = service.StatusFailed
			want.Error = "lookup failed"
			require.NoError(t, store.Save(ctx, want))

			got, err = store.Get(ctx, "q-1")
			require.NoError(t, err)
			assert.Equal(t, service.StatusFailed, got.Status)
			assert.Equal(t, "lookup failed", got.Error)

			assert.Error(t, store.Save(ctx, &service.QueryResult{}))
		})
	}
}

func TestMemoryStore_CopiesOnSave(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	res := sampleResult("q-2")
	require.NoError(t, store.Save(ctx, res))

	res.Tokens[0].TokenID = "mutated"
	res.Status = service.StatusLoading

	got, err := store.Get(ctx, "q-2")
	require.NoError(t, err)
	assert.Equal(t, "1", got.Tokens[0].TokenID)
	assert.Equal(t, service.StatusLoaded, got.Status)
}

func TestRedisStore_Expires(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := storage.NewRedisStore(rdb, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleResult("q-3")))
	assert.True(t, mr.Exists("nft:query:q-3"))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "q-3")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
