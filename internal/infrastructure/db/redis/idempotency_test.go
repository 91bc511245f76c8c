package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyStore_ReserveCompleteLifecycle(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	id, reserved, err := store.Reserve(ctx, "booking:u1:k1", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, reserved)
	assert.Empty(t, id)
	assert.Equal(t, 30*time.Second, mr.TTL("idem:booking:u1:k1"))

	id, reserved, err = store.Reserve(ctx, "booking:u1:k1", 30*time.Second)
	require.NoError(t, err)
	assert.False(t, reserved, "second caller must not own the key")
	assert.Empty(t, id, "pending key reports no booking yet")

	require.NoError(t, store.Complete(ctx, "booking:u1:k1", "b-1", 24*time.Hour))
	assert.Equal(t, 24*time.Hour, mr.TTL("idem:booking:u1:k1"))

	id, reserved, err = store.Reserve(ctx, "booking:u1:k1", 30*time.Second)
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Equal(t, "b-1", id, "completed key keeps the first booking")
}

func TestIdempotencyStore_Release(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	_, reserved, err := store.Reserve(ctx, "booking:u1:k1", 30*time.Second)
	require.NoError(t, err)
	require.True(t, reserved)

	require.NoError(t, store.Release(ctx, "booking:u1:k1"))
	assert.False(t, mr.Exists("idem:booking:u1:k1"))

	_, reserved, err = store.Reserve(ctx, "booking:u1:k1", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, reserved, "a released key can be claimed again")
}

func TestIdempotencyStore_ReservationExpires(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	_, reserved, err := store.Reserve(ctx, "booking:u1:k1", 30*time.Second)
	require.NoError(t, err)
	require.True(t, reserved)

	mr.FastForward(31 * time.Second)

	_, reserved, err = store.Reserve(ctx, "booking:u1:k1", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, reserved, "an abandoned reservation frees up after its ttl")
}

func TestIdempotencyStore_SingleOwnerUnderContention(t *testing.T) {
	_, client := newTestClient(t)
	store := NewIdempotencyStore(client)

	const callers = 16
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		owners int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, reserved, err := store.Reserve(context.Background(), "booking:u1:k1", time.Minute)
			if err != nil {
				t.Errorf("reserve: %v", err)
				return
			}
			if reserved {
				mu.Lock()
				owners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, owners)
}

func TestIdempotencyStore_StoreDown(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewIdempotencyStore(client)

	mr.SetError("READONLY replica")
	_, reserved, err := store.Reserve(context.Background(), "booking:u1:k1", time.Minute)
	require.Error(t, err)
	assert.False(t, reserved)
}
