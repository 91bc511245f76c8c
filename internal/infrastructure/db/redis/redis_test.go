package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestConnect_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Connect(context.Background(), Config{Addr: addr, Timeout: 200 * time.Millisecond})
	require.Error(t, err)
}

func TestPinger(t *testing.T) {
	mr, client := newTestClient(t)
	p := Pinger{Client: client}

	require.NoError(t, p.Ping(context.Background()))

	mr.SetError("LOADING dataset")
	require.Error(t, p.Ping(context.Background()))
}
