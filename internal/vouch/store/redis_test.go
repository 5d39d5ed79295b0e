package store

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/vouch/models"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/platform/sentinel"
)

// TestRedisUnavailable checks the store classifies backend I/O failures so
// the service can map them to a transient rejection. Port 1 refuses
// connections immediately, no server needed.
func TestRedisUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: time.Second,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	st := NewRedis(client)
	ctx := context.Background()

	_, err := st.Get(ctx, testGuild, testTarget)
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)

	_, err = st.Append(ctx, testGuild, testTarget, models.Vouch{VoucherID: voucher(1), Reason: "r"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)

	_, _, err = st.Remove(ctx, testGuild, testTarget, voucher(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}
