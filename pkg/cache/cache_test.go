package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/nftlisting/config"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	RDB = nil
	ctx := context.Background()

	require.NoError(t, Set(ctx, "nft:1", map[string]string{"a": "b"}, time.Minute))

	var dest map[string]string
	assert.False(t, Get(ctx, "nft:1", &dest))
	assert.Nil(t, dest)

	assert.NoError(t, Forget(ctx, "nft:1"))
	assert.NoError(t, Close())
}

func TestConnect_EmptyAddrLeavesCacheDisabled(t *testing.T) {
	config.Set("REDIS_ADDR", "")
	t.Cleanup(func() { RDB = nil })

	require.NoError(t, Connect(context.Background()))
	assert.Nil(t, RDB)
}
