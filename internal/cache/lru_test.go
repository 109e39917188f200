package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_GetSet(t *testing.T) {
	c := NewLRU(2, 0)
	ctx := context.Background()

	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	v, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	require.NoError(t, c.Set(ctx, "a", []byte("2"), 0))
	v, err = c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)
	assert.Equal(t, 1, c.Len())
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU(2, 0)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	_, err := c.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "c", []byte("3"), 0))

	_, err = c.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, "a")
	assert.NoError(t, err)
	_, err = c.Get(ctx, "c")
	assert.NoError(t, err)
}

func TestLRU_Expiry(t *testing.T) {
	c := NewLRU(4, time.Minute)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "default", []byte("x"), 0))
	require.NoError(t, c.Set(ctx, "short", []byte("y"), time.Second))

	now = now.Add(2 * time.Second)
	_, err := c.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, "default")
	assert.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = c.Get(ctx, "default")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, 0, c.Len())
}

func TestLRU_PurgeAndClose(t *testing.T) {
	c := NewLRU(0, 0)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))

	require.NoError(t, c.Close())

	assert.Equal(t, 0, c.Len())
}

func TestLRU_ConcurrentAccess(t *testing.T) {
	c := NewLRU(16, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i))
			for j := 0; j < 100; j++ {
				_ = c.Set(ctx, key, []byte{byte(j)}, 0)
				_, _ = c.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, c.Len())
}
