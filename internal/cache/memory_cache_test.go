package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCacheBasicAndExpiry(t *testing.T) {
	mc := NewMemoryCache[string]()
	defer mc.Stop()
	ctx := context.Background()

	assert.NoError(t, mc.Set(ctx, "key", "value", 0))
	v, err := mc.Get(ctx, "key")
	assert.NoError(t, err)
	assert.Equal(t, "value", v)

	assert.NoError(t, mc.Set(ctx, "temp", "x", 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)
	_, err = mc.Get(ctx, "temp")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, mc.Delete(ctx, "key"))
	_, err = mc.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheJanitorRemovesExpired(t *testing.T) {
	mc := NewMemoryCacheWithJanitor[string](10 * time.Millisecond)
	defer mc.Stop()
	ctx := context.Background()

	assert.NoError(t, mc.Set(ctx, "revoked:abc", "1", 15*time.Millisecond))
	assert.NoError(t, mc.Set(ctx, "forever", "1", 0))

	assert.Eventually(t, func() bool { return mc.Len() == 1 }, time.Second, 5*time.Millisecond)
}

func TestMemoryCacheStopIdempotent(t *testing.T) {
	mc := NewMemoryCache[string]()
	assert.NotPanics(t, func() {
		mc.Stop()
		mc.Stop()
	})
}

func TestMemoryCacheConcurrency(t *testing.T) {
	mc := NewMemoryCache[int]()
	defer mc.Stop()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = mc.Set(ctx, fmt.Sprintf("key%d", i), i, 0)
		}(i)
		go func(i int) {
			defer wg.Done()
			_, _ = mc.Get(ctx, fmt.Sprintf("key%d", i))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, mc.Len())
}
