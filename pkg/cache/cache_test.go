package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hydrogen/pkg/cache"
	"github.com/yeisme/hydrogen/pkg/internal/storage/kv"
)

type entry struct {
	ID    uint     `json:"id"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

func TestGetSet(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	c := cache.NewCache(store, cache.WithPrefix("rc:"))

	_, err := cache.Get[entry](ctx, c, "song:1")
	require.ErrorIs(t, err, cache.ErrMiss)

	want := entry{ID: 1, Title: "Blue", Tags: []string{"jazz"}}
	require.NoError(t, cache.Set(ctx, c, "song:1", want, time.Minute))

	got, err := cache.Get[entry](ctx, c, "song:1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	ok, err := store.Exists(ctx, "rc:song:1")
	require.NoError(t, err)
	assert.True(t, ok, "value is stored under the prefix")
}

func TestDeleteMissingKey(t *testing.T) {
	c := cache.NewCache(kv.NewMemory())

	assert.NoError(t, c.Delete(context.Background(), "missing"))
}

func TestGetOrSet(t *testing.T) {
	ctx := context.Background()
	c := cache.NewCache(kv.NewMemory())

	var calls int32
	getter := func() (entry, error) {
		atomic.AddInt32(&calls, 1)
		return entry{ID: 5, Title: "Eve"}, nil
	}

	first, err := cache.GetOrSet(ctx, c, "k", getter, time.Minute)
	require.NoError(t, err)

	second, err := cache.GetOrSet(ctx, c, "k", getter, time.Minute)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetOrSetCollapsesConcurrentLoads(t *testing.T) {
	ctx := context.Background()
	c := cache.NewCache(kv.NewMemory())

	var calls int32

	release := make(chan struct{})
	getter := func() (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release

		return 42, nil
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			v, err := cache.GetOrSet(ctx, c, "answer", getter, time.Minute)
			assert.NoError(t, err)
			assert.Equal(t, 42, v)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	v, err := cache.Get[int](ctx, c, "answer")
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestGetOrSetGetterError(t *testing.T) {
	c := cache.NewCache(kv.NewMemory())
	boom := errors.New("getter error")

	_, err := cache.GetOrSet(context.Background(), c, "k", func() (entry, error) {
		return entry{}, boom
	}, time.Minute)
	require.ErrorIs(t, err, boom)

	_, err = cache.Get[entry](context.Background(), c, "k")
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestClearOnlyTouchesPrefix(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	c := cache.NewCache(store, cache.WithPrefix("rc:"))

	require.NoError(t, cache.Set(ctx, c, "a", 1, 0))
	require.NoError(t, cache.Set(ctx, c, "b", 2, 0))
	require.NoError(t, store.Set(ctx, "perm:role:ADMIN", []byte(`["SYSTEM_ADMIN"]`), 0))

	require.NoError(t, c.Clear(ctx))

	keys, err := store.Keys(ctx, "*")
	require.NoError(t, err)
	assert.Equal(t, []string{"perm:role:ADMIN"}, keys)
}

func TestExpiredEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	now := time.Now()
	store.SetClock(func() time.Time { return now })

	c := cache.NewCache(store)
	require.NoError(t, cache.Set(ctx, c, "k", "v", time.Second))

	now = now.Add(2 * time.Second)

	_, err := cache.Get[string](ctx, c, "k")
	assert.ErrorIs(t, err, cache.ErrMiss)
}
