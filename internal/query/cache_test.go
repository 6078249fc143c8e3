package query

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache(16, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c
}

func counter(n *int32, v string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		atomic.AddInt32(n, 1)
		return v, nil
	}
}

func TestFetchCachesSuccess(t *testing.T) {
	c := newCache(t)
	var calls int32

	v, err := Fetch(context.Background(), c, FeedsKey(), counter(&calls, "a"))
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	v, err = Fetch(context.Background(), c, FeedsKey(), counter(&calls, "b"))
	require.NoError(t, err)
	assert.Equal(t, "a", v)
	assert.Equal(t, int32(1), calls)
}

func TestFetchDoesNotCacheErrors(t *testing.T) {
	c := newCache(t)
	boom := errors.New("boom")

	_, err := Fetch(context.Background(), c, TagsKey(), func(context.Context) ([]string, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	_, ok := c.Get(TagsKey())
	assert.False(t, ok)
}

func TestConcurrentFetchesCollapse(t *testing.T) {
	c := newCache(t)
	var calls int32
	start := make(chan struct{})

	fn := func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-start
		return 7, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Fetch(context.Background(), c, ArticleKey(1), fn)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), calls)
	for _, v := range results {
		assert.Equal(t, 7, v)
	}
}

// INVARIANT: a fetch that started before an invalidation never writes its result
// BREAKS: stale article lists reappear after a PATCH
func TestStaleFetchIsNotStored(t *testing.T) {
	c := newCache(t)
	key := ArticlesKey("{}", "newest")
	inFlight := make(chan struct{})
	release := make(chan struct{})

	done := make(chan string)
	go func() {
		v, _ := Fetch(context.Background(), c, key, func(context.Context) (string, error) {
			close(inFlight)
			<-release
			return "stale", nil
		})
		done <- v
	}()

	<-inFlight
	c.Invalidate(ArticleUpdated, 1)
	close(release)

	// The racing caller still sees its own response
	assert.Equal(t, "stale", <-done)

	_, ok := c.Get(key)
	assert.False(t, ok, "stale response must not be cached")

	var calls int32
	v, err := Fetch(context.Background(), c, key, counter(&calls, "fresh"))
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
	assert.Equal(t, int32(1), calls)
}

// INVARIANT: a caller that joins an in-flight fetch is unaffected when the
// caller that started it is cancelled
// BREAKS: reopening the same article or filter quickly shows "context canceled"
func TestCancelledStarterDoesNotFailJoiner(t *testing.T) {
	c := newCache(t)
	key := ArticleKey(3)
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	fn := func(ctx context.Context) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		select {
		case <-release:
			return "article", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	var slot Slot
	ctx1, _ := slot.Begin(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := Fetch(ctx1, c, key, fn)
		first <- err
	}()
	<-started

	ctx2, _ := slot.Begin(context.Background())
	second := make(chan string, 1)
	secondErr := make(chan error, 1)
	go func() {
		v, err := Fetch(ctx2, c, key, fn)
		second <- v
		secondErr <- err
	}()

	assert.ErrorIs(t, <-first, context.Canceled)
	close(release)

	require.NoError(t, <-secondErr)
	assert.Equal(t, "article", <-second)
	assert.True(t, cached(c, key))
}

func TestLastWaiterCancelsFlight(t *testing.T) {
	c := newCache(t)
	cancelled := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := Fetch(ctx, c, FeedsKey(), func(fctx context.Context) (string, error) {
			cancel()
			<-fctx.Done()
			close(cancelled)
			return "", fctx.Err()
		})
		done <- err
	}()

	assert.ErrorIs(t, <-done, context.Canceled)
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("flight context was not cancelled after its only caller left")
	}
	assert.False(t, cached(c, FeedsKey()))
}

func TestFetchWithDoneContext(t *testing.T) {
	c := newCache(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls int32

	_, err := Fetch(ctx, c, TagsKey(), counter(&calls, "x"))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func seed(t *testing.T, c *Cache, keys ...Key) {
	t.Helper()
	for _, k := range keys {
		_, err := Fetch(context.Background(), c, k, func(context.Context) (string, error) {
			return k.String(), nil
		})
		require.NoError(t, err)
	}
}

func cached(c *Cache, k Key) bool {
	_, ok := c.Get(k)
	return ok
}

func TestInvalidationGraph(t *testing.T) {
	unread := ArticlesKey(`{"is_read":false,"is_archived":false}`, "newest")
	all := ArticlesKey("{}", "newest")

	tests := []struct {
		name     string
		mutation Mutation
		id       int64
		dropped  []Key
		kept     []Key
	}{
		{
			name:     "article update drops lists and that article",
			mutation: ArticleUpdated, id: 1,
			dropped: []Key{unread, all, ArticleKey(1)},
			kept:    []Key{ArticleKey(2), FeedsKey(), TagsKey(), HighlightsKey(1)},
		},
		{
			name:     "feed delete drops feeds, lists, articles and highlights",
			mutation: FeedDeleted, id: 9,
			dropped: []Key{FeedsKey(), unread, all, ArticleKey(1), ArticleKey(2), HighlightsKey(1)},
			kept:    []Key{TagsKey()},
		},
		{
			name:     "feed create drops only feeds",
			mutation: FeedCreated, id: 9,
			dropped: []Key{FeedsKey()},
			kept:    []Key{unread, all, ArticleKey(1), TagsKey()},
		},
		{
			name:     "tag attach drops tags vocabulary",
			mutation: TagAttached, id: 2,
			dropped: []Key{TagsKey(), unread, ArticleKey(2)},
			kept:    []Key{ArticleKey(1), FeedsKey()},
		},
		{
			name:     "highlight create drops that article only",
			mutation: HighlightCreated, id: 1,
			dropped: []Key{HighlightsKey(1), ArticleKey(1)},
			kept:    []Key{ArticleKey(2), unread, all, TagsKey()},
		},
		{
			name:     "feed refresh drops feeds and lists",
			mutation: FeedRefreshed, id: 9,
			dropped: []Key{FeedsKey(), unread},
			kept:    []Key{ArticleKey(1), HighlightsKey(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCache(t)
			seed(t, c, unread, all, ArticleKey(1), ArticleKey(2), HighlightsKey(1), FeedsKey(), TagsKey())

			c.Invalidate(tt.mutation, tt.id)

			for _, k := range tt.dropped {
				assert.False(t, cached(c, k), "%s should be dropped", k)
			}
			for _, k := range tt.kept {
				assert.True(t, cached(c, k), "%s should be kept", k)
			}
		})
	}
}

func TestEveryMutationHasEdges(t *testing.T) {
	for _, m := range []Mutation{
		FeedCreated, FeedUpdated, FeedDeleted, FeedRefreshed, ArticleUpdated,
		TagAttached, TagDetached, HighlightCreated, HighlightUpdated, HighlightDeleted,
	} {
		assert.NotEmpty(t, DefaultGraph[m], "mutation %s", m)
	}
}

func TestLRUBound(t *testing.T) {
	c, err := NewCache(2, nil, nil)
	require.NoError(t, err)
	seed(t, c, ArticleKey(1), ArticleKey(2), ArticleKey(3))

	assert.Equal(t, 2, c.Len())
	assert.False(t, cached(c, ArticleKey(1)))
}

func TestPurge(t *testing.T) {
	c := newCache(t)
	seed(t, c, FeedsKey(), ArticleKey(1))
	c.Purge()
	assert.Equal(t, 0, c.Len())
}
