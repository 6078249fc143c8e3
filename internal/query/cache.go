// Package query is the client-side read cache. Results are keyed by
// resource and parameter, dropped (never patched) on writes according to
// a declared invalidation graph, and guarded by generations so a fetch
// that raced an invalidation cannot repopulate stale data.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// Resource is a query family
type Resource string

const (
	Feeds      Resource = "feeds"
	Articles   Resource = "articles"
	Article    Resource = "article"
	Highlights Resource = "highlights"
	Tags       Resource = "tags"
)

// Key identifies one cached read
type Key struct {
	Resource Resource
	Param    string
}

func (k Key) String() string {
	if k.Param == "" {
		return string(k.Resource)
	}
	return string(k.Resource) + ":" + k.Param
}

// FeedsKey is the single feed-list key
func FeedsKey() Key { return Key{Resource: Feeds} }

// TagsKey is the global tag vocabulary key
func TagsKey() Key { return Key{Resource: Tags} }

// ArticlesKey is an article list for a filter key plus sort order
func ArticlesKey(filterKey, sort string) Key {
	return Key{Resource: Articles, Param: filterKey + "|" + sort}
}

// ArticleKey is one article by id
func ArticleKey(id int64) Key {
	return Key{Resource: Article, Param: strconv.FormatInt(id, 10)}
}

// HighlightsKey is the highlight list of one article
func HighlightsKey(articleID int64) Key {
	return Key{Resource: Highlights, Param: strconv.FormatInt(articleID, 10)}
}

// generation is the pair captured when a fetch starts
type generation struct {
	family uint64
	key    uint64
}

// Cache is safe for concurrent use; one instance lives for the session
type Cache struct {
	mu       sync.Mutex
	store    *lru.Cache[Key, any]
	families map[Resource]uint64
	keys     map[Key]uint64
	graph    Graph
	group    singleflight.Group
	flights  map[string]*flight
	seq      uint64
	logger   *slog.Logger
}

// NewCache creates a cache bounded to maxEntries results
func NewCache(maxEntries int, graph Graph, logger *slog.Logger) (*Cache, error) {
	store, err := lru.New[Key, any](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	if graph == nil {
		graph = DefaultGraph
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		store:    store,
		families: map[Resource]uint64{},
		keys:     map[Key]uint64{},
		flights:  map[string]*flight{},
		graph:    graph,
		logger:   logger,
	}, nil
}

// Get returns a cached value without fetching
func (c *Cache) Get(k Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Get(k)
}

// Len is the number of cached results
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Len()
}

func (c *Cache) current(k Key) generation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return generation{family: c.families[k.Resource], key: c.keys[k]}
}

// put stores v only if no invalidation touched k since gen was captured
func (c *Cache) put(k Key, gen generation, v any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.families[k.Resource] != gen.family || c.keys[k] != gen.key {
		c.logger.Debug("cache write dropped", "key", k.String())
		return false
	}
	c.store.Add(k, v)
	return true
}

// flight is one shared fetch. Its context outlives any single caller and
// is cancelled only when every waiter has gone.
type flight struct {
	name    string
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// join attaches the caller to the live flight for base, starting one if needed
func (c *Cache) join(ctx context.Context, base string) *flight {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.flights[base]
	if !ok {
		c.seq++
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{name: base + "#" + strconv.FormatUint(c.seq, 10), ctx: fctx, cancel: cancel}
		c.flights[base] = f
	}
	f.waiters++
	return f
}

// leave detaches a caller; the last one out cancels the flight
func (c *Cache) leave(base string, f *flight) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if c.flights[base] == f {
		delete(c.flights, base)
	}
}

// Fetch returns the cached value for k or runs fn once for all concurrent
// callers of the same key and generation. Errors are never cached.
// A caller whose ctx ends stops waiting without failing the others.
func Fetch[T any](ctx context.Context, c *Cache, k Key, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := c.Get(k); ok {
		if t, ok := v.(T); ok {
			c.logger.Debug("cache hit", "key", k.String())
			return t, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	gen := c.current(k)
	base := fmt.Sprintf("%s@%d.%d", k, gen.family, gen.key)
	f := c.join(ctx, base)
	defer c.leave(base, f)

	ch := c.group.DoChan(f.name, func() (any, error) {
		c.logger.Debug("cache miss", "key", k.String())
		val, err := fn(f.ctx)
		if err != nil {
			return nil, err
		}
		c.put(k, gen, val)
		return val, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.logger.Debug("cache request shared", "key", k.String())
		}
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// InvalidateKey drops one result and bumps its generation
func (c *Cache) InvalidateKey(k Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys[k]++
	c.store.Remove(k)
}

// InvalidateResource drops a whole family
func (c *Cache) InvalidateResource(r Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.families[r]++
	for _, k := range c.store.Keys() {
		if k.Resource == r {
			c.store.Remove(k)
		}
	}
}

// Invalidate applies the graph entry for m. id scopes "same" targets.
func (c *Cache) Invalidate(m Mutation, id int64) []Key {
	targets := c.graph[m]
	dropped := make([]Key, 0, len(targets))
	for _, t := range targets {
		switch t.Scope {
		case ScopeSame:
			k := Key{Resource: t.Resource, Param: strconv.FormatInt(id, 10)}
			c.InvalidateKey(k)
			dropped = append(dropped, k)
		default:
			c.InvalidateResource(t.Resource)
			dropped = append(dropped, Key{Resource: t.Resource})
		}
	}
	c.logger.Debug("cache invalidated", "mutation", string(m), "id", id, "targets", len(dropped))
	return dropped
}

// Purge drops everything, as on a manual refresh
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range []Resource{Feeds, Articles, Article, Highlights, Tags} {
		c.families[r]++
	}
	c.store.Purge()
}
