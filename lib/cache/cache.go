package cache

import (
	"fmt"
	"sync"
	"time"

	httpcache "github.com/SporkHubr/echo-http-cache"
	"github.com/SporkHubr/echo-http-cache/adapter/memory"
	"github.com/labstack/echo/v4"
)

// ViewCache caches the rendered responses of one path, across all of its query strings.
type ViewCache struct {
	path    string
	adapter *trackingAdapter
	client  *httpcache.Client
}

func NewViewCache(path string, ttl time.Duration, capacity int) (*ViewCache, error) {
	memcached, err := memory.NewAdapter(
		memory.AdapterWithAlgorithm(memory.LRU),
		memory.AdapterWithCapacity(capacity),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cache memory adapter for %s: %w", path, err)
	}
	adapter := newTrackingAdapter(memcached)

	client, err := httpcache.NewClient(
		httpcache.ClientWithAdapter(adapter),
		httpcache.ClientWithTTL(ttl),
		httpcache.ClientWithRefreshKey("opn"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cache client for %s: %w", path, err)
	}
	return &ViewCache{path: path, adapter: adapter, client: client}, nil
}

// Middleware serves the view through the cache. Each request is tracked for the duration of
// the render so a response rendered before an invalidation is never stored after it.
func (v *ViewCache) Middleware() echo.MiddlewareFunc {
	cached := v.client.Middleware()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		h := cached(next)
		return func(c echo.Context) error {
			done := v.adapter.beginRender()
			defer done()
			return h(c)
		}
	}
}

// Invalidate marks every cached variant of the view stale.
func (v *ViewCache) Invalidate() int {
	return v.adapter.releaseAll()
}

// Registry maps paths to their view caches.
type Registry struct {
	mu    sync.RWMutex
	views map[string]*ViewCache
}

func NewRegistry() *Registry {
	return &Registry{views: map[string]*ViewCache{}}
}

func (r *Registry) Register(view *ViewCache) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[view.path] = view
}

func (r *Registry) View(path string) (*ViewCache, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	view, ok := r.views[path]
	return view, ok
}

// Revalidate invalidates the view registered for path. Unknown paths are ignored.
func (r *Registry) Revalidate(path string) {
	if view, ok := r.View(path); ok {
		view.Invalidate()
	}
}

// trackingAdapter remembers the keys written through it so they can be released together.
// Every releaseAll starts a new generation; responses are not stored while a render that
// began in an earlier generation is still in flight.
type trackingAdapter struct {
	httpcache.Adapter

	mu         sync.Mutex
	keys       map[uint64]struct{}
	generation uint64

	// in-flight renders per generation they started in
	inflight map[uint64]int
}

func newTrackingAdapter(adapter httpcache.Adapter) *trackingAdapter {
	return &trackingAdapter{
		Adapter:  adapter,
		keys:     map[uint64]struct{}{},
		inflight: map[uint64]int{},
	}
}

func (a *trackingAdapter) beginRender() (done func()) {
	a.mu.Lock()
	generation := a.generation
	a.inflight[generation]++
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.inflight[generation]--
		if a.inflight[generation] <= 0 {
			delete(a.inflight, generation)
		}
	}
}

// staleRenderInFlight must be called with mu held.
func (a *trackingAdapter) staleRenderInFlight() bool {
	for generation := range a.inflight {
		if generation < a.generation {
			return true
		}
	}
	return false
}

func (a *trackingAdapter) Set(key uint64, response []byte, expiration time.Time) {
	a.mu.Lock()
	if a.staleRenderInFlight() {
		a.mu.Unlock()
		return
	}
	a.keys[key] = struct{}{}
	// stored under the lock so releaseAll cannot run between the check and the write
	a.Adapter.Set(key, response, expiration)
	a.mu.Unlock()
}

func (a *trackingAdapter) Release(key uint64) {
	a.mu.Lock()
	delete(a.keys, key)
	a.mu.Unlock()
	a.Adapter.Release(key)
}

func (a *trackingAdapter) releaseAll() int {
	a.mu.Lock()
	keys := a.keys
	a.keys = map[uint64]struct{}{}
	a.generation++
	a.mu.Unlock()

	for key := range keys {
		a.Adapter.Release(key)
	}
	return len(keys)
}
