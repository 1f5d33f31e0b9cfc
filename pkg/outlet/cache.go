package outlet

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/vango-dev/outlet/pkg/route"
)

// ErrNoConstructor is returned when a loaded module exports no
// constructor.
var ErrNoConstructor = errors.New("outlet: loaded module exports no constructor")

// LoadError reports a failed async component load.
type LoadError struct {
	// Path is the fragment's own path.
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("outlet: loading component for %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Cache holds constructors resolved from async components, keyed by
// fragment definition. Concurrent loads of one fragment share a single
// loader call. A Cache is safe for concurrent use.
type Cache struct {
	mu    sync.RWMutex
	ctors map[*route.Definition]route.Constructor
	group singleflight.Group
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{ctors: make(map[*route.Definition]route.Constructor)}
}

// Constructor returns the constructor for def: the declared one for sync
// components, the cached one for loaded async components.
func (c *Cache) Constructor(def *route.Definition) (route.Constructor, bool) {
	if def == nil || def.Component == nil {
		return nil, false
	}
	if def.Component.Kind() == route.KindSync {
		ctor := def.Component.Constructor()
		return ctor, ctor != nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	ctor, ok := c.ctors[def]
	return ctor, ok
}

// Load runs def's loader once and caches the first constructor export.
// Callers arriving while a load is in flight wait for its result.
func (c *Cache) Load(ctx context.Context, def *route.Definition) (route.Constructor, error) {
	if ctor, ok := c.Constructor(def); ok {
		return ctor, nil
	}
	if def == nil || def.Component == nil || def.Component.Loader() == nil {
		return nil, &LoadError{Path: pathOf(def), Err: ErrNoConstructor}
	}

	v, err, _ := c.group.Do(fmt.Sprintf("%p", def), func() (any, error) {
		if ctor, ok := c.Constructor(def); ok {
			return ctor, nil
		}
		mod, err := def.Component.Loader()(ctx)
		if err != nil {
			return nil, &LoadError{Path: def.Path, Err: err}
		}
		ctor, ok := mod.Constructor()
		if !ok {
			return nil, &LoadError{Path: def.Path, Err: ErrNoConstructor}
		}
		c.mu.Lock()
		c.ctors[def] = ctor
		c.mu.Unlock()
		return ctor, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(route.Constructor), nil
}

// Forget drops a cached constructor so the next visit loads again.
func (c *Cache) Forget(def *route.Definition) {
	c.mu.Lock()
	delete(c.ctors, def)
	c.mu.Unlock()
}

// Len returns the number of cached constructors.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ctors)
}

func pathOf(def *route.Definition) string {
	if def == nil {
		return ""
	}
	return def.Path
}
