package router

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/vango-dev/outlet/pkg/resolver"
	"github.com/vango-dev/outlet/pkg/route"
	"github.com/vango-dev/outlet/pkg/routepath"
)

// Config configures a Router.
type Config struct {
	resolver.Config

	// Location is the document location resolved right after the router
	// subscribes. Empty skips the initial resolution.
	Location string
}

// Option configures a Router.
type Option func(*Router)

// WithHost sets the redraw primitive requested on every resolution.
func WithHost(host Updater) Option {
	return func(r *Router) {
		r.host = host
	}
}

// WithResolver shares an existing navigation state instead of building
// one from Config. The router does not close a shared resolver.
func WithResolver(res *resolver.Resolver) Option {
	return func(r *Router) {
		r.resolver = res
	}
}

// Router drives one outlet tree from a navigation state.
type Router struct {
	resolver    *resolver.Resolver
	ownResolver bool
	host        Updater
	useLocal    bool
	logger      *slog.Logger

	mu        sync.RWMutex
	view      View
	subpath   string
	isSub     bool
	listeners map[int]ResolveFunc
	order     []int
	nextID    int

	unsubscribe func()
	closeOnce   sync.Once
}

// New creates a router, subscribes it to its navigation state and
// resolves cfg.Location.
func New(cfg Config, opts ...Option) (*Router, error) {
	r := &Router{
		useLocal:  cfg.UseLocal,
		logger:    cfg.Logger,
		listeners: make(map[int]ResolveFunc),
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.resolver == nil {
		res, err := resolver.New(cfg.Config)
		if err != nil {
			return nil, err
		}
		r.resolver = res
		r.ownResolver = true
	}

	r.unsubscribe = r.resolver.Subscribe(r)
	if cfg.Location != "" {
		r.resolver.To(route.URL(cfg.Location))
	}
	return r, nil
}

// To navigates without recording history or storage. Sub-routers prefix
// URL queries with their subpath.
func (r *Router) To(q route.Query) {
	r.resolver.To(r.relative(q))
}

// Push navigates and records the navigation. Sub-routers prefix URL
// queries with their subpath.
func (r *Router) Push(q route.Query) {
	r.resolver.Push(r.relative(q))
}

func (r *Router) relative(q route.Query) route.Query {
	if !q.IsURL() {
		return q
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.isSub {
		return q
	}
	q.URL = routepath.Join(r.subpath, q.URL)
	return q
}

// SetRoute forwards rt to the view, requests a redraw and notifies
// OnResolve listeners. The resolver calls it on every resolution.
func (r *Router) SetRoute(rt *route.Normalized) {
	if v := r.View(); v != nil {
		v.SetRoute(rt)
	}
	if r.host != nil {
		r.host.RequestUpdate()
	}
	for _, fn := range r.resolveListeners() {
		fn(rt)
	}
}

// OnResolve registers fn for every route this router receives. The
// returned function removes the registration.
func (r *Router) OnResolve(fn ResolveFunc) (cancel func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.order = append(r.order, id)
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.listeners, id)
			for i, v := range r.order {
				if v == id {
					r.order = append(r.order[:i], r.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (r *Router) resolveListeners() []ResolveFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ResolveFunc, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.listeners[id])
	}
	return out
}

// RegisterAsSubRouter makes later URL navigations relative to the path
// parent is currently on. A parent without a route leaves r unchanged.
func (r *Router) RegisterAsSubRouter(parent *Router) {
	if parent == nil || parent.Route() == nil {
		return
	}
	sub := parent.Path()
	r.mu.Lock()
	r.subpath = sub
	r.isSub = true
	r.mu.Unlock()
}

// IsSubRouter reports whether RegisterAsSubRouter took effect.
func (r *Router) IsSubRouter() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isSub
}

// Subpath returns the prefix applied by a sub-router.
func (r *Router) Subpath() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.subpath
}

// Path returns the current route path, with the subpath removed for
// sub-routers.
func (r *Router) Path() string {
	path := r.resolver.Path()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.isSub {
		return strings.Replace(path, r.subpath, "", 1)
	}
	return path
}

// Route returns the current route.
func (r *Router) Route() *route.Normalized {
	return r.resolver.Route()
}

// Routes returns the declared route tree.
func (r *Router) Routes() []*route.Definition {
	return r.resolver.Routes()
}

// Resolver returns the navigation state.
func (r *Router) Resolver() *resolver.Resolver {
	return r.resolver
}

// UseLocal reports whether outlets of this router start their own tree.
func (r *Router) UseLocal() bool {
	return r.useLocal
}

// SetView attaches the root view. Nil detaches.
func (r *Router) SetView(v View) {
	r.mu.Lock()
	r.view = v
	r.mu.Unlock()
}

// View returns the attached root view, or nil.
func (r *Router) View() View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.view
}

// SetRoutes replaces the route tree, re-resolves the current URL and
// refreshes the view. On error nothing changes.
func (r *Router) SetRoutes(defs []*route.Definition) error {
	if err := r.resolver.SetRoutes(defs); err != nil {
		return err
	}
	if cur := r.Route(); cur != nil {
		target := cur.URL
		if target == "" {
			target = cur.Path
		}
		r.resolver.To(route.URL(target))
	}
	if v := r.View(); v != nil {
		v.RequestUpdate()
	}
	return nil
}

// Close unsubscribes the router and closes a resolver it created.
func (r *Router) Close() {
	r.closeOnce.Do(func() {
		r.unsubscribe()
		if r.ownResolver {
			r.resolver.Close()
		}
	})
}
