package outlet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vango-dev/outlet/pkg/loop"
	"github.com/vango-dev/outlet/pkg/route"
	"github.com/vango-dev/outlet/pkg/router"
)

// ErrNoRouter is returned by Attach when the outlet has no router and no
// ancestor outlet to inherit one from.
var ErrNoRouter = errors.New("outlet: missing router and no ancestor outlet")

// Node is an element of the host's structural tree.
type Node interface {
	// ParentNode returns the enclosing node, or nil at the top.
	ParentNode() Node
}

// Host is the component an outlet is mounted in.
type Host interface {
	Node

	// RequestUpdate asks the host to redraw the outlet.
	RequestUpdate()
}

// Router is the navigation capability an outlet needs.
// *router.Router implements it.
type Router interface {
	Route() *route.Normalized
	UseLocal() bool
	SetView(v router.View)
	View() router.View
}

// State is an outlet's lifecycle state.
type State int

const (
	StateUnattached State = iota
	StateAttached
	StateRendered
	StateLoading
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnattached:
		return "unattached"
	case StateAttached:
		return "attached"
	case StateRendered:
		return "rendered"
	case StateLoading:
		return "loading"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Option configures an Outlet.
type Option func(*Outlet)

// WithRouter makes the outlet governed by r. Without it the outlet
// inherits the router of its nearest ancestor outlet.
func WithRouter(r Router) Option {
	return func(o *Outlet) {
		o.router = r
		o.ownsRouter = r != nil
	}
}

// WithProps sets the properties passed to RenderFunc fragments.
func WithProps(props map[string]any) Option {
	return func(o *Outlet) {
		o.props = props
	}
}

// WithCache sets the async component cache. Without it the outlet uses
// its parent's cache, or a new one at the root.
func WithCache(c *Cache) Option {
	return func(o *Outlet) {
		o.cache = c
	}
}

// WithDispatcher sets where async load completions run. Without it the
// outlet uses its parent's dispatcher, or loop.Immediate at the root.
//
// With loop.Immediate there is no UI loop to post back to, so loaders run
// synchronously on the navigating turn. Inject a *loop.Loop to load in the
// background.
func WithDispatcher(d loop.Dispatcher) Option {
	return func(o *Outlet) {
		o.dispatcher = d
	}
}

// WithLogger sets the logger. Without it the outlet uses its parent's
// logger, or slog.Default() at the root.
func WithLogger(l *slog.Logger) Option {
	return func(o *Outlet) {
		o.logger = l
	}
}

// Outlet renders the fragment at its depth of the current route.
type Outlet struct {
	host       Host
	router     Router
	ownsRouter bool
	props      map[string]any
	cache      *Cache
	dispatcher loop.Dispatcher
	logger     *slog.Logger
	ctx        context.Context

	parent *Outlet
	child  *Outlet

	route    *route.Normalized
	state    State
	err      error
	instance any
	instFor  *route.Definition
}

var _ router.View = (*Outlet)(nil)

// New creates an unattached outlet inside host.
func New(host Host, opts ...Option) *Outlet {
	o := &Outlet{host: host, props: map[string]any{}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ParentNode returns the host, so components rendered by this outlet can
// find it as their ancestor.
func (o *Outlet) ParentNode() Node {
	if o.host == nil {
		return nil
	}
	return o.host
}

// Attach connects the outlet to its governing router and applies the
// router's current route. ctx is used for async component loads.
//
// An outlet with its own router becomes that router's root view when it
// has no ancestor outlet, when the router is local-only, or when the
// ancestor belongs to another router. Otherwise it nests under the
// ancestor.
func (o *Outlet) Attach(ctx context.Context) error {
	if o.state != StateUnattached {
		return nil
	}
	parent := o.ancestor()

	if !o.ownsRouter {
		if parent == nil || parent.router == nil {
			o.log().Error("outlet: missing router", "error", ErrNoRouter)
			return ErrNoRouter
		}
		o.router = parent.router
		o.link(parent)
	} else if parent == nil || o.router.UseLocal() || parent.router != o.router {
		o.router.SetView(o)
		o.parent = nil
	} else {
		o.link(parent)
	}

	o.ctx = ctx
	if o.parent != nil {
		o.inherit(o.parent)
	}
	if o.cache == nil {
		o.cache = NewCache()
	}
	if o.dispatcher == nil {
		o.dispatcher = loop.Immediate{}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	o.state = StateAttached
	o.SetRoute(o.router.Route())
	return nil
}

func (o *Outlet) link(parent *Outlet) {
	o.parent = parent
	parent.child = o
}

func (o *Outlet) inherit(parent *Outlet) {
	if o.cache == nil {
		o.cache = parent.cache
	}
	if o.dispatcher == nil {
		o.dispatcher = parent.dispatcher
	}
	if o.logger == nil {
		o.logger = parent.logger
	}
}

func (o *Outlet) ancestor() *Outlet {
	if o.host == nil {
		return nil
	}
	for n := Node(o.host); n != nil; n = n.ParentNode() {
		if p, ok := n.(*Outlet); ok && p != o {
			return p
		}
	}
	return nil
}

func (o *Outlet) log() *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return slog.Default()
}

// Detach disconnects the outlet from its parent and router. An in-flight
// load still completes and fills the cache.
func (o *Outlet) Detach() {
	if o.state == StateUnattached {
		return
	}
	if o.parent != nil && o.parent.child == o {
		o.parent.child = nil
	}
	if o.router != nil && o.router.View() == router.View(o) {
		o.router.SetView(nil)
	}
	o.release()
}

func (o *Outlet) release() {
	o.parent = nil
	if !o.ownsRouter {
		o.router = nil
	}
	o.state = StateUnattached
	o.instance, o.instFor = nil, nil
}

// Depth is 0 for a root outlet and the parent's depth plus one otherwise.
func (o *Outlet) Depth() int {
	if o.parent == nil {
		return 0
	}
	return o.parent.Depth() + 1
}

// IsRoot reports whether the outlet has no parent outlet.
func (o *Outlet) IsRoot() bool { return o.parent == nil }

// Parent returns the parent outlet, or nil for a root.
func (o *Outlet) Parent() *Outlet { return o.parent }

// Child returns the nested outlet, or nil.
func (o *Outlet) Child() *Outlet { return o.child }

// Router returns the governing router, or nil before Attach.
func (o *Outlet) Router() Router { return o.router }

// State returns the lifecycle state.
func (o *Outlet) State() State { return o.state }

// Err returns the load failure in StateFailed.
func (o *Outlet) Err() error { return o.err }

// Route returns the route the outlet last received.
func (o *Outlet) Route() *route.Normalized { return o.route }

// Fragment returns the definition this outlet is responsible for, or nil
// when the route chain is shorter than its depth.
func (o *Outlet) Fragment() *route.Definition {
	return o.route.Fragment(o.Depth())
}

// RequestUpdate asks the host to redraw.
func (o *Outlet) RequestUpdate() {
	if o.host != nil {
		o.host.RequestUpdate()
	}
}

// SetRoute applies a resolved route.
//
// If the fragment at this depth is unchanged and a nested outlet exists,
// the route is handed to the nested outlet and this outlet does not
// re-render. Otherwise the leave hooks of the previous chain from this
// depth down run innermost first, the route is replaced, and the new
// fragment is either loaded or entered.
func (o *Outlet) SetRoute(rt *route.Normalized) {
	if o.state == StateUnattached {
		return
	}
	depth := o.Depth()
	prev := o.route.Fragment(depth)
	next := rt.Fragment(depth)

	if prev == next && o.child != nil {
		o.route = rt
		o.child.SetRoute(rt)
		return
	}

	below := o.route.Below(depth)
	for i := len(below) - 1; i >= 0; i-- {
		if below[i].OnBeforeLeave != nil {
			below[i].OnBeforeLeave()
		}
	}
	o.route = rt
	o.err = nil
	if prev != next {
		o.dropChild()
		o.instance, o.instFor = nil, nil
	}

	if o.needsLoad(next) {
		o.load(next)
		return
	}
	o.enter(next)
}

func (o *Outlet) dropChild() {
	if o.child == nil {
		return
	}
	c := o.child
	o.child = nil
	c.release()
}

func (o *Outlet) needsLoad(def *route.Definition) bool {
	if def == nil || def.Component == nil || def.Component.Kind() != route.KindAsync {
		return false
	}
	_, ok := o.cache.Constructor(def)
	return !ok
}

func (o *Outlet) enter(def *route.Definition) {
	if def != nil && def.OnBeforeEnter != nil {
		def.OnBeforeEnter()
	}
	o.state = StateRendered
	o.RequestUpdate()
}

func (o *Outlet) load(def *route.Definition) {
	o.state = StateLoading
	ctx, cache, d := o.ctx, o.cache, o.dispatcher
	if ctx == nil {
		ctx = context.Background()
	}
	if _, inline := d.(loop.Immediate); inline {
		_, err := cache.Load(ctx, def)
		o.loaded(def, err)
		return
	}
	go func() {
		_, err := cache.Load(ctx, def)
		d.Post(func() { o.loaded(def, err) })
	}()
}

// loaded runs on the UI loop once def's load finished. A result for a
// fragment the outlet has since left only fills the cache.
func (o *Outlet) loaded(def *route.Definition, err error) {
	if o.state != StateLoading || o.Fragment() != def {
		if err != nil {
			o.log().Warn("outlet: superseded load failed", "path", def.Path, "error", err)
		}
		return
	}
	if err != nil {
		o.err = err
		o.state = StateFailed
		o.log().Error("outlet: component load failed", "path", def.Path, "error", err)
		o.RequestUpdate()
		return
	}
	o.enter(def)
}

// Render returns what the outlet displays: a component instance, the
// output of the fragment's RenderFunc, or nil while unattached, loading,
// failed, or when there is no fragment.
//
// A component is instantiated once per fragment visit.
func (o *Outlet) Render() any {
	if o.state != StateRendered {
		return nil
	}
	def := o.Fragment()
	if def == nil {
		return nil
	}
	if def.Component != nil {
		if o.instFor == def {
			return o.instance
		}
		ctor, ok := o.cache.Constructor(def)
		if !ok {
			return nil
		}
		o.instance, o.instFor = ctor(), def
		return o.instance
	}
	if def.Render != nil {
		return def.Render(o.props)
	}
	return nil
}

// Props returns the render properties.
func (o *Outlet) Props() map[string]any { return o.props }

// SetProps replaces the render properties and requests a redraw.
func (o *Outlet) SetProps(props map[string]any) {
	o.props = props
	o.RequestUpdate()
}
