// Package resolver holds the navigation state shared by the routers of
// an application.
//
// A Resolver owns the compiled route table and the current route. It
// turns queries into routes, notifies its subscribers, and, for push
// navigations, records history entries and persists the route URL.
//
// Navigations are best-effort: a query that matches nothing is logged
// and leaves the current route untouched.
//
// # Threading
//
// To, Push and SetRoute must be called from the UI loop (see package
// loop). Subscribers are notified synchronously, so one navigation's
// fan-out completes before the next navigation begins. Read accessors
// are safe from any goroutine.
package resolver

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/outlet/pkg/history"
	"github.com/vango-dev/outlet/pkg/route"
	"github.com/vango-dev/outlet/pkg/storage"
)

// DefaultTracerName is the tracer used when Config.TracerName is empty.
const DefaultTracerName = "outlet"

// Navigation modes, used as the "mode" metric label.
const (
	ModeTo   = "to"
	ModePush = "push"
	ModePop  = "pop"
)

// Config configures a Resolver.
type Config struct {
	// Routes is the declared route tree.
	Routes []*route.Definition

	// UseHistory records push navigations in History and re-applies
	// popped entries.
	UseHistory bool

	// UseMemory persists the URL of every push-mode navigation in
	// Storage and restores it on construction.
	UseMemory bool

	// UseLocal makes outlets of routers built from this configuration
	// start their own outlet tree. It is carried for routers and has no
	// effect on the resolver itself.
	UseLocal bool

	// Entry is resolved on construction when no persisted route is
	// restored.
	Entry *route.Query

	// History is the platform history. Required when UseHistory is set.
	History history.History

	// Storage is the persistence backend. Required when UseMemory is set.
	Storage storage.Store

	// Logger receives navigation failures.
	// Default: slog.Default()
	Logger *slog.Logger

	// Metrics records navigation outcomes. Nil disables metrics.
	Metrics *Metrics

	// TracerName names the OpenTelemetry tracer.
	// Default: "outlet"
	TracerName string
}

// Errors returned by New.
var (
	ErrNoHistory = errors.New("resolver: UseHistory requires a History")
	ErrNoStorage = errors.New("resolver: UseMemory requires a Storage")
)

// Subscriber receives every resolved route.
type Subscriber interface {
	SetRoute(r *route.Normalized)
}

// Resolver is the navigation state.
type Resolver struct {
	useHistory bool
	useMemory  bool
	useLocal   bool
	history    history.History
	store      storage.Store
	logger     *slog.Logger
	metrics    *Metrics
	tracer     trace.Tracer

	mu      sync.RWMutex
	defs    []*route.Definition
	table   *route.Table
	current *route.Normalized

	subsMu  sync.Mutex
	subs    map[int]Subscriber
	subIDs  []int
	nextSub int

	cancelPop func()
	closeOnce sync.Once
}

// New compiles the route tree and restores the initial route.
//
// A duplicated path or name is returned as a *route.DuplicateRouteError.
// Restoration order: the persisted route when UseMemory is set and one
// exists, otherwise Entry. Neither writes history or storage.
func New(cfg Config) (*Resolver, error) {
	if cfg.UseHistory && cfg.History == nil {
		return nil, ErrNoHistory
	}
	if cfg.UseMemory && cfg.Storage == nil {
		return nil, ErrNoStorage
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracerName := cfg.TracerName
	if tracerName == "" {
		tracerName = DefaultTracerName
	}

	r := &Resolver{
		useHistory: cfg.UseHistory,
		useMemory:  cfg.UseMemory,
		useLocal:   cfg.UseLocal,
		history:    cfg.History,
		store:      cfg.Storage,
		logger:     logger,
		metrics:    cfg.Metrics,
		tracer:     otel.Tracer(tracerName),
		subs:       make(map[int]Subscriber),
	}
	if err := r.SetRoutes(cfg.Routes); err != nil {
		return nil, err
	}

	restored := false
	if r.useMemory {
		if url, ok := r.persisted(); ok {
			r.To(route.URL(url))
			restored = true
		}
	}
	if !restored && cfg.Entry != nil {
		r.To(*cfg.Entry)
	}

	if r.useHistory {
		r.cancelPop = r.history.OnPop(r.onPop)
	}
	return r, nil
}

func (r *Resolver) persisted() (string, bool) {
	url, ok, err := r.store.Get(context.Background(), storage.RouteKey)
	if err != nil {
		r.metrics.recordStoreError()
		r.logger.Warn("outlet: reading persisted route failed", "error", err)
		return "", false
	}
	return url, ok && url != ""
}

func (r *Resolver) onPop(e history.Entry) {
	r.navigate(context.Background(), ModePop, route.URL(e.Target()), true, true)
}

// To resolves q and applies it without recording history or storage.
func (r *Resolver) To(q route.Query) {
	r.ToContext(context.Background(), q)
}

// ToContext is To with a context for tracing.
func (r *Resolver) ToContext(ctx context.Context, q route.Query) {
	r.navigate(ctx, ModeTo, q, false, false)
}

// Push resolves q, applies it, records a history entry when history is
// enabled and persists its URL when memory is enabled.
func (r *Resolver) Push(q route.Query) {
	r.PushContext(context.Background(), q)
}

// PushContext is Push with a context for tracing and storage writes.
func (r *Resolver) PushContext(ctx context.Context, q route.Query) {
	r.navigate(ctx, ModePush, q, false, true)
}

func (r *Resolver) navigate(ctx context.Context, mode string, q route.Query, isBack, isPush bool) {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "outlet.resolve",
		trace.WithAttributes(
			attribute.String("route.query", q.String()),
			attribute.String("route.mode", mode),
		),
	)
	defer span.End()

	matched, err := r.Table().Match(q)
	if err != nil {
		status := StatusError
		switch {
		case errors.Is(err, route.ErrUnknownURL):
			status = StatusUnknownURL
		case errors.Is(err, route.ErrUnknownName):
			status = StatusUnknownName
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.metrics.recordNavigation(mode, status, time.Since(start))
		r.logger.Error("outlet: navigation failed", "mode", mode, "query", q.String(), "error", err)
		return
	}

	span.SetAttributes(
		attribute.String("route.path", matched.Path),
		attribute.String("route.name", matched.Name),
	)
	r.setRoute(ctx, matched, isBack, isPush)
	span.SetStatus(codes.Ok, "")
	r.metrics.recordNavigation(mode, StatusOK, time.Since(start))
}

// SetRoute makes rt the current route and notifies subscribers. When
// isPush is set it then records history (unless isBack) and persists
// the URL.
func (r *Resolver) SetRoute(rt *route.Normalized, isBack, isPush bool) {
	r.setRoute(context.Background(), rt, isBack, isPush)
}

func (r *Resolver) setRoute(ctx context.Context, rt *route.Normalized, isBack, isPush bool) {
	r.mu.Lock()
	r.current = rt
	r.mu.Unlock()

	for _, s := range r.subscribers() {
		s.SetRoute(rt)
	}

	if !isPush || rt == nil {
		return
	}

	if r.useHistory && !isBack {
		if err := r.history.Push(rt.URL, rt.URL); err != nil {
			r.logger.Warn("outlet: history push failed", "url", rt.URL, "error", err)
		}
	}

	if r.useMemory {
		if err := r.store.Set(ctx, storage.RouteKey, rt.URL); err != nil {
			r.metrics.recordStoreError()
			r.logger.Warn("outlet: persisting route failed", "url", rt.URL, "error", err)
		}
	}
}

// SetRoutes recompiles the table from defs. On error the previous table
// stays active. The current route is not re-resolved.
func (r *Resolver) SetRoutes(defs []*route.Definition) error {
	table, err := route.Compile(defs)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.defs = defs
	r.table = table
	r.mu.Unlock()

	r.metrics.setTableRoutes(table.Len())
	return nil
}

// Subscribe registers s for every resolved route. The returned function
// removes the registration.
func (r *Resolver) Subscribe(s Subscriber) (cancel func()) {
	r.subsMu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = s
	r.subIDs = append(r.subIDs, id)
	r.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.subsMu.Lock()
			defer r.subsMu.Unlock()
			delete(r.subs, id)
			for i, v := range r.subIDs {
				if v == id {
					r.subIDs = append(r.subIDs[:i], r.subIDs[i+1:]...)
					break
				}
			}
		})
	}
}

func (r *Resolver) subscribers() []Subscriber {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()
	out := make([]Subscriber, 0, len(r.subIDs))
	for _, id := range r.subIDs {
		out = append(out, r.subs[id])
	}
	return out
}

// Route returns the current route, or nil before the first resolution.
func (r *Resolver) Route() *route.Normalized {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Path returns the fused path of the current route, or "".
func (r *Resolver) Path() string {
	if rt := r.Route(); rt != nil {
		return rt.Path
	}
	return ""
}

// Routes returns the declared route tree.
func (r *Resolver) Routes() []*route.Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defs
}

// Table returns the compiled route table.
func (r *Resolver) Table() *route.Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.table
}

// UseLocal reports the configured UseLocal flag.
func (r *Resolver) UseLocal() bool { return r.useLocal }

// Close stops listening for history pops. It does not close the
// history or storage.
func (r *Resolver) Close() {
	r.closeOnce.Do(func() {
		if r.cancelPop != nil {
			r.cancelPop()
		}
	})
}
