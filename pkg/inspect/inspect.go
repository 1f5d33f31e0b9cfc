package inspect

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/outlet/pkg/history"
	"github.com/vango-dev/outlet/pkg/loop"
	"github.com/vango-dev/outlet/pkg/router"
)

// Option configures a Server.
type Option func(*Server)

// WithRelay enables GET /history. Sockets attach to relay, which must be
// the History the router's resolver was built with.
func WithRelay(relay *history.Relay) Option {
	return func(s *Server) {
		s.relay = relay
	}
}

// WithDispatcher sets where navigations and socket pops run. Pass the
// host's *loop.Loop when the router also serves a UI. Default: a
// loop.Serial owned by the server, so concurrent requests never overlap.
func WithDispatcher(d loop.Dispatcher) Option {
	return func(s *Server) {
		s.dispatcher = d
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithGatherer sets the metrics source for GET /metrics.
// Default: prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithCheckOrigin overrides the websocket origin check. By default every
// origin is accepted.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(s *Server) {
		s.upgrader.CheckOrigin = fn
	}
}

// Server is the inspector's http.Handler.
type Server struct {
	router     *router.Router
	relay      *history.Relay
	dispatcher loop.Dispatcher
	logger     *slog.Logger
	gatherer   prometheus.Gatherer
	upgrader   websocket.Upgrader
	mux        chi.Router
}

// New builds the inspector for r.
func New(r *router.Router, opts ...Option) *Server {
	s := &Server{
		router:     r,
		dispatcher: &loop.Serial{},
		logger:     slog.Default(),
		gatherer:   prometheus.DefaultGatherer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)
	mux.Use(s.logRequests)

	mux.Get("/routes", s.handleRoutes)
	mux.Get("/match", s.handleMatch)
	mux.Get("/current", s.handleCurrent)
	mux.Post("/navigate", s.handleNavigate)
	if s.relay != nil {
		mux.Get("/history", s.handleHistory)
	}
	mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	s.mux = mux
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("inspect: request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// onTurn runs fn on the dispatcher and waits for it.
func (s *Server) onTurn(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	s.dispatcher.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
