package history

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/outlet/pkg/loop"
)

// Frame types exchanged with the browser.
const (
	FramePush = "push"
	FramePop  = "pop"
)

// DefaultWriteTimeout bounds a single frame write.
const DefaultWriteTimeout = 10 * time.Second

// ErrSocketClosed is returned by Push after Close.
var ErrSocketClosed = errors.New("history socket closed")

// Frame is the JSON message carried over the socket.
//
//	server → browser: {"type":"push","state":"/users/5","url":"/users/5"}
//	browser → server: {"type":"pop","state":"/users/5","url":"/users/5"}
type Frame struct {
	Type  string `json:"type"`
	State string `json:"state,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Socket mirrors a browser's history over a websocket connection. The
// browser applies push frames with history.pushState and reports popstate
// events as pop frames.
type Socket struct {
	conn       *websocket.Conn
	dispatcher loop.Dispatcher
	logger     *slog.Logger
	timeout    time.Duration

	writeMu sync.Mutex
	closed  bool
	pops    listeners
}

// SocketOption configures a Socket.
type SocketOption func(*Socket)

// WithDispatcher routes pop notifications through d. Default: loop.Immediate.
func WithDispatcher(d loop.Dispatcher) SocketOption {
	return func(s *Socket) {
		s.dispatcher = d
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) SocketOption {
	return func(s *Socket) {
		s.logger = l
	}
}

// WithWriteTimeout sets the per-frame write deadline.
func WithWriteTimeout(d time.Duration) SocketOption {
	return func(s *Socket) {
		s.timeout = d
	}
}

// NewSocket wraps an established connection.
func NewSocket(conn *websocket.Conn, opts ...SocketOption) *Socket {
	s := &Socket{
		conn:       conn,
		dispatcher: loop.Immediate{},
		logger:     slog.Default(),
		timeout:    DefaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Push sends a push frame to the browser.
func (s *Socket) Push(state, url string) error {
	return s.write(Frame{Type: FramePush, State: state, URL: url})
}

// OnPop registers a pop listener. Listeners run on the dispatcher.
func (s *Socket) OnPop(fn func(Entry)) func() {
	return s.pops.add(fn)
}

func (s *Socket) write(f Frame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed {
		return ErrSocketClosed
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.timeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(f)
}

// Serve reads frames until the connection fails or ctx is done. A normal
// close from the browser returns nil.
func (s *Socket) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = s.Close()
	})
	defer stop()

	for {
		var f Frame
		if err := s.conn.ReadJSON(&f); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		switch f.Type {
		case FramePop:
			entry := Entry{State: f.State, URL: f.URL}
			s.dispatcher.Post(func() { s.pops.fire(entry) })
		default:
			s.logger.Warn("history socket: unexpected frame", "type", f.Type)
		}
	}
}

// Close sends a close frame and closes the connection.
func (s *Socket) Close() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return s.conn.Close()
}
