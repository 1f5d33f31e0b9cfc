package inspect

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	outleterrors "github.com/vango-dev/outlet/internal/errors"
	"github.com/vango-dev/outlet/pkg/history"
	"github.com/vango-dev/outlet/pkg/route"
	"github.com/vango-dev/outlet/pkg/routepath"
	"github.com/vango-dev/outlet/pkg/router"
)

// RouteView is the JSON form of a table entry or a resolved route.
type RouteView struct {
	Path   string       `json:"path"`
	Name   string       `json:"name,omitempty"`
	URL    string       `json:"url,omitempty"`
	Params route.Params `json:"params,omitempty"`

	// Chain lists each fragment's own path from the root ancestor down.
	Chain []string `json:"chain"`
}

func viewOf(n *route.Normalized) RouteView {
	v := RouteView{
		Path:   n.Path,
		Name:   n.Name,
		URL:    n.URL,
		Params: n.Params,
		Chain:  make([]string, len(n.Routes)),
	}
	for i, def := range n.Routes {
		v.Chain[i] = def.Path
	}
	return v
}

// RoutesResponse is returned by GET /routes.
type RoutesResponse struct {
	Count  int         `json:"count"`
	Routes []RouteView `json:"routes"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

// NavigateRequest is the body of POST /navigate. A non-empty Path takes
// precedence over Name.
type NavigateRequest struct {
	Path    string         `json:"path,omitempty"`
	Name    string         `json:"name,omitempty"`
	Params  route.Params   `json:"params,omitempty"`
	Query   map[string]any `json:"query,omitempty"`
	Replace bool           `json:"replace,omitempty"`
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	entries := s.router.Resolver().Table().Entries()
	out := RoutesResponse{Count: len(entries), Routes: make([]RouteView, len(entries))}
	for i := range entries {
		out.Routes[i] = viewOf(&entries[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	var q route.Query
	switch {
	case values.Get("url") != "":
		q = route.URL(values.Get("url"))
	case values.Get("name") != "":
		var params route.Params
		for _, p := range values["param"] {
			k, v, ok := strings.Cut(p, ":")
			if !ok {
				s.writeError(w, http.StatusBadRequest, errors.New("param must be key:value"))
				return
			}
			if params == nil {
				params = route.Params{}
			}
			params[k] = v
		}
		q = route.Named(values.Get("name"), params)
	default:
		s.writeError(w, http.StatusBadRequest, errors.New("url or name is required"))
		return
	}

	matched, err := s.router.Resolver().Table().Match(q)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(matched))
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	cur := s.router.Route()
	if cur == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(cur))
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	table := s.router.Resolver().Table()
	var navigate func()
	switch {
	case req.Path != "":
		clean, err := routepath.ValidateNavPath(req.Path)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		target, err := router.BuildURL(clean, req.Query)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		if _, err := table.MatchURL(target); err != nil {
			s.writeError(w, http.StatusNotFound, err)
			return
		}
		var opts []router.NavigateOption
		if req.Replace {
			opts = append(opts, router.WithReplace())
		}
		navigate = func() {
			if err := s.router.Navigate(target, opts...); err != nil {
				s.logger.Warn("inspect: navigation rejected", "path", target, "error", err)
			}
		}
	case req.Name != "":
		q := route.Named(req.Name, req.Params)
		if _, err := table.Match(q); err != nil {
			s.writeError(w, http.StatusNotFound, err)
			return
		}
		navigate = func() {
			if req.Replace {
				s.router.To(q)
			} else {
				s.router.Push(q)
			}
		}
	default:
		s.writeError(w, http.StatusBadRequest, errors.New("path or name is required"))
		return
	}

	if err := s.onTurn(r.Context(), navigate); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	s.handleCurrent(w, r)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("inspect: websocket upgrade failed", "error", err)
		return
	}

	sock := history.NewSocket(conn,
		history.WithDispatcher(s.dispatcher),
		history.WithLogger(s.logger),
	)
	detach := s.relay.Attach(sock)
	defer detach()
	defer sock.Close()

	s.logger.Debug("inspect: history socket attached", "remote", r.RemoteAddr)
	if err := sock.Serve(r.Context()); err != nil {
		s.logger.Debug("inspect: history socket closed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	code := outleterrors.Classify(err, "").Code
	if status >= http.StatusInternalServerError {
		s.logger.Error("inspect: request failed", "error", err)
	}
	writeJSON(w, status, ErrorResponse{Code: code, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
