package router

import (
	"fmt"
	"net/url"

	"github.com/vango-dev/outlet/pkg/route"
	"github.com/vango-dev/outlet/pkg/routepath"
)

// NavigateOptions configures Navigate.
type NavigateOptions struct {
	// Replace applies the route without recording history or storage
	// (To instead of Push).
	Replace bool

	// Params are query parameters to add to the URL.
	Params map[string]any
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// WithReplace navigates without recording the navigation.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// WithParams adds query parameters to the navigation URL.
func WithParams(params map[string]any) NavigateOption {
	return func(o *NavigateOptions) {
		o.Params = params
	}
}

// NavigationRequest represents a pending navigation.
type NavigationRequest struct {
	Path    string
	Options NavigateOptions
}

// Navigator performs URL navigations.
type Navigator interface {
	Navigate(path string, opts ...NavigateOption) error
}

var _ Navigator = (*Router)(nil)

// Navigate validates path, appends query parameters and pushes the URL
// (or applies it with WithReplace). Paths are app-relative: absolute
// URLs, backslashes and NUL bytes are rejected.
func (r *Router) Navigate(path string, opts ...NavigateOption) error {
	var options NavigateOptions
	for _, opt := range opts {
		opt(&options)
	}

	clean, err := routepath.ValidateNavPath(path)
	if err != nil {
		r.logger.Warn("outlet: rejected navigation", "path", path, "error", err)
		return err
	}
	req := NavigationRequest{Path: clean, Options: options}
	target, err := req.BuildURL()
	if err != nil {
		return err
	}

	if options.Replace {
		r.To(route.URL(target))
	} else {
		r.Push(route.URL(target))
	}
	return nil
}

// BuildURL constructs the full URL for a navigation request.
func (nr *NavigationRequest) BuildURL() (string, error) {
	return BuildURL(nr.Path, nr.Options.Params)
}

// BuildURL appends params to path as an encoded query string, merging
// with any query already present.
func BuildURL(path string, params map[string]any) (string, error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %s", path)
	}

	if params != nil {
		q := u.Query()
		for k, v := range params {
			q.Set(k, fmt.Sprintf("%v", v))
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}
