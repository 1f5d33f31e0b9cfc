package route

import (
	"context"
	"fmt"
)

// Constructor creates a mountable component instance.
type Constructor func() any

// Loader fetches a module asynchronously. It runs off the UI loop.
type Loader func(ctx context.Context) (Module, error)

// RenderFunc renders a fragment directly from an outlet's properties.
type RenderFunc func(props map[string]any) any

// Hook is a before-enter or before-leave callback.
type Hook func()

// Kind distinguishes synchronous constructors from lazy loaders.
type Kind int

const (
	// KindSync is a component available at declaration time.
	KindSync Kind = iota

	// KindAsync is a component resolved by a Loader on first render.
	KindAsync
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSync:
		return "sync"
	case KindAsync:
		return "async"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Component is a fragment's content: either a constructor or a loader.
// The variant is fixed when the route is declared.
type Component struct {
	kind   Kind
	ctor   Constructor
	loader Loader
}

// Sync declares a component from a constructor.
func Sync(ctor Constructor) *Component {
	return &Component{kind: KindSync, ctor: ctor}
}

// Async declares a lazily loaded component.
func Async(loader Loader) *Component {
	return &Component{kind: KindAsync, loader: loader}
}

// Kind returns the component variant.
func (c *Component) Kind() Kind { return c.kind }

// Constructor returns the constructor of a sync component, or nil.
func (c *Component) Constructor() Constructor { return c.ctor }

// Loader returns the loader of an async component, or nil.
func (c *Component) Loader() Loader { return c.loader }

// Export is one named value of a loaded module.
type Export struct {
	Name  string
	Value any
}

// Module is the ordered export list a Loader resolves to.
type Module []Export

// Constructor returns the first export that is a constructor.
func (m Module) Constructor() (Constructor, bool) {
	for _, e := range m {
		switch v := e.Value.(type) {
		case Constructor:
			if v != nil {
				return v, true
			}
		case func() any:
			if v != nil {
				return v, true
			}
		}
	}
	return nil, false
}

// Definition is one author-declared node of the route tree.
// Definitions are read-only once compiled.
type Definition struct {
	// Path is this node's own segment(s); empty for index routes.
	Path string `json:"path" toml:"path"`

	// Name identifies the route for name-based navigation.
	Name string `json:"name,omitempty" toml:"name,omitempty"`

	// Component renders the fragment. Takes precedence over Render.
	Component *Component `json:"-" toml:"-"`

	// Render renders the fragment when no Component is declared.
	Render RenderFunc `json:"-" toml:"-"`

	// Children are nested routes; a node with children is never a leaf.
	// An empty slice counts as no children: the node is a leaf.
	Children []*Definition `json:"children,omitempty" toml:"children,omitempty"`

	OnBeforeEnter Hook `json:"-" toml:"-"`
	OnBeforeLeave Hook `json:"-" toml:"-"`
}

// Params are the values bound by dynamic and catch-all segments.
type Params map[string]string

// Get returns a parameter value, or "" when absent.
func (p Params) Get(name string) string {
	return p[name]
}

// Normalized is one leaf of the route tree with its fused path.
type Normalized struct {
	// Path is the fully joined route path, e.g. "users/:id".
	Path string

	// Name is the deepest non-empty name along Routes.
	Name string

	// Routes is the definition chain from the root ancestor to the leaf.
	// Routes[d] is the fragment rendered by the outlet at depth d.
	Routes []*Definition

	// URL is the URL that resolved to this route. Empty in a table.
	URL string

	// Params are the bound parameters. Nil in a table.
	Params Params
}

// Fragment returns the definition at depth, or nil when the chain is
// shorter.
func (n *Normalized) Fragment(depth int) *Definition {
	if n == nil || depth < 0 || depth >= len(n.Routes) {
		return nil
	}
	return n.Routes[depth]
}

// Below returns the fragments from depth down to the leaf.
func (n *Normalized) Below(depth int) []*Definition {
	if n == nil || depth < 0 || depth >= len(n.Routes) {
		return nil
	}
	return n.Routes[depth:]
}

// Leaf returns the last definition of the chain.
func (n *Normalized) Leaf() *Definition {
	if n == nil || len(n.Routes) == 0 {
		return nil
	}
	return n.Routes[len(n.Routes)-1]
}

// resolved returns a snapshot of the entry carrying url and params.
func (n Normalized) resolved(url string, params Params) *Normalized {
	n.URL = url
	n.Params = params
	return &n
}

// Query is a navigation request: a URL, or a name with parameters.
// A non-empty URL takes precedence over Name.
type Query struct {
	URL    string
	Name   string
	Params Params
}

// URL builds a URL query.
func URL(url string) Query {
	return Query{URL: url}
}

// Named builds a name query. Pass nil params to select the first route
// carrying the name without parameter substitution.
func Named(name string, params Params) Query {
	return Query{Name: name, Params: params}
}

// IsURL reports whether the query resolves by URL.
func (q Query) IsURL() bool {
	return q.URL != "" || q.Name == ""
}

// String returns the URL, or "name:<name>" for name queries.
func (q Query) String() string {
	if q.IsURL() {
		return q.URL
	}
	return "name:" + q.Name
}
