package route

import (
	"context"
	"strings"
	"sync"

	"github.com/vitalvas/kontur/contract"
)

// Tree is a declarative route tree. It is constructed once at startup and
// never mutated afterwards; after construction it is safe for unbounded
// concurrent reads by in-flight exchanges and the documentation compiler.
type Tree struct {
	root   *Group
	routes []*Route
}

// NewTree creates an empty route tree.
func NewTree() *Tree {
	t := &Tree{}
	t.root = &Group{tree: t}
	return t
}

// Use appends middleware applied to every route in the tree.
func (t *Tree) Use(mw ...Middleware) *Tree {
	t.root.Use(mw...)
	return t
}

// Group creates a sub-group under the tree root.
func (t *Tree) Group(prefix string, mw ...Middleware) *Group {
	return t.root.Group(prefix, mw...)
}

// Handle registers a route at the tree root.
func (t *Tree) Handle(method, path string, e *Endpoint, mw ...Middleware) *Route {
	return t.root.Handle(method, path, e, mw...)
}

// Routes returns all registered routes in registration order.
func (t *Tree) Routes() []*Route {
	return t.routes
}

// WalkFunc is called for each route visited by Walk, with the full ordered
// middleware chain (outer-to-inner) applied to the route.
type WalkFunc func(r *Route, chain []Middleware) error

// Walk visits every route in registration order. The order is
// deterministic, so compiling the tree twice yields identical output.
func (t *Tree) Walk(fn WalkFunc) error {
	for _, r := range t.routes {
		if err := fn(r, r.Middlewares()); err != nil {
			return err
		}
	}
	return nil
}

// Group scopes a path prefix and an ambient middleware chain over the
// routes registered through it. Groups nest; middleware applies
// outer-to-inner along the path from the tree root to the leaf.
type Group struct {
	tree        *Tree
	parent      *Group
	prefix      string
	middlewares []Middleware
}

// Use appends middleware to the group's ambient chain.
func (g *Group) Use(mw ...Middleware) *Group {
	g.middlewares = append(g.middlewares, mw...)
	return g
}

// Group creates a nested sub-group.
func (g *Group) Group(prefix string, mw ...Middleware) *Group {
	return &Group{
		tree:        g.tree,
		parent:      g,
		prefix:      g.prefix + normalizePrefix(prefix),
		middlewares: mw,
	}
}

// Handle registers a route with the given method, path template and
// endpoint. Route-level middleware runs innermost, after all ambient
// group middleware.
func (g *Group) Handle(method, path string, e *Endpoint, mw ...Middleware) *Route {
	r := &Route{
		method:   method,
		path:     g.prefix + normalizePrefix(path),
		endpoint: e,
		group:    g,
		extra:    mw,
	}
	if r.path == "" {
		r.path = "/"
	}
	g.tree.routes = append(g.tree.routes, r)
	return r
}

func normalizePrefix(p string) string {
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// Route is one entry in the route tree: a path template, an HTTP method,
// a leaf endpoint and the ordered middleware applied to it. Routes are
// immutable after tree construction.
type Route struct {
	method   string
	path     string
	endpoint *Endpoint
	group    *Group
	extra    []Middleware

	contractOnce sync.Once
	merged       *contract.Contract

	handlerOnce sync.Once
	chain       Handler
}

// Method returns the route's HTTP method.
func (r *Route) Method() string {
	return r.method
}

// Path returns the route's path template.
func (r *Route) Path() string {
	return r.path
}

// Endpoint returns the route's leaf endpoint.
func (r *Route) Endpoint() *Endpoint {
	return r.endpoint
}

// Middlewares returns the full ordered middleware chain for the route,
// outer-to-inner: group chains from the tree root down, then route-level
// middleware.
func (r *Route) Middlewares() []Middleware {
	var groups []*Group
	for g := r.group; g != nil; g = g.parent {
		groups = append(groups, g)
	}

	var chain []Middleware
	for i := len(groups) - 1; i >= 0; i-- {
		chain = append(chain, groups[i].middlewares...)
	}
	return append(chain, r.extra...)
}

// Contract returns the route's effective contract: every ambient fragment
// contributed by annotated middleware along the path from the tree root to
// the leaf, in outer-to-inner order, merged with the endpoint's own
// contract. The merge order matches the documentation compiler exactly, so
// the compiled document reflects the contract enforced at runtime.
//
// Returns nil when no fragment was declared anywhere on the route.
func (r *Route) Contract() *contract.Contract {
	r.contractOnce.Do(func() {
		var fragments []*contract.Contract
		for _, mw := range r.Middlewares() {
			if a, ok := mw.(Annotator); ok {
				fragments = append(fragments, a.Fragment())
			}
		}
		if r.endpoint != nil {
			fragments = append(fragments, r.endpoint.Contract())
		}
		r.merged = contract.Merge(fragments...)
	})
	return r.merged
}

// Handler returns the route's composed handler: the endpoint wrapped by
// the middleware chain, outermost first. The composition is built once and
// cached.
func (r *Route) Handler() Handler {
	r.handlerOnce.Do(func() {
		h := Handler(r.endpoint)
		chain := r.Middlewares()
		for i := len(chain) - 1; i >= 0; i-- {
			h = chain[i].Wrap(h)
		}
		r.chain = h
	})
	return r.chain
}

// Serve dispatches the request through the route's composed handler,
// recording the route on the request first so interceptors can look up the
// effective contract.
func (r *Route) Serve(ctx context.Context, req *Request) (*Response, error) {
	req.Route = r
	return r.Handler().Handle(ctx, req)
}
