package route

import (
	"context"

	"github.com/vitalvas/kontur/contract"
)

// Handler processes one structured exchange.
type Handler interface {
	Handle(ctx context.Context, req *Request) (*Response, error)
}

// HandlerFunc allows ordinary functions to be used as handlers.
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Middleware wraps a handler with additional behavior.
type Middleware interface {
	Wrap(next Handler) Handler
}

// MiddlewareFunc allows ordinary functions to be used as middleware.
type MiddlewareFunc func(next Handler) Handler

// Wrap implements the Middleware interface.
func (f MiddlewareFunc) Wrap(next Handler) Handler {
	return f(next)
}

// Endpoint is a named leaf handler with an embedded contract. The contract
// is attached at construction time and never mutated afterwards; it does
// not alter the handler's dispatch behavior.
type Endpoint struct {
	name     string
	contract *contract.Contract
	handler  Handler
}

// NewEndpoint builds an endpoint from a name, an optional contract and a
// handler function.
func NewEndpoint(name string, c *contract.Contract, fn HandlerFunc) *Endpoint {
	return &Endpoint{name: name, contract: c, handler: fn}
}

// Name returns the endpoint name, used as the operation identifier in the
// compiled API document.
func (e *Endpoint) Name() string {
	return e.name
}

// Contract returns the contract attached to the endpoint, or nil if none
// was declared.
func (e *Endpoint) Contract() *contract.Contract {
	return e.contract
}

// Handle implements the Handler interface.
func (e *Endpoint) Handle(ctx context.Context, req *Request) (*Response, error) {
	return e.handler.Handle(ctx, req)
}

// Annotator is implemented by middleware carrying a contract fragment.
// The documentation compiler and the runtime contract merge both recover
// ambient fragments through this interface.
type Annotator interface {
	Fragment() *contract.Contract
}

// annotated attaches a contract fragment to a middleware without changing
// its wrapping behavior.
type annotated struct {
	fragment *contract.Contract
	mw       Middleware
}

// Wrap implements the Middleware interface by delegating to the wrapped
// middleware unchanged.
func (a annotated) Wrap(next Handler) Handler {
	return a.mw.Wrap(next)
}

// Fragment implements the Annotator interface.
func (a annotated) Fragment() *contract.Contract {
	return a.fragment
}

// Annotate attaches a contract fragment to a middleware as out-of-band
// metadata. The returned middleware wraps handlers exactly as the original
// did; the fragment is only visible through the Annotator interface.
func Annotate(fragment *contract.Contract, mw Middleware) Middleware {
	return annotated{fragment: fragment, mw: mw}
}
