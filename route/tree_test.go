package route

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/kontur/contract"
)

func okHandler(_ context.Context, _ *Request) (*Response, error) {
	return &Response{Status: http.StatusOK}, nil
}

// tagging appends a tag to the response headers, recording middleware
// execution order.
func tagging(tag string) Middleware {
	return MiddlewareFunc(func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req *Request) (*Response, error) {
			resp, err := next.Handle(ctx, req)
			if err != nil {
				return nil, err
			}
			order, _ := resp.Headers["order"].(string)
			resp.Headers["order"] = order + tag
			return resp, nil
		})
	})
}

func TestTreePaths(t *testing.T) {
	t.Run("group prefixes compose", func(t *testing.T) {
		tr := NewTree()
		api := tr.Group("/api")
		users := api.Group("/users")
		r := users.Handle(http.MethodGet, "/{id}", NewEndpoint("getUser", nil, okHandler))

		assert.Equal(t, "/api/users/{id}", r.Path())
		assert.Equal(t, http.MethodGet, r.Method())
	})

	t.Run("root handle", func(t *testing.T) {
		tr := NewTree()
		r := tr.Handle(http.MethodGet, "/", NewEndpoint("root", nil, okHandler))
		assert.Equal(t, "/", r.Path())
	})

	t.Run("prefix without leading slash normalized", func(t *testing.T) {
		tr := NewTree()
		r := tr.Group("api").Handle(http.MethodGet, "health", NewEndpoint("health", nil, okHandler))
		assert.Equal(t, "/api/health", r.Path())
	})
}

func TestMiddlewareOrder(t *testing.T) {
	tr := NewTree()
	tr.Use(tagging("a"))
	g := tr.Group("/api", tagging("b"))
	r := g.Handle(http.MethodGet, "/x", NewEndpoint("x", nil, func(_ context.Context, _ *Request) (*Response, error) {
		return &Response{Status: http.StatusOK, Headers: map[string]any{}}, nil
	}), tagging("c"))

	resp, err := r.Serve(context.Background(), &Request{})
	require.NoError(t, err)

	// On the way out, innermost middleware runs first.
	assert.Equal(t, "cba", resp.Headers["order"])
}

func TestRouteContract(t *testing.T) {
	authFragment := &contract.Contract{
		Responses: map[int]contract.ResponseSpec{401: {}},
	}
	leafContract := &contract.Contract{
		Summary:   "leaf",
		Responses: map[int]contract.ResponseSpec{200: {}},
	}

	t.Run("ambient fragments merge with the endpoint contract", func(t *testing.T) {
		tr := NewTree()
		g := tr.Group("/api", Annotate(authFragment, tagging("auth")))
		r := g.Handle(http.MethodGet, "/x", NewEndpoint("x", leafContract, okHandler))

		merged := r.Contract()
		require.NotNil(t, merged)
		assert.Equal(t, "leaf", merged.Summary)
		assert.Len(t, merged.Responses, 2)
	})

	t.Run("contract is computed once", func(t *testing.T) {
		tr := NewTree()
		r := tr.Handle(http.MethodGet, "/x", NewEndpoint("x", leafContract, okHandler))
		assert.Same(t, r.Contract(), r.Contract())
	})

	t.Run("no fragments yields nil contract", func(t *testing.T) {
		tr := NewTree()
		r := tr.Handle(http.MethodGet, "/x", NewEndpoint("x", nil, okHandler))
		assert.Nil(t, r.Contract())
	})

	t.Run("unannotated middleware contributes nothing", func(t *testing.T) {
		tr := NewTree()
		g := tr.Group("/api", tagging("plain"))
		r := g.Handle(http.MethodGet, "/x", NewEndpoint("x", nil, okHandler))
		assert.Nil(t, r.Contract())
	})
}

func TestAnnotate(t *testing.T) {
	fragment := &contract.Contract{Summary: "ambient"}
	mw := Annotate(fragment, tagging("m"))

	t.Run("fragment recoverable by identity", func(t *testing.T) {
		annotator, ok := mw.(Annotator)
		require.True(t, ok)
		assert.Same(t, fragment, annotator.Fragment())
	})

	t.Run("wrapping behavior unchanged", func(t *testing.T) {
		h := mw.Wrap(HandlerFunc(func(_ context.Context, _ *Request) (*Response, error) {
			return &Response{Status: http.StatusOK, Headers: map[string]any{}}, nil
		}))

		resp, err := h.Handle(context.Background(), &Request{})
		require.NoError(t, err)
		assert.Equal(t, "m", resp.Headers["order"])
	})
}

func TestServeSetsRoute(t *testing.T) {
	tr := NewTree()
	var seen *Route
	r := tr.Handle(http.MethodGet, "/x", NewEndpoint("x", nil, func(_ context.Context, req *Request) (*Response, error) {
		seen = req.Route
		return &Response{Status: http.StatusOK}, nil
	}))

	_, err := r.Serve(context.Background(), &Request{})
	require.NoError(t, err)
	assert.Same(t, r, seen)
}

func TestWalk(t *testing.T) {
	tr := NewTree()
	tr.Handle(http.MethodGet, "/a", NewEndpoint("a", nil, okHandler))
	g := tr.Group("/api", tagging("g"))
	g.Handle(http.MethodPost, "/b", NewEndpoint("b", nil, okHandler))

	t.Run("visits routes in registration order", func(t *testing.T) {
		var names []string
		err := tr.Walk(func(r *Route, _ []Middleware) error {
			names = append(names, r.Endpoint().Name())
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, names)
	})

	t.Run("reports the ambient chain", func(t *testing.T) {
		var chains [][]Middleware
		err := tr.Walk(func(_ *Route, chain []Middleware) error {
			chains = append(chains, chain)
			return nil
		})
		require.NoError(t, err)
		assert.Empty(t, chains[0])
		assert.Len(t, chains[1], 1)
	})
}
