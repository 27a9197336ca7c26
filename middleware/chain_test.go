package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/kontur/contract"
	"github.com/vitalvas/kontur/route"
	"github.com/vitalvas/kontur/schema"
)

// newStack builds the canonical interceptor chain: body parsing outermost,
// then response validation, then request coercion.
func newStack(t *testing.T) []route.Middleware {
	t.Helper()

	parse, err := ParseBody(ParseBodyConfig{Decoders: defaultDecoders()})
	require.NoError(t, err)

	return []route.Middleware{
		parse,
		ValidateResponse(ValidateResponseConfig{}),
		CoerceRequest(CoerceRequestConfig{}),
	}
}

func TestFullChain(t *testing.T) {
	createContract := &contract.Contract{
		Summary: "Create an item",
		Parameters: map[contract.Location]schema.Schema{
			contract.InBody: schema.Fields(map[schema.Key]schema.Schema{
				schema.Req("name"):  schema.String(),
				schema.Opt("count"): schema.Int(),
			}),
		},
		Responses: map[int]contract.ResponseSpec{
			201: {
				Schema: schema.Fields(map[schema.Key]schema.Schema{
					schema.Req("id"): schema.Int(),
				}),
			},
		},
	}

	newRoute := func(fn route.HandlerFunc) *route.Route {
		tr := route.NewTree()
		tr.Use(newStack(t)...)
		return tr.Handle(http.MethodPost, "/items", route.NewEndpoint("createItem", createContract, fn))
	}

	t.Run("parse, coerce, handle, validate", func(t *testing.T) {
		r := newRoute(func(_ context.Context, req *route.Request) (*route.Response, error) {
			body := req.BodyParams.(map[string]any)
			assert.Equal(t, int64(2), body["count"], "body leaves coerced")
			return &route.Response{Status: 201, Body: map[string]any{"id": 1}}, nil
		})

		resp, err := r.Serve(context.Background(), &route.Request{
			ContentType: "application/json",
			RawBody:     []byte(`{"name":"a","count":2}`),
		})
		require.NoError(t, err)
		assert.Equal(t, 201, resp.Status)
	})

	t.Run("invalid body rejected before the handler runs", func(t *testing.T) {
		handled := false
		r := newRoute(func(_ context.Context, _ *route.Request) (*route.Response, error) {
			handled = true
			return &route.Response{Status: 201, Body: map[string]any{"id": 1}}, nil
		})

		resp, err := r.Serve(context.Background(), &route.Request{
			ContentType: "application/json",
			RawBody:     []byte(`{"count":2}`),
		})
		require.NoError(t, err)

		assert.False(t, handled)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
		assert.Equal(t, map[string]any{
			"error": map[string]any{
				"body-params": map[string]any{"name": "missing-required-key"},
			},
		}, resp.Body)
	})

	t.Run("contract-violating handler response overwritten", func(t *testing.T) {
		r := newRoute(func(_ context.Context, _ *route.Request) (*route.Response, error) {
			return &route.Response{Status: 201, Body: map[string]any{"id": "one"}}, nil
		})

		resp, err := r.Serve(context.Background(), &route.Request{
			ContentType: "application/json",
			RawBody:     []byte(`{"name":"a"}`),
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.Status)
	})

	t.Run("malformed wire bytes stop at the parser", func(t *testing.T) {
		r := newRoute(func(_ context.Context, _ *route.Request) (*route.Response, error) {
			t.Fatal("handler must not run")
			return nil, nil
		})

		resp, err := r.Serve(context.Background(), &route.Request{
			ContentType: "application/json",
			RawBody:     []byte(`{`),
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.Status)
	})

	t.Run("merged contract reflects interceptor responses", func(t *testing.T) {
		r := newRoute(func(_ context.Context, _ *route.Request) (*route.Response, error) {
			return &route.Response{Status: 201, Body: map[string]any{"id": 1}}, nil
		})

		merged := r.Contract()
		require.NotNil(t, merged)
		assert.Contains(t, merged.Responses, http.StatusBadRequest)
		assert.Contains(t, merged.Responses, http.StatusUnprocessableEntity)
		assert.Contains(t, merged.Responses, http.StatusInternalServerError)
		assert.Contains(t, merged.Responses, 201)
	})
}
