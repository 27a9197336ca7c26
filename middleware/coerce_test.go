package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/kontur/contract"
	"github.com/vitalvas/kontur/route"
	"github.com/vitalvas/kontur/schema"
)

// authIDContract requires header "auth" (string) and path "id" (integer).
func authIDContract() *contract.Contract {
	return &contract.Contract{
		Parameters: map[contract.Location]schema.Schema{
			contract.InHeader: schema.Fields(map[schema.Key]schema.Schema{
				schema.Req("auth"): schema.String(),
			}),
			contract.InPath: schema.Fields(map[schema.Key]schema.Schema{
				schema.Req("id"): schema.Int(),
			}),
		},
	}
}

func echoEndpoint(name string, c *contract.Contract) *route.Endpoint {
	return route.NewEndpoint(name, c, func(_ context.Context, req *route.Request) (*route.Response, error) {
		return &route.Response{
			Status: http.StatusOK,
			Body: map[string]any{
				"id":   req.PathParams["id"],
				"auth": req.Headers["auth"],
			},
			Headers: map[string]any{},
		}, nil
	})
}

func TestCoerceRequest(t *testing.T) {
	t.Run("coerces declared parameters", func(t *testing.T) {
		tr := route.NewTree()
		tr.Use(CoerceRequest(CoerceRequestConfig{}))
		r := tr.Handle(http.MethodGet, "/users/{id}", echoEndpoint("getUser", authIDContract()))

		resp, err := r.Serve(context.Background(), &route.Request{
			PathParams: map[string]any{"id": "1"},
			Headers:    map[string]any{"auth": "y"},
		})
		require.NoError(t, err)

		require.Equal(t, http.StatusOK, resp.Status)
		body := resp.Body.(map[string]any)
		assert.Equal(t, int64(1), body["id"], "path id coerced to integer")
		assert.Equal(t, "y", body["auth"])
	})

	t.Run("missing required header short-circuits with 422", func(t *testing.T) {
		tr := route.NewTree()
		tr.Use(CoerceRequest(CoerceRequestConfig{}))
		r := tr.Handle(http.MethodGet, "/users/{id}", echoEndpoint("getUser", authIDContract()))

		resp, err := r.Serve(context.Background(), &route.Request{
			PathParams: map[string]any{"id": "1"},
		})
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
		assert.Equal(t, map[string]any{
			"error": map[string]any{
				"headers": map[string]any{"auth": "missing-required-key"},
			},
		}, resp.Body)
	})

	t.Run("ambient headers beyond the contract are kept", func(t *testing.T) {
		tr := route.NewTree()
		tr.Use(CoerceRequest(CoerceRequestConfig{}))
		r := tr.Handle(http.MethodGet, "/users/{id}", echoEndpoint("getUser", authIDContract()))

		req := &route.Request{
			PathParams: map[string]any{"id": "1"},
			Headers:    map[string]any{"auth": "y", "user-agent": "test"},
		}
		_, err := r.Serve(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "test", req.Headers["user-agent"])
	})

	t.Run("no parameter contract passes through", func(t *testing.T) {
		tr := route.NewTree()
		tr.Use(CoerceRequest(CoerceRequestConfig{}))
		r := tr.Handle(http.MethodGet, "/ping", route.NewEndpoint("ping", nil, func(_ context.Context, req *route.Request) (*route.Response, error) {
			assert.Equal(t, "raw", req.QueryParams["v"], "request untouched")
			return &route.Response{Status: http.StatusOK}, nil
		}))

		resp, err := r.Serve(context.Background(), &route.Request{
			QueryParams: map[string]any{"v": "raw"},
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.Status)
	})

	t.Run("recovers schema mismatch surfaced by wrapped code", func(t *testing.T) {
		tr := route.NewTree()
		tr.Use(CoerceRequest(CoerceRequestConfig{}))
		r := tr.Handle(http.MethodGet, "/x", route.NewEndpoint("x", nil, func(_ context.Context, _ *route.Request) (*route.Response, error) {
			_, err := schema.Coerce(schema.Int(), "nope")
			return nil, err
		}))

		resp, err := r.Serve(context.Background(), &route.Request{})
		require.NoError(t, err, "mismatch must not escape as a fault")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	})

	t.Run("foreign errors re-signaled unchanged", func(t *testing.T) {
		boom := errors.New("boom")
		tr := route.NewTree()
		tr.Use(CoerceRequest(CoerceRequestConfig{}))
		r := tr.Handle(http.MethodGet, "/x", route.NewEndpoint("x", nil, func(_ context.Context, _ *route.Request) (*route.Response, error) {
			return nil, boom
		}))

		_, err := r.Serve(context.Background(), &route.Request{})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("custom failure status", func(t *testing.T) {
		tr := route.NewTree()
		tr.Use(CoerceRequest(CoerceRequestConfig{FailureStatus: http.StatusBadRequest}))
		r := tr.Handle(http.MethodGet, "/users/{id}", echoEndpoint("getUser", authIDContract()))

		resp, err := r.Serve(context.Background(), &route.Request{})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.Status)
	})

	t.Run("carries its failure response fragment", func(t *testing.T) {
		mw := CoerceRequest(CoerceRequestConfig{})
		annotator, ok := mw.(route.Annotator)
		require.True(t, ok)
		assert.Contains(t, annotator.Fragment().Responses, http.StatusUnprocessableEntity)
	})
}
