package middleware

import (
	"context"
	"net/http"

	"github.com/vitalvas/kontur/route"
)

// RecoveryConfig configures the Recovery middleware behaviour.
type RecoveryConfig struct {
	// LogFunc is an optional callback invoked with the request and the
	// recovered value when a panic occurs. When nil, no logging is
	// performed.
	LogFunc func(req *route.Request, v any)
}

// Recovery returns a middleware that recovers from panics in downstream
// handlers. When a panic occurs it produces a 500 Internal Server Error
// response and optionally invokes LogFunc, so a faulty handler can never
// crash the process.
func Recovery(cfg RecoveryConfig) route.Middleware {
	return route.MiddlewareFunc(func(next route.Handler) route.Handler {
		return route.HandlerFunc(func(ctx context.Context, req *route.Request) (resp *route.Response, err error) {
			defer func() {
				if rv := recover(); rv != nil {
					if cfg.LogFunc != nil {
						cfg.LogFunc(req, rv)
					}
					resp = errorResponse(http.StatusInternalServerError, "internal server error")
					err = nil
				}
			}()

			return next.Handle(ctx, req)
		})
	})
}
