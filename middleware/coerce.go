package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/vitalvas/kontur/contract"
	"github.com/vitalvas/kontur/route"
	"github.com/vitalvas/kontur/schema"
)

// CoerceRequestConfig configures the request coercion interceptor.
type CoerceRequestConfig struct {
	// Matcher overrides the scalar coercions applied to request leaves.
	// Defaults to schema.DefaultMatcher (string-to-scalar coercions).
	Matcher schema.Matcher

	// FailureStatus is the status used when the request does not match
	// the contract. Defaults to 422 Unprocessable Entity.
	FailureStatus int
}

// CoerceRequest returns the request coercion interceptor. For routes whose
// effective contract declares parameters, it builds the composite request
// schema, fills location defaults and coerces the inbound request; on
// success the in-flight request is replaced with the coerced one, on
// mismatch the exchange short-circuits with a 422-class response whose
// body is {"error": <nested explanation>}. Routes with no parameter
// contract pass through unchanged.
//
// A schema mismatch surfaced as an error by the code it wraps is also
// recovered here and converted to the same failure response, so it cannot
// escape as an unhandled fault. Errors of any other origin are re-signaled
// unchanged.
func CoerceRequest(cfg CoerceRequestConfig) route.Middleware {
	matcher := cfg.Matcher
	if matcher == nil {
		matcher = schema.DefaultMatcher
	}

	status := cfg.FailureStatus
	if status == 0 {
		status = http.StatusUnprocessableEntity
	}

	mw := route.MiddlewareFunc(func(next route.Handler) route.Handler {
		return route.HandlerFunc(func(ctx context.Context, req *route.Request) (*route.Response, error) {
			if c := routeContract(req); c != nil && len(c.Parameters) > 0 {
				composite := contract.RequestSchema(c.Parameters)
				unified := contract.WithRequestDefaults(req.AsMap())

				coerced, err := schema.CoerceWith(matcher, composite, unified)
				if err != nil {
					if resp, ok := mismatchResponse(status, err); ok {
						return resp, nil
					}
					return nil, err
				}
				req.ApplyMap(coerced.(map[string]any))
			}

			resp, err := next.Handle(ctx, req)
			if err != nil {
				if resp, ok := mismatchResponse(status, err); ok {
					return resp, nil
				}
				return nil, err
			}
			return resp, nil
		})
	})

	fragment := &contract.Contract{
		Responses: map[int]contract.ResponseSpec{
			status: {},
		},
	}
	return route.Annotate(fragment, mw)
}

// routeContract returns the effective contract of the matched route, or
// nil when no route or contract is present.
func routeContract(req *route.Request) *contract.Contract {
	if req.Route == nil {
		return nil
	}
	return req.Route.Contract()
}

// mismatchResponse converts a schema mismatch into a structured failure
// response. The second return is false for errors of any other origin,
// which must propagate unchanged.
func mismatchResponse(status int, err error) (*route.Response, bool) {
	var mismatch *schema.MismatchError
	if !errors.As(err, &mismatch) {
		return nil, false
	}
	return errorResponse(status, schema.Explain(mismatch.Errors)), true
}

// errorResponse builds the canonical {"error": ...} failure response.
func errorResponse(status int, detail any) *route.Response {
	return &route.Response{
		Status:  status,
		Body:    map[string]any{"error": detail},
		Headers: map[string]any{},
	}
}
