package middleware

import (
	"context"
	"net/http"

	"github.com/vitalvas/kontur/contract"
	"github.com/vitalvas/kontur/route"
	"github.com/vitalvas/kontur/schema"
)

// ValidateResponseConfig configures the response validation interceptor.
type ValidateResponseConfig struct {
	// Matcher overrides the scalar matching applied to response leaves.
	// Defaults to schema.StrictMatcher (no string coercions).
	Matcher schema.Matcher

	// FailureStatus is the status used when the response does not match
	// the contract. Defaults to 500 Internal Server Error.
	FailureStatus int
}

// ValidateResponse returns the response validation interceptor. After the
// handler and downstream stages have produced a response, it resolves the
// response declaration for the outgoing status code (exact entry, else the
// default entry) and validates the response body and headers against it;
// on success the in-flight response is replaced with the validated one, on
// mismatch the exchange is overwritten with a 500-class response whose
// body is {"error": <nested explanation>}. When no declaration matches,
// the response passes through unchanged.
func ValidateResponse(cfg ValidateResponseConfig) route.Middleware {
	matcher := cfg.Matcher
	if matcher == nil {
		matcher = schema.StrictMatcher
	}

	status := cfg.FailureStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	mw := route.MiddlewareFunc(func(next route.Handler) route.Handler {
		return route.HandlerFunc(func(ctx context.Context, req *route.Request) (*route.Response, error) {
			resp, err := next.Handle(ctx, req)
			if err != nil || resp == nil {
				return resp, err
			}

			c := routeContract(req)
			if c == nil || len(c.Responses) == 0 {
				return resp, nil
			}

			rs, ok := contract.SelectResponse(c.Responses, resp.Status)
			if !ok || (rs.Schema == nil && rs.Headers == nil) {
				return resp, nil
			}

			composite := contract.ResponseSchema(rs)
			unified := contract.WithResponseDefaults(resp.AsMap())

			validated, err := schema.CoerceWith(matcher, composite, unified)
			if err != nil {
				if failure, ok := mismatchResponse(status, err); ok {
					return failure, nil
				}
				return nil, err
			}

			resp.ApplyMap(validated.(map[string]any))
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
