// Package middleware provides the runtime interceptors that enforce route
// contracts on in-flight exchanges.
//
// # Request Coercion
//
// CoerceRequest validates and coerces inbound parameters against the
// route's effective contract, replacing the request with its coerced form
// or short-circuiting with a 422 response carrying a per-field error map:
//
//	coerce := middleware.CoerceRequest(middleware.CoerceRequestConfig{})
//	tree.Use(coerce)
//
// # Response Validation
//
// ValidateResponse checks outgoing responses against the contract entry
// for the response status (falling back to the default entry), overwriting
// contract-violating responses with a 500 error map.
//
// # Body Parsing
//
// ParseBody turns raw body bytes into structured data per a content-type
// to decoder mapping; it is the only component that touches wire bytes.
// Malformed bodies yield an opaque 400 response.
//
//	parse, err := middleware.ParseBody(middleware.ParseBodyConfig{
//	    Decoders: map[string]middleware.DecoderFunc{
//	        "application/json":                  middleware.JSONDecoder,
//	        "application/x-www-form-urlencoded": middleware.FormDecoder,
//	    },
//	})
//
// Each interceptor is annotated with a contract fragment declaring the
// failure responses it can produce, so compiled documentation reflects
// true runtime behavior.
//
// # Recovery
//
// Recovery converts panics in downstream handlers into a plain 500
// response.
package middleware
