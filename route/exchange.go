package route

import "github.com/vitalvas/kontur/contract"

// Request is the structured, in-flight request value the core operates on.
// The transport layer materializes it before dispatch; interceptors may
// replace parameter maps with their coerced counterparts.
type Request struct {
	Method      string
	Path        string
	ContentType string

	// RawBody holds the undecoded request body. The body parsing
	// interceptor is the only component that reads it.
	RawBody []byte

	BodyParams  any
	FormParams  map[string]any
	PathParams  map[string]any
	QueryParams map[string]any
	Headers     map[string]any

	// Route is the matched route, set during dispatch.
	Route *Route
}

// AsMap returns the unified request value keyed by parameter location
// fields, as expected by the composite request schema.
func (r *Request) AsMap() map[string]any {
	return map[string]any{
		contract.FieldBody:    r.BodyParams,
		contract.FieldForm:    anyMap(r.FormParams),
		contract.FieldPath:    anyMap(r.PathParams),
		contract.FieldQuery:   anyMap(r.QueryParams),
		contract.FieldHeaders: anyMap(r.Headers),
	}
}

// ApplyMap replaces the request's parameter values with the coerced
// unified value.
func (r *Request) ApplyMap(m map[string]any) {
	if v, ok := m[contract.FieldBody]; ok {
		r.BodyParams = v
	}
	if v, ok := m[contract.FieldForm].(map[string]any); ok {
		r.FormParams = v
	}
	if v, ok := m[contract.FieldPath].(map[string]any); ok {
		r.PathParams = v
	}
	if v, ok := m[contract.FieldQuery].(map[string]any); ok {
		r.QueryParams = v
	}
	if v, ok := m[contract.FieldHeaders].(map[string]any); ok {
		r.Headers = v
	}
}

// Response is the structured outgoing response value.
type Response struct {
	Status  int
	Body    any
	Headers map[string]any
}

// AsMap returns the response as the {body, headers} value inspected by the
// composite response schema.
func (r *Response) AsMap() map[string]any {
	return map[string]any{
		"body":    r.Body,
		"headers": anyMap(r.Headers),
	}
}

// ApplyMap replaces the response body and headers with their validated
// counterparts.
func (r *Response) ApplyMap(m map[string]any) {
	if v, ok := m["body"]; ok {
		r.Body = v
	}
	if v, ok := m["headers"].(map[string]any); ok {
		r.Headers = v
	}
}

// anyMap keeps a nil map nil so that location defaults apply, but
// otherwise passes the map through.
func anyMap(m map[string]any) any {
	if m == nil {
		return nil
	}
	return m
}
