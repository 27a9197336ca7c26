package contract

import "github.com/vitalvas/kontur/schema"

// Field names of the unified request value that the coercer operates on.
const (
	FieldBody    = "body-params"
	FieldForm    = "form-params"
	FieldPath    = "path-params"
	FieldQuery   = "query-params"
	FieldHeaders = "headers"
)

// locationFields maps a parameter location to its field in the unified
// request value.
var locationFields = map[Location]string{
	InBody:   FieldBody,
	InForm:   FieldForm,
	InPath:   FieldPath,
	InQuery:  FieldQuery,
	InHeader: FieldHeaders,
}

// Field returns the request field name for a parameter location.
func (l Location) Field() string {
	return locationFields[l]
}

// RequestSchema translates a contract's parameter declarations into the
// single composite schema the coercer expects. Query and header
// sub-schemas are loosened, since real requests carry ambient query
// parameters and headers beyond the contract. The composite itself is
// loosened at the top level so that undeclared locations pass through
// unconstrained.
func RequestSchema(params map[Location]schema.Schema) schema.Schema {
	fields := make(map[schema.Key]schema.Schema, len(params))

	for loc, s := range params {
		field, ok := locationFields[loc]
		if !ok {
			continue
		}
		if loc == InQuery || loc == InHeader {
			s = schema.Loose(s)
		}
		fields[schema.Req(field)] = s
	}

	return schema.Map{Fields: fields, Extra: true}
}

// WithRequestDefaults fills absent request locations with neutral defaults
// (nil body, empty mappings elsewhere) so the coercer always sees a
// complete, coercion-ready shape even for contracts declaring only a
// subset of locations. The input map is not mutated.
func WithRequestDefaults(req map[string]any) map[string]any {
	out := make(map[string]any, len(req)+5)
	for k, v := range req {
		out[k] = v
	}

	if _, ok := out[FieldBody]; !ok {
		out[FieldBody] = nil
	}
	for _, field := range []string{FieldForm, FieldPath, FieldQuery, FieldHeaders} {
		if v, ok := out[field]; !ok || v == nil {
			out[field] = map[string]any{}
		}
	}

	return out
}

// ResponseSchema translates one response declaration into the composite
// schema validated against the outgoing {body, headers} value. Undeclared
// parts are omitted and the header schema is loosened; the composite is
// loosened at the top level.
func ResponseSchema(rs ResponseSpec) schema.Schema {
	fields := make(map[schema.Key]schema.Schema, 2)

	if rs.Schema != nil {
		fields[schema.Req("body")] = rs.Schema
	}
	if rs.Headers != nil {
		fields[schema.Req("headers")] = schema.Loose(rs.Headers)
	}

	return schema.Map{Fields: fields, Extra: true}
}

// WithResponseDefaults fills an absent headers mapping and body so the
// composite response schema always has a complete value to inspect.
func WithResponseDefaults(resp map[string]any) map[string]any {
	out := make(map[string]any, len(resp)+2)
	for k, v := range resp {
		out[k] = v
	}

	if _, ok := out["body"]; !ok {
		out["body"] = nil
	}
	if v, ok := out["headers"]; !ok || v == nil {
		out["headers"] = map[string]any{}
	}

	return out
}

// SelectResponse resolves the response declaration for an outgoing status
// code: the exact status entry if present, else the default marker entry.
// The second return is false when neither exists, in which case response
// validation is skipped entirely.
func SelectResponse(responses map[int]ResponseSpec, status int) (ResponseSpec, bool) {
	if rs, ok := responses[status]; ok {
		return rs, true
	}
	if rs, ok := responses[StatusDefault]; ok {
		return rs, true
	}
	return ResponseSpec{}, false
}
