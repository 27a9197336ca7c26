package contract

import "github.com/vitalvas/kontur/schema"

// Location tags where a declared parameter lives in the request.
// The set is closed: contracts must not invent new locations.
type Location string

const (
	InPath   Location = "path"
	InQuery  Location = "query"
	InHeader Location = "header"
	InBody   Location = "body"
	InForm   Location = "form"
)

// Locations returns the closed set of parameter locations in canonical
// order. The order is used wherever deterministic iteration matters, such
// as document compilation.
func Locations() []Location {
	return []Location{InPath, InQuery, InHeader, InBody, InForm}
}

// StatusDefault is the Responses key that matches any status code without
// an exact entry.
const StatusDefault = 0

// ResponseSpec declares the expected shape of one response: the body
// schema and a schema for required headers. Either may be nil.
type ResponseSpec struct {
	Schema  schema.Schema
	Headers schema.Schema
}

// Contract is a structured, declarative description of one route's
// interface. Contracts are immutable once attached to a route or
// middleware.
type Contract struct {
	Summary     string
	Description string
	Consumes    []string
	Parameters  map[Location]schema.Schema
	Responses   map[int]ResponseSpec
}

// Merge combines contract fragments in ambient-first, leaf-last order.
// Scalar fields take the last non-empty value. Consumes is a set union
// preserving first-seen order. Parameters and Responses merge by union of
// their sub-keys, with later fragments winning on the same sub-key.
//
// Merge never mutates its inputs. It returns nil when no non-nil fragment
// was given, which callers treat as "no contract declared".
func Merge(fragments ...*Contract) *Contract {
	var merged *Contract

	for _, frag := range fragments {
		if frag == nil {
			continue
		}
		if merged == nil {
			merged = &Contract{}
		}

		if frag.Summary != "" {
			merged.Summary = frag.Summary
		}
		if frag.Description != "" {
			merged.Description = frag.Description
		}

		for _, ct := range frag.Consumes {
			if !containsString(merged.Consumes, ct) {
				merged.Consumes = append(merged.Consumes, ct)
			}
		}

		if len(frag.Parameters) > 0 {
			if merged.Parameters == nil {
				merged.Parameters = make(map[Location]schema.Schema, len(frag.Parameters))
			}
			for loc, s := range frag.Parameters {
				merged.Parameters[loc] = s
			}
		}

		if len(frag.Responses) > 0 {
			if merged.Responses == nil {
				merged.Responses = make(map[int]ResponseSpec, len(frag.Responses))
			}
			for status, rs := range frag.Responses {
				merged.Responses[status] = rs
			}
		}
	}

	return merged
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
