// Package schema provides declarative value schemas with coercion,
// validation and structured error explanation.
//
// A Schema is a recursive structural description of an expected value:
// scalar type predicates, mappings with required and optional keys,
// homogeneous sequences, named sub-schemas and a wildcard. Schemas are
// plain data and never mutated after construction.
//
// # Coercion
//
// Coerce walks a value in lock-step with a schema, converting scalar
// leaves to the expected types:
//
//	s := schema.Fields(map[schema.Key]schema.Schema{
//	    schema.Req("id"):   schema.Int(),
//	    schema.Opt("name"): schema.String(),
//	})
//
//	out, err := schema.Coerce(s, map[string]any{"id": "42"})
//	// out = map[string]any{"id": int64(42)}
//
// Unknown keys are rejected unless the map schema was loosened with
// schema.Loose. The set of scalar conversions is pluggable via CoerceWith;
// DefaultMatcher performs request-style string conversions while
// StrictMatcher (used by Validate) accepts values in place without
// rewriting them.
//
// # Errors
//
// On mismatch, Coerce returns a *MismatchError carrying a structured error
// tree that mirrors the rejected value's shape. Explain renders the tree
// into nested human-readable diagnostics:
//
//	_, err := schema.Coerce(s, map[string]any{"name": 7})
//	var mismatch *schema.MismatchError
//	errors.As(err, &mismatch)
//	schema.Explain(mismatch.Errors)
//	// map[string]any{"id": "missing-required-key", "name": "not a valid string: 7"}
package schema
