package schema

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Matcher converts a raw value to satisfy a scalar type predicate.
// It returns the converted value and whether the value is acceptable.
type Matcher func(t Type, v any) (any, bool)

// MismatchError is returned by Coerce when a value structurally disagrees
// with a schema. Errors mirrors the shape of the rejected value: maps keep
// their keys, sequences keep their indexes (nil for passing elements), and
// each failing leaf holds a diagnostic node renderable via Explain.
type MismatchError struct {
	Schema Schema
	Value  any
	Errors any
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("value does not match schema: %v", Explain(e.Errors))
}

// Diagnostic leaves placed into the error tree by the coercion walk.
type leafError string

const (
	errMissingKey    leafError = "missing-required-key"
	errDisallowedKey leafError = "disallowed-key"
)

// valueError records a scalar or structural mismatch at a leaf.
type valueError struct {
	expected string
	value    any
}

func (e valueError) String() string {
	return fmt.Sprintf("not a valid %s: %v", e.expected, e.value)
}

// namedError wraps the failure of a Named schema.
type namedError struct {
	name string
	err  any
}

// Coerce walks value in lock-step with the schema, converting scalar leaves
// with the default matcher. On success it returns the value unchanged in
// shape with scalar leaves converted. On any mismatch it returns a
// *MismatchError carrying the schema, the offending value and the full
// structured error tree.
func Coerce(s Schema, v any) (any, error) {
	return CoerceWith(DefaultMatcher, s, v)
}

// Validate checks value against the schema without request-style string
// coercions: leaves are accepted or rejected in place via the strict
// matcher.
func Validate(s Schema, v any) (any, error) {
	return CoerceWith(StrictMatcher, s, v)
}

// CoerceWith coerces value against the schema using a caller-supplied
// matcher for scalar leaves.
func CoerceWith(m Matcher, s Schema, v any) (any, error) {
	out, errNode := walk(m, s, v)
	if errNode != nil {
		return nil, &MismatchError{Schema: s, Value: v, Errors: errNode}
	}
	return out, nil
}

// walk returns either the coerced value or an error node, never both.
func walk(m Matcher, s Schema, v any) (any, any) {
	switch s := s.(type) {
	case AnyValue:
		return v, nil

	case Type:
		coerced, ok := m(s, v)
		if !ok {
			return nil, valueError{expected: s.Kind.String(), value: v}
		}
		return coerced, nil

	case Named:
		out, errNode := walk(m, s.Schema, v)
		if errNode != nil {
			return nil, namedError{name: s.Name, err: errNode}
		}
		return out, nil

	case Seq:
		items, ok := v.([]any)
		if !ok {
			return nil, valueError{expected: "sequence", value: v}
		}
		out := make([]any, len(items))
		errs := make([]any, len(items))
		var failed bool
		for i, item := range items {
			res, errNode := walk(m, s.Elem, item)
			if errNode != nil {
				errs[i] = errNode
				failed = true
				continue
			}
			out[i] = res
		}
		if failed {
			return nil, errs
		}
		return out, nil

	case Map:
		return walkMap(m, s, v)

	default:
		return nil, valueError{expected: "value", value: v}
	}
}

// walkMap matches a mapping value against a Map schema. A nil value is
// treated as an empty mapping so that required keys surface as
// missing-required-key rather than a single opaque mismatch.
func walkMap(m Matcher, s Map, v any) (any, any) {
	var fields map[string]any
	switch v := v.(type) {
	case nil:
		fields = map[string]any{}
	case map[string]any:
		fields = v
	default:
		return nil, valueError{expected: "mapping", value: v}
	}

	out := make(map[string]any, len(fields))
	errs := make(map[string]any)

	declared := make(map[string]struct{}, len(s.Fields))
	for key, sub := range s.Fields {
		declared[key.Name] = struct{}{}

		val, present := fields[key.Name]
		if !present {
			if !key.Optional {
				errs[key.Name] = errMissingKey
			}
			continue
		}

		res, errNode := walk(m, sub, val)
		if errNode != nil {
			errs[key.Name] = errNode
			continue
		}
		out[key.Name] = res
	}

	for name, val := range fields {
		if _, ok := declared[name]; ok {
			continue
		}
		if !s.Extra {
			errs[name] = errDisallowedKey
			continue
		}
		out[name] = val
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// DefaultMatcher performs the documented string-to-scalar coercions used on
// the request path: numeric strings become numbers, "true"/"false" become
// booleans, UUID strings become uuid.UUID values and RFC 3339 strings
// become time.Time values. Values already of the expected type pass
// through, with integers normalized to int64 and floats to float64.
func DefaultMatcher(t Type, v any) (any, bool) {
	switch t.Kind {
	case KindString:
		s, ok := v.(string)
		return s, ok

	case KindInt:
		switch v := v.(type) {
		case int:
			return int64(v), true
		case int32:
			return int64(v), true
		case int64:
			return v, true
		case float64:
			if v == float64(int64(v)) {
				return int64(v), true
			}
		case string:
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return n, true
			}
		}
		return nil, false

	case KindFloat:
		switch v := v.(type) {
		case float32:
			return float64(v), true
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f, true
			}
		}
		return nil, false

	case KindBool:
		switch v := v.(type) {
		case bool:
			return v, true
		case string:
			switch v {
			case "true":
				return true, true
			case "false":
				return false, true
			}
		}
		return nil, false

	case KindUUID:
		switch v := v.(type) {
		case uuid.UUID:
			return v, true
		case string:
			if id, err := uuid.Parse(v); err == nil {
				return id, true
			}
		}
		return nil, false

	case KindTime:
		switch v := v.(type) {
		case time.Time:
			return v, true
		case string:
			if ts, err := time.Parse(time.RFC3339, v); err == nil {
				return ts, true
			}
		}
		return nil, false
	}

	return nil, false
}

// StrictMatcher accepts values already of the expected type and returns
// them unchanged. It performs no string conversions; it is the default for
// response validation, where payloads are authored in process and should
// not be silently rewritten.
func StrictMatcher(t Type, v any) (any, bool) {
	switch t.Kind {
	case KindString:
		_, ok := v.(string)
		return v, ok

	case KindInt:
		switch n := v.(type) {
		case int, int32, int64:
			return v, true
		case float64:
			return v, n == float64(int64(n))
		}
		return v, false

	case KindFloat:
		switch v.(type) {
		case float32, float64, int, int64:
			return v, true
		}
		return v, false

	case KindBool:
		_, ok := v.(bool)
		return v, ok

	case KindUUID:
		switch id := v.(type) {
		case uuid.UUID:
			return v, true
		case string:
			_, err := uuid.Parse(id)
			return v, err == nil
		}
		return v, false

	case KindTime:
		switch ts := v.(type) {
		case time.Time:
			return v, true
		case string:
			_, err := time.Parse(time.RFC3339, ts)
			return v, err == nil
		}
		return v, false
	}

	return v, false
}
