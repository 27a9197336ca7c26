package schema

// Kind identifies a scalar type predicate.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindUUID
	KindTime
)

// String returns the human-readable name of the kind, used in diagnostics
// and when rendering schemas into API documents.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindFloat:
		return "number"
	case KindBool:
		return "boolean"
	case KindUUID:
		return "uuid"
	case KindTime:
		return "date-time"
	default:
		return "unknown"
	}
}

// Schema is a recursive structural description of an expected value.
// Schemas are pure data: constructed once by contract authors and never
// mutated afterwards, so they are safe for concurrent use.
type Schema interface {
	isSchema()
}

// Type is a scalar type predicate.
type Type struct {
	Kind Kind
}

func (Type) isSchema() {}

// Key names a field in a Map schema. Fields are required unless marked
// optional.
type Key struct {
	Name     string
	Optional bool
}

// Req creates a required map key.
func Req(name string) Key {
	return Key{Name: name}
}

// Opt creates an optional map key.
func Opt(name string) Key {
	return Key{Name: name, Optional: true}
}

// Map describes a mapping from string keys to nested schemas. When Extra is
// false, keys not declared in Fields are rejected. When Extra is true the
// map is loosened: arbitrary extra keys pass through untouched.
type Map struct {
	Fields map[Key]Schema
	Extra  bool
}

func (Map) isSchema() {}

// Seq describes a homogeneous sequence.
type Seq struct {
	Elem Schema
}

func (Seq) isSchema() {}

// Named wraps a schema with a symbolic name. When the wrapped schema
// rejects a scalar value, the explanation surfaces the name instead of the
// raw failure.
type Named struct {
	Name   string
	Schema Schema
}

func (Named) isSchema() {}

// AnyValue matches any value, including nil.
type AnyValue struct{}

func (AnyValue) isSchema() {}

// Any matches any value.
var Any Schema = AnyValue{}

// String returns a string scalar predicate.
func String() Type { return Type{Kind: KindString} }

// Int returns an integer scalar predicate.
func Int() Type { return Type{Kind: KindInt} }

// Float returns a floating point scalar predicate.
func Float() Type { return Type{Kind: KindFloat} }

// Bool returns a boolean scalar predicate.
func Bool() Type { return Type{Kind: KindBool} }

// UUID returns a UUID scalar predicate.
func UUID() Type { return Type{Kind: KindUUID} }

// Time returns an RFC 3339 timestamp scalar predicate.
func Time() Type { return Type{Kind: KindTime} }

// Fields builds a closed Map schema from the given fields.
func Fields(fields map[Key]Schema) Map {
	return Map{Fields: fields}
}

// Loose returns a loosened copy of a Map schema, accepting arbitrary extra
// keys beyond those declared. Non-map schemas are returned unchanged.
func Loose(s Schema) Schema {
	if m, ok := s.(Map); ok {
		m.Extra = true
		return m
	}
	return s
}
