package schema

import "fmt"

// Explain turns the structured error tree of a MismatchError into a
// human-readable nested value, keyed identically to the rejected value's
// own shape. Maps are explained entry by entry with keys preserved,
// sequences index by index (nil marks passing elements). A named failure
// wrapping a mapping failure is unwrapped and explained recursively; a
// named failure at a scalar leaf is explained as the name itself. Anything
// else renders as a printable string.
//
// Explain is pure and terminates on any tree produced by Coerce.
func Explain(errs any) any {
	switch e := errs.(type) {
	case nil:
		return nil

	case namedError:
		if nested, ok := e.err.(map[string]any); ok {
			return Explain(nested)
		}
		return e.name

	case map[string]any:
		out := make(map[string]any, len(e))
		for key, sub := range e {
			out[key] = Explain(sub)
		}
		return out

	case []any:
		out := make([]any, len(e))
		for i, sub := range e {
			if sub == nil {
				continue
			}
			out[i] = Explain(sub)
		}
		return out

	case leafError:
		return string(e)

	case valueError:
		return e.String()

	default:
		return fmt.Sprintf("%v", errs)
	}
}
