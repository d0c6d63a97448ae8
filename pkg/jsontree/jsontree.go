// Package jsontree provides generic traversal over JSON-like value trees
// (maps, slices and scalars). Reference resolution and import id-remapping
// share this single deep-map instead of duplicating traversal per node kind.
package jsontree

// MapFunc rewrites a single value. Returning the input unchanged leaves the
// subtree to be traversed normally; returning a replacement stops descent into
// the original value (the replacement itself is not re-visited).
type MapFunc func(value any) (replacement any, replaced bool)

// Map walks v depth-first and applies fn to every value, rebuilding maps and
// slices so the input is never mutated.
func Map(v any, fn MapFunc) any {
	if replacement, replaced := fn(v); replaced {
		return replacement
	}

	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, child := range tv {
			out[k] = Map(child, fn)
		}

		return out
	case []any:
		out := make([]any, len(tv))
		for i, child := range tv {
			out[i] = Map(child, fn)
		}

		return out
	default:
		return v
	}
}

// Walk visits every value in v depth-first without rebuilding anything.
// The visitor returns false to stop descending into the current subtree.
func Walk(v any, visit func(value any) bool) {
	if !visit(v) {
		return
	}

	switch tv := v.(type) {
	case map[string]any:
		for _, child := range tv {
			Walk(child, visit)
		}
	case []any:
		for _, child := range tv {
			Walk(child, visit)
		}
	}
}
