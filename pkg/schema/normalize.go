package schema

import (
	"fmt"

	"github.com/iancoleman/strcase"
)

// Normalize converts a raw attribute value into the canonical shape the
// validator and document builder consume: interface-keyed maps become
// string-keyed and typed slices become []any. Scalars pass through. Map keys
// keep their exact spelling: keys inside data-carrying values (tags, request
// parameter mappings) are user data, not attribute names, so casing them here
// would corrupt the emitted document. Attribute-name casing happens per
// schema level via NormalizeKeys.
func Normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = item
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	default:
		return v
	}
}

// NormalizeKey maps an attribute name to its canonical snake_case form.
func NormalizeKey(k string) string {
	return strcase.ToSnake(k)
}

// NormalizeKeys cases one level of attribute names to snake_case, leaving the
// values untouched. Applied at each schema-shaped level; never inside MapType
// values or free-form blocks.
func NormalizeKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[NormalizeKey(k)] = v
	}
	return out
}
