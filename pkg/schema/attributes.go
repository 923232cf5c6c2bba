package schema

import (
	"github.com/mitchellh/mapstructure"
)

// Attributes is the result of applying a Schema to a raw attribute mapping:
// the normalized, defaulted field values plus the derived read-only
// properties. Constructed once at declaration time and never mutated.
type Attributes struct {
	kind    string
	order   []string
	values  map[string]any
	derived map[string]any
}

func (a *Attributes) Kind() string {
	return a.kind
}

// Keys returns the attribute names in serialization order: schema declaration
// order, then pass-through extras.
func (a *Attributes) Keys() []string {
	keys := make([]string, len(a.order))
	copy(keys, a.order)
	return keys
}

func (a *Attributes) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Get returns the validated value under name. Composite values are copied on
// the way out, so callers cannot mutate the record through them.
func (a *Attributes) Get(name string) any {
	return copyValue(a.values[name])
}

func (a *Attributes) GetString(name string) string {
	s, _ := a.values[name].(string)
	return s
}

func (a *Attributes) GetInt(name string) int {
	n, _ := toInt(a.values[name])
	return n
}

func (a *Attributes) GetBool(name string) bool {
	b, _ := a.values[name].(bool)
	return b
}

func (a *Attributes) GetList(name string) []any {
	l, _ := copyValue(a.values[name]).([]any)
	return l
}

// Map returns a deep copy of the validated values, safe for the caller to
// feed into the document builder or mutate.
func (a *Attributes) Map() map[string]any {
	return copyMap(a.values)
}

// Query returns a derived property by name.
func (a *Attributes) Query(name string) (any, bool) {
	v, ok := a.derived[name]
	return v, ok
}

func (a *Attributes) QueryBool(name string) bool {
	b, _ := a.derived[name].(bool)
	return b
}

func (a *Attributes) QueryInt(name string) int {
	n, _ := toInt(a.derived[name])
	return n
}

// DerivedNames lists the available derived properties.
func (a *Attributes) DerivedNames() []string {
	names := make([]string, 0, len(a.derived))
	for name := range a.derived {
		names = append(names, name)
	}
	return names
}

// Decode unmarshals the validated values into a typed struct via mapstructure,
// for derived-property functions and callers that want a typed view.
func (a *Attributes) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(a.values)
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
