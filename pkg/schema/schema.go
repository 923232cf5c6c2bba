package schema

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"

	sprig "github.com/Masterminds/sprig/v3"
)

// Schema is the declarative specification for one resource kind: an ordered
// list of field specs, cross-field invariants evaluated after every field
// passes, derived read-only properties computed from the validated set, and
// the output attribute names exposed for cross-resource references.
type Schema struct {
	Kind       string
	Fields     []FieldSpec
	Invariants []Invariant
	Derived    map[string]DerivedFunc
	// Outputs lists resource-specific reference attributes beyond the id and
	// arn every resource exposes.
	Outputs []string
}

// Validate applies the schema to a raw attribute mapping. Attribute names are
// accepted in any casing (normalized to snake_case at each schema-shaped
// level); keys inside MapType values and free-form blocks are user data and
// pass through verbatim. Missing optional fields take their defaults; unknown
// keys pass through untouched. The returned Attributes are
// immutable and carry the eagerly-computed derived properties.
//
// Failure modes, in evaluation order: *MissingRequiredFieldError,
// *ConstraintViolationError, *InvariantViolationError.
func (s *Schema) Validate(raw map[string]any) (*Attributes, error) {
	input, ok := Normalize(raw).(map[string]any)
	if !ok {
		input = map[string]any{}
	}
	values, order, err := validateFields(s.Kind, s.Fields, input)
	if err != nil {
		return nil, err
	}
	for _, inv := range s.Invariants {
		if err := inv.Check(values); err != nil {
			return nil, &InvariantViolationError{Kind: s.Kind, Invariant: inv.Name, Message: err.Error()}
		}
	}
	derived := make(map[string]any, len(s.Derived))
	for name, fn := range s.Derived {
		derived[name] = fn(values)
	}
	return &Attributes{kind: s.Kind, order: order, values: values, derived: derived}, nil
}

// validateFields runs the field pipeline over one level of attributes:
// required check, constraint check, default injection. Returns the validated
// values and their serialization order (declared fields first, then any
// pass-through extras sorted by name).
func validateFields(kind string, fields []FieldSpec, input map[string]any) (map[string]any, []string, error) {
	input = NormalizeKeys(input)
	values := make(map[string]any, len(input))
	var order []string
	known := make(map[string]struct{}, len(fields))
	for i := range fields {
		f := &fields[i]
		known[f.Name] = struct{}{}
		v, present := input[f.Name]
		if !present || v == nil {
			if f.Required {
				return nil, nil, &MissingRequiredFieldError{Kind: kind, Field: f.Name}
			}
			dv, err := fieldDefault(kind, f, values)
			if err != nil {
				return nil, nil, err
			}
			if dv == nil {
				continue
			}
			v = dv
		}
		validated, err := f.validate(kind, v)
		if err != nil {
			return nil, nil, err
		}
		values[f.Name] = validated
		order = append(order, f.Name)
	}
	var extra []string
	for k, v := range input {
		if _, ok := known[k]; ok {
			continue
		}
		values[k] = v
		extra = append(extra, k)
	}
	sort.Strings(extra)
	order = append(order, extra...)
	return values, order, nil
}

var defaultTmplFuncs = sprig.HermeticTxtFuncMap()

func fieldDefault(kind string, f *FieldSpec, siblings map[string]any) (any, error) {
	switch {
	case f.Default != nil:
		return f.Default, nil
	case f.DefaultTmpl != "":
		t, err := template.New(kind + "." + f.Name).Funcs(defaultTmplFuncs).Parse(f.DefaultTmpl)
		if err != nil {
			return nil, fmt.Errorf("%s: bad default template for %q: %w", kind, f.Name, err)
		}
		var buf bytes.Buffer
		if err := t.Execute(&buf, siblings); err != nil {
			return nil, fmt.Errorf("%s: default template for %q: %w", kind, f.Name, err)
		}
		if buf.Len() == 0 {
			return nil, nil
		}
		return buf.String(), nil
	case f.DefaultFunc != nil:
		return f.DefaultFunc(siblings), nil
	}
	return nil, nil
}
