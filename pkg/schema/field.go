package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pangealabs/tfsynth/pkg/collectionutil"
)

type FieldType int

const (
	StringType FieldType = iota
	IntType
	FloatType
	BoolType
	// ListType holds an array leaf; with an Elem of BlockType it holds an
	// ordered list of nested blocks.
	ListType
	// MapType holds a flat string-keyed leaf mapping (tags and the like).
	MapType
	// BlockType holds a single nested block validated against Fields.
	BlockType
)

func (t FieldType) String() string {
	switch t {
	case StringType:
		return "string"
	case IntType:
		return "int"
	case FloatType:
		return "float"
	case BoolType:
		return "bool"
	case ListType:
		return "list"
	case MapType:
		return "map"
	case BlockType:
		return "block"
	}
	return "unknown"
}

type (
	// FieldSpec describes one attribute of a resource kind: its type, whether
	// it is required, its constraints, and how a missing value is defaulted.
	FieldSpec struct {
		Name     string
		Type     FieldType
		Required bool

		// Default is a static default. DefaultTmpl is a template over the
		// already-validated sibling fields (sprig hermetic function set); an
		// empty render means no default. DefaultFunc computes a default from
		// the siblings. At most one of the three is consulted, in that order.
		Default     any
		DefaultTmpl string
		DefaultFunc func(siblings map[string]any) any

		Pattern *regexp.Regexp
		// PatternName names what the pattern describes, for the
		// "Invalid <name> format" message. Defaults to the field name.
		PatternName string

		MinLen, MaxLen *int
		Min, Max       *float64
		AllowedValues  []string

		MinItems, MaxItems *int
		// Elem validates each element of a ListType field.
		Elem *FieldSpec
		// Fields validates a BlockType field (and BlockType list elements).
		Fields []FieldSpec
	}

	// Invariant is a named predicate over a fully-validated attribute set.
	// Check returns a descriptive error on violation.
	Invariant struct {
		Name  string
		Check func(attrs map[string]any) error
	}

	// DerivedFunc computes a read-only property from the validated attribute
	// set. It must be pure: no hidden state, no I/O.
	DerivedFunc func(attrs map[string]any) any
)

// IntRef and FloatRef build the pointer-valued bounds used by FieldSpec.
func IntRef(v int) *int { return &v }

func FloatRef(v float64) *float64 { return &v }

// validate checks a present value against the field's constraints and returns its normalized
// form. kind is the owning schema's kind, for error context.
func (f *FieldSpec) validate(kind string, v any) (any, error) {
	fail := func(format string, args ...any) (any, error) {
		return nil, &ConstraintViolationError{Kind: kind, Field: f.Name, Reason: fmt.Sprintf(format, args...)}
	}
	switch f.Type {
	case StringType:
		s, ok := v.(string)
		if !ok {
			return fail("expected string value, got %T", v)
		}
		if f.MinLen != nil && len(s) < *f.MinLen {
			return fail("must be at least %d characters", *f.MinLen)
		}
		if f.MaxLen != nil && len(s) > *f.MaxLen {
			return fail("cannot exceed %d characters", *f.MaxLen)
		}
		if len(f.AllowedValues) > 0 && !collectionutil.Contains(f.AllowedValues, s) {
			return fail("must be one of [%s], got %q", strings.Join(f.AllowedValues, ", "), s)
		}
		if f.Pattern != nil && !f.Pattern.MatchString(s) {
			name := f.PatternName
			if name == "" {
				name = strings.ReplaceAll(f.Name, "_", " ")
			}
			return fail("Invalid %s format: %q", name, s)
		}
		return s, nil

	case IntType:
		n, ok := toInt(v)
		if !ok {
			return fail("expected integer value, got %T", v)
		}
		if f.Min != nil && f.Max != nil && (float64(n) < *f.Min || float64(n) > *f.Max) {
			return fail("must be between %v and %v, got %d", *f.Min, *f.Max, n)
		}
		if f.Min != nil && float64(n) < *f.Min {
			return fail("cannot be less than %v", *f.Min)
		}
		if f.Max != nil && float64(n) > *f.Max {
			return fail("cannot exceed %v", *f.Max)
		}
		return n, nil

	case FloatType:
		fv, ok := toFloat(v)
		if !ok {
			return fail("expected numeric value, got %T", v)
		}
		if f.Min != nil && f.Max != nil && (fv < *f.Min || fv > *f.Max) {
			return fail("must be between %v and %v, got %v", *f.Min, *f.Max, fv)
		}
		if f.Min != nil && fv < *f.Min {
			return fail("cannot be less than %v", *f.Min)
		}
		if f.Max != nil && fv > *f.Max {
			return fail("cannot exceed %v", *f.Max)
		}
		return fv, nil

	case BoolType:
		b, ok := v.(bool)
		if !ok {
			return fail("expected bool value, got %T", v)
		}
		return b, nil

	case ListType:
		items, ok := v.([]any)
		if !ok {
			return fail("expected list value, got %T", v)
		}
		if f.MinItems != nil && len(items) < *f.MinItems {
			return fail("must contain at least %d items", *f.MinItems)
		}
		if f.MaxItems != nil && len(items) > *f.MaxItems {
			return fail("cannot contain more than %d items", *f.MaxItems)
		}
		if f.Elem == nil {
			return items, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			elem := *f.Elem
			if elem.Name == "" {
				elem.Name = fmt.Sprintf("%s[%d]", f.Name, i)
			}
			val, err := elem.validate(kind, item)
			if err != nil {
				return nil, err
			}
			out[i] = val
		}
		return out, nil

	case MapType:
		m, ok := v.(map[string]any)
		if !ok {
			return fail("expected map value, got %T", v)
		}
		return m, nil

	case BlockType:
		m, ok := v.(map[string]any)
		if !ok {
			return fail("expected nested block, got %T", v)
		}
		// A block with no declared fields is free-form; its keys are data
		// (IAM condition operators, cost category expression matchers) and
		// must not be re-cased.
		if len(f.Fields) == 0 {
			return m, nil
		}
		values, _, err := validateFields(kind, f.Fields, m)
		if err != nil {
			return nil, err
		}
		return values, nil
	}
	return fail("unsupported field type %s", f.Type)
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float32:
		if float32(int(n)) == n {
			return int(n), true
		}
	case float64:
		if float64(int(n)) == n {
			return int(n), true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
