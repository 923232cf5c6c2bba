package synth

import (
	"fmt"

	"github.com/pangealabs/tfsynth/pkg/schema"
)

// Reference is the value object handed back for every declaration: the
// resource's address, its validated attributes (nil for raw declarations with
// no registered schema), and ready-made interpolation strings for composing
// this resource's outputs into another resource's inputs. Immutable; every
// value is available synchronously at construction.
type Reference struct {
	Type string
	Name string
	// Attributes is the validated attribute set, or nil when the declaration
	// bypassed schema validation.
	Attributes *schema.Attributes
	// Outputs maps logical output names to interpolation strings of the exact
	// form "${type.name.output}".
	Outputs map[string]string

	addrType string
}

// Interpolation formats the cross-resource placeholder Terraform consumes.
func Interpolation(typ, name, attr string) string {
	return fmt.Sprintf("${%s.%s.%s}", typ, name, attr)
}

func newReference(typ, name string, data bool, attrs *schema.Attributes, sch *schema.Schema) *Reference {
	addrType := typ
	if data {
		addrType = "data." + typ
	}
	outputs := map[string]string{
		"id":  Interpolation(addrType, name, "id"),
		"arn": Interpolation(addrType, name, "arn"),
	}
	if sch != nil {
		for _, o := range sch.Outputs {
			outputs[o] = Interpolation(addrType, name, o)
		}
	}
	return &Reference{
		Type:       typ,
		Name:       name,
		Attributes: attrs,
		Outputs:    outputs,
		addrType:   addrType,
	}
}

// Address returns the Terraform address, "type.name" (or "data.type.name").
func (r *Reference) Address() string {
	return r.addrType + "." + r.Name
}

// Output returns the interpolation string for name, formatting it on the fly
// for attributes not pre-registered by the schema.
func (r *Reference) Output(name string) string {
	if v, ok := r.Outputs[name]; ok {
		return v
	}
	return Interpolation(r.addrType, r.Name, name)
}

// Query delegates a derived-property lookup to the validated attributes, so a
// caller can branch on classification results without re-deriving them.
func (r *Reference) Query(name string) (any, bool) {
	if r.Attributes == nil {
		return nil, false
	}
	return r.Attributes.Query(name)
}

func (r *Reference) QueryBool(name string) bool {
	if r.Attributes == nil {
		return false
	}
	return r.Attributes.QueryBool(name)
}

func (r *Reference) QueryInt(name string) int {
	if r.Attributes == nil {
		return 0
	}
	return r.Attributes.QueryInt(name)
}
