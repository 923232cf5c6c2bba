package synth

import (
	"sort"

	"github.com/pangealabs/tfsynth/pkg/schema"
)

// Registry holds the schemas known to a synthesis session, keyed by resource
// kind. It is an explicit object: catalogs register into it deliberately (see
// resources/aws.RegisterInto) rather than through package-load side effects.
type Registry struct {
	schemas map[string]*schema.Schema
}

func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*schema.Schema)}
}

// Register adds (or replaces) the schema for its kind.
func (r *Registry) Register(s *schema.Schema) {
	r.schemas[s.Kind] = s
}

func (r *Registry) Get(kind string) (*schema.Schema, bool) {
	s, ok := r.schemas[kind]
	return s, ok
}

// Kinds lists the registered resource kinds in ascending order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.schemas))
	for k := range r.schemas {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
