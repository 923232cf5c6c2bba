package synth

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pangealabs/tfsynth/pkg/document"
	"github.com/pangealabs/tfsynth/pkg/schema"
)

// Synthesizer is one synthesis session: declarations accumulate into a single
// document that serializes to Terraform JSON. Sessions are single-threaded;
// for concurrent declaration build independent sub-sessions via Parallel and
// merge them.
type Synthesizer struct {
	doc       *document.Document
	reg       *Registry
	log       *zap.SugaredLogger
	sessionID string
}

type Option func(*Synthesizer)

func WithLogger(log *zap.Logger) Option {
	return func(s *Synthesizer) {
		s.log = log.Sugar()
	}
}

func New(reg *Registry, opts ...Option) *Synthesizer {
	if reg == nil {
		reg = NewRegistry()
	}
	s := &Synthesizer{
		doc:       document.New(),
		reg:       reg,
		log:       zap.S(),
		sessionID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("session", s.sessionID)
	return s
}

func (s *Synthesizer) Document() *document.Document {
	return s.doc
}

func (s *Synthesizer) Registry() *Registry {
	return s.reg
}

// Resource declares a resource from a raw attribute mapping. When a schema is
// registered for typ the mapping is validated (and defaulted) first; a failed
// validation leaves the document untouched. Re-declaring an existing
// (type, name) pair silently overwrites it.
func (s *Synthesizer) Resource(typ, name string, attrs map[string]any) (*Reference, error) {
	return s.declare(typ, name, attrs, false)
}

// Data declares a data source from a raw attribute mapping, with the same
// validation and overwrite semantics as Resource.
func (s *Synthesizer) Data(typ, name string, attrs map[string]any) (*Reference, error) {
	return s.declare(typ, name, attrs, true)
}

func (s *Synthesizer) declare(typ, name string, attrs map[string]any, data bool) (*Reference, error) {
	var (
		validated *schema.Attributes
		sch       *schema.Schema
		values    map[string]any
		order     []string
	)
	if registered, ok := s.reg.Get(typ); ok {
		va, err := registered.Validate(attrs)
		if err != nil {
			return nil, err
		}
		sch, validated = registered, va
		values, order = va.Map(), va.Keys()
	} else {
		norm, ok := schema.Normalize(attrs).(map[string]any)
		if !ok {
			norm = map[string]any{}
		}
		// Without a schema only the top-level keys are known to be attribute
		// names; everything below may be data, so it keeps its spelling.
		values = schema.NormalizeKeys(norm)
	}

	node, err := s.register(typ, name, data)
	if err != nil {
		return nil, err
	}
	if order != nil {
		err = document.BuildNodeOrdered(node, order, values)
	} else {
		err = document.BuildNode(node, values)
	}
	if err != nil {
		return nil, usageErr(typ+"."+name, err)
	}
	return newReference(typ, name, data, validated, sch), nil
}

// ResourceBlock declares a resource with a builder body instead of a mapping.
// The body runs against a staging node; a usage error discards the staging
// tree without touching the document.
func (s *Synthesizer) ResourceBlock(typ, name string, body func(*Block)) (*Reference, error) {
	return s.declareBlock(typ, name, body, false)
}

// DataBlock is ResourceBlock for data sources.
func (s *Synthesizer) DataBlock(typ, name string, body func(*Block)) (*Reference, error) {
	return s.declareBlock(typ, name, body, true)
}

func (s *Synthesizer) declareBlock(typ, name string, body func(*Block), data bool) (*Reference, error) {
	staging := document.NewNode()
	b := newBlock(typ+"."+name, staging)
	body(b)
	if b.err != nil {
		return nil, b.err
	}
	node, err := s.register(typ, name, data)
	if err != nil {
		return nil, err
	}
	if err := document.Copy(node, staging); err != nil {
		return nil, usageErr(typ+"."+name, err)
	}
	return newReference(typ, name, data, nil, nil), nil
}

func (s *Synthesizer) register(typ, name string, data bool) (*document.Node, error) {
	if data {
		if s.doc.HasData(typ, name) {
			s.log.Debugf("overwriting data %s.%s", typ, name)
		}
		return s.doc.Data(typ, name)
	}
	if s.doc.HasResource(typ, name) {
		s.log.Debugf("overwriting resource %s.%s", typ, name)
	}
	return s.doc.Resource(typ, name)
}

// Provider declares a provider configuration block. Repeated declarations for
// one provider name accumulate (aliases).
func (s *Synthesizer) Provider(name string, body func(*Block)) error {
	staging, err := s.runBody("provider."+name, body)
	if err != nil {
		return err
	}
	node, err := s.doc.Provider(name)
	if err != nil {
		return usageErr("provider."+name, err)
	}
	return usageErr("provider."+name, document.Copy(node, staging))
}

// Variable declares (or replaces) a variable block.
func (s *Synthesizer) Variable(name string, body func(*Block)) error {
	staging, err := s.runBody("variable."+name, body)
	if err != nil {
		return err
	}
	node, err := s.doc.Variable(name)
	if err != nil {
		return usageErr("variable."+name, err)
	}
	return usageErr("variable."+name, document.Copy(node, staging))
}

// Output declares (or replaces) an output block.
func (s *Synthesizer) Output(name string, body func(*Block)) error {
	staging, err := s.runBody("output."+name, body)
	if err != nil {
		return err
	}
	node, err := s.doc.Output(name)
	if err != nil {
		return usageErr("output."+name, err)
	}
	return usageErr("output."+name, document.Copy(node, staging))
}

// Locals merges values into the document's locals block.
func (s *Synthesizer) Locals(body func(*Block)) error {
	staging, err := s.runBody("locals", body)
	if err != nil {
		return err
	}
	return usageErr("locals", document.Copy(s.doc.Locals(), staging))
}

// Terraform merges values into the document's terraform settings block.
func (s *Synthesizer) Terraform(body func(*Block)) error {
	staging, err := s.runBody("terraform", body)
	if err != nil {
		return err
	}
	return usageErr("terraform", document.Copy(s.doc.Terraform(), staging))
}

func (s *Synthesizer) runBody(op string, body func(*Block)) (*document.Node, error) {
	staging := document.NewNode()
	b := newBlock(op, staging)
	body(b)
	if b.err != nil {
		return nil, b.err
	}
	return staging, nil
}

// Serialize renders the accumulated document as compact Terraform JSON.
func (s *Synthesizer) Serialize() ([]byte, error) {
	return s.doc.MarshalJSON()
}

// SerializeIndent renders the accumulated document as indented Terraform JSON.
func (s *Synthesizer) SerializeIndent() ([]byte, error) {
	return s.doc.MarshalIndent()
}
