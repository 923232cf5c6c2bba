// Package input holds the collaborators that feed a synthesis session from
// files: a YAML manifest of declarations and a .tf-shaped HCL configuration.
// Both translate their source into ordinary Synthesizer calls; neither adds
// semantics of its own.
package input

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/pangealabs/tfsynth/pkg/collectionutil"
	"github.com/pangealabs/tfsynth/pkg/synth"
)

type (
	// Manifest is the YAML input shape. Resources and data sources are ordered
	// lists because declaration order is observable in the output; the other
	// sections are maps and apply in sorted-name order for determinism.
	Manifest struct {
		Terraform map[string]any            `yaml:"terraform"`
		Providers map[string]map[string]any `yaml:"providers"`
		Variables map[string]map[string]any `yaml:"variables"`
		Locals    map[string]any            `yaml:"locals"`
		Data      []Declaration             `yaml:"data"`
		Resources []Declaration             `yaml:"resources"`
		Outputs   map[string]map[string]any `yaml:"outputs"`
	}

	Declaration struct {
		Type       string         `yaml:"type"`
		Name       string         `yaml:"name"`
		Attributes map[string]any `yaml:"attributes"`
	}
)

func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading manifest %s", path)
	}
	return ParseManifest(raw)
}

func ParseManifest(raw []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}
	return &m, nil
}

// Apply replays the manifest against a session. The first failing declaration
// stops the replay; everything declared before it stays in the document.
func (m *Manifest) Apply(s *synth.Synthesizer) error {
	if len(m.Terraform) > 0 {
		if err := s.Terraform(bodyFrom(m.Terraform)); err != nil {
			return err
		}
	}
	for _, name := range collectionutil.SortedKeys(m.Providers) {
		if err := s.Provider(name, bodyFrom(m.Providers[name])); err != nil {
			return err
		}
	}
	for _, name := range collectionutil.SortedKeys(m.Variables) {
		if err := s.Variable(name, bodyFrom(m.Variables[name])); err != nil {
			return err
		}
	}
	if len(m.Locals) > 0 {
		if err := s.Locals(bodyFrom(m.Locals)); err != nil {
			return err
		}
	}
	for _, d := range m.Data {
		if _, err := s.Data(d.Type, d.Name, d.Attributes); err != nil {
			return errors.Wrapf(err, "data %s.%s", d.Type, d.Name)
		}
	}
	for _, d := range m.Resources {
		if _, err := s.Resource(d.Type, d.Name, d.Attributes); err != nil {
			return errors.Wrapf(err, "resource %s.%s", d.Type, d.Name)
		}
	}
	for _, name := range collectionutil.SortedKeys(m.Outputs) {
		if err := s.Output(name, bodyFrom(m.Outputs[name])); err != nil {
			return err
		}
	}
	return nil
}

func bodyFrom(attrs map[string]any) func(*synth.Block) {
	return func(b *synth.Block) {
		applyMap(b, attrs)
	}
}

func applyMap(b *synth.Block, attrs map[string]any) {
	for _, name := range collectionutil.SortedKeys(attrs) {
		switch v := attrs[name].(type) {
		case map[string]any:
			b.Child(name, func(cb *synth.Block) { applyMap(cb, v) })
		case []any:
			if maps, ok := asMapSlice(v); ok {
				for _, m := range maps {
					m := m
					b.Child(name, func(cb *synth.Block) { applyMap(cb, m) })
				}
				continue
			}
			b.Set(name, v)
		default:
			b.Set(name, v)
		}
	}
}

func asMapSlice(items []any) ([]map[string]any, bool) {
	if len(items) == 0 {
		return nil, false
	}
	out := make([]map[string]any, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		out[i] = m
	}
	return out, true
}
