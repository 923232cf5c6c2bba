package document

import (
	"fmt"
	"sort"
)

// Category names the top-level sections of a Terraform JSON document, in the
// order they serialize.
type Category string

const (
	TerraformCategory Category = "terraform"
	ProviderCategory  Category = "provider"
	VariableCategory  Category = "variable"
	LocalsCategory    Category = "locals"
	DataCategory      Category = "data"
	ResourceCategory  Category = "resource"
	OutputCategory    Category = "output"
)

var categoryOrder = []Category{
	TerraformCategory,
	ProviderCategory,
	VariableCategory,
	LocalsCategory,
	DataCategory,
	ResourceCategory,
	OutputCategory,
}

// Document is the root of one synthesis session: the accumulated declarations
// across all categories, serializable as a single Terraform JSON configuration.
// Empty categories are omitted from serialization.
type Document struct {
	terraform *Node
	providers *Node
	variables *Node
	locals    *Node
	data      *Node
	resources *Node
	outputs   *Node
}

func New() *Document {
	return &Document{
		terraform: NewNode(),
		providers: NewNode(),
		variables: NewNode(),
		locals:    NewNode(),
		data:      NewNode(),
		resources: NewNode(),
		outputs:   NewNode(),
	}
}

// Terraform returns the settings block, created on first use.
func (d *Document) Terraform() *Node {
	return d.terraform
}

// Locals returns the flat locals block. Repeated locals declarations merge;
// same-named values overwrite.
func (d *Document) Locals() *Node {
	return d.locals
}

// Provider opens a new configuration block for the named provider. Repeated
// declarations for one provider accumulate (provider aliasing), matching the
// Terraform JSON shape of a provider name mapping to a list of configurations.
func (d *Document) Provider(name string) (*Node, error) {
	return d.providers.OpenChild(name)
}

// Variable registers (or replaces) the named variable block.
func (d *Document) Variable(name string) (*Node, error) {
	return d.variables.PutChild(name)
}

// Output registers (or replaces) the named output block.
func (d *Document) Output(name string) (*Node, error) {
	return d.outputs.PutChild(name)
}

// Resource registers the (type, name) resource entry, replacing any previous
// registration under the same pair. Last write wins.
func (d *Document) Resource(typ, name string) (*Node, error) {
	node, _, err := ensureKeyed(d.resources, typ, name)
	return node, err
}

// Data registers the (type, name) data-source entry, replacing any previous
// registration under the same pair.
func (d *Document) Data(typ, name string) (*Node, error) {
	node, _, err := ensureKeyed(d.data, typ, name)
	return node, err
}

// ensureKeyed reuses the existing type-level node (so sibling names survive)
// and replaces the name-level node, giving (type, name) last-write-wins.
func ensureKeyed(category *Node, typ, name string) (*Node, bool, error) {
	var byType *Node
	if category.Has(typ) {
		byType = category.Child(typ)
	} else {
		var err error
		byType, err = category.PutChild(typ)
		if err != nil {
			return nil, false, err
		}
	}
	existed := byType.Has(name)
	node, err := byType.PutChild(name)
	if err != nil {
		return nil, existed, err
	}
	return node, existed, nil
}

// HasResource reports whether a (type, name) resource entry is registered.
func (d *Document) HasResource(typ, name string) bool {
	byType := d.resources.Child(typ)
	return byType != nil && byType.Has(name)
}

// HasData reports whether a (type, name) data entry is registered.
func (d *Document) HasData(typ, name string) bool {
	byType := d.data.Child(typ)
	return byType != nil && byType.Has(name)
}

// ResourceNode returns the attribute node for a registered resource, or nil.
func (d *Document) ResourceNode(typ, name string) *Node {
	byType := d.resources.Child(typ)
	if byType == nil {
		return nil
	}
	return byType.Child(name)
}

// DataNode returns the attribute node for a registered data entry, or nil.
func (d *Document) DataNode(typ, name string) *Node {
	byType := d.data.Child(typ)
	if byType == nil {
		return nil
	}
	return byType.Child(name)
}

// ResourceAddresses lists all registered resource entries as (type, name)
// pairs in registration order.
func (d *Document) ResourceAddresses() [][2]string {
	return keyedAddresses(d.resources)
}

// DataAddresses lists all registered data entries in registration order.
func (d *Document) DataAddresses() [][2]string {
	return keyedAddresses(d.data)
}

func keyedAddresses(category *Node) [][2]string {
	var out [][2]string
	for _, typ := range category.Keys() {
		byType := category.Child(typ)
		for _, name := range byType.Keys() {
			out = append(out, [2]string{typ, name})
		}
	}
	return out
}

// Merge copies every registration from src into d. Keyed entries (resources,
// data, variables, outputs) follow last-write-wins; providers accumulate;
// terraform and locals merge attribute-wise with scalar overwrite. src is not
// modified; nodes are cloned on the way in.
func (d *Document) Merge(src *Document) error {
	if err := mergeFlat(d.terraform, src.terraform); err != nil {
		return err
	}
	if err := mergeFlat(d.locals, src.locals); err != nil {
		return err
	}
	for _, name := range src.providers.Keys() {
		for _, cfg := range src.providers.Children(name) {
			node, err := d.providers.OpenChild(name)
			if err != nil {
				return err
			}
			if err := copyInto(node, cfg); err != nil {
				return err
			}
		}
	}
	for _, pair := range []struct{ dst, src *Node }{
		{d.variables, src.variables},
		{d.outputs, src.outputs},
	} {
		for _, name := range pair.src.Keys() {
			node, err := pair.dst.PutChild(name)
			if err != nil {
				return err
			}
			if err := copyInto(node, pair.src.Child(name)); err != nil {
				return err
			}
		}
	}
	for _, pair := range []struct{ dst, src *Node }{
		{d.resources, src.resources},
		{d.data, src.data},
	} {
		for _, addr := range keyedAddresses(pair.src) {
			node, _, err := ensureKeyed(pair.dst, addr[0], addr[1])
			if err != nil {
				return err
			}
			if err := copyInto(node, pair.src.Child(addr[0]).Child(addr[1])); err != nil {
				return err
			}
		}
	}
	return nil
}

func mergeFlat(dst, src *Node) error {
	return copyInto(dst, src)
}

// Copy merges src's attributes into dst: leaves overwrite, blocks accumulate.
// Used by callers that stage a subtree and attach it only once it is complete.
func Copy(dst, src *Node) error {
	return copyInto(dst, src)
}

func copyInto(dst, src *Node) error {
	for _, name := range src.Keys() {
		if blocks := src.Children(name); blocks != nil {
			for _, b := range blocks {
				child, err := dst.OpenChild(name)
				if err != nil {
					return err
				}
				if err := copyInto(child, b); err != nil {
					return err
				}
			}
			continue
		}
		if err := dst.SetAttr(name, src.Attr(name)); err != nil {
			return err
		}
	}
	return nil
}

// BuildNode fills dst from a plain nested mapping: nested maps open child
// blocks, slices of maps accumulate sibling blocks, everything else is a leaf.
// Map keys are applied in sorted order so that building from an unordered map
// is deterministic; callers holding an ordered source (a schema's field order,
// a parsed file) should set attributes themselves.
func BuildNode(dst *Node, attrs map[string]any) error {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return buildOrdered(dst, keys, attrs)
}

// BuildNodeOrdered is BuildNode with an explicit key order. Keys absent from
// attrs are skipped; keys present in attrs but not listed are appended in
// sorted order.
func BuildNodeOrdered(dst *Node, order []string, attrs map[string]any) error {
	seen := make(map[string]struct{}, len(order))
	keys := make([]string, 0, len(attrs))
	for _, k := range order {
		if _, ok := attrs[k]; ok {
			keys = append(keys, k)
			seen[k] = struct{}{}
		}
	}
	var extra []string
	for k := range attrs {
		if _, ok := seen[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return buildOrdered(dst, append(keys, extra...), attrs)
}

func buildOrdered(dst *Node, keys []string, attrs map[string]any) error {
	for _, k := range keys {
		if err := buildEntry(dst, k, attrs[k]); err != nil {
			return err
		}
	}
	return nil
}

func buildEntry(dst *Node, name string, v any) error {
	switch val := v.(type) {
	case map[string]any:
		child, err := dst.OpenChild(name)
		if err != nil {
			return err
		}
		return BuildNode(child, val)
	case []any:
		if allMaps(val) && len(val) > 0 {
			for _, item := range val {
				child, err := dst.OpenChild(name)
				if err != nil {
					return err
				}
				if err := BuildNode(child, item.(map[string]any)); err != nil {
					return err
				}
			}
			return nil
		}
		return dst.SetAttr(name, val)
	default:
		return dst.SetAttr(name, v)
	}
}

func allMaps(items []any) bool {
	for _, item := range items {
		if _, ok := item.(map[string]any); !ok {
			return false
		}
	}
	return true
}

func (d *Document) category(c Category) *Node {
	switch c {
	case TerraformCategory:
		return d.terraform
	case ProviderCategory:
		return d.providers
	case VariableCategory:
		return d.variables
	case LocalsCategory:
		return d.locals
	case DataCategory:
		return d.data
	case ResourceCategory:
		return d.resources
	case OutputCategory:
		return d.outputs
	}
	panic(fmt.Sprintf("unknown category %q", c))
}
