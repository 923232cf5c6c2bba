package document

import (
	"fmt"
)

type (
	// Node is a branch in the synthesis tree: an insertion-ordered mapping from
	// attribute name to either a leaf value (scalar or array) or one or more
	// nested child nodes. Repeated child blocks under the same name accumulate
	// in declaration order and serialize as a JSON array.
	Node struct {
		keys    []string
		entries map[string]*entry
	}

	entry struct {
		// value holds a scalar or array leaf. Only meaningful when block is false.
		value any
		// blocks holds nested child nodes, in the order they were opened.
		blocks []*Node
		block  bool
	}

	// AttributeConflictError is returned when the same attribute name is used
	// both as a leaf value and as a nested block at one level.
	AttributeConflictError struct {
		Name string
	}
)

func (e *AttributeConflictError) Error() string {
	return fmt.Sprintf("attribute %q cannot hold both a value and a nested block", e.Name)
}

func NewNode() *Node {
	return &Node{entries: make(map[string]*entry)}
}

// SetAttr sets a scalar or array leaf under name. Setting the same name again
// replaces the previous value. Setting a name already opened as a nested block
// is a conflict.
func (n *Node) SetAttr(name string, value any) error {
	if e, ok := n.entries[name]; ok {
		if e.block {
			return &AttributeConflictError{Name: name}
		}
		e.value = value
		return nil
	}
	n.keys = append(n.keys, name)
	n.entries[name] = &entry{value: value}
	return nil
}

// OpenChild opens a new nested block under name and returns it. Opening the
// same name repeatedly accumulates sibling blocks in declaration order.
// Opening a name already holding a leaf value is a conflict.
func (n *Node) OpenChild(name string) (*Node, error) {
	child := NewNode()
	if e, ok := n.entries[name]; ok {
		if !e.block {
			return nil, &AttributeConflictError{Name: name}
		}
		e.blocks = append(e.blocks, child)
		return child, nil
	}
	n.keys = append(n.keys, name)
	n.entries[name] = &entry{block: true, blocks: []*Node{child}}
	return child, nil
}

// PutChild replaces any existing blocks under name with a single fresh node,
// keeping the name's original position in the key order. Used for keyed
// registrations (resource type and name levels) where the semantic is
// last-write-wins rather than accumulation.
func (n *Node) PutChild(name string) (*Node, error) {
	child := NewNode()
	if e, ok := n.entries[name]; ok {
		if !e.block {
			return nil, &AttributeConflictError{Name: name}
		}
		e.blocks = []*Node{child}
		return child, nil
	}
	n.keys = append(n.keys, name)
	n.entries[name] = &entry{block: true, blocks: []*Node{child}}
	return child, nil
}

// Child returns the single block registered under name, or nil. When multiple
// sibling blocks have accumulated, the first is returned.
func (n *Node) Child(name string) *Node {
	e, ok := n.entries[name]
	if !ok || !e.block || len(e.blocks) == 0 {
		return nil
	}
	return e.blocks[0]
}

// Children returns all sibling blocks under name in declaration order.
func (n *Node) Children(name string) []*Node {
	e, ok := n.entries[name]
	if !ok || !e.block {
		return nil
	}
	return e.blocks
}

// Attr returns the leaf value under name, or nil if absent or a block.
func (n *Node) Attr(name string) any {
	e, ok := n.entries[name]
	if !ok || e.block {
		return nil
	}
	return e.value
}

// Has reports whether name is present, as either a leaf or a block.
func (n *Node) Has(name string) bool {
	_, ok := n.entries[name]
	return ok
}

// Keys returns attribute names in first-insertion order.
func (n *Node) Keys() []string {
	keys := make([]string, len(n.keys))
	copy(keys, n.keys)
	return keys
}

// Len returns the number of distinct attribute names.
func (n *Node) Len() int {
	return len(n.keys)
}

// Clone deep-copies the node tree. Leaf values are shared; they are treated as
// immutable once set.
func (n *Node) Clone() *Node {
	c := NewNode()
	c.keys = make([]string, len(n.keys))
	copy(c.keys, n.keys)
	for name, e := range n.entries {
		ce := &entry{value: e.value, block: e.block}
		for _, b := range e.blocks {
			ce.blocks = append(ce.blocks, b.Clone())
		}
		c.entries[name] = ce
	}
	return c
}

// WalkValues visits every leaf value in the subtree, including elements of
// leaf arrays and values of leaf maps, in key order.
func (n *Node) WalkValues(fn func(v any)) {
	for _, name := range n.keys {
		e := n.entries[name]
		if e.block {
			for _, b := range e.blocks {
				b.WalkValues(fn)
			}
			continue
		}
		walkValue(e.value, fn)
	}
}

func walkValue(v any, fn func(v any)) {
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			walkValue(item, fn)
		}
	case map[string]any:
		for _, item := range val {
			walkValue(item, fn)
		}
	default:
		fn(v)
	}
}
