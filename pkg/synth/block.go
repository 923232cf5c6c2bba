package synth

import (
	"github.com/pangealabs/tfsynth/pkg/document"
	"github.com/pangealabs/tfsynth/pkg/schema"
)

// Block is the builder handed to declaration bodies. Set writes a scalar or
// array leaf on the current node; Child opens a nested block and evaluates its
// body against the child. Repeated Child calls under one name accumulate an
// ordered list of sibling blocks. Using one name both ways is a usage error;
// the first error sticks and later calls become no-ops, so the declaration's
// entry point can report it.
type Block struct {
	op   string
	node *document.Node
	err  error
}

func newBlock(op string, node *document.Node) *Block {
	return &Block{op: op, node: node}
}

// Set writes a leaf value under name. Setting the same name again replaces the
// previous value. The attribute name is normalized to snake_case; mapping
// values are coerced to string-keyed form but their keys keep their spelling,
// since keys inside a leaf value are data.
func (b *Block) Set(name string, value any) *Block {
	if b.err != nil {
		return b
	}
	if err := b.node.SetAttr(schema.NormalizeKey(name), schema.Normalize(value)); err != nil {
		b.err = usageErr(b.op, err)
	}
	return b
}

// Child opens a nested block under name and evaluates body against it.
func (b *Block) Child(name string, body func(*Block)) *Block {
	if b.err != nil {
		return b
	}
	node, err := b.node.OpenChild(schema.NormalizeKey(name))
	if err != nil {
		b.err = usageErr(b.op, err)
		return b
	}
	child := &Block{op: b.op, node: node}
	body(child)
	if child.err != nil && b.err == nil {
		b.err = child.err
	}
	return b
}

// Err returns the first usage error recorded by this builder or its children.
func (b *Block) Err() error {
	return b.err
}
