package document

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON serializes the document in the Terraform JSON configuration
// shape. Attribute order follows first insertion; repeated sibling blocks
// serialize as arrays; empty categories are omitted. Serialization has no side
// effects, so repeated calls on an unchanged document are byte-identical.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, c := range categoryOrder {
		node := d.category(c)
		if node.Len() == 0 {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := writeKey(&buf, string(c)); err != nil {
			return nil, err
		}
		if err := writeNode(&buf, node); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalIndent renders the document as indented JSON, for file output.
func (d *Document) MarshalIndent() ([]byte, error) {
	raw, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	b, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}

func writeNode(buf *bytes.Buffer, n *Node) error {
	buf.WriteByte('{')
	for i, name := range n.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(buf, name); err != nil {
			return err
		}
		e := n.entries[name]
		if !e.block {
			b, err := json.Marshal(e.value)
			if err != nil {
				return err
			}
			buf.Write(b)
			continue
		}
		if len(e.blocks) == 1 {
			if err := writeNode(buf, e.blocks[0]); err != nil {
				return err
			}
			continue
		}
		buf.WriteByte('[')
		for j, b := range e.blocks {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeNode(buf, b); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return nil
}
