package input

import (
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"

	"github.com/pangealabs/tfsynth/pkg/synth"
)

// HCLConfig is a parsed .tf-shaped file awaiting replay into a session.
type HCLConfig struct {
	filename string
	body     *hclsyntax.Body
}

func LoadHCL(path string) (*HCLConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return ParseHCL(path, raw)
}

func ParseHCL(filename string, raw []byte) (*HCLConfig, error) {
	file, diags := hclparse.NewParser().ParseHCL(raw, filename)
	if diags.HasErrors() {
		return nil, errors.Wrap(diags, "parsing HCL")
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected HCL body type %T", filename, file.Body)
	}
	return &HCLConfig{filename: filename, body: body}, nil
}

// Apply replays the file's top-level blocks, in source order, as declarations.
// Attribute expressions must be literals or plain references; a reference to
// another address becomes the matching interpolation string, so cross-resource
// wiring survives the translation.
func (c *HCLConfig) Apply(s *synth.Synthesizer) error {
	for _, block := range c.body.Blocks {
		if err := c.applyBlock(s, block); err != nil {
			return err
		}
	}
	return nil
}

func (c *HCLConfig) applyBlock(s *synth.Synthesizer, block *hclsyntax.Block) error {
	switch block.Type {
	case "resource", "data":
		if len(block.Labels) != 2 {
			return fmt.Errorf("%s: %s block needs a type and a name label", c.filename, block.Type)
		}
		attrs, err := bodyToMap(block.Body)
		if err != nil {
			return errors.Wrapf(err, "%s %s.%s", block.Type, block.Labels[0], block.Labels[1])
		}
		if block.Type == "data" {
			_, err = s.Data(block.Labels[0], block.Labels[1], attrs)
		} else {
			_, err = s.Resource(block.Labels[0], block.Labels[1], attrs)
		}
		return err

	case "provider", "variable", "output":
		if len(block.Labels) != 1 {
			return fmt.Errorf("%s: %s block needs a name label", c.filename, block.Type)
		}
		attrs, err := bodyToMap(block.Body)
		if err != nil {
			return errors.Wrapf(err, "%s %q", block.Type, block.Labels[0])
		}
		body := bodyFrom(attrs)
		switch block.Type {
		case "provider":
			return s.Provider(block.Labels[0], body)
		case "variable":
			return s.Variable(block.Labels[0], body)
		default:
			return s.Output(block.Labels[0], body)
		}

	case "locals", "terraform":
		attrs, err := bodyToMap(block.Body)
		if err != nil {
			return errors.Wrapf(err, "%s block", block.Type)
		}
		if block.Type == "locals" {
			return s.Locals(bodyFrom(attrs))
		}
		return s.Terraform(bodyFrom(attrs))
	}
	return fmt.Errorf("%s: unsupported top-level block %q", c.filename, block.Type)
}

func bodyToMap(body *hclsyntax.Body) (map[string]any, error) {
	out := make(map[string]any, len(body.Attributes)+len(body.Blocks))
	names := make([]string, 0, len(body.Attributes))
	for name := range body.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v, err := exprToGo(body.Attributes[name].Expr)
		if err != nil {
			return nil, errors.Wrapf(err, "attribute %q", name)
		}
		out[name] = v
	}
	for _, blk := range body.Blocks {
		nested, err := bodyToMap(blk.Body)
		if err != nil {
			return nil, errors.Wrapf(err, "block %q", blk.Type)
		}
		switch existing := out[blk.Type].(type) {
		case nil:
			out[blk.Type] = nested
		case []any:
			out[blk.Type] = append(existing, any(nested))
		case map[string]any:
			out[blk.Type] = []any{existing, nested}
		default:
			return nil, fmt.Errorf("block %q collides with an attribute of the same name", blk.Type)
		}
	}
	return out, nil
}

// exprToGo evaluates a literal expression, or renders a bare reference
// (aws_launch_template.t.id and the like) as its interpolation string.
func exprToGo(expr hclsyntax.Expression) (any, error) {
	if traversal, ok := expr.(*hclsyntax.ScopeTraversalExpr); ok {
		ref := string(hclwrite.TokensForTraversal(traversal.Traversal).Bytes())
		return "${" + ref + "}", nil
	}
	val, diags := expr.Value(&hcl.EvalContext{})
	if diags.HasErrors() {
		return nil, errors.Wrap(diags, "evaluating expression")
	}
	return ctyToGo(val)
}

func ctyToGo(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	t := val.Type()
	switch {
	case t == cty.String:
		return val.AsString(), nil
	case t == cty.Bool:
		return val.True(), nil
	case t == cty.Number:
		bf := val.AsBigFloat()
		if n, acc := bf.Int64(); acc == 0 {
			return int(n), nil
		}
		f, _ := bf.Float64()
		return f, nil
	case t.IsTupleType() || t.IsListType() || t.IsSetType():
		var out []any
		for it := val.ElementIterator(); it.Next(); {
			_, item := it.Element()
			converted, err := ctyToGo(item)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	case t.IsObjectType() || t.IsMapType():
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, item := it.Element()
			converted, err := ctyToGo(item)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = converted
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value type %s", t.FriendlyName())
}
