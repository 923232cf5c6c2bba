package aws

import (
	"fmt"
	"regexp"

	"github.com/pangealabs/tfsynth/pkg/collectionutil"
	"github.com/pangealabs/tfsynth/pkg/schema"
)

var effectiveStartPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)

// CostCategory models aws_ce_cost_category. The complexity and coverage
// scores are a fixed contract: changing a weight breaks downstream golden
// values.
//
// complexity_score = regular_rules*5 + inherited_rules*3 + split_rules*10
// + sum of per-rule expression complexity, capped at 100. Expression
// complexity: a leaf matcher counts 1, and/or count 2 plus their operands,
// not counts 1 plus its operand.
func CostCategory() *schema.Schema {
	return &schema.Schema{
		Kind: "aws_ce_cost_category",
		Fields: []schema.FieldSpec{
			{Name: "name", Type: schema.StringType, Required: true, MinLen: schema.IntRef(1), MaxLen: schema.IntRef(50)},
			{
				Name:          "rule_version",
				Type:          schema.StringType,
				AllowedValues: []string{"CostCategoryExpression.v1"},
				Default:       "CostCategoryExpression.v1",
			},
			{
				Name:        "effective_start",
				Type:        schema.StringType,
				Pattern:     effectiveStartPattern,
				PatternName: "effective start timestamp",
			},
			{Name: "default_value", Type: schema.StringType, MaxLen: schema.IntRef(50)},
			{
				Name:     "rule",
				Type:     schema.ListType,
				Required: true,
				MinItems: schema.IntRef(1),
				Elem: &schema.FieldSpec{
					Type: schema.BlockType,
					Fields: []schema.FieldSpec{
						{Name: "value", Type: schema.StringType, Required: true, MaxLen: schema.IntRef(50)},
						{
							Name:          "type",
							Type:          schema.StringType,
							AllowedValues: []string{"REGULAR", "INHERITED"},
							Default:       "REGULAR",
						},
						// Free-form expression tree (and/or/not over dimension,
						// tags and cost_category matchers).
						{Name: "rule", Type: schema.BlockType},
						{
							Name: "inherited_value",
							Type: schema.BlockType,
							Fields: []schema.FieldSpec{
								{
									Name:          "dimension_name",
									Type:          schema.StringType,
									AllowedValues: []string{"LINKED_ACCOUNT_NAME", "TAG"},
								},
								{Name: "dimension_key", Type: schema.StringType},
							},
						},
					},
				},
			},
			{
				Name: "split_charge_rule",
				Type: schema.ListType,
				Elem: &schema.FieldSpec{
					Type: schema.BlockType,
					Fields: []schema.FieldSpec{
						{Name: "source", Type: schema.StringType, Required: true},
						{
							Name:     "targets",
							Type:     schema.ListType,
							Required: true,
							MinItems: schema.IntRef(1),
							Elem:     &schema.FieldSpec{Type: schema.StringType},
						},
						{
							Name:          "method",
							Type:          schema.StringType,
							AllowedValues: []string{"FIXED", "PROPORTIONAL", "EVEN"},
							Default:       "PROPORTIONAL",
						},
						{
							Name: "parameter",
							Type: schema.ListType,
							Elem: &schema.FieldSpec{
								Type: schema.BlockType,
								Fields: []schema.FieldSpec{
									{
										Name:          "type",
										Type:          schema.StringType,
										AllowedValues: []string{"ALLOCATION_PERCENTAGES"},
									},
									{Name: "values", Type: schema.ListType},
								},
							},
						},
					},
				},
			},
			{Name: "tags", Type: schema.MapType},
		},
		Invariants: []schema.Invariant{
			{
				Name: "unique_rule_values",
				Check: func(attrs map[string]any) error {
					seen := make(map[string]struct{})
					for _, v := range ruleValues(attrs) {
						if _, dup := seen[v]; dup {
							return fmt.Errorf("rule values must be unique: %q is declared more than once", v)
						}
						seen[v] = struct{}{}
					}
					return nil
				},
			},
			{
				Name: "inherited_rules_carry_inherited_value",
				Check: func(attrs map[string]any) error {
					for _, item := range listAt(attrs, "rule") {
						rule, _ := item.(map[string]any)
						if strAt(rule, "type") != "INHERITED" {
							continue
						}
						if _, ok := rule["inherited_value"]; !ok {
							return fmt.Errorf("rule %q is of type INHERITED and requires inherited_value", strAt(rule, "value"))
						}
					}
					return nil
				},
			},
			{
				Name: "split_charge_references_declared_values",
				Check: func(attrs map[string]any) error {
					values := ruleValues(attrs)
					for _, item := range listAt(attrs, "split_charge_rule") {
						split, _ := item.(map[string]any)
						if src := strAt(split, "source"); !collectionutil.Contains(values, src) {
							return fmt.Errorf("split charge source %q must reference a declared rule value", src)
						}
						for _, t := range listAt(split, "targets") {
							target, _ := t.(string)
							if !collectionutil.Contains(values, target) {
								return fmt.Errorf("split charge target %q must reference a declared rule value", target)
							}
						}
					}
					return nil
				},
			},
		},
		Derived: map[string]schema.DerivedFunc{
			"complexity_score":             costCategoryComplexity,
			"allocation_coverage_estimate": costCategoryCoverage,
			"has_split_charges": func(attrs map[string]any) any {
				return len(listAt(attrs, "split_charge_rule")) > 0
			},
		},
		Outputs: []string{"effective_start"},
	}
}

func ruleValues(attrs map[string]any) []string {
	var values []string
	for _, item := range listAt(attrs, "rule") {
		rule, _ := item.(map[string]any)
		values = append(values, strAt(rule, "value"))
	}
	return values
}

func costCategoryComplexity(attrs map[string]any) any {
	var regular, inherited, exprScore int
	for _, item := range listAt(attrs, "rule") {
		rule, _ := item.(map[string]any)
		if strAt(rule, "type") == "INHERITED" {
			inherited++
		} else {
			regular++
		}
		exprScore += expressionComplexity(mapAt(rule, "rule"))
	}
	split := len(listAt(attrs, "split_charge_rule"))
	return capScore(regular*5+inherited*3+split*10+exprScore, 100)
}

// costCategoryCoverage estimates how much of the spend the category's rules
// allocate: 15 points per matching rule, 10 per split charge rule, 20 for a
// declared default_value, capped at 100.
func costCategoryCoverage(attrs map[string]any) any {
	score := len(listAt(attrs, "rule"))*15 + len(listAt(attrs, "split_charge_rule"))*10
	if _, ok := attrs["default_value"]; ok {
		score += 20
	}
	return capScore(score, 100)
}

func expressionComplexity(expr map[string]any) int {
	if len(expr) == 0 {
		return 0
	}
	score := 0
	for key, v := range expr {
		switch key {
		case "and", "or":
			score += 2
			for _, operand := range anySlice(v) {
				child, _ := operand.(map[string]any)
				score += expressionComplexity(child)
			}
		case "not":
			child, _ := v.(map[string]any)
			score += 1 + expressionComplexity(child)
		default:
			score++
		}
	}
	return score
}

func anySlice(v any) []any {
	switch val := v.(type) {
	case []any:
		return val
	case map[string]any:
		return []any{val}
	}
	return nil
}
