package aws

import (
	"fmt"

	"github.com/pangealabs/tfsynth/pkg/schema"
)

// AutoscalingGroup models aws_autoscaling_group. The capacity fields carry the
// ordering invariant min_size <= desired_capacity <= max_size.
func AutoscalingGroup() *schema.Schema {
	return &schema.Schema{
		Kind: "aws_autoscaling_group",
		Fields: []schema.FieldSpec{
			{Name: "name", Type: schema.StringType, Required: true, MaxLen: schema.IntRef(255)},
			{Name: "min_size", Type: schema.IntType, Required: true, Min: schema.FloatRef(0)},
			{Name: "max_size", Type: schema.IntType, Required: true, Min: schema.FloatRef(0)},
			{Name: "desired_capacity", Type: schema.IntType, Min: schema.FloatRef(0)},
			{
				Name:          "health_check_type",
				Type:          schema.StringType,
				AllowedValues: []string{"EC2", "ELB"},
				Default:       "EC2",
			},
			{Name: "health_check_grace_period", Type: schema.IntType, Default: 300, Min: schema.FloatRef(0)},
			{Name: "vpc_zone_identifier", Type: schema.ListType, Elem: &schema.FieldSpec{Type: schema.StringType}},
			{Name: "capacity_rebalance", Type: schema.BoolType},
			{
				Name: "launch_template",
				Type: schema.BlockType,
				Fields: []schema.FieldSpec{
					{Name: "id", Type: schema.StringType},
					{Name: "name", Type: schema.StringType},
					{Name: "version", Type: schema.StringType, Default: "$Latest"},
				},
			},
			{
				Name: "tag",
				Type: schema.ListType,
				Elem: &schema.FieldSpec{
					Type: schema.BlockType,
					Fields: []schema.FieldSpec{
						{Name: "key", Type: schema.StringType, Required: true, MaxLen: schema.IntRef(128)},
						{Name: "value", Type: schema.StringType, Required: true, MaxLen: schema.IntRef(256)},
						{Name: "propagate_at_launch", Type: schema.BoolType, Default: true},
					},
				},
			},
		},
		Invariants: []schema.Invariant{
			{
				Name: "capacity_ordering",
				Check: func(attrs map[string]any) error {
					min, _ := intAt(attrs, "min_size")
					max, _ := intAt(attrs, "max_size")
					if min > max {
						return fmt.Errorf("min_size (%d) cannot be greater than max_size (%d)", min, max)
					}
					if desired, ok := intAt(attrs, "desired_capacity"); ok && (desired < min || desired > max) {
						return fmt.Errorf("desired_capacity (%d) must be between min_size (%d) and max_size (%d)", desired, min, max)
					}
					return nil
				},
			},
			{
				Name: "launch_template_id_xor_name",
				Check: func(attrs map[string]any) error {
					lt := mapAt(attrs, "launch_template")
					if lt == nil {
						return nil
					}
					_, hasID := lt["id"]
					_, hasName := lt["name"]
					if hasID == hasName {
						return fmt.Errorf("launch_template requires exactly one of id or name")
					}
					return nil
				},
			},
		},
		Derived: map[string]schema.DerivedFunc{
			"is_fixed_size": func(attrs map[string]any) any {
				min, _ := intAt(attrs, "min_size")
				max, _ := intAt(attrs, "max_size")
				return min == max
			},
			"uses_elb_health_check": func(attrs map[string]any) any {
				return strAt(attrs, "health_check_type") == "ELB"
			},
			"capacity_span": func(attrs map[string]any) any {
				min, _ := intAt(attrs, "min_size")
				max, _ := intAt(attrs, "max_size")
				return max - min
			},
		},
		Outputs: []string{"name"},
	}
}
