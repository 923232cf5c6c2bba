package aws

import (
	"fmt"
	"regexp"

	"github.com/pangealabs/tfsynth/pkg/schema"
)

var (
	launchTemplateNamePattern = regexp.MustCompile(`^[a-zA-Z0-9().\-/_]+$`)
	amiIDPattern              = regexp.MustCompile(`^ami-[0-9a-f]{8,17}$`)
)

// LaunchTemplate models aws_launch_template.
func LaunchTemplate() *schema.Schema {
	return &schema.Schema{
		Kind: "aws_launch_template",
		Fields: []schema.FieldSpec{
			{
				Name:        "name",
				Type:        schema.StringType,
				MaxLen:      schema.IntRef(128),
				Pattern:     launchTemplateNamePattern,
				PatternName: "launch template name",
			},
			{
				Name:        "name_prefix",
				Type:        schema.StringType,
				MaxLen:      schema.IntRef(99),
				Pattern:     launchTemplateNamePattern,
				PatternName: "launch template name prefix",
			},
			{
				Name:        "image_id",
				Type:        schema.StringType,
				Pattern:     amiIDPattern,
				PatternName: "AMI ID",
			},
			{Name: "instance_type", Type: schema.StringType},
			{Name: "ebs_optimized", Type: schema.BoolType},
			{Name: "update_default_version", Type: schema.BoolType, Default: true},
			{Name: "user_data", Type: schema.StringType},
			{
				Name: "monitoring",
				Type: schema.BlockType,
				Fields: []schema.FieldSpec{
					{Name: "enabled", Type: schema.BoolType, Default: false},
				},
			},
			{
				Name: "tag_specifications",
				Type: schema.ListType,
				Elem: &schema.FieldSpec{
					Type: schema.BlockType,
					Fields: []schema.FieldSpec{
						{
							Name:          "resource_type",
							Type:          schema.StringType,
							Required:      true,
							AllowedValues: []string{"instance", "volume", "network-interface", "spot-instances-request"},
						},
						{Name: "tags", Type: schema.MapType},
					},
				},
			},
		},
		Invariants: []schema.Invariant{
			{
				Name: "name_xor_name_prefix",
				Check: func(attrs map[string]any) error {
					_, hasName := attrs["name"]
					_, hasPrefix := attrs["name_prefix"]
					if hasName == hasPrefix {
						return fmt.Errorf("exactly one of name or name_prefix must be set")
					}
					return nil
				},
			},
		},
		Derived: map[string]schema.DerivedFunc{
			"has_detailed_monitoring": func(attrs map[string]any) any {
				mon := mapAt(attrs, "monitoring")
				b, _ := mon["enabled"].(bool)
				return b
			},
		},
		Outputs: []string{"name", "latest_version", "default_version"},
	}
}
