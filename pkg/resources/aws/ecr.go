package aws

import (
	"fmt"
	"regexp"

	"github.com/pangealabs/tfsynth/pkg/schema"
)

var ecrRepoNamePattern = regexp.MustCompile(`^[a-z0-9]+(?:[._-][a-z0-9]+)*(?:/[a-z0-9]+(?:[._-][a-z0-9]+)*)*$`)

// EcrRepository models aws_ecr_repository. An omitted image_tag_mutability
// defaults to MUTABLE and force_delete to false.
func EcrRepository() *schema.Schema {
	return &schema.Schema{
		Kind: "aws_ecr_repository",
		Fields: []schema.FieldSpec{
			{
				Name:        "name",
				Type:        schema.StringType,
				Required:    true,
				MinLen:      schema.IntRef(2),
				MaxLen:      schema.IntRef(256),
				Pattern:     ecrRepoNamePattern,
				PatternName: "repository name",
			},
			{
				Name:          "image_tag_mutability",
				Type:          schema.StringType,
				AllowedValues: []string{"MUTABLE", "IMMUTABLE"},
				Default:       "MUTABLE",
			},
			{Name: "force_delete", Type: schema.BoolType, Default: false},
			{
				Name: "image_scanning_configuration",
				Type: schema.BlockType,
				Fields: []schema.FieldSpec{
					{Name: "scan_on_push", Type: schema.BoolType, Default: false},
				},
			},
			{
				Name: "encryption_configuration",
				Type: schema.BlockType,
				Fields: []schema.FieldSpec{
					{
						Name:          "encryption_type",
						Type:          schema.StringType,
						AllowedValues: []string{"AES256", "KMS"},
						Default:       "AES256",
					},
					{Name: "kms_key", Type: schema.StringType},
				},
			},
			{Name: "tags", Type: schema.MapType},
		},
		Invariants: []schema.Invariant{
			{
				Name: "kms_key_requires_kms_encryption",
				Check: func(attrs map[string]any) error {
					enc := mapAt(attrs, "encryption_configuration")
					if enc == nil {
						return nil
					}
					if _, hasKey := enc["kms_key"]; hasKey && enc["encryption_type"] != "KMS" {
						return fmt.Errorf("kms_key may only be set when encryption_type is KMS")
					}
					return nil
				},
			},
		},
		Derived: map[string]schema.DerivedFunc{
			"is_immutable": func(attrs map[string]any) any {
				return strAt(attrs, "image_tag_mutability") == "IMMUTABLE"
			},
			"uses_kms_encryption": func(attrs map[string]any) any {
				return strAt(mapAt(attrs, "encryption_configuration"), "encryption_type") == "KMS"
			},
			"scans_on_push": func(attrs map[string]any) any {
				scan := mapAt(attrs, "image_scanning_configuration")
				b, _ := scan["scan_on_push"].(bool)
				return b
			},
		},
		Outputs: []string{"name", "registry_id", "repository_url"},
	}
}
