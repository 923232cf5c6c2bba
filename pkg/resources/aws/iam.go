package aws

import (
	"fmt"
	"regexp"

	"github.com/pangealabs/tfsynth/pkg/schema"
)

var (
	iamNamePattern = regexp.MustCompile(`^[\w+=,.@\-]+$`)
	iamPathPattern = regexp.MustCompile(`^/$|^/[\x21-\x7F]+/$`)
	iamSidPattern  = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// IamPolicy models aws_iam_policy, with the policy document validated inline
// rather than treated as an opaque JSON string.
func IamPolicy() *schema.Schema {
	return &schema.Schema{
		Kind: "aws_iam_policy",
		Fields: []schema.FieldSpec{
			{
				Name:        "name",
				Type:        schema.StringType,
				Required:    true,
				MaxLen:      schema.IntRef(128),
				Pattern:     iamNamePattern,
				PatternName: "policy name",
			},
			{
				Name:        "path",
				Type:        schema.StringType,
				Default:     "/",
				MaxLen:      schema.IntRef(512),
				Pattern:     iamPathPattern,
				PatternName: "policy path",
			},
			{Name: "description", Type: schema.StringType, MaxLen: schema.IntRef(1000)},
			{
				Name:     "policy",
				Type:     schema.BlockType,
				Required: true,
				Fields: []schema.FieldSpec{
					{
						Name:          "version",
						Type:          schema.StringType,
						AllowedValues: []string{"2012-10-17", "2008-10-17"},
						Default:       "2012-10-17",
					},
					{
						Name:     "statement",
						Type:     schema.ListType,
						Required: true,
						MinItems: schema.IntRef(1),
						Elem: &schema.FieldSpec{
							Type: schema.BlockType,
							Fields: []schema.FieldSpec{
								{
									Name:        "sid",
									Type:        schema.StringType,
									Pattern:     iamSidPattern,
									PatternName: "statement ID",
								},
								{
									Name:          "effect",
									Type:          schema.StringType,
									Required:      true,
									AllowedValues: []string{"Allow", "Deny"},
								},
								{
									Name:     "action",
									Type:     schema.ListType,
									Required: true,
									MinItems: schema.IntRef(1),
									Elem:     &schema.FieldSpec{Type: schema.StringType},
								},
								{
									Name:     "resource",
									Type:     schema.ListType,
									Required: true,
									MinItems: schema.IntRef(1),
									Elem:     &schema.FieldSpec{Type: schema.StringType},
								},
								{Name: "condition", Type: schema.BlockType},
							},
						},
					},
				},
			},
			{Name: "tags", Type: schema.MapType},
		},
		Invariants: []schema.Invariant{
			{
				Name: "unique_statement_ids",
				Check: func(attrs map[string]any) error {
					seen := make(map[string]struct{})
					for _, item := range policyStatements(attrs) {
						sid := strAt(item, "sid")
						if sid == "" {
							continue
						}
						if _, dup := seen[sid]; dup {
							return fmt.Errorf("statement IDs must be unique: %q is declared more than once", sid)
						}
						seen[sid] = struct{}{}
					}
					return nil
				},
			},
		},
		Derived: map[string]schema.DerivedFunc{
			"statement_count": func(attrs map[string]any) any {
				return len(policyStatements(attrs))
			},
			"is_administrative": func(attrs map[string]any) any {
				for _, stmt := range policyStatements(attrs) {
					if strAt(stmt, "effect") != "Allow" {
						continue
					}
					if containsWildcard(listAt(stmt, "action")) && containsWildcard(listAt(stmt, "resource")) {
						return true
					}
				}
				return false
			},
			// statements*10 + actions*2 + resources*1, capped at 100.
			"complexity_score": func(attrs map[string]any) any {
				stmts := policyStatements(attrs)
				score := len(stmts) * 10
				for _, stmt := range stmts {
					score += len(listAt(stmt, "action"))*2 + len(listAt(stmt, "resource"))
				}
				return capScore(score, 100)
			},
		},
		Outputs: []string{"name", "policy_id"},
	}
}

func policyStatements(attrs map[string]any) []map[string]any {
	var out []map[string]any
	for _, item := range listAt(mapAt(attrs, "policy"), "statement") {
		if stmt, ok := item.(map[string]any); ok {
			out = append(out, stmt)
		}
	}
	return out
}

func containsWildcard(items []any) bool {
	for _, item := range items {
		if item == "*" {
			return true
		}
	}
	return false
}
