package aws

import (
	"fmt"
	"regexp"
	"time"

	"github.com/pangealabs/tfsynth/pkg/schema"
)

var (
	lambdaActionPattern = regexp.MustCompile(`^lambda:[A-Za-z]+$`)
	statementIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9\-_]+$`)
	arnPattern          = regexp.MustCompile(`^arn:[a-z\-]+:[a-z0-9\-]+:`)
	servicePrincipal    = regexp.MustCompile(`\.amazonaws\.com$`)
)

// LambdaPermission models aws_lambda_permission. A missing statement_id is
// generated as AllowExecutionFrom plus a timestamp-derived suffix so repeated
// declarations get distinct statement IDs.
func LambdaPermission() *schema.Schema {
	return &schema.Schema{
		Kind: "aws_lambda_permission",
		Fields: []schema.FieldSpec{
			{
				Name:        "action",
				Type:        schema.StringType,
				Required:    true,
				Pattern:     lambdaActionPattern,
				PatternName: "Lambda action",
			},
			{Name: "function_name", Type: schema.StringType, Required: true, MaxLen: schema.IntRef(140)},
			{Name: "principal", Type: schema.StringType, Required: true},
			{
				Name:        "statement_id",
				Type:        schema.StringType,
				MaxLen:      schema.IntRef(100),
				Pattern:     statementIDPattern,
				PatternName: "statement ID",
				DefaultFunc: func(map[string]any) any {
					return fmt.Sprintf("AllowExecutionFrom%d", time.Now().Unix())
				},
			},
			{
				Name:        "source_arn",
				Type:        schema.StringType,
				Pattern:     arnPattern,
				PatternName: "source ARN",
			},
			{Name: "source_account", Type: schema.StringType},
			{Name: "qualifier", Type: schema.StringType},
		},
		Derived: map[string]schema.DerivedFunc{
			"grants_public_invoke": func(attrs map[string]any) any {
				return strAt(attrs, "principal") == "*" && !hasKey(attrs, "source_arn") && !hasKey(attrs, "source_account")
			},
			"is_service_principal": func(attrs map[string]any) any {
				return servicePrincipal.MatchString(strAt(attrs, "principal"))
			},
		},
		Outputs: []string{"statement_id"},
	}
}

func hasKey(attrs map[string]any, key string) bool {
	_, ok := attrs[key]
	return ok
}
