package aws

import (
	"fmt"
	"strings"

	"github.com/pangealabs/tfsynth/pkg/collectionutil"
	"github.com/pangealabs/tfsynth/pkg/schema"
)

var httpMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS", "ANY"}

// ApiGatewayIntegration models aws_api_gateway_integration. The integration
// timeout defaults to API Gateway's 29 second maximum; AWS-typed integrations
// default their upstream method to POST, which is the only method Lambda
// invocation accepts.
func ApiGatewayIntegration() *schema.Schema {
	return &schema.Schema{
		Kind: "aws_api_gateway_integration",
		Fields: []schema.FieldSpec{
			{Name: "rest_api_id", Type: schema.StringType, Required: true},
			{Name: "resource_id", Type: schema.StringType, Required: true},
			{Name: "http_method", Type: schema.StringType, Required: true, AllowedValues: httpMethods},
			{
				Name:          "type",
				Type:          schema.StringType,
				Required:      true,
				AllowedValues: []string{"HTTP", "HTTP_PROXY", "AWS", "AWS_PROXY", "MOCK"},
			},
			{
				Name:          "integration_http_method",
				Type:          schema.StringType,
				AllowedValues: httpMethods,
				DefaultTmpl:   `{{ if hasPrefix "AWS" .type }}POST{{ end }}`,
			},
			{Name: "uri", Type: schema.StringType},
			{
				Name:    "timeout_milliseconds",
				Type:    schema.IntType,
				Default: 29000,
				Min:     schema.FloatRef(50),
				Max:     schema.FloatRef(29000),
			},
			{
				Name:          "passthrough_behavior",
				Type:          schema.StringType,
				AllowedValues: []string{"WHEN_NO_MATCH", "WHEN_NO_TEMPLATES", "NEVER"},
				Default:       "WHEN_NO_MATCH",
			},
			{Name: "request_templates", Type: schema.MapType},
			{Name: "request_parameters", Type: schema.MapType},
			{
				Name: "cache_key_parameters",
				Type: schema.ListType,
				Elem: &schema.FieldSpec{Type: schema.StringType},
			},
			{Name: "content_handling", Type: schema.StringType, AllowedValues: []string{"CONVERT_TO_BINARY", "CONVERT_TO_TEXT"}},
		},
		Invariants: []schema.Invariant{
			{
				Name: "uri_required_unless_mock",
				Check: func(attrs map[string]any) error {
					typ := strAt(attrs, "type")
					if typ == "MOCK" {
						return nil
					}
					if _, ok := attrs["uri"]; !ok {
						return fmt.Errorf("uri is required when type is %s", typ)
					}
					return nil
				},
			},
			{
				Name: "http_integrations_declare_upstream_method",
				Check: func(attrs map[string]any) error {
					typ := strAt(attrs, "type")
					if !collectionutil.Contains([]string{"HTTP", "HTTP_PROXY"}, typ) {
						return nil
					}
					if _, ok := attrs["integration_http_method"]; !ok {
						return fmt.Errorf("integration_http_method is required when type is %s", typ)
					}
					return nil
				},
			},
		},
		Derived: map[string]schema.DerivedFunc{
			"is_proxy": func(attrs map[string]any) any {
				return strings.HasSuffix(strAt(attrs, "type"), "_PROXY")
			},
			"is_mock": func(attrs map[string]any) any {
				return strAt(attrs, "type") == "MOCK"
			},
			"invokes_lambda": func(attrs map[string]any) any {
				return strings.HasPrefix(strAt(attrs, "type"), "AWS") &&
					strings.Contains(strAt(attrs, "uri"), ":lambda:")
			},
		},
		Outputs: []string{"http_method"},
	}
}
