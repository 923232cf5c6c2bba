package schema

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bucketSchema() *Schema {
	return &Schema{
		Kind: "aws_s3_bucket",
		Fields: []FieldSpec{
			{Name: "bucket", Type: StringType, Required: true, MinLen: IntRef(3), MaxLen: IntRef(63)},
			{Name: "acl", Type: StringType, AllowedValues: []string{"private", "public-read"}, Default: "private"},
			{Name: "force_destroy", Type: BoolType, Default: false},
			{Name: "bucket_prefix", Type: StringType, DefaultTmpl: `{{ .bucket | upper }}`},
			{
				Name: "versioning",
				Type: BlockType,
				Fields: []FieldSpec{
					{Name: "enabled", Type: BoolType, Default: false},
				},
			},
		},
		Invariants: []Invariant{
			{
				Name: "public_buckets_forbid_force_destroy",
				Check: func(attrs map[string]any) error {
					if attrs["acl"] == "public-read" && attrs["force_destroy"] == true {
						return fmt.Errorf("force_destroy is not allowed on public buckets")
					}
					return nil
				},
			},
		},
		Derived: map[string]DerivedFunc{
			"is_public": func(attrs map[string]any) any {
				return attrs["acl"] == "public-read"
			},
		},
		Outputs: []string{"bucket_domain_name"},
	}
}

func TestSchemaValidateDefaults(t *testing.T) {
	assert := assert.New(t)
	attrs, err := bucketSchema().Validate(map[string]any{"bucket": "assets"})
	require.NoError(t, err)

	assert.Equal("aws_s3_bucket", attrs.Kind())
	assert.Equal("private", attrs.GetString("acl"))
	assert.False(attrs.GetBool("force_destroy"))
	// template default renders over the already-validated siblings
	assert.Equal("ASSETS", attrs.GetString("bucket_prefix"))
	assert.Equal([]string{"bucket", "acl", "force_destroy", "bucket_prefix"}, attrs.Keys())
}

func TestSchemaValidateMissingRequired(t *testing.T) {
	assert := assert.New(t)
	_, err := bucketSchema().Validate(map[string]any{"acl": "private"})
	var missing *MissingRequiredFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal("bucket", missing.Field)
	assert.EqualError(err, `aws_s3_bucket: missing required field "bucket"`)
}

func TestSchemaValidateConstraints(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
		want  string
	}{
		{
			name:  "too short",
			input: map[string]any{"bucket": "ab"},
			want:  `aws_s3_bucket: invalid value for "bucket": must be at least 3 characters`,
		},
		{
			name:  "bad enum",
			input: map[string]any{"bucket": "assets", "acl": "authenticated-read"},
			want:  `aws_s3_bucket: invalid value for "acl": must be one of [private, public-read], got "authenticated-read"`,
		},
		{
			name:  "wrong type",
			input: map[string]any{"bucket": "assets", "force_destroy": "yes"},
			want:  `aws_s3_bucket: invalid value for "force_destroy": expected bool value, got string`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			_, err := bucketSchema().Validate(tt.input)
			var violation *ConstraintViolationError
			require.ErrorAs(t, err, &violation)
			assert.EqualError(err, tt.want)
		})
	}
}

func TestSchemaValidateInvariant(t *testing.T) {
	assert := assert.New(t)
	_, err := bucketSchema().Validate(map[string]any{
		"bucket":        "assets",
		"acl":           "public-read",
		"force_destroy": true,
	})
	var violation *InvariantViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal("public_buckets_forbid_force_destroy", violation.Invariant)
	assert.EqualError(err, "aws_s3_bucket: force_destroy is not allowed on public buckets")
}

func TestSchemaValidateDerived(t *testing.T) {
	assert := assert.New(t)
	attrs, err := bucketSchema().Validate(map[string]any{"bucket": "assets", "acl": "public-read"})
	require.NoError(t, err)
	assert.True(attrs.QueryBool("is_public"))
	assert.ElementsMatch([]string{"is_public"}, attrs.DerivedNames())
}

func TestSchemaValidateNormalizesKeys(t *testing.T) {
	assert := assert.New(t)
	attrs, err := bucketSchema().Validate(map[string]any{
		"Bucket":       "assets",
		"forceDestroy": true,
	})
	require.NoError(t, err)
	assert.Equal("assets", attrs.GetString("bucket"))
	assert.True(attrs.GetBool("force_destroy"))
}

func TestSchemaValidatePassThroughExtras(t *testing.T) {
	assert := assert.New(t)
	attrs, err := bucketSchema().Validate(map[string]any{
		"bucket":   "assets",
		"zz_extra": "kept",
		"aa_extra": 1,
	})
	require.NoError(t, err)
	assert.Equal("kept", attrs.Get("zz_extra"))
	// declared fields first, extras sorted last
	assert.Equal(
		[]string{"bucket", "acl", "force_destroy", "bucket_prefix", "aa_extra", "zz_extra"},
		attrs.Keys(),
	)
}

func TestSchemaValidateNestedBlockDefaults(t *testing.T) {
	assert := assert.New(t)
	attrs, err := bucketSchema().Validate(map[string]any{
		"bucket":     "assets",
		"versioning": map[string]any{},
	})
	require.NoError(t, err)
	versioning, ok := attrs.Get("versioning").(map[string]any)
	require.True(t, ok)
	assert.Equal(false, versioning["enabled"])
}

func TestSchemaDefaultFunc(t *testing.T) {
	assert := assert.New(t)
	s := &Schema{
		Kind: "aws_s3_bucket",
		Fields: []FieldSpec{
			{Name: "bucket", Type: StringType, Required: true},
			{
				Name: "tags_all",
				Type: MapType,
				DefaultFunc: func(siblings map[string]any) any {
					return map[string]any{"Name": siblings["bucket"]}
				},
			},
		},
	}
	attrs, err := s.Validate(map[string]any{"bucket": "assets"})
	require.NoError(t, err)
	assert.Equal(map[string]any{"Name": "assets"}, attrs.Get("tags_all"))
}

func TestSchemaEmptyTemplateRenderMeansNoDefault(t *testing.T) {
	assert := assert.New(t)
	s := &Schema{
		Kind: "aws_s3_bucket",
		Fields: []FieldSpec{
			{Name: "acl", Type: StringType},
			{Name: "policy", Type: StringType, DefaultTmpl: `{{ if eq (default "" .acl) "public-read" }}deny-all{{ end }}`},
		},
	}
	attrs, err := s.Validate(map[string]any{})
	require.NoError(t, err)
	assert.False(attrs.Has("policy"))

	attrs, err = s.Validate(map[string]any{"acl": "public-read"})
	require.NoError(t, err)
	assert.Equal("deny-all", attrs.GetString("policy"))
}
