package aws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLaunchTemplateNameXorPrefix(t *testing.T) {
	assert := assert.New(t)

	_, err := LaunchTemplate().Validate(map[string]any{})
	assert.EqualError(err, "aws_launch_template: exactly one of name or name_prefix must be set")

	_, err = LaunchTemplate().Validate(map[string]any{"name": "web", "name_prefix": "web-"})
	assert.EqualError(err, "aws_launch_template: exactly one of name or name_prefix must be set")

	attrs, err := LaunchTemplate().Validate(map[string]any{"name_prefix": "web-"})
	require.NoError(t, err)
	assert.Equal("web-", attrs.GetString("name_prefix"))
	assert.Equal(true, attrs.GetBool("update_default_version"))
}

func TestLaunchTemplateImageID(t *testing.T) {
	assert := assert.New(t)

	_, err := LaunchTemplate().Validate(map[string]any{"name": "web", "image_id": "vol-01234567"})
	assert.EqualError(err,
		`aws_launch_template: invalid value for "image_id": Invalid AMI ID format: "vol-01234567"`)

	_, err = LaunchTemplate().Validate(map[string]any{"name": "web", "image_id": "ami-0a1b2c3d4e"})
	assert.NoError(err)
}

func TestLaunchTemplateTagSpecifications(t *testing.T) {
	assert := assert.New(t)

	attrs, err := LaunchTemplate().Validate(map[string]any{
		"name": "web",
		"tag_specifications": []any{
			map[string]any{"resource_type": "instance", "tags": map[string]any{"Name": "web"}},
			map[string]any{"resource_type": "volume"},
		},
	})
	require.NoError(t, err)
	assert.Len(attrs.GetList("tag_specifications"), 2)

	_, err = LaunchTemplate().Validate(map[string]any{
		"name": "web",
		"tag_specifications": []any{
			map[string]any{"resource_type": "fleet"},
		},
	})
	assert.ErrorContains(err, "must be one of [instance, volume, network-interface, spot-instances-request]")
}

func TestLaunchTemplateMonitoring(t *testing.T) {
	assert := assert.New(t)

	attrs, err := LaunchTemplate().Validate(map[string]any{"name": "web"})
	require.NoError(t, err)
	assert.False(attrs.QueryBool("has_detailed_monitoring"))

	attrs, err = LaunchTemplate().Validate(map[string]any{
		"name":       "web",
		"monitoring": map[string]any{"enabled": true},
	})
	require.NoError(t, err)
	assert.True(attrs.QueryBool("has_detailed_monitoring"))
}
