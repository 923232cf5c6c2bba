package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pangealabs/tfsynth/pkg/resources/aws"
	"github.com/pangealabs/tfsynth/pkg/synth"
)

const manifestYAML = `
terraform:
  required_version: "~1.5"
providers:
  aws:
    region: us-east-1
variables:
  env:
    type: string
    default: dev
locals:
  app: orders
data:
  - type: aws_ami
    name: ubuntu
    attributes:
      most_recent: true
resources:
  - type: aws_ecr_repository
    name: app
    attributes:
      name: team/app
  - type: aws_autoscaling_group
    name: web
    attributes:
      name: web
      min_size: 1
      max_size: 3
      tag:
        - key: team
          value: payments
        - key: env
          value: dev
outputs:
  repo_url:
    value: ${aws_ecr_repository.app.repository_url}
`

func newAwsSession() *synth.Synthesizer {
	reg := synth.NewRegistry()
	aws.RegisterInto(reg)
	return synth.New(reg)
}

func TestManifestApply(t *testing.T) {
	assert := assert.New(t)
	m, err := ParseManifest([]byte(manifestYAML))
	require.NoError(t, err)

	s := newAwsSession()
	require.NoError(t, m.Apply(s))

	doc := s.Document()
	assert.Equal("~1.5", doc.Terraform().Attr("required_version"))
	assert.True(doc.HasData("aws_ami", "ubuntu"))
	assert.Equal([][2]string{
		{"aws_ecr_repository", "app"},
		{"aws_autoscaling_group", "web"},
	}, doc.ResourceAddresses())

	// schema defaults applied on the way in
	assert.Equal("MUTABLE", doc.ResourceNode("aws_ecr_repository", "app").Attr("image_tag_mutability"))

	asg := doc.ResourceNode("aws_autoscaling_group", "web")
	require.NotNil(t, asg)
	tags := asg.Children("tag")
	require.Len(t, tags, 2)
	assert.Equal("team", tags[0].Attr("key"))
	assert.Equal(true, tags[0].Attr("propagate_at_launch"))

	out, err := s.Serialize()
	require.NoError(t, err)
	assert.Contains(string(out), `"output":{"repo_url":{"value":"${aws_ecr_repository.app.repository_url}"}}`)
}

func TestManifestApplyStopsOnFirstFailure(t *testing.T) {
	assert := assert.New(t)
	m, err := ParseManifest([]byte(`
resources:
  - type: aws_ecr_repository
    name: ok
    attributes:
      name: team/app
  - type: aws_autoscaling_group
    name: bad
    attributes:
      name: web
      min_size: 5
      max_size: 3
  - type: aws_ecr_repository
    name: never
    attributes:
      name: team/other
`))
	require.NoError(t, err)

	s := newAwsSession()
	err = m.Apply(s)
	require.Error(t, err)
	assert.ErrorContains(err, "resource aws_autoscaling_group.bad")
	assert.ErrorContains(err, "min_size (5) cannot be greater than max_size (3)")

	// everything before the failure stays declared
	assert.True(s.Document().HasResource("aws_ecr_repository", "ok"))
	assert.False(s.Document().HasResource("aws_autoscaling_group", "bad"))
	assert.False(s.Document().HasResource("aws_ecr_repository", "never"))
}

func TestParseManifestRejectsGarbage(t *testing.T) {
	_, err := ParseManifest([]byte("resources: [unclosed"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "parsing manifest")
}
