package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pangealabs/tfsynth/pkg/synth"
)

const hclSource = `
terraform {
  required_version = "~1.5"
}

provider "aws" {
  region = "us-east-1"
}

variable "env" {
  type    = "string"
  default = "dev"
}

locals {
  app = "orders"
}

data "aws_ami" "ubuntu" {
  most_recent = true
}

resource "aws_launch_template" "t" {
  name          = "web"
  image_id      = "ami-0a1b2c3d4e"
  instance_type = "t3.micro"
}

resource "aws_autoscaling_group" "web" {
  name     = "web"
  min_size = 1
  max_size = 3

  launch_template {
    id = aws_launch_template.t.id
  }

  tag {
    key   = "team"
    value = "payments"
  }

  tag {
    key   = "env"
    value = "dev"
  }
}

output "asg_name" {
  value = aws_autoscaling_group.web.name
}
`

func TestHCLApply(t *testing.T) {
	assert := assert.New(t)
	cfg, err := ParseHCL("main.tf", []byte(hclSource))
	require.NoError(t, err)

	s := newAwsSession()
	require.NoError(t, cfg.Apply(s))

	doc := s.Document()
	assert.Equal("~1.5", doc.Terraform().Attr("required_version"))
	assert.Equal("orders", doc.Locals().Attr("app"))
	assert.True(doc.HasData("aws_ami", "ubuntu"))

	// bare references become interpolation strings
	asg := doc.ResourceNode("aws_autoscaling_group", "web")
	require.NotNil(t, asg)
	assert.Equal("${aws_launch_template.t.id}", asg.Child("launch_template").Attr("id"))
	assert.Equal(1, asg.Attr("min_size"))
	assert.Len(asg.Children("tag"), 2)

	order, err := s.DependencyOrder()
	require.NoError(t, err)
	require.Len(t, order, 3)
	assert.Equal("aws_autoscaling_group.web", order[len(order)-1])
}

func TestHCLApplyValidates(t *testing.T) {
	assert := assert.New(t)
	cfg, err := ParseHCL("main.tf", []byte(`
resource "aws_autoscaling_group" "web" {
  name     = "web"
  min_size = 5
  max_size = 3
}
`))
	require.NoError(t, err)

	err = cfg.Apply(newAwsSession())
	require.Error(t, err)
	assert.ErrorContains(err, "min_size (5) cannot be greater than max_size (3)")
}

func TestParseHCLRejectsGarbage(t *testing.T) {
	_, err := ParseHCL("main.tf", []byte(`resource "aws_sns_topic" {`))
	require.Error(t, err)
	assert.ErrorContains(t, err, "parsing HCL")
}

func TestHCLBlockShapes(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "resource needs two labels",
			src:     `resource "aws_sns_topic" { name = "x" }`,
			wantErr: "resource block needs a type and a name label",
		},
		{
			name:    "unsupported block",
			src:     `module "vpc" { source = "./vpc" }`,
			wantErr: `unsupported top-level block "module"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseHCL("main.tf", []byte(tt.src))
			require.NoError(t, err)
			err = cfg.Apply(newAwsSession())
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestHCLLiteralShapes(t *testing.T) {
	assert := assert.New(t)
	cfg, err := ParseHCL("main.tf", []byte(`
resource "aws_sqs_queue" "jobs" {
  delay_seconds = 10
  weight        = 0.5
  fifo_queue    = false
  subnets       = ["subnet-1", "subnet-2"]
  tags = {
    env = "dev"
  }
}
`))
	require.NoError(t, err)

	s := synth.New(nil)
	require.NoError(t, cfg.Apply(s))

	node := s.Document().ResourceNode("aws_sqs_queue", "jobs")
	require.NotNil(t, node)
	assert.Equal(10, node.Attr("delay_seconds"))
	assert.Equal(0.5, node.Attr("weight"))
	assert.Equal(false, node.Attr("fifo_queue"))
	assert.Equal([]any{"subnet-1", "subnet-2"}, node.Attr("subnets"))
	require.NotNil(t, node.Child("tags"))
	assert.Equal("dev", node.Child("tags").Attr("env"))
}
