package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"force_delete", "force_delete"},
		{"forceDelete", "force_delete"},
		{"ForceDelete", "force_delete"},
		{"imageTagMutability", "image_tag_mutability"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeKey(tt.in))
	}
}

func TestNormalizeCoercesShapesButKeepsKeys(t *testing.T) {
	assert := assert.New(t)

	got := Normalize(map[string]any{
		"launchTemplate": map[any]any{
			"Id": "lt-0123",
		},
		"vpcZoneIdentifier": []string{"subnet-1"},
		"tag": []map[string]any{
			{"Key": "env"},
		},
		"tags": map[string]any{
			"CostCenter": "123",
		},
	})

	// key spelling survives at every level; only key and slice types change
	assert.Equal(map[string]any{
		"launchTemplate": map[string]any{
			"Id": "lt-0123",
		},
		"vpcZoneIdentifier": []any{"subnet-1"},
		"tag": []any{
			map[string]any{"Key": "env"},
		},
		"tags": map[string]any{
			"CostCenter": "123",
		},
	}, got)
}

func TestNormalizeKeys(t *testing.T) {
	assert := assert.New(t)

	got := NormalizeKeys(map[string]any{
		"imageTagMutability": "IMMUTABLE",
		"tags": map[string]any{
			"CostCenter": "123",
		},
	})

	// one level of attribute names cased, values untouched
	assert.Equal(map[string]any{
		"image_tag_mutability": "IMMUTABLE",
		"tags": map[string]any{
			"CostCenter": "123",
		},
	}, got)
}

func TestNormalizeScalarsPassThrough(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(3, Normalize(3))
	assert.Equal("web", Normalize("web"))
	assert.Nil(Normalize(nil))
}
