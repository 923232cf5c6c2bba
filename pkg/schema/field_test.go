package schema

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldValidate(t *testing.T) {
	tests := []struct {
		name    string
		field   FieldSpec
		value   any
		want    any
		wantErr string
	}{
		{
			name:  "string passes",
			field: FieldSpec{Name: "name", Type: StringType, MaxLen: IntRef(10)},
			value: "web",
			want:  "web",
		},
		{
			name:    "string too long",
			field:   FieldSpec{Name: "name", Type: StringType, MaxLen: IntRef(3)},
			value:   "too-long",
			wantErr: `kind: invalid value for "name": cannot exceed 3 characters`,
		},
		{
			name: "pattern mismatch uses pattern name",
			field: FieldSpec{
				Name:        "image_id",
				Type:        StringType,
				Pattern:     regexp.MustCompile(`^ami-[0-9a-f]+$`),
				PatternName: "AMI ID",
			},
			value:   "vol-123",
			wantErr: `kind: invalid value for "image_id": Invalid AMI ID format: "vol-123"`,
		},
		{
			name: "pattern mismatch falls back to field name",
			field: FieldSpec{
				Name:    "zone_id",
				Type:    StringType,
				Pattern: regexp.MustCompile(`^Z[A-Z0-9]+$`),
			},
			value:   "bad",
			wantErr: `kind: invalid value for "zone_id": Invalid zone id format: "bad"`,
		},
		{
			name:  "int from float64",
			field: FieldSpec{Name: "count", Type: IntType},
			value: float64(3),
			want:  3,
		},
		{
			name:    "int rejects fraction",
			field:   FieldSpec{Name: "count", Type: IntType},
			value:   1.5,
			wantErr: `kind: invalid value for "count": expected integer value, got float64`,
		},
		{
			name:    "int below minimum",
			field:   FieldSpec{Name: "count", Type: IntType, Min: FloatRef(0)},
			value:   -1,
			wantErr: `kind: invalid value for "count": cannot be less than 0`,
		},
		{
			name:    "int outside range",
			field:   FieldSpec{Name: "timeout", Type: IntType, Min: FloatRef(50), Max: FloatRef(29000)},
			value:   30000,
			wantErr: `kind: invalid value for "timeout": must be between 50 and 29000, got 30000`,
		},
		{
			name:  "float passes",
			field: FieldSpec{Name: "ratio", Type: FloatType, Max: FloatRef(1)},
			value: 0.5,
			want:  0.5,
		},
		{
			name:    "float above maximum",
			field:   FieldSpec{Name: "ratio", Type: FloatType, Max: FloatRef(1)},
			value:   1.5,
			wantErr: `kind: invalid value for "ratio": cannot exceed 1`,
		},
		{
			name:  "list of strings",
			field: FieldSpec{Name: "subnets", Type: ListType, Elem: &FieldSpec{Type: StringType}},
			value: []any{"subnet-1", "subnet-2"},
			want:  []any{"subnet-1", "subnet-2"},
		},
		{
			name:    "list too short",
			field:   FieldSpec{Name: "subnets", Type: ListType, MinItems: IntRef(1)},
			value:   []any{},
			wantErr: `kind: invalid value for "subnets": must contain at least 1 items`,
		},
		{
			name:    "list element fails",
			field:   FieldSpec{Name: "subnets", Type: ListType, Elem: &FieldSpec{Type: StringType}},
			value:   []any{"subnet-1", 7},
			wantErr: `kind: invalid value for "subnets[1]": expected string value, got int`,
		},
		{
			name:  "map passes",
			field: FieldSpec{Name: "tags", Type: MapType},
			value: map[string]any{"env": "dev"},
			want:  map[string]any{"env": "dev"},
		},
		{
			name:    "map rejects scalar",
			field:   FieldSpec{Name: "tags", Type: MapType},
			value:   "env=dev",
			wantErr: `kind: invalid value for "tags": expected map value, got string`,
		},
		{
			name: "block validates nested fields",
			field: FieldSpec{
				Name: "monitoring",
				Type: BlockType,
				Fields: []FieldSpec{
					{Name: "enabled", Type: BoolType, Default: true},
				},
			},
			value: map[string]any{},
			want:  map[string]any{"enabled": true},
		},
		{
			name: "block surfaces nested violation",
			field: FieldSpec{
				Name: "monitoring",
				Type: BlockType,
				Fields: []FieldSpec{
					{Name: "enabled", Type: BoolType},
				},
			},
			value:   map[string]any{"enabled": "yes"},
			wantErr: `kind: invalid value for "enabled": expected bool value, got string`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			got, err := tt.field.validate("kind", tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.EqualError(err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(tt.want, got)
		})
	}
}
