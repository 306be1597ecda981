package filter

import (
	"reflect"
	"testing"
)

func TestApply(t *testing.T) {
	data := map[string]any{
		"detectors": []any{
			map[string]any{"id": "d1", "state": "trained"},
			map[string]any{"id": "d2", "state": "pending"},
		},
	}

	tests := []struct {
		name       string
		expression string
		want       any
		wantErr    bool
	}{
		{
			name:       "empty expression is identity",
			expression: "",
			want:       data,
		},
		{
			name:       "single value",
			expression: ".detectors[0].id",
			want:       "d1",
		},
		{
			name:       "multiple values collapse to slice",
			expression: ".detectors[].id",
			want:       []any{"d1", "d2"},
		},
		{
			name:       "select by field",
			expression: `.detectors[] | select(.state == "trained") | .id`,
			want:       "d1",
		},
		{
			name:       "invalid expression",
			expression: ".detectors[",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(data, tt.expression)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNormalizeExpression(t *testing.T) {
	if got := NormalizeExpression(`.state \!= "failed"`); got != `.state != "failed"` {
		t.Errorf("Expected unescaped expression, got %q", got)
	}
}
