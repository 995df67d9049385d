package jsoneq

import "testing"

func TestIsSubset(t *testing.T) {
	target := map[string]any{
		"plugins": map[string]any{
			"demo": map[string]any{
				"enabled": true,
				"level":   "strict",
			},
		},
	}

	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{
			name:  "single key subset",
			value: map[string]any{"plugins": map[string]any{"demo": map[string]any{"enabled": true}}},
			want:  true,
		},
		{
			name:  "mismatched value",
			value: map[string]any{"plugins": map[string]any{"demo": map[string]any{"enabled": false}}},
			want:  false,
		},
		{
			name:  "unknown key",
			value: map[string]any{"other": true},
			want:  false,
		},
		{
			name:  "non-object against object target",
			value: "strict",
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSubset(tt.value, target); got != tt.want {
				t.Errorf("IsSubset(%#v, target) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}

	if !IsSubset("strict", "strict") {
		t.Error("equal non-object values should be a subset")
	}
}

func TestDeepMerge(t *testing.T) {
	base := map[string]any{
		"a": map[string]any{"x": 1, "y": 2},
		"b": "keep",
	}
	incoming := map[string]any{
		"a": map[string]any{"y": 20, "z": 3},
		"c": "new",
	}

	got := DeepMerge(base, incoming)

	want := map[string]any{
		"a": map[string]any{"x": 1, "y": 20, "z": 3},
		"b": "keep",
		"c": "new",
	}
	if !Equal(got, want) {
		t.Errorf("DeepMerge = %#v, want %#v", got, want)
	}
}

func TestShallowMerge(t *testing.T) {
	base := map[string]any{
		"a": map[string]any{"x": 1},
		"b": "keep",
	}
	incoming := map[string]any{
		"a": map[string]any{"y": 2},
	}

	got := ShallowMerge(base, incoming)

	want := map[string]any{
		"a": map[string]any{"y": 2},
		"b": "keep",
	}
	if !Equal(got, want) {
		t.Errorf("ShallowMerge = %#v, want %#v", got, want)
	}
}
