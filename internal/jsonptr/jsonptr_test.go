package jsonptr

import (
	"reflect"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		pointer string
		want    []string
	}{
		{name: "empty is root", pointer: "", want: nil},
		{name: "slash is root", pointer: "/", want: nil},
		{name: "single segment", pointer: "/plugins", want: []string{"plugins"}},
		{name: "nested", pointer: "/plugins/demo/enabled", want: []string{"plugins", "demo", "enabled"}},
		{name: "escaped tilde", pointer: "/a~0b", want: []string{"a~b"}},
		{name: "escaped slash", pointer: "/a~1b", want: []string{"a/b"}},
		{name: "tilde before slash escape order", pointer: "/m~01", want: []string{"m~1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(tt.pointer)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode(%q) = %#v, want %#v", tt.pointer, got, tt.want)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	pointers := []string{
		"/plugins/demo/enabled",
		"/a~0b",
		"/a~1b",
		"/m~01",
		"/single",
	}
	for _, p := range pointers {
		t.Run(p, func(t *testing.T) {
			tokens := Decode(p)
			if got := Encode(tokens); got != p {
				t.Errorf("Encode(Decode(%q)) = %q, want %q", p, got, p)
			}
		})
	}
}

func TestIsRoot(t *testing.T) {
	if !IsRoot("") || !IsRoot("/") {
		t.Error("expected empty and slash pointers to be root")
	}
	if IsRoot("/a") {
		t.Error("expected /a not to be root")
	}
}

func TestGet(t *testing.T) {
	doc := map[string]any{
		"plugins": map[string]any{
			"demo": map[string]any{
				"enabled": true,
				"level":   "strict",
			},
		},
		"list": []any{"a", "b", "c"},
	}

	tests := []struct {
		name    string
		pointer string
		want    any
		wantOK  bool
	}{
		{name: "root", pointer: "", want: doc, wantOK: true},
		{name: "nested object", pointer: "/plugins/demo/enabled", want: true, wantOK: true},
		{name: "array index", pointer: "/list/1", want: "b", wantOK: true},
		{name: "missing key", pointer: "/plugins/other", want: nil, wantOK: false},
		{name: "out of range index", pointer: "/list/9", want: nil, wantOK: false},
		{name: "through scalar", pointer: "/plugins/demo/enabled/x", want: nil, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Get(doc, tt.pointer)
			if ok != tt.wantOK {
				t.Fatalf("Get(%q) ok = %v, want %v", tt.pointer, ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Get(%q) = %#v, want %#v", tt.pointer, got, tt.want)
			}
		})
	}
}

func TestSet(t *testing.T) {
	t.Run("creates intermediate objects", func(t *testing.T) {
		doc := map[string]any{}
		Set(doc, "/plugins/demo/enabled", true)

		got, ok := Get(doc, "/plugins/demo/enabled")
		if !ok || got != true {
			t.Fatalf("Get after Set = %#v, %v", got, ok)
		}
	})

	t.Run("overwrites existing value", func(t *testing.T) {
		doc := map[string]any{"a": "old"}
		Set(doc, "/a", "new")
		if doc["a"] != "new" {
			t.Errorf("a = %v, want new", doc["a"])
		}
	})

	t.Run("root pointer is a no-op", func(t *testing.T) {
		doc := map[string]any{"a": "keep"}
		Set(doc, "/", "replaced")
		Set(doc, "", "replaced")
		if doc["a"] != "keep" {
			t.Errorf("root set mutated document: %#v", doc)
		}
	})
}

func TestUnset(t *testing.T) {
	t.Run("removes existing key", func(t *testing.T) {
		doc := map[string]any{"a": "value"}
		Unset(doc, "/a")
		if _, ok := doc["a"]; ok {
			t.Error("expected key a to be removed")
		}
	})

	t.Run("missing key is a no-op", func(t *testing.T) {
		doc := map[string]any{"a": "value"}
		Unset(doc, "/b")
		if len(doc) != 1 {
			t.Errorf("expected doc unchanged, got %#v", doc)
		}
	})

	t.Run("root pointer is a no-op", func(t *testing.T) {
		doc := map[string]any{"a": "keep"}
		Unset(doc, "/")
		if doc["a"] != "keep" {
			t.Errorf("root unset mutated document: %#v", doc)
		}
	})
}
