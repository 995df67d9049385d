package hash

import "testing"

func TestSumIsDeterministic(t *testing.T) {
	a := Sum([]byte("hello world"))
	b := Sum([]byte("hello world"))
	if a != b {
		t.Errorf("Sum inconsistent: got %s and %s", a, b)
	}
}

func TestSumDiffersOnContent(t *testing.T) {
	a := Sum([]byte("content A"))
	b := Sum([]byte("content B"))
	if a == b {
		t.Error("different content produced the same hash")
	}
}

func TestSumOfEmpty(t *testing.T) {
	got := Sum([]byte{})
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got != want {
		t.Errorf("empty input hash = %s, want %s", got, want)
	}
}
