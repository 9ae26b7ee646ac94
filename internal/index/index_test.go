package index

import "testing"

func TestInvalidIsZeroValue(t *testing.T) {
	var zero Index32
	if zero.IsValid() {
		t.Fatal("zero value should be invalid")
	}
	if Invalid.IsValid() {
		t.Fatal("Invalid should be invalid")
	}
}

func TestMake32RoundTrips(t *testing.T) {
	for _, v := range []uint32{0, 1, 42, 0xFFFFFFFF} {
		idx := Make32(v)
		if !idx.IsValid() {
			t.Fatalf("Make32(%d) should be valid", v)
		}
		if got := idx.GetIndex(); got != v {
			t.Fatalf("Make32(%d).GetIndex() = %d", v, got)
		}
	}
}
