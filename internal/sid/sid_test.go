package sid

import "testing"

func TestNewSIDStableAndDistinct(t *testing.T) {
	a := NewSID("foo/bar.ergo", 1, 5, "Bind", nil)
	b := NewSID("foo/bar.ergo", 1, 5, "Bind", nil)
	if a != b {
		t.Errorf("NewSID not stable across repeated calls: %s != %s", a, b)
	}

	c := NewSID("foo/bar.ergo", 1, 5, "Call", nil)
	if a == c {
		t.Error("expected different kinds to produce different SIDs")
	}

	d := NewSID("foo/bar.ergo", 1, 5, "Bind", []int{0, 1})
	if a == d {
		t.Error("expected a child path to change the SID")
	}
}
