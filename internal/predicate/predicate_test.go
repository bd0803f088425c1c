package predicate

import "testing"

type intScalar int

func (i intScalar) String() string { return "n" }
func (i intScalar) EqualsScalar(other Scalar) bool {
	o, ok := other.(intScalar)
	return ok && i == o
}

func TestNormalizationLaws(t *testing.T) {
	eqX1 := NewAtom(Eq, "x", intScalar(1))
	geX1 := NewAtom(Ge, "x", intScalar(1))

	if got := MakeAnd(eqX1, Value{B: true}); !StructurallyEqual(got, eqX1) {
		t.Errorf("And(p, TRUE) = %s, want %s", got, eqX1)
	}
	if got := MakeAnd(eqX1, Value{B: false}); !StructurallyEqual(got, Value{B: false}) {
		t.Errorf("And(p, FALSE) = %s, want FALSE", got)
	}
	if got := MakeOr(eqX1, Value{B: false}); !StructurallyEqual(got, eqX1) {
		t.Errorf("Or(p, FALSE) = %s, want %s", got, eqX1)
	}
	if got := MakeOr(eqX1, Value{B: true}); !StructurallyEqual(got, Value{B: true}) {
		t.Errorf("Or(p, TRUE) = %s, want TRUE", got)
	}
	if got := MakeNot(MakeNot(eqX1)); !StructurallyEqual(got, eqX1) {
		t.Errorf("Not(Not(p)) = %s, want %s", got, eqX1)
	}
	if got := Invert(eqX1); !StructurallyEqual(got, NewAtom(Ne, "x", intScalar(1))) {
		t.Errorf("invert(Eq) = %s, want Ne", got)
	}
	wantLt := MakeAnd(NewAtom(Le, "x", intScalar(1)), NewAtom(Ne, "x", intScalar(1)))
	if got := Invert(geX1); !StructurallyEqual(got, wantLt) {
		t.Errorf("invert(Ge) = %s, want Lt (And(Le,Ne)) = %s", got, wantLt)
	}
	if got := MakeOr(eqX1, geX1); !StructurallyEqual(got, geX1) {
		t.Errorf("Eq(x,1) or Ge(x,1) = %s, want Ge(x,1)", got)
	}
}

func TestAndDuplicateCollapse(t *testing.T) {
	eqX1 := NewAtom(Eq, "x", intScalar(1))
	if got := MakeAnd(eqX1, eqX1); !StructurallyEqual(got, eqX1) {
		t.Errorf("And(p, p) = %s, want %s", got, eqX1)
	}
}

func TestSubjectCoherence(t *testing.T) {
	eqX1 := NewAtom(Eq, "x", intScalar(1))
	geX2 := NewAtom(Ge, "x", intScalar(2))
	p := MakeAnd(eqX1, geX2)
	name, ok := Subject(p)
	if !ok || name != "x" {
		t.Errorf("Subject() = (%q, %v), want (\"x\", true)", name, ok)
	}
}

func TestChangeSubjectNameReNormalizes(t *testing.T) {
	eqX1 := NewAtom(Eq, "x", intScalar(1))
	renamed := ChangeSubjectName(eqX1, "y")
	if !Mentions(renamed, "y") || Mentions(renamed, "x") {
		t.Errorf("ChangeSubjectName did not fully rewrite subject: %s", renamed)
	}
	// Renaming twice to the same target must not duplicate atoms under ands().
	twice := ChangeSubjectName(renamed, "y")
	if len(Ands(twice)) != 1 {
		t.Errorf("ands() after repeated rename = %d conjuncts, want 1", len(Ands(twice)))
	}
}

func TestStructuralEqualityIsMultiset(t *testing.T) {
	a := NewAtom(Eq, "x", intScalar(1))
	b := NewAtom(Ge, "x", intScalar(2))
	p1 := MakeAnd(a, b)
	p2 := And{L: b, R: a} // built directly, reversed order, bypassing MakeAnd
	if !StructurallyEqual(p1, p2) {
		t.Errorf("StructurallyEqual should be order-independent over conjuncts: %s vs %s", p1, p2)
	}
}
