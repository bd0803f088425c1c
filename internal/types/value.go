package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sunholo/ergo/internal/predicate"
)

// Value is the runtime-usable-at-compile-time value sum "V" from spec.md
// §3: integers, naturals, floats, strings, booleans, None, Ellipsis,
// lists/tuples/dicts/sets of values, code objects, generated type objects,
// and ±Inf.
type Value interface {
	String() string
	EqualsValue(other Value) bool
	// EqualsScalar lets a Value stand in directly as the right-hand side of
	// a predicate atom (predicate.Scalar), since refinement predicates
	// compare a refined variable against literal values.
	EqualsScalar(other predicate.Scalar) bool
	isValue()
}

// VInt is a signed integer literal.
type VInt struct{ I int64 }

func (VInt) isValue()             {}
func (v VInt) String() string     { return strconv.FormatInt(v.I, 10) }
func (v VInt) EqualsValue(o Value) bool {
	other, ok := o.(VInt)
	return ok && v.I == other.I
}
func (v VInt) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(VInt)
	return ok && v.I == other.I
}

// VNat is a non-negative integer literal (distinguished from VInt because
// the language's Nat type is a refinement of Int used pervasively for
// sizes/indices).
type VNat struct{ N uint64 }

func (VNat) isValue()         {}
func (v VNat) String() string { return strconv.FormatUint(v.N, 10) }
func (v VNat) EqualsValue(o Value) bool {
	other, ok := o.(VNat)
	return ok && v.N == other.N
}
func (v VNat) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(VNat)
	return ok && v.N == other.N
}

// VFloat is an IEEE-754 double literal.
type VFloat struct{ F float64 }

func (VFloat) isValue()         {}
func (v VFloat) String() string { return strconv.FormatFloat(v.F, 'g', -1, 64) }
func (v VFloat) EqualsValue(o Value) bool {
	other, ok := o.(VFloat)
	return ok && v.F == other.F
}
func (v VFloat) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(VFloat)
	return ok && v.F == other.F
}

// VStr is a string literal.
type VStr struct{ S string }

func (VStr) isValue()         {}
func (v VStr) String() string { return strconv.Quote(v.S) }
func (v VStr) EqualsValue(o Value) bool {
	other, ok := o.(VStr)
	return ok && v.S == other.S
}
func (v VStr) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(VStr)
	return ok && v.S == other.S
}

// VBool is a boolean literal.
type VBool struct{ B bool }

func (VBool) isValue()         {}
func (v VBool) String() string { return strconv.FormatBool(v.B) }
func (v VBool) EqualsValue(o Value) bool {
	other, ok := o.(VBool)
	return ok && v.B == other.B
}
func (v VBool) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(VBool)
	return ok && v.B == other.B
}

// VNone is the unit/none value.
type VNone struct{}

func (VNone) isValue()                                          {}
func (VNone) String() string                                    { return "None" }
func (VNone) EqualsValue(o Value) bool                          { _, ok := o.(VNone); return ok }
func (VNone) EqualsScalar(o predicate.Scalar) bool { _, ok := o.(VNone); return ok }

// VEllipsis is the `...` placeholder value.
type VEllipsis struct{}

func (VEllipsis) isValue()         {}
func (VEllipsis) String() string   { return "..." }
func (VEllipsis) EqualsValue(o Value) bool {
	_, ok := o.(VEllipsis)
	return ok
}
func (VEllipsis) EqualsScalar(o predicate.Scalar) bool {
	_, ok := o.(VEllipsis)
	return ok
}

// VInf is the extended-real ±∞ value.
type VInf struct{ Neg bool }

func (VInf) isValue() {}
func (v VInf) String() string {
	if v.Neg {
		return "-Inf"
	}
	return "Inf"
}
func (v VInf) EqualsValue(o Value) bool {
	other, ok := o.(VInf)
	return ok && v.Neg == other.Neg
}
func (v VInf) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(VInf)
	return ok && v.Neg == other.Neg
}

// VList is a compile-time list of values.
type VList struct{ Elems []Value }

func (VList) isValue() {}
func (v VList) String() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (v VList) EqualsValue(o Value) bool {
	other, ok := o.(VList)
	if !ok || len(v.Elems) != len(other.Elems) {
		return false
	}
	for i := range v.Elems {
		if !v.Elems[i].EqualsValue(other.Elems[i]) {
			return false
		}
	}
	return true
}
func (v VList) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(VList)
	return ok && v.EqualsValue(other)
}

// VTuple is a compile-time fixed-size tuple of values.
type VTuple struct{ Elems []Value }

func (VTuple) isValue() {}
func (v VTuple) String() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (v VTuple) EqualsValue(o Value) bool {
	other, ok := o.(VTuple)
	if !ok || len(v.Elems) != len(other.Elems) {
		return false
	}
	for i := range v.Elems {
		if !v.Elems[i].EqualsValue(other.Elems[i]) {
			return false
		}
	}
	return true
}
func (v VTuple) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(VTuple)
	return ok && v.EqualsValue(other)
}

// VDictEntry is one key/value pair of a VDict. Kept as an ordered slice
// (rather than a Go map) since Value is not a comparable Go type.
type VDictEntry struct{ Key, Val Value }

// VDict is a compile-time dictionary of values.
type VDict struct{ Entries []VDictEntry }

func (VDict) isValue() {}
func (v VDict) String() string {
	parts := make([]string, len(v.Entries))
	for i, e := range v.Entries {
		parts[i] = e.Key.String() + ": " + e.Val.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (v VDict) Get(key Value) (Value, bool) {
	for _, e := range v.Entries {
		if e.Key.EqualsValue(key) {
			return e.Val, true
		}
	}
	return nil, false
}
func (v VDict) EqualsValue(o Value) bool {
	other, ok := o.(VDict)
	if !ok || len(v.Entries) != len(other.Entries) {
		return false
	}
	for _, e := range v.Entries {
		ov, ok := other.Get(e.Key)
		if !ok || !ov.EqualsValue(e.Val) {
			return false
		}
	}
	return true
}
func (v VDict) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(VDict)
	return ok && v.EqualsValue(other)
}

// VSet is a compile-time set of values (order-insensitive equality).
type VSet struct{ Elems []Value }

func (VSet) isValue() {}
func (v VSet) String() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (v VSet) contains(e Value) bool {
	for _, x := range v.Elems {
		if x.EqualsValue(e) {
			return true
		}
	}
	return false
}
func (v VSet) EqualsValue(o Value) bool {
	other, ok := o.(VSet)
	if !ok || len(v.Elems) != len(other.Elems) {
		return false
	}
	for _, e := range v.Elems {
		if !other.contains(e) {
			return false
		}
	}
	return true
}
func (v VSet) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(VSet)
	return ok && v.EqualsValue(other)
}

// VCode is an opaque compiled code object reference (bytecode emission is
// out of scope; this is a compile-time handle only -- see SPEC_FULL.md §6).
type VCode struct{ Name string }

func (VCode) isValue()         {}
func (v VCode) String() string { return fmt.Sprintf("<code %s>", v.Name) }
func (v VCode) EqualsValue(o Value) bool {
	other, ok := o.(VCode)
	return ok && v.Name == other.Name
}
func (v VCode) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(VCode)
	return ok && v.Name == other.Name
}

// VType wraps a generated type object as a first-class value (the result
// of a compile-time const function such as Class/Trait -- see
// internal/constfunc).
type VType struct{ Ty T }

func (VType) isValue()         {}
func (v VType) String() string { return v.Ty.String() }
func (v VType) EqualsValue(o Value) bool {
	other, ok := o.(VType)
	return ok && v.Ty.Equals(other.Ty)
}
func (v VType) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(VType)
	return ok && v.Ty.Equals(other.Ty)
}
