package types

import (
	"fmt"
	"strings"

	"github.com/sunholo/ergo/internal/predicate"
)

// TyParam is the closed sum of type-parameter terms from spec.md §3: the
// arguments that appear inside Poly/ProjCall, and the scalars that appear
// on the right-hand side of a refinement atom. It implements
// predicate.Scalar so it can stand directly as an Atom's Rhs.
//
// Grounded on erg_lang/erg's ty/value.rs TyParam enum; styled after this
// corpus's habit (internal/types/types_v2.go in the teacher) of a closed
// interface sum dispatched by type switch.
type TyParam interface {
	String() string
	EqualsScalar(other predicate.Scalar) bool
	Equals(other TyParam) bool
	isTyParam()
}

// TPType wraps a full type term as a type parameter (e.g. the `T` in
// `Array(T, 3)`).
type TPType struct{ Ty T }

func (TPType) isTyParam()          {}
func (p TPType) String() string    { return p.Ty.String() }
func (p TPType) Equals(o TyParam) bool {
	other, ok := o.(TPType)
	return ok && p.Ty.Equals(other.Ty)
}
func (p TPType) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(TPType)
	return ok && p.Ty.Equals(other.Ty)
}

// TPValue wraps a compile-time Value as a type parameter (e.g. the `3` in
// `Array(Int, 3)`).
type TPValue struct{ V Value }

func (TPValue) isTyParam()       {}
func (p TPValue) String() string { return p.V.String() }
func (p TPValue) Equals(o TyParam) bool {
	other, ok := o.(TPValue)
	return ok && p.V.EqualsValue(other.V)
}
func (p TPValue) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(TPValue)
	return ok && p.V.EqualsValue(other.V)
}

// TPMono is a bare identifier type parameter, e.g. a const generic's name
// used unevaluated.
type TPMono struct{ Name string }

func (TPMono) isTyParam()       {}
func (p TPMono) String() string { return p.Name }
func (p TPMono) Equals(o TyParam) bool {
	other, ok := o.(TPMono)
	return ok && p.Name == other.Name
}
func (p TPMono) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(TPMono)
	return ok && p.Name == other.Name
}

// TPApp is an unevaluated application of a named const function/operator to
// type-parameter arguments, e.g. `Sub(N, 1)`. Reduced to normal form by
// internal/tyeval.
type TPApp struct {
	Name string
	Args []TyParam
}

func (TPApp) isTyParam() {}
func (p TPApp) String() string {
	parts := make([]string, len(p.Args))
	for i, a := range p.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", p.Name, strings.Join(parts, ", "))
}
func (p TPApp) Equals(o TyParam) bool {
	other, ok := o.(TPApp)
	if !ok || p.Name != other.Name || len(p.Args) != len(other.Args) {
		return false
	}
	for i := range p.Args {
		if !p.Args[i].Equals(other.Args[i]) {
			return false
		}
	}
	return true
}
func (p TPApp) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(TPApp)
	return ok && p.Equals(other)
}

// BinOp is the operator tag for a TPBinOp node.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
)

func (o BinOp) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpFloorDiv:
		return "//"
	case OpMod:
		return "%"
	case OpPow:
		return "**"
	default:
		return "?"
	}
}

// TPBinOp is an unevaluated binary arithmetic term over type parameters,
// e.g. `N + 1`.
type TPBinOp struct {
	Op       BinOp
	Lhs, Rhs TyParam
}

func (TPBinOp) isTyParam() {}
func (p TPBinOp) String() string {
	return fmt.Sprintf("(%s %s %s)", p.Lhs, p.Op, p.Rhs)
}
func (p TPBinOp) Equals(o TyParam) bool {
	other, ok := o.(TPBinOp)
	return ok && p.Op == other.Op && p.Lhs.Equals(other.Lhs) && p.Rhs.Equals(other.Rhs)
}
func (p TPBinOp) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(TPBinOp)
	return ok && p.Equals(other)
}

// UnaryOp is the operator tag for a TPUnaryOp node.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpInv // boolean/bitwise invert
)

func (o UnaryOp) String() string {
	if o == OpInv {
		return "!"
	}
	return "-"
}

// TPUnaryOp is an unevaluated unary term over a type parameter.
type TPUnaryOp struct {
	Op  UnaryOp
	Val TyParam
}

func (TPUnaryOp) isTyParam()       {}
func (p TPUnaryOp) String() string { return fmt.Sprintf("%s%s", p.Op, p.Val) }
func (p TPUnaryOp) Equals(o TyParam) bool {
	other, ok := o.(TPUnaryOp)
	return ok && p.Op == other.Op && p.Val.Equals(other.Val)
}
func (p TPUnaryOp) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(TPUnaryOp)
	return ok && p.Equals(other)
}

// TPList is a fixed-length list of type parameters, e.g. a tuple shape
// argument.
type TPList struct{ Elems []TyParam }

func (TPList) isTyParam() {}
func (p TPList) String() string {
	parts := make([]string, len(p.Elems))
	for i, e := range p.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (p TPList) Equals(o TyParam) bool {
	other, ok := o.(TPList)
	if !ok || len(p.Elems) != len(other.Elems) {
		return false
	}
	for i := range p.Elems {
		if !p.Elems[i].Equals(other.Elems[i]) {
			return false
		}
	}
	return true
}
func (p TPList) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(TPList)
	return ok && p.Equals(other)
}

// TPTuple mirrors TPList for tuple-shaped type-parameter groups.
type TPTuple struct{ Elems []TyParam }

func (TPTuple) isTyParam() {}
func (p TPTuple) String() string {
	parts := make([]string, len(p.Elems))
	for i, e := range p.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (p TPTuple) Equals(o TyParam) bool {
	other, ok := o.(TPTuple)
	if !ok || len(p.Elems) != len(other.Elems) {
		return false
	}
	for i := range p.Elems {
		if !p.Elems[i].Equals(other.Elems[i]) {
			return false
		}
	}
	return true
}
func (p TPTuple) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(TPTuple)
	return ok && p.Equals(other)
}

// TPDictEntry is one key/value pair of a TPDict.
type TPDictEntry struct{ Key, Val TyParam }

// TPDict is a dict-shaped group of type parameters.
type TPDict struct{ Entries []TPDictEntry }

func (TPDict) isTyParam() {}
func (p TPDict) String() string {
	parts := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		parts[i] = e.Key.String() + ": " + e.Val.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (p TPDict) Equals(o TyParam) bool {
	other, ok := o.(TPDict)
	if !ok || len(p.Entries) != len(other.Entries) {
		return false
	}
	for i, e := range p.Entries {
		if !e.Key.Equals(other.Entries[i].Key) || !e.Val.Equals(other.Entries[i].Val) {
			return false
		}
	}
	return true
}
func (p TPDict) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(TPDict)
	return ok && p.Equals(other)
}

// TPSet is a set-shaped group of type parameters (order-insensitive).
type TPSet struct{ Elems []TyParam }

func (TPSet) isTyParam() {}
func (p TPSet) String() string {
	parts := make([]string, len(p.Elems))
	for i, e := range p.Elems {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (p TPSet) Equals(o TyParam) bool {
	other, ok := o.(TPSet)
	if !ok || len(p.Elems) != len(other.Elems) {
		return false
	}
	used := make([]bool, len(other.Elems))
outer:
	for _, e := range p.Elems {
		for j, oe := range other.Elems {
			if used[j] {
				continue
			}
			if e.Equals(oe) {
				used[j] = true
				continue outer
			}
		}
		return false
	}
	return true
}
func (p TPSet) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(TPSet)
	return ok && p.Equals(other)
}

// TPErased marks a type parameter that was erased (not tracked) at this
// position, e.g. `Array(Int, _)`.
type TPErased struct{}

func (TPErased) isTyParam()                           {}
func (TPErased) String() string                       { return "_" }
func (TPErased) Equals(o TyParam) bool                { _, ok := o.(TPErased); return ok }
func (TPErased) EqualsScalar(o predicate.Scalar) bool { _, ok := o.(TPErased); return ok }

// TPFreeVar wraps a shared *Free handle as a type-parameter term (the
// const-generic analogue of types.FreeVar).
type TPFreeVar struct{ Var *Free }

func (TPFreeVar) isTyParam() {}
func (p TPFreeVar) String() string { return p.Var.String() }
func (p TPFreeVar) Equals(o TyParam) bool {
	if resolved, ok := p.Var.Resolve(); ok {
		if tp, ok := resolved.(TyParam); ok {
			return tp.Equals(o)
		}
	}
	other, ok := o.(TPFreeVar)
	if !ok {
		return false
	}
	if resolved, ok := other.Var.Resolve(); ok {
		if tp, ok := resolved.(TyParam); ok {
			return p.Equals(tp)
		}
	}
	return p.Var.IdentityEqual(other.Var)
}
func (p TPFreeVar) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(TyParam)
	return ok && p.Equals(other)
}

// TPProjCall mirrors types.ProjCall at the type-parameter level, used when
// a const-function call itself appears as an argument to another.
type TPProjCall struct {
	Lhs  TyParam
	Name string
	Args []TyParam
}

func (TPProjCall) isTyParam() {}
func (p TPProjCall) String() string {
	parts := make([]string, len(p.Args))
	for i, a := range p.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s.%s(%s)", p.Lhs.String(), p.Name, strings.Join(parts, ", "))
}
func (p TPProjCall) Equals(o TyParam) bool {
	other, ok := o.(TPProjCall)
	if !ok || p.Name != other.Name || len(p.Args) != len(other.Args) {
		return false
	}
	if !p.Lhs.Equals(other.Lhs) {
		return false
	}
	for i := range p.Args {
		if !p.Args[i].Equals(other.Args[i]) {
			return false
		}
	}
	return true
}
func (p TPProjCall) EqualsScalar(o predicate.Scalar) bool {
	other, ok := o.(TPProjCall)
	return ok && p.Equals(other)
}

// FreeVarsOfTyParam is TyParam's analogue of FreeVarsOf.
func FreeVarsOfTyParam(p TyParam) []*Free {
	var out []*Free
	switch x := p.(type) {
	case TPType:
		out = append(out, FreeVarsOf(x.Ty)...)
	case TPApp:
		for _, a := range x.Args {
			out = append(out, FreeVarsOfTyParam(a)...)
		}
	case TPBinOp:
		out = append(out, FreeVarsOfTyParam(x.Lhs)...)
		out = append(out, FreeVarsOfTyParam(x.Rhs)...)
	case TPUnaryOp:
		out = append(out, FreeVarsOfTyParam(x.Val)...)
	case TPList:
		for _, e := range x.Elems {
			out = append(out, FreeVarsOfTyParam(e)...)
		}
	case TPTuple:
		for _, e := range x.Elems {
			out = append(out, FreeVarsOfTyParam(e)...)
		}
	case TPSet:
		for _, e := range x.Elems {
			out = append(out, FreeVarsOfTyParam(e)...)
		}
	case TPDict:
		for _, e := range x.Entries {
			out = append(out, FreeVarsOfTyParam(e.Key)...)
			out = append(out, FreeVarsOfTyParam(e.Val)...)
		}
	case TPFreeVar:
		out = append(out, x.Var)
		if resolved, ok := x.Var.Resolve(); ok {
			if tp, ok := resolved.(TyParam); ok {
				out = append(out, FreeVarsOfTyParam(tp)...)
			}
		}
	case TPProjCall:
		out = append(out, FreeVarsOfTyParam(x.Lhs)...)
		for _, a := range x.Args {
			out = append(out, FreeVarsOfTyParam(a)...)
		}
	}
	return out
}

// UpdateLevelInTyParam is TyParam's analogue of UpdateLevelInTerm.
func UpdateLevelInTyParam(p TyParam, lev uint32) {
	for _, fv := range FreeVarsOfTyParam(p) {
		fv.UpdateLevel(lev)
	}
}
