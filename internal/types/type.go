// Package types implements the type-term data model of spec.md §3/§4.1:
// the closed `Type` sum, free type variables with constraints, the
// `TyParam` sum, and the runtime-usable-at-compile-time `Value` sum.
//
// Grounded on erg_lang/erg's erg_type/free.rs (free variables) and
// crates/erg_compiler/ty/constructors.rs (type term shapes), styled after
// ailang's internal/types/types_v2.go (a tagged-union-via-interface Type
// with per-variant String/Equals/Substitute).
package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sunholo/ergo/internal/predicate"
)

// T is the closed sum of type terms (spec.md §3). String and Equals are
// per-variant methods; traversals across variants (FreeVarsOf,
// UpdateLevelInTerm) are package-level functions that dispatch by type
// switch rather than by methods on an open trait, so that adding a variant
// forces each such traversal to be updated (spec.md §9 design note).
type T interface {
	String() string
	// Equals is a shallow structural comparison that follows free-variable
	// links. It does not normalize (eval_t does that); use the evaluator
	// first when comparing possibly-unreduced terms.
	Equals(other T) bool
	isType()
}

// ---- Primitive singletons ----

// Primitive is any of the nullary named base types (Obj, Never, Type, ...).
type Primitive struct{ Name string }

func (Primitive) isType()           {}
func (p Primitive) String() string  { return p.Name }
func (p Primitive) Equals(o T) bool { other, ok := o.(Primitive); return ok && p.Name == other.Name }

var (
	ObjT                = Primitive{Name: "Obj"}
	NeverT              = Primitive{Name: "Never"}
	TypeT               = Primitive{Name: "Type"}
	ClassTypeT          = Primitive{Name: "ClassType"}
	TraitTypeT          = Primitive{Name: "TraitType"}
	NoneTypeT           = Primitive{Name: "NoneType"}
	EllipsisT           = Primitive{Name: "Ellipsis"}
	NotImplementedTypeT = Primitive{Name: "NotImplementedType"}
	CodeT               = Primitive{Name: "Code"}
	InfT                = Primitive{Name: "Inf"}
	NegInfT             = Primitive{Name: "NegInf"}
)

// ---- Nominal types ----

// Mono is a monomorphic nominal type, e.g. Int.
type Mono struct{ Name string }

func (Mono) isType()          {}
func (m Mono) String() string { return m.Name }
func (m Mono) Equals(o T) bool {
	other, ok := o.(Mono)
	return ok && m.Name == other.Name
}

// Poly is a polymorphic nominal type, e.g. Array(Int, 3).
type Poly struct {
	Name   string
	Params []TyParam
}

func (Poly) isType() {}
func (p Poly) String() string {
	parts := make([]string, len(p.Params))
	for i, a := range p.Params {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", p.Name, strings.Join(parts, ", "))
}
func (p Poly) Equals(o T) bool {
	other, ok := o.(Poly)
	if !ok || p.Name != other.Name || len(p.Params) != len(other.Params) {
		return false
	}
	for i := range p.Params {
		if !p.Params[i].Equals(other.Params[i]) {
			return false
		}
	}
	return true
}

// ---- Free variable ----

// FreeVar wraps a shared *Free handle as a type term.
type FreeVar struct{ Var *Free }

func (FreeVar) isType() {}
func (f FreeVar) String() string {
	return f.Var.String()
}
func (f FreeVar) Equals(o T) bool {
	// Follow links on both sides; unbound variables compare by handle
	// identity (spec.md §4.1).
	if resolved, ok := f.Var.Resolve(); ok {
		if t, ok := resolved.(T); ok {
			return t.Equals(o)
		}
	}
	other, ok := o.(FreeVar)
	if !ok {
		return false
	}
	if resolved, ok := other.Var.Resolve(); ok {
		if t, ok := resolved.(T); ok {
			return f.Equals(t)
		}
	}
	return f.Var.IdentityEqual(other.Var)
}

// ---- Subroutine ----

type SubrKind int

const (
	KindFunc SubrKind = iota
	KindProc
)

func (k SubrKind) String() string {
	if k == KindProc {
		return "Proc"
	}
	return "Func"
}

// ParamTy is one formal parameter's type, with optional name and default.
type ParamTy struct {
	Name       *string
	Ty         T
	HasDefault bool
}

func (p ParamTy) String() string {
	s := p.Ty.String()
	if p.Name != nil {
		s = *p.Name + ": " + s
	}
	if p.HasDefault {
		s += " := _"
	}
	return s
}

func (p ParamTy) Equals(o ParamTy) bool {
	if p.HasDefault != o.HasDefault {
		return false
	}
	if (p.Name == nil) != (o.Name == nil) {
		return false
	}
	if p.Name != nil && *p.Name != *o.Name {
		return false
	}
	return p.Ty.Equals(o.Ty)
}

// Subr is a function/procedure type.
type Subr struct {
	Kind       SubrKind
	NonDefault []ParamTy
	Var        *ParamTy // variadic parameter, if any
	Default    []ParamTy
	Ret        T
}

func (Subr) isType() {}
func (s Subr) String() string {
	parts := make([]string, 0, len(s.NonDefault)+len(s.Default)+1)
	for _, p := range s.NonDefault {
		parts = append(parts, p.String())
	}
	if s.Var != nil {
		parts = append(parts, "*"+s.Var.String())
	}
	for _, p := range s.Default {
		parts = append(parts, p.String())
	}
	arrow := "->"
	if s.Kind == KindProc {
		arrow = "=>"
	}
	return fmt.Sprintf("(%s) %s %s", strings.Join(parts, ", "), arrow, s.Ret.String())
}
func (s Subr) Equals(o T) bool {
	other, ok := o.(Subr)
	if !ok || s.Kind != other.Kind {
		return false
	}
	if len(s.NonDefault) != len(other.NonDefault) || len(s.Default) != len(other.Default) {
		return false
	}
	for i := range s.NonDefault {
		if !s.NonDefault[i].Equals(other.NonDefault[i]) {
			return false
		}
	}
	for i := range s.Default {
		if !s.Default[i].Equals(other.Default[i]) {
			return false
		}
	}
	if (s.Var == nil) != (other.Var == nil) {
		return false
	}
	if s.Var != nil && !s.Var.Equals(*other.Var) {
		return false
	}
	return s.Ret.Equals(other.Ret)
}

// ---- References ----

// Ref is an immutable reference type.
type Ref struct{ Inner T }

func (Ref) isType()          {}
func (r Ref) String() string { return "Ref(" + r.Inner.String() + ")" }
func (r Ref) Equals(o T) bool {
	other, ok := o.(Ref)
	return ok && r.Inner.Equals(other.Inner)
}

// RefMut is a mutable reference type, tracking the type before and
// (optionally, once known) after a mutation.
type RefMut struct {
	Before T
	After  *T
}

func (RefMut) isType() {}
func (r RefMut) String() string {
	if r.After != nil {
		return fmt.Sprintf("RefMut(%s -> %s)", r.Before.String(), (*r.After).String())
	}
	return fmt.Sprintf("RefMut(%s)", r.Before.String())
}
func (r RefMut) Equals(o T) bool {
	other, ok := o.(RefMut)
	if !ok || !r.Before.Equals(other.Before) {
		return false
	}
	if (r.After == nil) != (other.After == nil) {
		return false
	}
	if r.After != nil && !(*r.After).Equals(*other.After) {
		return false
	}
	return true
}

// ---- Refinement ----

// Refinement is `{var_name: base | pred}`. var_name is bound by the
// refinement and must not escape it (invariant 4).
type Refinement struct {
	VarName string
	Base    T
	Pred    predicate.Predicate
}

func (Refinement) isType() {}
func (r Refinement) String() string {
	return fmt.Sprintf("{%s: %s | %s}", r.VarName, r.Base.String(), r.Pred.String())
}
func (r Refinement) Equals(o T) bool {
	other, ok := o.(Refinement)
	return ok && r.VarName == other.VarName && r.Base.Equals(other.Base) && r.Pred.String() == other.Pred.String()
}

// ---- Quantified ----

// TyBound is a quantifier bound: either an explicit sandwich triple, or a
// direct reference to a variable's own constraint (spec.md §3).
type TyBound struct {
	Name string
	Sub  T
	Sup  T
	// Direct, when non-nil, means this bound is the named variable's own
	// constraint rather than an explicit Sub/Sup sandwich.
	Direct *Free
}

func (b TyBound) String() string {
	if b.Direct != nil {
		return fmt.Sprintf("%s: %s", b.Name, b.Direct.CrackConstraint())
	}
	return fmt.Sprintf("%s <: %s <: %s", orNever(b.Sub), b.Name, orObj(b.Sup))
}

func orNever(t T) string {
	if t == nil {
		return NeverT.String()
	}
	return t.String()
}
func orObj(t T) string {
	if t == nil {
		return ObjT.String()
	}
	return t.String()
}

// Quantified is a universally bound type, `∀ bounds. inner`.
type Quantified struct {
	Inner  T
	Bounds []TyBound
}

func (Quantified) isType() {}
func (q Quantified) String() string {
	names := make([]string, len(q.Bounds))
	for i, b := range q.Bounds {
		names[i] = b.String()
	}
	return fmt.Sprintf("forall %s. %s", strings.Join(names, ", "), q.Inner.String())
}
func (q Quantified) Equals(o T) bool {
	other, ok := o.(Quantified)
	if !ok || len(q.Bounds) != len(other.Bounds) {
		return false
	}
	return q.Inner.Equals(other.Inner)
}

// ---- Algebraic ----

type And struct{ L, R T }

func (And) isType()          {}
func (a And) String() string { return fmt.Sprintf("(%s and %s)", a.L, a.R) }
func (a And) Equals(o T) bool {
	other, ok := o.(And)
	return ok && a.L.Equals(other.L) && a.R.Equals(other.R)
}

type Or struct{ L, R T }

func (Or) isType()          {}
func (o Or) String() string { return fmt.Sprintf("(%s or %s)", o.L, o.R) }
func (o Or) Equals(other T) bool {
	x, ok := other.(Or)
	return ok && o.L.Equals(x.L) && o.R.Equals(x.R)
}

type Not struct{ Inner T }

func (Not) isType()          {}
func (n Not) String() string { return "not " + n.Inner.String() }
func (n Not) Equals(o T) bool {
	other, ok := o.(Not)
	return ok && n.Inner.Equals(other.Inner)
}

// ---- Projections ----

// Proj is an associated-type access, T.Assoc.
type Proj struct {
	Lhs T
	Rhs string
}

func (Proj) isType()          {}
func (p Proj) String() string { return p.Lhs.String() + "." + p.Rhs }
func (p Proj) Equals(o T) bool {
	other, ok := o.(Proj)
	return ok && p.Lhs.Equals(other.Lhs) && p.Rhs == other.Rhs
}

// ProjCall is a method-call-shaped projection on a type parameter value,
// e.g. N.__add__(M).
type ProjCall struct {
	Lhs  TyParam
	Name string
	Args []TyParam
}

func (ProjCall) isType() {}
func (p ProjCall) String() string {
	parts := make([]string, len(p.Args))
	for i, a := range p.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s.%s(%s)", p.Lhs.String(), p.Name, strings.Join(parts, ", "))
}
func (p ProjCall) Equals(o T) bool {
	other, ok := o.(ProjCall)
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

// ---- Structural callable ----

// Callable is a purely structural function type (no parameter names,
// defaults, or effect tracking -- contrast with Subr).
type Callable struct {
	Params []T
	Ret    T
}

func (Callable) isType() {}
func (c Callable) String() string {
	parts := make([]string, len(c.Params))
	for i, p := range c.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), c.Ret.String())
}
func (c Callable) Equals(o T) bool {
	other, ok := o.(Callable)
	if !ok || len(c.Params) != len(other.Params) {
		return false
	}
	for i := range c.Params {
		if !c.Params[i].Equals(other.Params[i]) {
			return false
		}
	}
	return c.Ret.Equals(other.Ret)
}

// ---- Flow-sensitive narrowing ----

// Guard marks a flow-sensitively narrowed type for `target` within
// `namespace` (spec.md §3).
type Guard struct {
	Namespace string
	Target    string
	Narrowed  T
}

func (Guard) isType() {}
func (g Guard) String() string {
	return fmt.Sprintf("%s::%s!(%s)", g.Namespace, g.Target, g.Narrowed.String())
}
func (g Guard) Equals(o T) bool {
	other, ok := o.(Guard)
	return ok && g.Namespace == other.Namespace && g.Target == other.Target && g.Narrowed.Equals(other.Narrowed)
}

// ---- Bounded ----

// Bounded is a range of admissible instantiations, Sub..Sup.
type Bounded struct{ Sub, Sup T }

func (Bounded) isType() {}
func (b Bounded) String() string {
	return fmt.Sprintf("%s..%s", b.Sub.String(), b.Sup.String())
}
func (b Bounded) Equals(o T) bool {
	other, ok := o.(Bounded)
	return ok && b.Sub.Equals(other.Sub) && b.Sup.Equals(other.Sup)
}

// ---- Traversal helpers ----
//
// Per spec.md §9's design note, traversals live as free functions (one per
// traversal kind) rather than as methods on T, so adding a new variant to
// the sum forces every traversal switch to be updated explicitly.

// FreeVarsOf collects every *Free reachable in t, in a deterministic
// (first-seen, then identity-sorted) order.
func FreeVarsOf(t T) []*Free {
	seen := map[*Free]bool{}
	var out []*Free
	var walk func(T)
	walk = func(x T) {
		switch v := x.(type) {
		case FreeVar:
			if !seen[v.Var] {
				seen[v.Var] = true
				out = append(out, v.Var)
			}
			if resolved, ok := v.Var.Resolve(); ok {
				if rt, ok := resolved.(T); ok {
					walk(rt)
				}
			}
		case Poly:
			for _, p := range v.Params {
				walkTP(p, seen, &out)
			}
		case Subr:
			for _, p := range v.NonDefault {
				walk(p.Ty)
			}
			if v.Var != nil {
				walk(v.Var.Ty)
			}
			for _, p := range v.Default {
				walk(p.Ty)
			}
			walk(v.Ret)
		case Ref:
			walk(v.Inner)
		case RefMut:
			walk(v.Before)
			if v.After != nil {
				walk(*v.After)
			}
		case Refinement:
			walk(v.Base)
		case Quantified:
			walk(v.Inner)
		case And:
			walk(v.L)
			walk(v.R)
		case Or:
			walk(v.L)
			walk(v.R)
		case Not:
			walk(v.Inner)
		case Proj:
			walk(v.Lhs)
		case ProjCall:
			walkTP(v.Lhs, seen, &out)
			for _, a := range v.Args {
				walkTP(a, seen, &out)
			}
		case Callable:
			for _, p := range v.Params {
				walk(p)
			}
			walk(v.Ret)
		case Guard:
			walk(v.Narrowed)
		case Bounded:
			walk(v.Sub)
			walk(v.Sup)
		}
	}
	walk(t)
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func walkTP(p TyParam, seen map[*Free]bool, out *[]*Free) {
	for _, fv := range FreeVarsOfTyParam(p) {
		if !seen[fv] {
			seen[fv] = true
			*out = append(*out, fv)
		}
	}
}

// UpdateLevelInTerm walks t and calls UpdateLevel(lev) on every free
// variable it reaches (used when a linked variable's payload itself
// contains free variables -- spec.md §4.1's "linked variables forward the
// call to their payload").
func UpdateLevelInTerm(t T, lev uint32) {
	for _, fv := range FreeVarsOf(t) {
		fv.UpdateLevel(lev)
	}
}
