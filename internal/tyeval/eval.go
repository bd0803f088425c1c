// Package tyeval reduces type terms and type parameters to normal form.
//
// Grounded on erg_lang/erg's src/erg_compiler/eval.rs (eval_t/eval_tp/eval_bin_tp),
// restructured in the teacher's (ailang) style of small, table-free,
// switch-dispatched reduction functions.
package tyeval

import (
	"math"
	"strings"

	"github.com/sunholo/ergo/internal/predicate"
	"github.com/sunholo/ergo/internal/types"
)

// Context supplies the lookups the evaluator needs but does not own: the
// associated-name table for Proj/ProjCall resolution. Callers supply an
// implementation; internal/symbols does not implement it, and the tests
// use stubs.
type Context interface {
	// LookupAssoc returns the most specific binding of name on the nominal
	// type base, if any is registered.
	LookupAssoc(base types.T, name string) (types.T, bool)
	// LookupMethodValue resolves name as a const method on a type-parameter
	// receiver, used by ProjCall.
	LookupMethodValue(recv types.TyParam, name string, args []types.TyParam) (types.TyParam, bool)
}

// EvalT reduces a type term to normal form (spec.md §4.3's eval_t).
func EvalT(t types.T, ctx Context, level uint32) types.T {
	switch x := t.(type) {
	case types.FreeVar:
		if resolved, ok := x.Var.Resolve(); ok {
			if rt, ok := resolved.(types.T); ok {
				return EvalT(rt, ctx, level)
			}
		}
		return x
	case types.Subr:
		nd := make([]types.ParamTy, len(x.NonDefault))
		for i, p := range x.NonDefault {
			nd[i] = types.ParamTy{Name: p.Name, Ty: EvalT(p.Ty, ctx, level), HasDefault: p.HasDefault}
		}
		def := make([]types.ParamTy, len(x.Default))
		for i, p := range x.Default {
			def[i] = types.ParamTy{Name: p.Name, Ty: EvalT(p.Ty, ctx, level), HasDefault: p.HasDefault}
		}
		var varParam *types.ParamTy
		if x.Var != nil {
			v := types.ParamTy{Name: x.Var.Name, Ty: EvalT(x.Var.Ty, ctx, level), HasDefault: x.Var.HasDefault}
			varParam = &v
		}
		return types.Subr{Kind: x.Kind, NonDefault: nd, Var: varParam, Default: def, Ret: EvalT(x.Ret, ctx, level)}
	case types.Ref:
		return types.Ref{Inner: EvalT(x.Inner, ctx, level)}
	case types.RefMut:
		before := EvalT(x.Before, ctx, level)
		if x.After == nil {
			return types.RefMut{Before: before}
		}
		after := EvalT(*x.After, ctx, level)
		return types.RefMut{Before: before, After: &after}
	case types.Refinement:
		return types.Refinement{
			VarName: x.VarName,
			Base:    EvalT(x.Base, ctx, level),
			Pred:    evalPred(x.Pred, ctx),
		}
	case types.Quantified:
		return types.Quantified{Inner: EvalT(x.Inner, ctx, level), Bounds: x.Bounds}
	case types.And:
		return reduceAnd(EvalT(x.L, ctx, level), EvalT(x.R, ctx, level))
	case types.Or:
		return reduceOr(EvalT(x.L, ctx, level), EvalT(x.R, ctx, level))
	case types.Not:
		inner := EvalT(x.Inner, ctx, level)
		if n, ok := inner.(types.Not); ok {
			return n.Inner
		}
		return types.Not{Inner: inner}
	case types.Proj:
		lhs := EvalT(x.Lhs, ctx, level)
		if _, isFree := lhs.(types.FreeVar); isFree {
			return types.Proj{Lhs: lhs, Rhs: x.Rhs}
		}
		if ctx != nil {
			if bound, ok := ctx.LookupAssoc(lhs, x.Rhs); ok {
				return bound
			}
		}
		return types.Proj{Lhs: lhs, Rhs: x.Rhs}
	case types.ProjCall:
		lhs := EvalTP(x.Lhs, ctx)
		args := make([]types.TyParam, len(x.Args))
		for i, a := range x.Args {
			args[i] = EvalTP(a, ctx)
		}
		if ctx != nil {
			if resolved, ok := ctx.LookupMethodValue(lhs, x.Name, args); ok {
				if tv, ok := resolved.(types.TPType); ok {
					return tv.Ty
				}
			}
		}
		return types.ProjCall{Lhs: lhs, Name: x.Name, Args: args}
	case types.Callable:
		params := make([]types.T, len(x.Params))
		for i, p := range x.Params {
			params[i] = EvalT(p, ctx, level)
		}
		return types.Callable{Params: params, Ret: EvalT(x.Ret, ctx, level)}
	case types.Guard:
		return types.Guard{Namespace: x.Namespace, Target: x.Target, Narrowed: EvalT(x.Narrowed, ctx, level)}
	case types.Bounded:
		return types.Bounded{Sub: EvalT(x.Sub, ctx, level), Sup: EvalT(x.Sup, ctx, level)}
	default:
		// Mono, Poly, Primitive: already in normal form (Poly's own
		// parameters are evaluated lazily via EvalTP at use sites, mirroring
		// eval_t's treatment of TyParam-bearing nominal types).
		return t
	}
}

// reduceAnd absorbs Obj/Never and idempotent operands per the lattice laws
// in spec.md §4.3.
func reduceAnd(l, r types.T) types.T {
	if isObj(l) {
		return r
	}
	if isObj(r) {
		return l
	}
	if isNever(l) || isNever(r) {
		return types.NeverT
	}
	if StructurallyEqualT(l, r) {
		return l
	}
	return types.And{L: l, R: r}
}

func reduceOr(l, r types.T) types.T {
	if isNever(l) {
		return r
	}
	if isNever(r) {
		return l
	}
	if isObj(l) || isObj(r) {
		return types.ObjT
	}
	if StructurallyEqualT(l, r) {
		return l
	}
	return types.Or{L: l, R: r}
}

func isObj(t types.T) bool   { p, ok := t.(types.Primitive); return ok && p.Name == types.ObjT.Name }
func isNever(t types.T) bool { p, ok := t.(types.Primitive); return ok && p.Name == types.NeverT.Name }

// StructurallyEqualT is the evaluator's coarser-than-Equals comparison,
// used to test the fixed-point property (spec.md §8 property 4): two
// reduced terms that print identically are treated as equal regardless of
// construction order.
func StructurallyEqualT(a, b types.T) bool {
	return a.Equals(b) || a.String() == b.String()
}

func evalPred(p predicate.Predicate, ctx Context) predicate.Predicate {
	switch x := p.(type) {
	case predicate.Atom:
		rhs := x.Rhs
		if tp, ok := rhs.(types.TyParam); ok {
			rhs = EvalTP(tp, ctx)
		}
		return predicate.NewAtom(x.Op, x.Lhs, rhs)
	case predicate.And:
		return predicate.MakeAnd(evalPred(x.L, ctx), evalPred(x.R, ctx))
	case predicate.Or:
		return predicate.MakeOr(evalPred(x.L, ctx), evalPred(x.R, ctx))
	case predicate.Not:
		return predicate.MakeNot(evalPred(x.P, ctx))
	default:
		return p
	}
}

// EvalTP reduces a type parameter to normal form (spec.md §4.3's eval_tp).
func EvalTP(p types.TyParam, ctx Context) types.TyParam {
	switch x := p.(type) {
	case types.TPFreeVar:
		if resolved, ok := x.Var.Resolve(); ok {
			if tp, ok := resolved.(types.TyParam); ok {
				return EvalTP(tp, ctx)
			}
		}
		return x
	case types.TPType:
		return types.TPType{Ty: EvalT(x.Ty, ctx, 0)}
	case types.TPBinOp:
		lhs := EvalTP(x.Lhs, ctx)
		rhs := EvalTP(x.Rhs, ctx)
		if result, ok := evalBinOpTP(x.Op, lhs, rhs); ok {
			return result
		}
		return types.TPBinOp{Op: x.Op, Lhs: lhs, Rhs: rhs}
	case types.TPUnaryOp:
		val := EvalTP(x.Val, ctx)
		if result, ok := evalUnaryOpTP(x.Op, val); ok {
			return result
		}
		return types.TPUnaryOp{Op: x.Op, Val: val}
	case types.TPApp:
		args := make([]types.TyParam, len(x.Args))
		for i, a := range x.Args {
			args[i] = EvalTP(a, ctx)
		}
		return types.TPApp{Name: x.Name, Args: args}
	case types.TPList:
		elems := make([]types.TyParam, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = EvalTP(e, ctx)
		}
		return types.TPList{Elems: elems}
	case types.TPTuple:
		elems := make([]types.TyParam, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = EvalTP(e, ctx)
		}
		return types.TPTuple{Elems: elems}
	case types.TPSet:
		elems := make([]types.TyParam, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = EvalTP(e, ctx)
		}
		return types.TPSet{Elems: elems}
	case types.TPDict:
		entries := make([]types.TPDictEntry, len(x.Entries))
		for i, e := range x.Entries {
			entries[i] = types.TPDictEntry{Key: EvalTP(e.Key, ctx), Val: EvalTP(e.Val, ctx)}
		}
		return types.TPDict{Entries: entries}
	case types.TPProjCall:
		lhs := EvalTP(x.Lhs, ctx)
		args := make([]types.TyParam, len(x.Args))
		for i, a := range x.Args {
			args[i] = EvalTP(a, ctx)
		}
		if ctx != nil {
			if resolved, ok := ctx.LookupMethodValue(lhs, x.Name, args); ok {
				return resolved
			}
		}
		return types.TPProjCall{Lhs: lhs, Name: x.Name, Args: args}
	default:
		return p
	}
}

// evalBinOpTP implements the numeric/string semantics of spec.md §4.3.
// Returns (_, false) when the operands are not both reduced to literal
// values, or when the operation is not representable (propagated as
// "cannot reduce further" rather than an error, per §4.3).
func evalBinOpTP(op types.BinOp, lhs, rhs types.TyParam) (types.TyParam, bool) {
	lv, lok := lhs.(types.TPValue)
	rv, rok := rhs.(types.TPValue)
	if !lok || !rok {
		return nil, false
	}

	if s1, ok := lv.V.(types.VStr); ok {
		switch op {
		case types.OpAdd:
			if s2, ok := rv.V.(types.VStr); ok {
				return types.TPValue{V: types.VStr{S: s1.S + s2.S}}, true
			}
		case types.OpMul:
			if n, ok := natOf(rv.V); ok {
				return types.TPValue{V: types.VStr{S: strings.Repeat(s1.S, int(n))}}, true
			}
		}
		return nil, false
	}

	lf, lIsFloat, lInf, lInfNeg := numOf(lv.V)
	rf, rIsFloat, rInf, rInfNeg := numOf(rv.V)
	if lInf || rInf {
		return evalInfOp(op, lInf, lInfNeg, rInf, rInfNeg, lf, rf)
	}
	useFloat := lIsFloat || rIsFloat
	switch op {
	case types.OpAdd:
		if useFloat {
			return floatResult(lf + rf), true
		}
		return intResult(lv.V, rv.V, func(a, b int64) int64 { return a + b }), true
	case types.OpSub:
		if useFloat {
			return floatResult(lf - rf), true
		}
		return intResult(lv.V, rv.V, func(a, b int64) int64 { return a - b }), true
	case types.OpMul:
		if useFloat {
			return floatResult(lf * rf), true
		}
		return intResult(lv.V, rv.V, func(a, b int64) int64 { return a * b }), true
	case types.OpDiv:
		if rf == 0 {
			return types.TPValue{V: types.VNone{}}, true
		}
		return floatResult(lf / rf), true
	case types.OpFloorDiv:
		if rf == 0 {
			return types.TPValue{V: types.VNone{}}, true
		}
		return intResult(lv.V, rv.V, func(a, b int64) int64 {
			q := a / b // Go integer division already truncates toward zero.
			return q
		}), true
	case types.OpMod:
		if rf == 0 {
			return types.TPValue{V: types.VNone{}}, true
		}
		return intResult(lv.V, rv.V, func(a, b int64) int64 { return a % b }), true
	case types.OpPow:
		return floatResult(math.Pow(lf, rf)), true
	}
	return nil, false
}

func evalInfOp(op types.BinOp, lInf, lNeg, rInf, rNeg bool, lf, rf float64) (types.TyParam, bool) {
	sign := func(neg bool) float64 {
		if neg {
			return -1
		}
		return 1
	}
	switch op {
	case types.OpAdd:
		if lInf && rInf && lNeg != rNeg {
			return types.TPValue{V: types.VNone{}}, true // Inf - Inf is undefined
		}
		if lInf {
			return types.TPValue{V: types.VInf{Neg: lNeg}}, true
		}
		return types.TPValue{V: types.VInf{Neg: rNeg}}, true
	case types.OpSub:
		return evalInfOp(types.OpAdd, lInf, lNeg, rInf, !rNeg, lf, rf)
	default:
		_ = sign
		return nil, false
	}
}

func natOf(v types.Value) (uint64, bool) {
	switch x := v.(type) {
	case types.VNat:
		return x.N, true
	case types.VInt:
		if x.I >= 0 {
			return uint64(x.I), true
		}
	}
	return 0, false
}

func numOf(v types.Value) (f float64, isFloat bool, isInf bool, infNeg bool) {
	switch x := v.(type) {
	case types.VInt:
		return float64(x.I), false, false, false
	case types.VNat:
		return float64(x.N), false, false, false
	case types.VFloat:
		return x.F, true, false, false
	case types.VInf:
		return 0, true, true, x.Neg
	}
	return 0, false, false, false
}

func floatResult(f float64) types.TyParam {
	return types.TPValue{V: types.VFloat{F: f}}
}

func intResult(lv, rv types.Value, op func(a, b int64) int64) types.TyParam {
	li, lIsNat := lv.(types.VNat)
	ri, rIsNat := rv.(types.VNat)
	a := asInt64(lv)
	b := asInt64(rv)
	r := op(a, b)
	if lIsNat && rIsNat && r >= 0 {
		_ = li
		_ = ri
		return types.TPValue{V: types.VNat{N: uint64(r)}}
	}
	return types.TPValue{V: types.VInt{I: r}}
}

func asInt64(v types.Value) int64 {
	switch x := v.(type) {
	case types.VInt:
		return x.I
	case types.VNat:
		return int64(x.N)
	}
	return 0
}

// evalUnaryOpTP implements negation/logical-invert over reduced literals.
func evalUnaryOpTP(op types.UnaryOp, val types.TyParam) (types.TyParam, bool) {
	v, ok := val.(types.TPValue)
	if !ok {
		return nil, false
	}
	switch op {
	case types.OpNeg:
		switch x := v.V.(type) {
		case types.VInt:
			return types.TPValue{V: types.VInt{I: -x.I}}, true
		case types.VFloat:
			return types.TPValue{V: types.VFloat{F: -x.F}}, true
		case types.VNat:
			return types.TPValue{V: types.VInt{I: -int64(x.N)}}, true
		}
	case types.OpInv:
		if b, ok := v.V.(types.VBool); ok {
			return types.TPValue{V: types.VBool{B: !b.B}}, true
		}
	}
	return nil, false
}
