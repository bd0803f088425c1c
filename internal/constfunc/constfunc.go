// Package constfunc implements the closed set of host-implemented
// compile-time callables that synthesize generated type objects
// (spec.md §4.5): Class, Inherit, Inheritable, Trait, Patch, Subsume,
// Structural, and the container-indexing builtins.
//
// Grounded on erg_lang/erg's context/initialize/const_func.rs
// (class_func/inherit_func/.../__array_getitem__ etc.), restructured as
// one Go function per builtin taking a keyword-argument map, in the style
// of the teacher's internal/errors structured-error reporting.
package constfunc

import (
	"fmt"

	ergoerrors "github.com/sunholo/ergo/internal/errors"
	"github.com/sunholo/ergo/internal/types"
)

// Args is the keyword-argument map passed to every const function
// (ValueArgs in the original).
type Args map[string]types.TyParam

func (a Args) get(name string) (types.TyParam, bool) {
	v, ok := a[name]
	return v, ok
}

// Result is either a value or a structured error, never both.
type Result struct {
	Value types.TyParam
	Err   *ergoerrors.Report
}

func ok(v types.TyParam) Result  { return Result{Value: v} }
func fail(r *ergoerrors.Report) Result { return Result{Err: r} }

func missingArg(fn, name string) Result {
	return fail(&ergoerrors.Report{
		Schema:  ergoerrors.Schema,
		Code:    ergoerrors.ConstFuncMissingArg,
		Phase:   "constfunc",
		Message: fmt.Sprintf("%s: required argument %q was not passed", fn, name),
		Data:    map[string]any{"func": fn, "arg": name},
	})
}

func notAType(fn, name string, got types.TyParam) Result {
	return fail(&ergoerrors.Report{
		Schema:  ergoerrors.Schema,
		Code:    ergoerrors.ConstFuncTypeError,
		Phase:   "constfunc",
		Message: fmt.Sprintf("%s: %s must be a type, got %s", fn, name, got),
		Data:    map[string]any{"func": fn, "arg": name, "value": got.String()},
	})
}

func asType(tp types.TyParam) (types.T, bool) {
	v, ok := tp.(types.TPType)
	if !ok {
		return nil, false
	}
	return v.Ty, true
}

// Class builds a class type with named base and optional impls.
// Required: Base: Type. Optional: Impl: Type.
func Class(name string, args Args) Result {
	base, hasBase := args.get("Base")
	if !hasBase {
		return missingArg("Class", "Base")
	}
	baseT, isType := asType(base)
	if !isType {
		return notAType("Class", "Base", base)
	}
	self := types.Mono{Name: name}
	gen := types.And{L: self, R: baseT}
	if impl, ok := args.get("Impl"); ok {
		implT, ok := asType(impl)
		if !ok {
			return notAType("Class", "Impl", impl)
		}
		gen = types.And{L: gen, R: implT}
	}
	return ok(types.TPType{Ty: gen})
}

// Inherit builds a class inheriting Super. Required: Super: ClassType.
// Optional: Impl, Additional: Type.
func Inherit(name string, args Args) Result {
	sup, hasSup := args.get("Super")
	if !hasSup {
		return missingArg("Inherit", "Super")
	}
	supT, ok := asType(sup)
	if !ok {
		return notAType("Inherit", "Super", sup)
	}
	self := types.Mono{Name: name}
	gen := types.And{L: self, R: supT}
	if impl, ok := args.get("Impl"); ok {
		implT, ok := asType(impl)
		if !ok {
			return notAType("Inherit", "Impl", impl)
		}
		gen = types.And{L: gen, R: implT}
	}
	if add, ok := args.get("Additional"); ok {
		addT, ok := asType(add)
		if !ok {
			return notAType("Inherit", "Additional", add)
		}
		gen = types.And{L: gen, R: addT}
	}
	return ok(types.TPType{Ty: gen})
}

// inheritableTrait is the built-in marker trait intersected in by
// Inheritable; a nominal placeholder since the base language's trait
// registry is out of this spec's scope.
var inheritableTrait = types.Mono{Name: "Inheritable"}

// Inheritable intersects a class's impls with the built-in Inheritable
// trait. Required: Class: Type.
func Inheritable(args Args) Result {
	class, has := args.get("Class")
	if !has {
		return missingArg("Inheritable", "Class")
	}
	classT, ok := asType(class)
	if !ok {
		return notAType("Inheritable", "Class", class)
	}
	return ok(types.TPType{Ty: types.And{L: classT, R: inheritableTrait}})
}

// Trait builds a trait type. Required: Requirement: Type. Optional: Impl.
func Trait(name string, args Args) Result {
	req, has := args.get("Requirement")
	if !has {
		return missingArg("Trait", "Requirement")
	}
	reqT, ok := asType(req)
	if !ok {
		return notAType("Trait", "Requirement", req)
	}
	self := types.Mono{Name: name}
	gen := types.And{L: self, R: reqT}
	if impl, ok := args.get("Impl"); ok {
		implT, ok := asType(impl)
		if !ok {
			return notAType("Trait", "Impl", impl)
		}
		gen = types.And{L: gen, R: implT}
	}
	return ok(types.TPType{Ty: gen})
}

// Patch builds a patch type. Required: Base: Type. Optional: Impl.
func Patch(name string, args Args) Result {
	base, has := args.get("Base")
	if !has {
		return missingArg("Patch", "Base")
	}
	baseT, ok := asType(base)
	if !ok {
		return notAType("Patch", "Base", base)
	}
	self := types.Mono{Name: name}
	gen := types.And{L: self, R: baseT}
	if impl, ok := args.get("Impl"); ok {
		implT, ok := asType(impl)
		if !ok {
			return notAType("Patch", "Impl", impl)
		}
		gen = types.And{L: gen, R: implT}
	}
	return ok(types.TPType{Ty: gen})
}

// Subsume builds a subsuming trait. Required: Super: TraitType. Optional:
// Impl, Additional.
func Subsume(name string, args Args) Result {
	sup, has := args.get("Super")
	if !has {
		return missingArg("Subsume", "Super")
	}
	supT, ok := asType(sup)
	if !ok {
		return notAType("Subsume", "Super", sup)
	}
	self := types.Mono{Name: name}
	gen := types.And{L: self, R: supT}
	if impl, ok := args.get("Impl"); ok {
		implT, ok := asType(impl)
		if !ok {
			return notAType("Subsume", "Impl", impl)
		}
		gen = types.And{L: gen, R: implT}
	}
	if add, ok := args.get("Additional"); ok {
		addT, ok := asType(add)
		if !ok {
			return notAType("Subsume", "Additional", add)
		}
		gen = types.And{L: gen, R: addT}
	}
	return ok(types.TPType{Ty: gen})
}

// Structural builds a structural view of Type.
func Structural(args Args) Result {
	ty, has := args.get("Type")
	if !has {
		return missingArg("Structural", "Type")
	}
	tyT, ok := asType(ty)
	if !ok {
		return notAType("Structural", "Type", ty)
	}
	return ok(types.TPType{Ty: types.And{L: tyT, R: types.ObjT}})
}

// ArrayGetItem indexes a const list. Required: Self: List, Index: Nat.
// Errors on out-of-range.
func ArrayGetItem(args Args) Result {
	self, has := args.get("Self")
	if !has {
		return missingArg("__array_getitem__", "Self")
	}
	idx, has := args.get("Index")
	if !has {
		return missingArg("__array_getitem__", "Index")
	}
	list, ok := self.(types.TPList)
	if !ok {
		return notAType("__array_getitem__", "Self", self)
	}
	n, ok := idx.(types.TPValue)
	if !ok {
		return notAType("__array_getitem__", "Index", idx)
	}
	nat, ok := asNat(n.V)
	if !ok || int(nat) >= len(list.Elems) {
		return fail(&ergoerrors.Report{
			Schema:  ergoerrors.Schema,
			Code:    ergoerrors.ConstFuncIndexError,
			Phase:   "constfunc",
			Message: fmt.Sprintf("__array_getitem__: index %s out of range for length %d", idx, len(list.Elems)),
			Data:    map[string]any{"index": idx.String(), "len": len(list.Elems)},
		})
	}
	return ok(list.Elems[nat])
}

// DictGetItem looks up a key, falling back to subtype-keyed match.
// Required: Self: Dict, Index.
func DictGetItem(args Args, isSubtype func(sub, sup types.T) bool) Result {
	self, has := args.get("Self")
	if !has {
		return missingArg("__dict_getitem__", "Self")
	}
	idx, has := args.get("Index")
	if !has {
		return missingArg("__dict_getitem__", "Index")
	}
	dict, ok := self.(types.TPDict)
	if !ok {
		return notAType("__dict_getitem__", "Self", self)
	}
	for _, e := range dict.Entries {
		if e.Key.Equals(idx) {
			return ok(e.Val)
		}
	}
	if isSubtype != nil {
		if idxT, ok := asType(idx); ok {
			for _, e := range dict.Entries {
				if keyT, ok := asType(e.Key); ok && isSubtype(idxT, keyT) {
					return ok(e.Val)
				}
			}
		}
	}
	return fail(&ergoerrors.Report{
		Schema:  ergoerrors.Schema,
		Code:    ergoerrors.ConstFuncKeyError,
		Phase:   "constfunc",
		Message: fmt.Sprintf("__dict_getitem__: key %s not found", idx),
		Data:    map[string]any{"key": idx.String()},
	})
}

// DictKeys/DictValues/DictItems are union-typed projections over a dict's
// entries.
func DictKeys(args Args) Result   { return dictProject(args, "keys") }
func DictValues(args Args) Result { return dictProject(args, "values") }
func DictItems(args Args) Result  { return dictProject(args, "items") }

func dictProject(args Args, which string) Result {
	self, has := args.get("Self")
	if !has {
		return missingArg("dict."+which, "Self")
	}
	dict, ok := self.(types.TPDict)
	if !ok {
		return notAType("dict."+which, "Self", self)
	}
	switch which {
	case "keys":
		elems := make([]types.TyParam, len(dict.Entries))
		for i, e := range dict.Entries {
			elems[i] = e.Key
		}
		return ok(types.TPSet{Elems: elems})
	case "values":
		elems := make([]types.TyParam, len(dict.Entries))
		for i, e := range dict.Entries {
			elems[i] = e.Val
		}
		return ok(types.TPList{Elems: elems})
	default: // items
		elems := make([]types.TyParam, len(dict.Entries))
		for i, e := range dict.Entries {
			elems[i] = types.TPTuple{Elems: []types.TyParam{e.Key, e.Val}}
		}
		return ok(types.TPSet{Elems: elems})
	}
}

// RangeGetItem returns the nth element of a Range, or an out-of-range
// error. Required: Self: Range, Index: Nat.
func RangeGetItem(args Args) Result {
	self, has := args.get("Self")
	if !has {
		return missingArg("__range_getitem__", "Self")
	}
	idx, has := args.get("Index")
	if !has {
		return missingArg("__range_getitem__", "Index")
	}
	rng, ok := self.(types.TPTuple) // (start, stop) encoding
	if !ok || len(rng.Elems) != 2 {
		return notAType("__range_getitem__", "Self", self)
	}
	startV, ok1 := rng.Elems[0].(types.TPValue)
	stopV, ok2 := rng.Elems[1].(types.TPValue)
	nV, ok3 := idx.(types.TPValue)
	if !ok1 || !ok2 || !ok3 {
		return notAType("__range_getitem__", "Index", idx)
	}
	start := asInt(startV.V)
	stop := asInt(stopV.V)
	n := asInt(nV.V)
	val := start + n
	if val >= stop {
		return fail(&ergoerrors.Report{
			Schema:  ergoerrors.Schema,
			Code:    ergoerrors.ConstFuncIndexError,
			Phase:   "constfunc",
			Message: fmt.Sprintf("__range_getitem__: index %d out of range for %d..%d", n, start, stop),
			Data:    map[string]any{"index": n, "start": start, "stop": stop},
		})
	}
	return ok(types.TPValue{V: types.VInt{I: val}})
}

func asNat(v types.Value) (uint64, bool) {
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

func asInt(v types.Value) int64 {
	switch x := v.(type) {
	case types.VInt:
		return x.I
	case types.VNat:
		return int64(x.N)
	}
	return 0
}
