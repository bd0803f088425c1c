package constfunc

import (
	"testing"

	ergoerrors "github.com/sunholo/ergo/internal/errors"
	"github.com/sunholo/ergo/internal/types"
)

func TestClassRequiresBase(t *testing.T) {
	res := Class("Point", Args{})
	if res.Err == nil {
		t.Fatalf("expected missing-arg error, got value %v", res.Value)
	}
	if res.Err.Code != ergoerrors.ConstFuncMissingArg {
		t.Errorf("expected code %s, got %s", ergoerrors.ConstFuncMissingArg, res.Err.Code)
	}
	if res.Err.Data["arg"] != "Base" {
		t.Errorf("expected the missing argument to be Base, got %v", res.Err.Data["arg"])
	}
	if res.Value != nil {
		t.Errorf("expected no value alongside the error, got %v", res.Value)
	}
}

func TestInheritRequiresSuper(t *testing.T) {
	res := Inherit("Dog", Args{})
	if res.Err == nil {
		t.Fatalf("expected missing-arg error")
	}
	if res.Err.Code != ergoerrors.ConstFuncMissingArg {
		t.Errorf("expected code %s, got %s", ergoerrors.ConstFuncMissingArg, res.Err.Code)
	}
}

func TestInheritRejectsNonTypeSuper(t *testing.T) {
	res := Inherit("Dog", Args{"Super": types.TPValue{V: types.VInt{I: 1}}})
	if res.Err == nil {
		t.Fatalf("expected type error")
	}
	if res.Err.Code != ergoerrors.ConstFuncTypeError {
		t.Errorf("expected code %s, got %s", ergoerrors.ConstFuncTypeError, res.Err.Code)
	}
}

func TestArrayGetItemInRange(t *testing.T) {
	list := types.TPList{Elems: []types.TyParam{
		types.TPValue{V: types.VInt{I: 10}},
		types.TPValue{V: types.VInt{I: 20}},
	}}
	res := ArrayGetItem(Args{"Self": list, "Index": types.TPValue{V: types.VNat{N: 1}}})
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	v, ok := res.Value.(types.TPValue)
	if !ok {
		t.Fatalf("expected TPValue, got %T", res.Value)
	}
	n, ok := v.V.(types.VInt)
	if !ok || n.I != 20 {
		t.Errorf("expected VInt{20}, got %v", v.V)
	}
}

func TestArrayGetItemOutOfRange(t *testing.T) {
	list := types.TPList{Elems: []types.TyParam{types.TPValue{V: types.VInt{I: 1}}}}
	res := ArrayGetItem(Args{"Self": list, "Index": types.TPValue{V: types.VNat{N: 5}}})
	if res.Err == nil {
		t.Fatalf("expected index error")
	}
	if res.Err.Code != ergoerrors.ConstFuncIndexError {
		t.Errorf("expected code %s, got %s", ergoerrors.ConstFuncIndexError, res.Err.Code)
	}
}

func TestDictGetItemExactKey(t *testing.T) {
	dict := types.TPDict{Entries: []types.TPDictEntry{
		{Key: types.TPValue{V: types.VStr{S: "a"}}, Val: types.TPValue{V: types.VInt{I: 1}}},
	}}
	res := DictGetItem(Args{"Self": dict, "Index": types.TPValue{V: types.VStr{S: "a"}}}, nil)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
}

func TestDictGetItemMissingKey(t *testing.T) {
	dict := types.TPDict{}
	res := DictGetItem(Args{"Self": dict, "Index": types.TPValue{V: types.VStr{S: "missing"}}}, nil)
	if res.Err == nil {
		t.Fatalf("expected key error")
	}
	if res.Err.Code != ergoerrors.ConstFuncKeyError {
		t.Errorf("expected code %s, got %s", ergoerrors.ConstFuncKeyError, res.Err.Code)
	}
}

func TestDictKeysValuesItems(t *testing.T) {
	dict := types.TPDict{Entries: []types.TPDictEntry{
		{Key: types.TPValue{V: types.VStr{S: "a"}}, Val: types.TPValue{V: types.VInt{I: 1}}},
		{Key: types.TPValue{V: types.VStr{S: "b"}}, Val: types.TPValue{V: types.VInt{I: 2}}},
	}}
	if res := DictKeys(Args{"Self": dict}); res.Err != nil {
		t.Errorf("DictKeys: %v", res.Err)
	}
	if res := DictValues(Args{"Self": dict}); res.Err != nil {
		t.Errorf("DictValues: %v", res.Err)
	}
	if res := DictItems(Args{"Self": dict}); res.Err != nil {
		t.Errorf("DictItems: %v", res.Err)
	}
}

func TestRangeGetItemInAndOutOfRange(t *testing.T) {
	rng := types.TPTuple{Elems: []types.TyParam{
		types.TPValue{V: types.VInt{I: 0}},
		types.TPValue{V: types.VInt{I: 3}},
	}}
	ok := RangeGetItem(Args{"Self": rng, "Index": types.TPValue{V: types.VNat{N: 2}}})
	if ok.Err != nil {
		t.Fatalf("unexpected error: %v", ok.Err)
	}
	oob := RangeGetItem(Args{"Self": rng, "Index": types.TPValue{V: types.VNat{N: 3}}})
	if oob.Err == nil {
		t.Fatalf("expected out-of-range error")
	}
	if oob.Err.Code != ergoerrors.ConstFuncIndexError {
		t.Errorf("expected code %s, got %s", ergoerrors.ConstFuncIndexError, oob.Err.Code)
	}
}

func TestInheritableIntersectsMarkerTrait(t *testing.T) {
	res := Inheritable(Args{"Class": types.TPType{Ty: types.Mono{Name: "Animal"}}})
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	tp := res.Value.(types.TPType)
	and, ok := tp.Ty.(types.And)
	if !ok {
		t.Fatalf("expected And, got %T", tp.Ty)
	}
	if and.R != inheritableTrait {
		t.Errorf("expected inheritableTrait marker, got %v", and.R)
	}
}
