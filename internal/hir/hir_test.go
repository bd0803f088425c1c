package hir

import (
	"strings"
	"testing"

	"github.com/sunholo/ergo/internal/types"
)

func TestBlockKindString(t *testing.T) {
	cases := map[BlockKind]string{
		BlockFunc:         "Func",
		BlockConstFunc:    "ConstFunc",
		BlockConstInstant: "ConstInstant",
		BlockProc:         "Proc",
		BlockInstant:      "Instant",
		BlockModule:       "Module",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("BlockKind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestBindChainsToBodyString(t *testing.T) {
	lit := &Lit{Value: types.VInt{I: 1}}
	bind := &Bind{Name: "x", Value: lit, Body: &Var{Name: "x"}}
	if got := bind.String(); got != "x = 1; x" {
		t.Errorf("Bind.String() = %q", got)
	}
}

func TestBindWithoutBodyOmitsContinuation(t *testing.T) {
	bind := &Bind{Name: "x", Value: &Lit{Value: types.VInt{I: 1}}}
	if got := bind.String(); got != "x = 1" {
		t.Errorf("Bind.String() = %q", got)
	}
}

func TestModuleMaterializeRendersFourStepRewrite(t *testing.T) {
	mm := &ModuleMaterialize{
		Temp: "__mod0",
		Path: "foo",
		Body: &Var{Name: "body"},
	}
	s := mm.String()
	for _, want := range []string{"__module__(\"foo\")", "__dict__.update(locals())", "exec(body,"} {
		if !strings.Contains(s, want) {
			t.Errorf("ModuleMaterialize.String() = %q, missing %q", s, want)
		}
	}
}

func TestNodeAccessorsDelegateToEmbeddedNode(t *testing.T) {
	v := &Var{
		Node: Node{NodeID: 7, Ty: types.Mono{Name: "Int"}},
		Name: "x",
	}
	if v.ID() != 7 {
		t.Errorf("ID() = %d, want 7", v.ID())
	}
	if v.Type() != (types.Mono{Name: "Int"}) {
		t.Errorf("Type() = %v", v.Type())
	}
}

func TestCallStringJoinsArgs(t *testing.T) {
	call := &Call{
		Callee: &Var{Name: "f"},
		Args:   []Expr{&Var{Name: "a"}, &Var{Name: "b"}},
		Kind:   BlockFunc,
	}
	if got := call.String(); got != "f(a, b)" {
		t.Errorf("Call.String() = %q", got)
	}
}

func TestEveryExprImplementsHirExprInterface(t *testing.T) {
	var exprs = []Expr{
		&Var{}, &Lit{Value: types.VNone{}}, &Bind{}, &Call{}, &Block{},
		&If{}, &ModuleRef{}, &ModuleMaterialize{}, &NativeImport{},
		&ModulePathAccess{}, &SelfModule{}, &GlobalRef{}, &InlineModule{},
		&RefExpr{}, &RefMutExpr{}, &Move{},
	}
	if len(exprs) != 16 {
		t.Fatalf("expected 16 node kinds, got %d", len(exprs))
	}
}
