package hirlink

import (
	"strings"
	"testing"

	"github.com/sunholo/ergo/internal/hir"
)

func TestLinkModuleRefBecomesModuleMaterialize(t *testing.T) {
	depBody := &hir.Lit{}
	ctx := NewContext("app", map[string]hir.Expr{"dep": depBody})

	bind := &hir.Bind{Name: "x", Value: &hir.ModuleRef{Path: "dep"}}
	linked := Link(ctx, bind).(*hir.Bind)

	mat, ok := linked.Value.(*hir.ModuleMaterialize)
	if !ok {
		t.Fatalf("expected ModuleMaterialize, got %T", linked.Value)
	}
	if mat.Path != "dep" {
		t.Errorf("expected Path dep, got %s", mat.Path)
	}
	if mat.Temp == "" {
		t.Errorf("expected a non-empty fresh temp name")
	}
	if mat.Body != depBody {
		t.Errorf("expected dependency's linked body embedded verbatim")
	}
}

func TestLinkGeneratesDistinctTempsPerImport(t *testing.T) {
	ctx := NewContext("app", map[string]hir.Expr{"a": &hir.Lit{}, "b": &hir.Lit{}})
	block := &hir.Block{Exprs: []hir.Expr{
		&hir.Bind{Name: "x", Value: &hir.ModuleRef{Path: "a"}},
		&hir.Bind{Name: "y", Value: &hir.ModuleRef{Path: "b"}},
	}}
	linked := Link(ctx, block).(*hir.Block)
	m1 := linked.Exprs[0].(*hir.Bind).Value.(*hir.ModuleMaterialize)
	m2 := linked.Exprs[1].(*hir.Bind).Value.(*hir.ModuleMaterialize)
	if m1.Temp == m2.Temp {
		t.Errorf("expected distinct temp names, got %s twice", m1.Temp)
	}
}

func TestLinkSelfModuleFillsOwnName(t *testing.T) {
	ctx := NewContext("pkg/mod", nil)
	linked := Link(ctx, &hir.SelfModule{}).(*hir.SelfModule)
	if linked.OwnName != "pkg/mod" {
		t.Errorf("expected OwnName pkg/mod, got %s", linked.OwnName)
	}
	if !strings.Contains(linked.String(), "pkg/mod") {
		t.Errorf("expected rendered form to mention the module name, got %s", linked.String())
	}
}

func TestLinkGlobalRefPassesThrough(t *testing.T) {
	ctx := NewContext("m", nil)
	g := &hir.GlobalRef{}
	if Link(ctx, g) != hir.Expr(g) {
		t.Errorf("expected GlobalRef returned unchanged")
	}
}

func TestLinkModulePathAccessPrefixesFirstUseOnly(t *testing.T) {
	ctx := NewContext("m", nil)
	block := &hir.Block{Exprs: []hir.Expr{
		&hir.NativeImport{Path: "mpl.pyplot"},
		&hir.Call{Callee: &hir.Var{Name: "mpl.pyplot.plot"}},
		&hir.Call{Callee: &hir.Var{Name: "mpl.pyplot.show"}},
	}}
	linked := Link(ctx, block).(*hir.Block)

	firstCall := linked.Exprs[1].(*hir.Call)
	mpa, ok := firstCall.Callee.(*hir.ModulePathAccess)
	if !ok {
		t.Fatalf("expected first use prefixed with ModulePathAccess, got %T", firstCall.Callee)
	}
	if mpa.FullPath != "mpl.pyplot" {
		t.Errorf("expected FullPath mpl.pyplot, got %s", mpa.FullPath)
	}

	secondCall := linked.Exprs[2].(*hir.Call)
	if _, ok := secondCall.Callee.(*hir.ModulePathAccess); ok {
		t.Errorf("expected second use in the same block to skip the repeated import")
	}
	if v, ok := secondCall.Callee.(*hir.Var); !ok || v.Name != "mpl.pyplot.show" {
		t.Errorf("expected second use left as a bare Var, got %#v", secondCall.Callee)
	}
}

func TestLinkVarWithoutDottedNameUnchanged(t *testing.T) {
	ctx := NewContext("m", nil)
	v := &hir.Var{Name: "x"}
	if Link(ctx, v) != hir.Expr(v) {
		t.Errorf("expected plain Var returned unchanged")
	}
}

func TestNormalizeNativePathJoinsWithDots(t *testing.T) {
	got := NormalizeNativePath("a/b/c")
	if got != "a.b.c" {
		t.Errorf("expected a.b.c, got %s", got)
	}
}

func TestLinkModulesThreadsDependencyBodiesInPostOrder(t *testing.T) {
	unlinked := map[string]hir.Expr{
		"leaf": &hir.Lit{},
		"root": &hir.Bind{Name: "x", Value: &hir.ModuleRef{Path: "leaf"}},
	}
	linked := LinkModules([]string{"leaf", "root"}, unlinked)

	rootBind, ok := linked["root"].(*hir.Bind)
	if !ok {
		t.Fatalf("expected root to link to a Bind, got %T", linked["root"])
	}
	mat, ok := rootBind.Value.(*hir.ModuleMaterialize)
	if !ok {
		t.Fatalf("expected ModuleMaterialize, got %T", rootBind.Value)
	}
	if mat.Body != linked["leaf"] {
		t.Errorf("expected root's materialized body to be leaf's own linked HIR")
	}
}

func TestLinkInlineModulePreservesPathAndFile(t *testing.T) {
	ctx := NewContext("m", nil)
	in := &hir.InlineModule{Path: "cyc"}
	linked := Link(ctx, in).(*hir.InlineModule)
	if linked.Path != "cyc" {
		t.Errorf("expected Path cyc, got %s", linked.Path)
	}
}
