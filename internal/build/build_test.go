package build

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sunholo/ergo/internal/ast"
	ergoerrors "github.com/sunholo/ergo/internal/errors"
	"github.com/sunholo/ergo/internal/hir"
	"github.com/sunholo/ergo/internal/modcache"
)

// lineParse treats each non-empty line of src as one import target: a bare
// path means `import "path"`, a "py:" prefix means `pyimport "path"`. It
// gives tests a way to author tiny fixture modules without a real parser.
func lineParse(path string, src []byte) (*ast.File, error) {
	f := &ast.File{Path: path}
	for _, line := range strings.Split(string(src), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fn := "import"
		target := line
		if strings.HasPrefix(line, "py:") {
			fn = "pyimport"
			target = strings.TrimPrefix(line, "py:")
		}
		call := &ast.FuncCall{
			Func: &ast.Identifier{Name: fn},
			Args: []ast.Expr{&ast.Literal{Kind: ast.StringLit, Value: target}},
		}
		f.Statements = append(f.Statements, call)
	}
	return f, nil
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}

func noopAnalyze(path string, file *ast.File, cache *modcache.Cache) []*ergoerrors.Report {
	return nil
}

func TestResolveLinearChain(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "a.ergo", "b")
	writeFixture(t, dir, "b.ergo", "c")
	writeFixture(t, dir, "c.ergo", "")

	b := NewBuilder(lineParse, modcache.New(), nil)
	g, reports := b.Build(filepath.Join(dir, "a.ergo"), noopAnalyze)
	if len(reports) != 0 {
		t.Fatalf("unexpected reports: %v", reports)
	}
	if len(g.PostOrder) != 3 {
		t.Fatalf("expected 3 modules in post-order, got %d: %v", len(g.PostOrder), g.PostOrder)
	}
	// c has no dependencies, so it must resolve (and appear) before b, and
	// b before a (the root).
	idx := map[string]int{}
	for i, p := range g.PostOrder {
		idx[filepath.Base(p)] = i
	}
	if !(idx["c.ergo"] < idx["b.ergo"] && idx["b.ergo"] < idx["a.ergo"]) {
		t.Errorf("expected post-order c, b, a; got %v", g.PostOrder)
	}
	if g.PostOrder[len(g.PostOrder)-1] != g.RootPath {
		t.Errorf("expected root to be last in post-order")
	}

	gotBase := make([]string, len(g.PostOrder))
	for i, p := range g.PostOrder {
		gotBase[i] = filepath.Base(p)
	}
	want := []string{"c.ergo", "b.ergo", "a.ergo"}
	if diff := cmp.Diff(want, gotBase); diff != "" {
		t.Errorf("post-order mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveSelfImportBecomesSelfModule(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "self.ergo", "self")

	b := NewBuilder(lineParse, modcache.New(), nil)
	g, reports := b.Build(path, noopAnalyze)
	if len(reports) != 0 {
		t.Fatalf("unexpected reports: %v", reports)
	}
	file := g.Files[g.RootPath]
	if len(file.Statements) != 1 {
		t.Fatalf("expected one statement, got %d", len(file.Statements))
	}
	if _, ok := file.Statements[0].(*ast.SelfModule); !ok {
		t.Errorf("expected self-import rewritten to SelfModule, got %T", file.Statements[0])
	}
	if len(g.Edges[g.RootPath]) != 0 {
		t.Errorf("self-import must not produce a graph edge")
	}
}

func TestResolveCycleInlinesRatherThanErrors(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "a.ergo", "b")
	writeFixture(t, dir, "b.ergo", "a")

	b := NewBuilder(lineParse, modcache.New(), nil)
	g, reports := b.Build(filepath.Join(dir, "a.ergo"), noopAnalyze)
	if len(reports) != 0 {
		t.Fatalf("unexpected reports: %v", reports)
	}
	bFile := g.Files[filepath.Join(dir, "b.ergo")]
	if len(bFile.Statements) != 1 {
		t.Fatalf("expected one statement in b, got %d", len(bFile.Statements))
	}
	inline, ok := bFile.Statements[0].(*ast.ImportInline)
	if !ok {
		t.Fatalf("expected cycle edge inlined as ImportInline, got %T", bFile.Statements[0])
	}
	if inline.Path != g.RootPath {
		t.Errorf("expected inlined path to be root (%s), got %s", g.RootPath, inline.Path)
	}
	if len(g.Inlined[filepath.Join(dir, "b.ergo")]) != 1 {
		t.Errorf("expected Inlined to record the closed edge")
	}
}

func TestResolveMissingModuleReportsImportNotFound(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.ergo", "missing")

	b := NewBuilder(lineParse, modcache.New(), nil)
	_, reports := b.Build(path, noopAnalyze)
	if len(reports) != 1 {
		t.Fatalf("expected exactly one report, got %d: %v", len(reports), reports)
	}
	if reports[0].Code != ergoerrors.ImportNotFound {
		t.Errorf("expected ImportNotFound, got %s", reports[0].Code)
	}
}

func TestResolveNonUTF8SourceReportsIoNotFound(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.ergo")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0x00}, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	b := NewBuilder(lineParse, modcache.New(), nil)
	_, reports := b.Build(path, noopAnalyze)
	if len(reports) != 1 {
		t.Fatalf("expected exactly one report, got %d: %v", len(reports), reports)
	}
	if reports[0].Code != ergoerrors.IoNotFound {
		t.Errorf("expected IoNotFound, got %s", reports[0].Code)
	}
}

func TestResolveDeclareOnlySuffixIsDetected(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "iface.d.ergo", "")
	path := writeFixture(t, dir, "main.ergo", "iface.d")

	b := NewBuilder(lineParse, modcache.New(), nil)
	g, reports := b.Build(path, noopAnalyze)
	if len(reports) != 0 {
		t.Fatalf("unexpected reports: %v", reports)
	}
	ifacePath := filepath.Join(dir, "iface.d.ergo")
	if !g.DeclareOnly[ifacePath] {
		t.Errorf("expected %s marked declare-only", ifacePath)
	}
}

func TestResolveNativeImportCarriesNoEdge(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.ergo", "py:os")

	b := NewBuilder(lineParse, modcache.New(), nil)
	g, reports := b.Build(path, noopAnalyze)
	if len(reports) != 0 {
		t.Fatalf("unexpected reports: %v", reports)
	}
	if len(g.Edges[g.RootPath]) != 0 {
		t.Errorf("pyimport must not produce a graph edge")
	}
	if fc, ok := g.Files[g.RootPath].Statements[0].(*ast.FuncCall); !ok {
		t.Errorf("expected pyimport call left untouched, got %T", g.Files[g.RootPath].Statements[0])
	} else if id, ok := fc.Func.(*ast.Identifier); !ok || id.Name != "pyimport" {
		t.Errorf("expected untouched pyimport call")
	}
}

func TestLaunchAnalysisRunsRootLast(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "leaf.ergo", "")
	writeFixture(t, dir, "mid.ergo", "leaf")
	writeFixture(t, dir, "root.ergo", "mid")

	var mu sync.Mutex
	var order []string
	record := func(path string, file *ast.File, cache *modcache.Cache) []*ergoerrors.Report {
		mu.Lock()
		order = append(order, filepath.Base(path))
		mu.Unlock()
		return nil
	}

	b := NewBuilder(lineParse, modcache.New(), nil)
	g, reports := b.Build(filepath.Join(dir, "root.ergo"), record)
	if len(reports) != 0 {
		t.Fatalf("unexpected reports: %v", reports)
	}
	if len(order) != 3 {
		t.Fatalf("expected 3 analyzed modules, got %d: %v", len(order), order)
	}
	if order[len(order)-1] != "root.ergo" {
		t.Errorf("expected root analyzed last, got order %v", order)
	}
	if g.RootPath == "" {
		t.Errorf("expected non-empty root path")
	}
}

func TestLaunchAnalysisSkipsAlreadyCompleteModules(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "solo.ergo", "")

	cache := modcache.New()
	cache.Insert(mustCanon(t, path), &modcache.Entry{
		Path:   mustCanon(t, path),
		Status: modcache.StatusSucceed,
		AST:    &ast.File{},
		HIR:    nil,
	})
	// IsComplete requires a non-nil HIR too; re-insert with a sentinel so
	// the already-registered entry is genuinely complete.
	cache.Insert(mustCanon(t, path), &modcache.Entry{
		Path:   mustCanon(t, path),
		Status: modcache.StatusSucceed,
		AST:    &ast.File{},
		HIR:    &hir.Var{Name: "sentinel"},
	})

	calls := 0
	b := NewBuilder(lineParse, cache, nil)
	_, reports := b.Build(path, func(p string, f *ast.File, c *modcache.Cache) []*ergoerrors.Report {
		calls++
		return nil
	})
	if len(reports) != 0 {
		t.Fatalf("unexpected reports: %v", reports)
	}
	if calls != 0 {
		t.Errorf("expected analyze skipped for already-complete module, called %d time(s)", calls)
	}
}

func mustCanon(t *testing.T, path string) string {
	t.Helper()
	c, err := canonicalPath(path)
	if err != nil {
		t.Fatalf("canonicalPath: %v", err)
	}
	return c
}

func TestErgoStdlibSearchPathsHonorsEnv(t *testing.T) {
	t.Setenv("ERGO_STDLIB_PATH", fmt.Sprintf("/x%cy/z", os.PathListSeparator))
	paths := ErgoStdlibSearchPaths()
	if paths[0] != "." {
		t.Errorf("expected first entry to be the current directory, got %s", paths[0])
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 search paths, got %v", paths)
	}
}
