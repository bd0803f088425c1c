// Package build implements the package builder and resolver of spec.md
// §4.6: parse the root module, recursively resolve its transitive imports
// (inlining rather than rejecting a cycle), then launch per-module
// analysis tasks in dependency order.
//
// Grounded on ailang/internal/module/loader.go's cache/search-path/cycle-
// stack shape (adapted: ailang errors on a cycle, this package inlines,
// per crates/erg_compiler/build_package.rs's Shared<ModuleGraph> inlining
// behavior) and ailang/internal/link/topo.go's DFS-with-cycle-path
// pattern, adapted from cycle-is-error to cycle-is-inline-point.
package build

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/sunholo/ergo/internal/ast"
	ergoerrors "github.com/sunholo/ergo/internal/errors"
	"github.com/sunholo/ergo/internal/modcache"
)

// SourceExt is the canonical source file extension (spec.md §6).
const SourceExt = ".ergo"

// DeclareSuffix marks a declaration-only file (spec.md §4.6's ".d" files);
// such a file's HIR generation is skipped by whatever consumes the Graph.
const DeclareSuffix = ".d" + SourceExt

// ParseFunc parses one source file's bytes into an AST. The concrete
// parser is an external collaborator (spec.md Non-goals); Builder depends
// only on this narrow function type so it never imports internal/parser
// directly.
type ParseFunc func(path string, src []byte) (*ast.File, error)

// AnalysisFunc runs whatever per-module analysis the caller wants
// (symbol registration, type checking, effect/ownership checking) against
// an already-resolved file, reporting diagnostics into the shared cache
// entry. Builder calls it once per module, respecting dependency order.
type AnalysisFunc func(path string, file *ast.File, cache *modcache.Cache) []*ergoerrors.Report

// Builder discovers and resolves a module's transitive import graph.
type Builder struct {
	parse       ParseFunc
	cache       *modcache.Cache
	searchPaths []string
}

// NewBuilder constructs a Builder. searchPaths is consulted, in order,
// after the importer's own directory, when resolving a relative import;
// ErgoStdlibSearchPaths() supplies the conventional default.
func NewBuilder(parse ParseFunc, cache *modcache.Cache, searchPaths []string) *Builder {
	return &Builder{parse: parse, cache: cache, searchPaths: searchPaths}
}

// ErgoStdlibSearchPaths returns the default module search path list: the
// current directory, then ERGO_STDLIB_PATH if set -- the same role
// AILANG_STDLIB/AILANG_PATH play in ailang/internal/module/loader.go.
func ErgoStdlibSearchPaths() []string {
	paths := []string{"."}
	if p := os.Getenv("ERGO_STDLIB_PATH"); p != "" {
		paths = append(paths, strings.Split(p, string(os.PathListSeparator))...)
	}
	return paths
}

// Graph is the resolved import graph: every parsed file keyed by
// canonical path, the dependency edges discovered, and a dependency-
// respecting launch order (spec.md §4.6 step 3's post-order walk).
type Graph struct {
	RootPath    string
	Files       map[string]*ast.File
	Edges       map[string][]string // importer -> direct dependency paths
	PostOrder   []string            // leaves first, root last
	DeclareOnly map[string]bool
	Inlined     map[string][]string // importer -> paths inlined to break a cycle
}

type resolver struct {
	b           *Builder
	files       map[string]*ast.File
	edges       map[string][]string
	declareOnly map[string]bool
	inlined     map[string][]string
	inPath      map[string]bool
	pathStack   []string
	postOrder   []string
	reports     []*ergoerrors.Report
}

// Build runs the full four-step algorithm of spec.md §4.6 against the
// source file at rootPath, then invokes analyze once per module in an
// order that respects the discovered dependencies, running independent
// modules concurrently.
func (b *Builder) Build(rootPath string, analyze AnalysisFunc) (*Graph, []*ergoerrors.Report) {
	root, err := canonicalPath(rootPath)
	if err != nil {
		return nil, []*ergoerrors.Report{ergoerrors.NewGeneric("build", err)}
	}

	r := &resolver{
		b:           b,
		files:       make(map[string]*ast.File),
		edges:       make(map[string][]string),
		declareOnly: make(map[string]bool),
		inlined:     make(map[string][]string),
		inPath:      make(map[string]bool),
	}
	r.resolve(root)

	g := &Graph{
		RootPath:    root,
		Files:       r.files,
		Edges:       r.edges,
		PostOrder:   r.postOrder,
		DeclareOnly: r.declareOnly,
		Inlined:     r.inlined,
	}

	if analyze != nil {
		r.reports = append(r.reports, launchAnalysis(g, b.cache, analyze)...)
	}

	return g, r.reports
}

// resolve implements steps 1-2: parse path (if not already parsed),
// gather its top-level imports, and recurse, inlining any edge that would
// close a cycle.
func (r *resolver) resolve(path string) {
	if _, done := r.files[path]; done && !r.inPath[path] {
		return // already fully resolved
	}

	file, err := r.parseFile(path)
	if err != nil {
		r.reports = append(r.reports, &ergoerrors.Report{
			Schema:  ergoerrors.Schema,
			Code:    ergoerrors.IoNotFound,
			Kind:    ergoerrors.KindIo,
			Phase:   "build",
			Message: err.Error(),
			Data:    map[string]any{"path": path},
		})
		return
	}
	r.files[path] = file
	if strings.HasSuffix(path, DeclareSuffix) {
		r.declareOnly[path] = true
	}

	r.inPath[path] = true
	r.pathStack = append(r.pathStack, path)

	for _, site := range gatherImports(file) {
		if site.native {
			continue // host-language imports carry no build-graph edge
		}
		target, err := r.b.resolvePath(path, site.path)
		if err != nil {
			r.reports = append(r.reports, &ergoerrors.Report{
				Schema:  ergoerrors.Schema,
				Code:    ergoerrors.ImportNotFound,
				Kind:    ergoerrors.KindImport,
				Phase:   "build",
				Message: fmt.Sprintf("cannot resolve import %q: %v", site.path, err),
				Span:    &ast.Span{Start: site.pos, End: site.pos},
			})
			continue
		}
		if target == path {
			// self-import: evaluates to the current module object at runtime
			site.replace(&ast.SelfModule{Pos: site.pos})
			continue
		}

		if r.inPath[target] {
			// cycle: inline the importee's AST at this import site instead
			// of adding the edge, and do not recurse into it again here.
			targetFile, ferr := r.parseFile(target)
			if ferr != nil {
				continue
			}
			site.replace(&ast.ImportInline{Path: target, File: targetFile, Pos: site.pos})
			r.inlined[path] = append(r.inlined[path], target)
			continue
		}

		r.edges[path] = append(r.edges[path], target)
		r.resolve(target)
	}

	r.pathStack = r.pathStack[:len(r.pathStack)-1]
	r.inPath[path] = false
	r.postOrder = append(r.postOrder, path)
}

func (r *resolver) parseFile(path string) (*ast.File, error) {
	if f, ok := r.files[path]; ok {
		return f, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return r.b.parse.parseChecked(path, src)
}

// parseChecked wraps ParseFunc with the non-UTF-8 check from spec.md
// §4.6's edge cases.
func (p ParseFunc) parseChecked(path string, src []byte) (*ast.File, error) {
	if !isValidUTF8(src) {
		return nil, fmt.Errorf("%s: not valid UTF-8", path)
	}
	return p(path, src)
}

func isValidUTF8(b []byte) bool {
	return utf8.Valid(b)
}
