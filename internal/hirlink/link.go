// Package hirlink implements the HIR linker of spec.md §4.7: once every
// module in a build graph has been type-checked, rewrite its HIR so that
// non-native imports are replaced by inline module-construction blocks,
// leaving an emitted program that references no external source-language
// module.
//
// Grounded on ailang/internal/link/module_linker.go's
// interface-resolution shape (adapted: that linker resolves names across
// module interfaces at the AST/core level; this one rewrites an
// already-checked HIR tree in place) and ailang/internal/link/topo.go's
// post-order dependency walk, reused here as "link a module's
// dependencies before the module itself" (internal/build's Graph.PostOrder
// already gives that order).
package hirlink

import (
	"fmt"
	"strings"

	"github.com/sunholo/ergo/internal/hir"
)

// Context carries the state threaded through one module's link pass:
// which module is being linked, the already-linked bodies of its
// dependencies (keyed by canonical path, supplied in post-order by the
// caller), and the temp-name counter for the Erg-import rewrite.
type Context struct {
	ModulePath string
	Bodies     map[string]hir.Expr // canonical path -> already-linked HIR
	nextTemp   int
	nativized  map[string]bool // native module paths seen via NativeImport
}

// NewContext returns a link Context for the module at modulePath. bodies
// must already contain the linked HIR of every module modulePath
// transitively imports (internal/build's post-order walk guarantees
// that's possible: link each module in Graph.PostOrder, feeding its
// result into the next module's Bodies map).
func NewContext(modulePath string, bodies map[string]hir.Expr) *Context {
	return &Context{ModulePath: modulePath, Bodies: bodies, nativized: make(map[string]bool)}
}

func (c *Context) freshTemp() string {
	c.nextTemp++
	return fmt.Sprintf("__mod_tmp_%d", c.nextTemp)
}

// Link rewrites expr per spec.md §4.7's three rewrite families and
// returns the linked tree. It never mutates its input; every rewritten
// node is a fresh value, and unrewritten nodes are reused as-is.
func Link(ctx *Context, expr hir.Expr) hir.Expr {
	if expr == nil {
		return nil
	}
	switch n := expr.(type) {
	case *hir.ModuleRef:
		return linkModuleRef(ctx, n)

	case *hir.NativeImport:
		ctx.nativized[n.Path] = true
		return n

	case *hir.SelfModule:
		return &hir.SelfModule{Node: n.Node, OwnName: ctx.ModulePath}

	case *hir.GlobalRef:
		return n

	case *hir.InlineModule:
		// An inlined cycle-closing submodule carries its AST, not HIR; it
		// is copied unchanged and its own imports are not rewritten here.
		return &hir.InlineModule{Node: n.Node, Path: n.Path, File: n.File}

	case *hir.Var:
		return linkVar(ctx, n)

	case *hir.Bind:
		return &hir.Bind{Node: n.Node, Name: n.Name, Value: Link(ctx, n.Value), Body: Link(ctx, n.Body)}

	case *hir.Call:
		args := make([]hir.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = Link(ctx, a)
		}
		return &hir.Call{Node: n.Node, Callee: Link(ctx, n.Callee), Args: args, Kind: n.Kind}

	case *hir.Block:
		return linkBlock(ctx, n)

	case *hir.If:
		return &hir.If{Node: n.Node, Cond: Link(ctx, n.Cond), Then: Link(ctx, n.Then), Else: Link(ctx, n.Else)}

	case *hir.RefExpr:
		return &hir.RefExpr{Node: n.Node, Inner: Link(ctx, n.Inner)}

	case *hir.RefMutExpr:
		return &hir.RefMutExpr{Node: n.Node, Inner: Link(ctx, n.Inner)}

	default:
		// Lit, Move, ModuleMaterialize, ModulePathAccess: either already a
		// leaf or already in rewritten form; nothing further to do.
		return expr
	}
}

// linkModuleRef performs the Erg-import rewrite: bind a fresh temporary to
// a freshly constructed module object, and substitute the dependency's
// own linked body as the executed-module-code step (spec.md §4.7 steps
// 1-4; ModuleMaterialize.String() renders all four).
func linkModuleRef(ctx *Context, ref *hir.ModuleRef) hir.Expr {
	body := ctx.Bodies[ref.Path]
	return &hir.ModuleMaterialize{
		Node: ref.Node,
		Temp: ctx.freshTemp(),
		Path: ref.Path,
		Body: body,
	}
}

// linkVar performs the module-path-access rewrite: a dotted name whose
// root prefix resolves to an already-pyimport'd native module gets an
// explicit import statement of its full dotted path prefixed before its
// first use in the current block (spec.md §4.7's "mpl.pyplot.plot(...)"
// example).
func linkVar(ctx *Context, v *hir.Var) hir.Expr {
	if !strings.Contains(v.Name, ".") {
		return v
	}
	prefix, ok := longestNativePrefix(ctx.nativized, v.Name)
	if !ok {
		return v
	}
	return &hir.ModulePathAccess{Node: v.Node, FullPath: prefix, Access: v}
}

// longestNativePrefix finds the longest dotted prefix of name that is a
// registered native module path, e.g. name "mpl.pyplot.plot" with
// nativized={"mpl.pyplot"} returns ("mpl.pyplot", true).
func longestNativePrefix(nativized map[string]bool, name string) (string, bool) {
	parts := strings.Split(name, ".")
	for end := len(parts) - 1; end >= 1; end-- {
		candidate := strings.Join(parts[:end], ".")
		if nativized[candidate] {
			return candidate, true
		}
	}
	return "", false
}

// linkBlock links every expression in a block. Each ModulePathAccess
// insertion is scoped to the block it occurs in: once a given prefix has
// been prefixed with an import inside this block, later uses of the same
// prefix in the same block don't repeat it (spec.md §4.7's rewrite only
// needs the import to precede the first use).
func linkBlock(ctx *Context, b *hir.Block) *hir.Block {
	seen := make(map[string]bool)
	exprs := make([]hir.Expr, len(b.Exprs))
	for i, e := range b.Exprs {
		linked := Link(ctx, e)
		if mpa, ok := linked.(*hir.ModulePathAccess); ok {
			if seen[mpa.FullPath] {
				linked = mpa.Access
			} else {
				seen[mpa.FullPath] = true
			}
		}
		exprs[i] = linked
	}
	return &hir.Block{Node: b.Node, Kind: b.Kind, Exprs: exprs}
}

// NormalizeNativePath joins pyimport's directory-style path segments with
// dots, per spec.md §4.7's "path normalization (directory prefixes joined
// by .)" rule for the native-import rewrite.
func NormalizeNativePath(dirPath string) string {
	segs := strings.Split(dirPath, "/")
	return strings.Join(segs, ".")
}

// LinkModules links every module in post-order, threading each module's
// result into the Bodies map available to the modules that import it, so
// that a later module's Erg-import rewrite can embed an earlier module's
// already-linked body. Returns the linked HIR for each path.
//
// postOrder and unlinked together mirror internal/build.Graph's PostOrder
// and Files after analysis has attached each module's unlinked HIR.
func LinkModules(postOrder []string, unlinked map[string]hir.Expr) map[string]hir.Expr {
	linked := make(map[string]hir.Expr, len(unlinked))
	for _, path := range postOrder {
		expr, ok := unlinked[path]
		if !ok {
			continue
		}
		ctx := NewContext(path, linked)
		linked[path] = Link(ctx, expr)
	}
	return linked
}
