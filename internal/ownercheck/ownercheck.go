// Package ownercheck implements the ownership checker of spec.md §4.9:
// prevent use-after-move on values whose type is a mutable reference
// type, walking the HIR depth-first with per-scope alive/dropped state
// threaded down and restored on scope exit.
//
// Grounded on crates/erg_compiler/ownercheck.rs's OwnershipChecker
// (LocalVars{alive_vars, dropped_vars} per named scope, drop/
// check_if_dropped searching outward through enclosing scopes, the
// owned-and-mutable-and-non-chunk drop condition in check_acc, and
// call-argument ownership derived from the callee's signature in
// check_expr's Call arm), adapted from erg's dotted-namespace scope
// keying (one LocalVars per definition's full path) to a plain scope
// stack, since this repo's hir.Bind does not introduce a new namespace
// for its own body the way erg's Def does (spec.md §4.9: "a definition
// inserts its name into alive_vars of the enclosing scope").
package ownercheck

import (
	"fmt"

	"github.com/sunholo/ergo/internal/ast"
	ergoerrors "github.com/sunholo/ergo/internal/errors"
	"github.com/sunholo/ergo/internal/hir"
	"github.com/sunholo/ergo/internal/types"
)

// Ownership is the ownership mode a call argument (or borrow expression)
// is evaluated under.
type Ownership int

const (
	Owned Ownership = iota
	RefOwnership
	RefMutOwnership
)

// scope is one block's {alive_vars, dropped_vars} per spec.md §4.9.
type scope struct {
	alive   map[string]bool
	dropped map[string]ast.Pos
}

func newScope() *scope {
	return &scope{alive: make(map[string]bool), dropped: make(map[string]ast.Pos)}
}

// Checker walks an HIR tree accumulating move-error diagnostics.
type Checker struct {
	scopes  []*scope
	reports []*ergoerrors.Report
	module  string
}

// New returns a Checker for the named module, seeded with one toplevel
// scope.
func New(module string) *Checker {
	return &Checker{module: module, scopes: []*scope{newScope()}}
}

// Check walks expr and returns every move-error diagnostic found. The
// checker accumulates errors and continues past the first failure
// (spec.md §4.9).
func Check(module string, expr hir.Expr) []*ergoerrors.Report {
	c := New(module)
	c.walk(expr, Owned, true)
	return c.reports
}

func (c *Checker) pushScope() { c.scopes = append(c.scopes, newScope()) }
func (c *Checker) popScope()  { c.scopes = c.scopes[:len(c.scopes)-1] }
func (c *Checker) current() *scope { return c.scopes[len(c.scopes)-1] }

// define inserts name into the innermost (enclosing) scope's alive set.
func (c *Checker) define(name string) {
	c.current().alive[name] = true
}

// drop searches scopes from innermost to outermost for name, removing it
// from the first one found and recording the drop site there.
func (c *Checker) drop(name string, pos ast.Pos) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		s := c.scopes[i]
		if s.alive[name] {
			delete(s.alive, name)
			s.dropped[name] = pos
			return
		}
	}
}

// checkIfDropped searches scopes from innermost to outermost for a prior
// drop of name, reporting a move error carrying both the use site and the
// original move site if one is found.
func (c *Checker) checkIfDropped(name string, usePos ast.Pos) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if movedAt, ok := c.scopes[i].dropped[name]; ok {
			c.reports = append(c.reports, &ergoerrors.Report{
				Schema:  ergoerrors.Schema,
				Code:    ergoerrors.MoveUseAfterMove,
				Kind:    ergoerrors.KindMove,
				Phase:   "ownercheck",
				Module:  c.module,
				Message: fmt.Sprintf("use of moved value %q", name),
				Span:    &ast.Span{Start: usePos, End: usePos},
				Secondary: []ergoerrors.SecondaryLoc{
					{Span: ast.Span{Start: movedAt, End: movedAt}, Message: "value moved here"},
				},
			})
			return
		}
	}
}

// walk dispatches on expr's concrete kind. ownership is the mode this
// position is evaluated under (Owned unless a caller's signature or an
// explicit borrow says otherwise); chunk reports whether expr is itself a
// standalone statement position (the top-level entries of a Block, and a
// Bind's continuation) rather than a nested sub-expression -- only a
// non-chunk, Owned, mutable-reference-typed read triggers a move
// (spec.md §4.9).
func (c *Checker) walk(expr hir.Expr, ownership Ownership, chunk bool) {
	switch n := expr.(type) {
	case nil:
		return

	case *hir.Lit:
		return

	case *hir.Var:
		c.checkIfDropped(n.Name, n.OriginalSpan())
		if ownership == Owned && !chunk && isRefMutType(n.Type()) {
			c.drop(n.Name, n.OriginalSpan())
		}

	case *hir.Move:
		c.checkIfDropped(n.Name, n.OriginalSpan())
		c.drop(n.Name, n.OriginalSpan())

	case *hir.Bind:
		c.define(n.Name)
		c.walk(n.Value, Owned, false)
		c.walk(n.Body, Owned, true)

	case *hir.Call:
		ownerships := paramOwnerships(n.Callee.Type(), len(n.Args))
		c.walk(n.Callee, Owned, false)
		for i, a := range n.Args {
			c.walk(a, ownerships[i], false)
		}

	case *hir.Block:
		c.pushScope()
		for _, e := range n.Exprs {
			c.walk(e, Owned, true)
		}
		c.popScope()

	case *hir.If:
		c.walk(n.Cond, Owned, false)
		c.pushScope()
		c.walk(n.Then, Owned, true)
		c.popScope()
		c.pushScope()
		c.walk(n.Else, Owned, true)
		c.popScope()

	case *hir.RefExpr:
		c.walk(n.Inner, RefOwnership, false)

	case *hir.RefMutExpr:
		c.walk(n.Inner, RefMutOwnership, false)

	case *hir.ModuleMaterialize:
		c.pushScope()
		c.walk(n.Body, Owned, true)
		c.popScope()

	default:
		// ModuleRef, NativeImport, ModulePathAccess, SelfModule, GlobalRef,
		// InlineModule: leaves with no nested expressions to walk.
	}
}

func isRefMutType(t types.T) bool {
	if t == nil {
		return false
	}
	_, ok := t.(types.RefMut)
	return ok
}

// paramOwnerships derives the ownership each of argCount positional
// arguments is passed under from the callee's signature (spec.md §4.9:
// "call-argument ownership per formal parameter derives from the
// callee's signature"). A parameter typed Ref/RefMut is borrowed rather
// than moved; anything else (including a non-Subr callee, or an argument
// beyond the declared parameter list) defaults to Owned.
func paramOwnerships(calleeTy types.T, argCount int) []Ownership {
	owns := make([]Ownership, argCount)
	subr, ok := calleeTy.(types.Subr)
	if !ok {
		return owns
	}
	for i := 0; i < argCount && i < len(subr.NonDefault); i++ {
		owns[i] = ownershipOf(subr.NonDefault[i].Ty)
	}
	return owns
}

func ownershipOf(t types.T) Ownership {
	switch t.(type) {
	case types.RefMut:
		return RefMutOwnership
	case types.Ref:
		return RefOwnership
	default:
		return Owned
	}
}
