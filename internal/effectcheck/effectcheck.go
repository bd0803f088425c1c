// Package effectcheck implements the side-effect checker of spec.md §4.8:
// every block carries one of six effect classifications, and a
// side-effecting operation (a procedure call, or a read of a
// mutable-reference-typed variable) is only permitted inside a context
// that allows effects.
//
// Grounded on crates/erg_compiler/effectcheck.rs's SideEffectChecker
// (block_stack of BlockKind, in_context_effects_allowed, check_expr's
// per-node-kind dispatch), adapted from a path_stack-carrying struct
// walking erg's full HIR sum to a narrower walk over this repo's
// hir.Expr sum, and from "panic on user-defined const procedure" to a
// reported diagnostic (spec.md Non-goals rule out panicking compiler
// internals as a diagnostic path).
package effectcheck

import (
	"fmt"

	"github.com/sunholo/ergo/internal/ast"
	ergoerrors "github.com/sunholo/ergo/internal/errors"
	"github.com/sunholo/ergo/internal/hir"
	"github.com/sunholo/ergo/internal/types"
)

// Checker walks an HIR tree accumulating effect-permission diagnostics.
type Checker struct {
	blockStack []hir.BlockKind
	reports    []*ergoerrors.Report
	module     string
}

// New returns a Checker for the named module (used only in diagnostics),
// seeded with the toplevel Module block every source file starts in.
func New(module string) *Checker {
	return &Checker{module: module, blockStack: []hir.BlockKind{hir.BlockModule}}
}

// Check walks expr and returns every effect-permission violation found.
// It does not stop at the first failure: the same "accumulate past the
// first failure" discipline spec.md §4.9 states for the ownership
// checker applies equally here.
func Check(module string, expr hir.Expr) []*ergoerrors.Report {
	c := New(module)
	c.walk(expr)
	return c.reports
}

func (c *Checker) push(k hir.BlockKind) { c.blockStack = append(c.blockStack, k) }
func (c *Checker) pop()                 { c.blockStack = c.blockStack[:len(c.blockStack)-1] }
func (c *Checker) top() hir.BlockKind   { return c.blockStack[len(c.blockStack)-1] }

// contextAllowsEffects implements spec.md §4.8's permission rule: the
// innermost block is Proc or Module, or it is an Instant nested directly
// under Proc/Module/Instant (including the toplevel Module block itself,
// a one-entry stack whose only entry is Module).
func (c *Checker) contextAllowsEffects() bool {
	switch c.top() {
	case hir.BlockProc, hir.BlockModule:
		return true
	case hir.BlockInstant:
		if len(c.blockStack) == 1 {
			return true
		}
		switch c.blockStack[len(c.blockStack)-2] {
		case hir.BlockProc, hir.BlockModule, hir.BlockInstant:
			return true
		}
	}
	return false
}

func (c *Checker) reportAt(code, msg string, e hir.Expr) {
	span := &ast.Span{Start: e.OriginalSpan(), End: e.OriginalSpan()}
	c.reports = append(c.reports, &ergoerrors.Report{
		Schema:  ergoerrors.Schema,
		Code:    code,
		Kind:    ergoerrors.KindEffect,
		Phase:   "effectcheck",
		Module:  c.module,
		Message: msg,
		Span:    span,
	})
}

// blockKindForDef classifies the effect context a definition's body
// introduces, per spec.md §4.8: a `!`-suffixed name starts a Proc body; an
// uppercase-initial name is a ConstInstant; otherwise Func (for a
// subroutine) or Instant (for a plain binding).
func blockKindForDef(name string, isSubr bool) hir.BlockKind {
	if endsWithBang(name) {
		return hir.BlockProc
	}
	if startsUpper(name) {
		return hir.BlockConstInstant
	}
	if isSubr {
		return hir.BlockFunc
	}
	return hir.BlockInstant
}

func endsWithBang(name string) bool {
	return len(name) > 0 && name[len(name)-1] == '!'
}

func startsUpper(name string) bool {
	if name == "" {
		return false
	}
	r := name[0]
	return r >= 'A' && r <= 'Z'
}

// isProcType reports whether t is a procedure's Subr type.
func isProcType(t types.T) bool {
	s, ok := t.(types.Subr)
	return ok && s.Kind == types.KindProc
}

// walk dispatches on expr's concrete kind, mirroring check_expr's match in
// the original side-effect checker.
func (c *Checker) walk(expr hir.Expr) {
	switch n := expr.(type) {
	case nil:
		return

	case *hir.Lit:
		return

	case *hir.Var:
		if n.Type() != nil {
			if _, mut := n.Type().(types.RefMut); mut && !c.contextAllowsEffects() {
				c.reportAt(ergoerrors.EffectTouchMut,
					fmt.Sprintf("read of mutable-reference variable %q has a side effect outside an effect-permitting context", n.Name),
					n)
			}
		}

	case *hir.Bind:
		kind := blockKindForDef(n.Name, isSubrValue(n.Value))
		c.push(kind)
		c.checkProcNamingConvention(n.Name, n.Value, kind)
		c.walk(n.Value)
		c.pop()
		c.walk(n.Body)

	case *hir.Call:
		if n.Kind == hir.BlockProc && !c.contextAllowsEffects() {
			c.reportAt(ergoerrors.EffectProcInPureContext,
				"procedure call has a side effect outside an effect-permitting context", n)
		}
		c.walk(n.Callee)
		for _, a := range n.Args {
			c.walk(a)
		}

	case *hir.Block:
		c.push(n.Kind)
		for _, e := range n.Exprs {
			c.walk(e)
		}
		c.pop()

	case *hir.If:
		c.walk(n.Cond)
		c.walk(n.Then)
		c.walk(n.Else)

	case *hir.RefExpr:
		c.walk(n.Inner)

	case *hir.RefMutExpr:
		c.walk(n.Inner)

	case *hir.ModuleMaterialize:
		c.push(hir.BlockModule)
		c.walk(n.Body)
		c.pop()

	default:
		// ModuleRef, NativeImport, ModulePathAccess, SelfModule, GlobalRef,
		// InlineModule, Move: leaves with no nested expressions to walk.
	}
}

// checkProcNamingConvention implements spec.md §4.8's naming-convention
// check: a Func-defined binding whose body is itself procedure-typed is
// an error (the parameter-side half of this rule -- a procedure-typed
// parameter whose name lacks a trailing `!` -- is not checked: hir.Bind
// here models a value definition, not a parameter list, and no other
// package checks parameter names).
func (c *Checker) checkProcNamingConvention(name string, value hir.Expr, kind hir.BlockKind) {
	if kind != hir.BlockFunc && kind != hir.BlockInstant {
		return
	}
	if !isSubrValue(value) || value.Type() == nil {
		return
	}
	if isProcType(value.Type()) && !endsWithBang(name) {
		c.reportAt(ergoerrors.EffectFuncReturnsProc,
			fmt.Sprintf("binding %q evaluates to a procedure type but its name does not end in !", name),
			value)
	}
}

// isSubrValue reports whether e's shape indicates a subroutine
// definition's body (a call, standing in for the callee's own
// classification, or a multi-expression block) as opposed to a plain
// value binding -- the Go analogue of the original checker's
// Signature::Subr vs Signature::Var distinction, which this repo's HIR
// doesn't carry explicitly.
func isSubrValue(e hir.Expr) bool {
	switch e.(type) {
	case *hir.Call, *hir.Block:
		return true
	default:
		return false
	}
}
