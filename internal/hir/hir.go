// Package hir defines the high-level IR consumed by internal/hirlink,
// internal/effectcheck, and internal/ownercheck: an A-normal-form-adjacent
// expression sum carrying a resolved types.T on every binding.
//
// Grounded on ailang/internal/core's CoreExpr sum (NodeID/Span-carrying
// base struct, atomic-vs-complex expression split), with node shapes
// adapted from els/hir_visitor.rs's HIR visitor surface (module
// materialization, self-module, effect blocks).
package hir

import (
	"fmt"
	"strings"

	"github.com/sunholo/ergo/internal/ast"
	"github.com/sunholo/ergo/internal/types"
)

// BlockKind is the effect-tracking classification of an enclosing block
// (spec.md §4.8).
type BlockKind int

const (
	BlockFunc BlockKind = iota
	BlockConstFunc
	BlockConstInstant
	BlockProc
	BlockInstant
	BlockModule
)

func (k BlockKind) String() string {
	switch k {
	case BlockConstFunc:
		return "ConstFunc"
	case BlockConstInstant:
		return "ConstInstant"
	case BlockProc:
		return "Proc"
	case BlockInstant:
		return "Instant"
	case BlockModule:
		return "Module"
	default:
		return "Func"
	}
}

// Node is the base for every HIR node: a stable id, the HIR-local position,
// the originating surface position (for diagnostics), and the node's
// resolved type.
type Node struct {
	NodeID   uint64
	HIRSpan  ast.Pos
	OrigSpan ast.Pos
	Ty       types.T
}

func (n Node) ID() uint64           { return n.NodeID }
func (n Node) Span() ast.Pos        { return n.HIRSpan }
func (n Node) OriginalSpan() ast.Pos { return n.OrigSpan }
func (n Node) Type() types.T        { return n.Ty }

// Expr is the closed HIR expression sum.
type Expr interface {
	ID() uint64
	Span() ast.Pos
	OriginalSpan() ast.Pos
	Type() types.T
	String() string
	hirExpr()
}

// Var is a resolved name reference.
type Var struct {
	Node
	Name string
}

func (*Var) hirExpr()        {}
func (v *Var) String() string { return v.Name }

// Lit is a literal value, already reduced to a types.Value.
type Lit struct {
	Node
	Value types.Value
}

func (*Lit) hirExpr()        {}
func (l *Lit) String() string { return l.Value.String() }

// Bind is a single (possibly refined) name binding, `name = value`.
type Bind struct {
	Node
	Name  string
	Value Expr
	Body  Expr // continuation; nil at the end of a block
}

func (*Bind) hirExpr() {}
func (b *Bind) String() string {
	if b.Body == nil {
		return fmt.Sprintf("%s = %s", b.Name, b.Value)
	}
	return fmt.Sprintf("%s = %s; %s", b.Name, b.Value, b.Body)
}

// Call is a function/procedure application.
type Call struct {
	Node
	Callee Expr
	Args   []Expr
	Kind   BlockKind // the callee's own classification, for effect checking
}

func (*Call) hirExpr() {}
func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(parts, ", "))
}

// Block is a sequence of expressions executed for effect, with a
// block-level effect classification (spec.md §4.8).
type Block struct {
	Node
	Kind  BlockKind
	Exprs []Expr
}

func (*Block) hirExpr() {}
func (b *Block) String() string {
	parts := make([]string, len(b.Exprs))
	for i, e := range b.Exprs {
		parts[i] = e.String()
	}
	return fmt.Sprintf("{%s: %s}", b.Kind, strings.Join(parts, "; "))
}

// If is a conditional.
type If struct {
	Node
	Cond, Then, Else Expr
}

func (*If) hirExpr() {}
func (i *If) String() string {
	return fmt.Sprintf("if %s then %s else %s", i.Cond, i.Then, i.Else)
}

// ModuleRef is a reference to another module's materialized object, the
// target of every import rewrite performed by internal/hirlink.
type ModuleRef struct {
	Node
	Path string
}

func (*ModuleRef) hirExpr()        {}
func (m *ModuleRef) String() string { return fmt.Sprintf("<module %s>", m.Path) }

// ModuleMaterialize is the compound block the Erg-import rewrite produces
// (spec.md §4.7): bind a temporary to a freshly constructed module object,
// copy locals into its dict, execute the module body against that dict as
// globals, and evaluate to the temporary.
type ModuleMaterialize struct {
	Node
	Temp string
	Path string
	Body Expr
}

func (*ModuleMaterialize) hirExpr() {}
func (m *ModuleMaterialize) String() string {
	return fmt.Sprintf("%s = __module__(%q); %s.__dict__.update(locals()); exec(%s, %s.__dict__); %s",
		m.Temp, m.Path, m.Temp, m.Body, m.Temp, m.Temp)
}

// NativeImport is a rewritten `pyimport "a.b"` call.
type NativeImport struct {
	Node
	Path string // dotted, directory-prefix-joined
}

func (*NativeImport) hirExpr()        {}
func (n *NativeImport) String() string { return fmt.Sprintf("__import__(%q)", n.Path) }

// ModulePathAccess prefixes an explicit import statement before an
// attribute access chain rooted at a native module value (spec.md §4.7's
// "mpl.pyplot.plot(...)" example).
type ModulePathAccess struct {
	Node
	FullPath string
	Access   Expr
}

func (*ModulePathAccess) hirExpr() {}
func (m *ModulePathAccess) String() string {
	return fmt.Sprintf("import %s; %s", m.FullPath, m.Access)
}

// SelfModule lowers to `__import__(__name__)`.
type SelfModule struct {
	Node
	OwnName string
}

func (*SelfModule) hirExpr()        {}
func (s *SelfModule) String() string { return fmt.Sprintf("__import__(%q)", s.OwnName) }

// GlobalRef lowers to a reference to the built-in globals record.
type GlobalRef struct{ Node }

func (*GlobalRef) hirExpr()        {}
func (*GlobalRef) String() string { return "globals()" }

// InlineModule carries an inlined importee's AST verbatim, used while
// resolving an import cycle (spec.md §4.6): the importer's import
// expression is replaced by this node rather than erroring.
type InlineModule struct {
	Node
	Path string
	File *ast.File
}

func (*InlineModule) hirExpr() {}
func (m *InlineModule) String() string {
	return fmt.Sprintf("<inlined %s>", m.Path)
}

// RefExpr / RefMutExpr / Move mark ownership-relevant operations for
// internal/ownercheck.
type RefExpr struct {
	Node
	Inner Expr
}

func (*RefExpr) hirExpr()        {}
func (r *RefExpr) String() string { return fmt.Sprintf("&%s", r.Inner) }

type RefMutExpr struct {
	Node
	Inner Expr
}

func (*RefMutExpr) hirExpr()        {}
func (r *RefMutExpr) String() string { return fmt.Sprintf("&mut %s", r.Inner) }

// Move is an explicit move-out read of a name (the checker also infers
// this implicitly for mutable-reference-typed reads; this node exists so
// a linker/lowering pass can make an inferred move explicit in the HIR).
type Move struct {
	Node
	Name string
}

func (*Move) hirExpr()        {}
func (m *Move) String() string { return fmt.Sprintf("move(%s)", m.Name) }
