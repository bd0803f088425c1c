package ast

// ImportTarget recognizes spec.md §4.6's import shape: a call to the
// builtin `import` (or `pyimport`) whose single positional argument is a
// string literal. Returns the literal path and true if call matches;
// native reports whether it was `pyimport` rather than `import`.
func ImportTarget(call *FuncCall) (path string, native bool, ok bool) {
	id, isIdent := call.Func.(*Identifier)
	if !isIdent || len(call.Args) != 1 {
		return "", false, false
	}
	lit, isLit := call.Args[0].(*Literal)
	if !isLit || lit.Kind != StringLit {
		return "", false, false
	}
	s, isStr := lit.Value.(string)
	if !isStr {
		return "", false, false
	}
	switch id.Name {
	case "import":
		return s, false, true
	case "pyimport":
		return s, true, true
	default:
		return "", false, false
	}
}

// Assign is a top-level (or block-level) binding `name = value`, the
// shape used throughout spec.md §8's end-to-end scenarios (`x = 1`,
// `a = arr!(1, 2)`). Distinct from Let, which additionally threads an
// explicit `in body` continuation for nested scopes.
type Assign struct {
	Name  string
	Type  Type // optional annotation
	Value Expr
	Pos   Pos
}

func (a *Assign) String() string    { return a.Name + " = " + a.Value.String() }
func (a *Assign) Position() Pos     { return a.Pos }
func (a *Assign) stmtNode()         {}

// SelfModule is the bare `module` keyword reference (spec.md §4.7's
// self-module expression).
type SelfModule struct{ Pos Pos }

func (SelfModule) exprNode()            {}
func (s *SelfModule) Position() Pos     { return s.Pos }
func (s *SelfModule) String() string    { return "module" }

// GlobalRef is the bare `global` keyword reference.
type GlobalRef struct{ Pos Pos }

func (GlobalRef) exprNode()         {}
func (g *GlobalRef) Position() Pos  { return g.Pos }
func (g *GlobalRef) String() string { return "global" }

// ImportInline replaces an import expression that would otherwise close an
// import cycle (spec.md §4.6): rather than erroring, the builder substitutes
// the importee's own AST verbatim at the import site.
type ImportInline struct {
	Path string
	File *File
	Pos  Pos
}

func (*ImportInline) exprNode()          {}
func (i *ImportInline) Position() Pos    { return i.Pos }
func (i *ImportInline) String() string   { return "<inline " + i.Path + ">" }
