// Error codes restyled from ailang/internal/errors/codes.go's PHASE###
// convention onto spec.md §7's closed Kind taxonomy.
package errors

const (
	// Syntax (SYN###) — surface-level shapes internal/build and
	// internal/hirlink recognize directly (malformed import targets,
	// non-UTF-8 source). The parser itself is an external collaborator.
	SyntaxNonUTF8   = "SYN001"
	SyntaxBadImport = "SYN002"

	// Name (NAM###) — symbol resolution.
	NameUnbound         = "NAM001"
	NameDuplicateDecl   = "NAM002"
	NameAmbiguousImport = "NAM003"

	// Type (TYP###) — the type checker and evaluator.
	TypeMismatch       = "TYP001"
	TypeOccursCheck    = "TYP002"
	TypeRefinementFail = "TYP003"
	TypeSubsumption    = "TYP004"

	// Effect (EFF###).
	EffectProcInPureContext = "EFF001"
	EffectProcAssignName    = "EFF002"
	EffectFuncReturnsProc   = "EFF003"
	EffectTouchMut          = "EFF004"

	// Move (MOV###) — ownership checker.
	MoveUseAfterMove = "MOV001"

	// Feature (FEA###) — unimplemented/out-of-scope constructs.
	FeatureUnsupported = "FEA001"

	// Import (IMP###) — package builder / resolver.
	ImportNotFound = "IMP001"
	ImportCycle    = "IMP002" // diagnostic only; cycles are inlined, not rejected
	ImportSelf     = "IMP003"

	// Io (IO###).
	IoGeneric  = "IO001"
	IoNotFound = "IO002"
	IoNotUTF8  = "IO003"

	// Compiler (CMP###) — internal invariant violations.
	CompilerInvariant = "CMP001"

	// ConstFunc errors (CFN###) — internal/constfunc. These surface as
	// Type-kind diagnostics but carry their own codes so the originating
	// builtin is traceable.
	ConstFuncMissingArg = "CFN001"
	ConstFuncTypeError  = "CFN002"
	ConstFuncIndexError = "CFN003"
	ConstFuncKeyError   = "CFN004"
)

// ErrorInfo documents one code's kind and one-line description.
type ErrorInfo struct {
	Code        string
	Kind        Kind
	Description string
}

// Registry maps every code above to its documentation (kind and
// one-line description); Lookup reads it.
var Registry = map[string]ErrorInfo{
	SyntaxNonUTF8:   {SyntaxNonUTF8, KindSyntax, "source file is not valid UTF-8"},
	SyntaxBadImport: {SyntaxBadImport, KindSyntax, "import call does not have a single string-literal argument"},

	NameUnbound:         {NameUnbound, KindName, "reference to an unbound name"},
	NameDuplicateDecl:   {NameDuplicateDecl, KindName, "duplicate declaration in the same scope"},
	NameAmbiguousImport: {NameAmbiguousImport, KindName, "imported name is ambiguous across multiple modules"},

	TypeMismatch:       {TypeMismatch, KindType, "type mismatch"},
	TypeOccursCheck:    {TypeOccursCheck, KindType, "occurs check failed during unification"},
	TypeRefinementFail: {TypeRefinementFail, KindType, "refinement predicate rejects the given value"},
	TypeSubsumption:    {TypeSubsumption, KindType, "declared type is not a supertype of the assigned body"},

	EffectProcInPureContext: {EffectProcInPureContext, KindEffect, "procedural call in pure function"},
	EffectProcAssignName:    {EffectProcAssignName, KindEffect, "procedure-typed parameter name must end in !"},
	EffectFuncReturnsProc:   {EffectFuncReturnsProc, KindEffect, "pure function body evaluates to a procedure type"},
	EffectTouchMut:          {EffectTouchMut, KindEffect, "read of a mutable-reference-typed variable outside an effect-permitting context"},

	MoveUseAfterMove: {MoveUseAfterMove, KindMove, "use of a moved value"},

	FeatureUnsupported: {FeatureUnsupported, KindFeature, "construct not supported by this implementation"},

	ImportNotFound: {ImportNotFound, KindImport, "imported module path could not be resolved"},
	ImportCycle:    {ImportCycle, KindImport, "import cycle detected (inlined, not an error)"},
	ImportSelf:     {ImportSelf, KindImport, "module imports its own path"},

	IoGeneric:  {IoGeneric, KindIo, "I/O failure"},
	IoNotFound: {IoNotFound, KindIo, "file not found"},
	IoNotUTF8:  {IoNotUTF8, KindIo, "file is not valid UTF-8"},

	CompilerInvariant: {CompilerInvariant, KindCompiler, "internal invariant violated"},

	ConstFuncMissingArg: {ConstFuncMissingArg, KindType, "required const-function argument was not passed"},
	ConstFuncTypeError:  {ConstFuncTypeError, KindType, "const-function argument was not a type"},
	ConstFuncIndexError: {ConstFuncIndexError, KindType, "const-function index out of range"},
	ConstFuncKeyError:   {ConstFuncKeyError, KindType, "const-function key not found"},
}

// Lookup returns a code's registered info.
func Lookup(code string) (ErrorInfo, bool) {
	info, ok := Registry[code]
	return info, ok
}
