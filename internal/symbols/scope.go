// Package symbols implements per-scope name resolution: VarInfo records,
// the scope tree, forward declarations, and parameter binding.
//
// Grounded on erg_lang/erg's context/register.rs (register/registered/
// declare/assign/assign_params/preregister) and styled after the teacher's
// internal/module.Loader for the tree-of-scopes-with-owned-children shape
// and its sync.RWMutex-guarded registry idiom.
package symbols

import (
	"fmt"
	"sync"

	"github.com/sunholo/ergo/internal/types"
)

// Visibility is a binding's export status.
type Visibility int

const (
	Private Visibility = iota
	Public
	Restricted
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Restricted:
		return "restricted"
	default:
		return "private"
	}
}

// Mutability distinguishes ordinary bindings from `!`-suffixed mutable
// ones.
type Mutability int

const (
	Immutable Mutability = iota
	Mutable
)

// Kind tags how a binding came to exist.
type Kind int

const (
	KindDeclared Kind = iota // forward declaration, type known but unassigned
	KindDefined
	KindParameter
)

// VarInfo is everything the checker tracks about one bound name
// (spec.md §4.4).
type VarInfo struct {
	Type       types.T
	Mutability Mutability
	Visibility Visibility
	Kind       Kind
	ParamIndex int // meaningful only when Kind == KindParameter
}

func (vi VarInfo) String() string {
	m := "const"
	if vi.Mutability == Mutable {
		m = "mut"
	}
	return fmt.Sprintf("%s %s: %s", m, vi.Visibility, vi.Type)
}

// DuplicateDeclarationError is returned by Register when name is already
// bound in the same scope and the existing binding is not a forward
// declaration being resolved.
type DuplicateDeclarationError struct {
	Name  string
	Scope string
}

func (e *DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("duplicate declaration of %q in scope %q", e.Name, e.Scope)
}

// SubtypeChecker decides whether sub is a subtype of sup; supplied by
// whatever owns the full type lattice (kept out of this package to avoid a
// symbols <-> types-lattice import cycle).
type SubtypeChecker func(sub, sup types.T) bool

// Scope is one node of the lexical scope tree. Children are owned (no
// parent back-pointer needed beyond the explicit parent field used for
// outer-scope search), matching this corpus's habit of building trees with
// owned-slice children rather than shared/parent-pointer graphs.
type Scope struct {
	mu sync.RWMutex

	name     string
	parent   *Scope
	children []*Scope

	vars   map[string]VarInfo
	bounds []types.TyBound

	// constDefaults records a const parameter's default TyParam, threaded
	// in by assign_params when a subroutine signature supplies one.
	constDefaults map[string]types.TyParam
}

// NewRoot allocates the top-level (module) scope.
func NewRoot(name string) *Scope {
	return &Scope{
		name:          name,
		vars:          map[string]VarInfo{},
		constDefaults: map[string]types.TyParam{},
	}
}

// NewChild allocates a nested scope owned by s.
func (s *Scope) NewChild(name string) *Scope {
	child := &Scope{
		name:          name,
		parent:        s,
		vars:          map[string]VarInfo{},
		constDefaults: map[string]types.TyParam{},
	}
	s.mu.Lock()
	s.children = append(s.children, child)
	s.mu.Unlock()
	return child
}

func (s *Scope) Name() string { return s.name }

// Register binds name to vi in s. Fails with DuplicateDeclarationError
// unless the existing binding is a KindDeclared forward declaration being
// resolved into KindDefined (spec.md §4.4).
func (s *Scope) Register(name string, vi VarInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.vars[name]; ok {
		if !(existing.Kind == KindDeclared && vi.Kind != KindDeclared) {
			return &DuplicateDeclarationError{Name: name, Scope: s.name}
		}
	}
	s.vars[name] = vi
	return nil
}

// Registered reports whether name is bound in s, optionally searching
// enclosing scopes too.
func (s *Scope) Registered(name string, recursive bool) bool {
	_, ok := s.lookup(name, recursive)
	return ok
}

// Lookup searches s (and, if recursive, its ancestors) for name,
// innermost first.
func (s *Scope) Lookup(name string, recursive bool) (VarInfo, bool) {
	return s.lookup(name, recursive)
}

func (s *Scope) lookup(name string, recursive bool) (VarInfo, bool) {
	s.mu.RLock()
	vi, ok := s.vars[name]
	parent := s.parent
	s.mu.RUnlock()
	if ok {
		return vi, true
	}
	if recursive && parent != nil {
		return parent.lookup(name, recursive)
	}
	return VarInfo{}, false
}

// Declare introduces a forward declaration for name. ty may be the zero
// value (nil) when the declaration carries no annotation yet.
func (s *Scope) Declare(name string, ty types.T) error {
	return s.Register(name, VarInfo{Type: ty, Kind: KindDeclared, Visibility: Private})
}

// Assign finalizes a binding, checking it against any prior declaration
// via isSubtype. If name was previously KindDeclared with a non-nil type,
// bodyType must be a subtype of it.
func (s *Scope) Assign(name string, bodyType types.T, vis Visibility, isSubtype SubtypeChecker) error {
	s.mu.Lock()
	prior, hadPrior := s.vars[name]
	s.mu.Unlock()

	if hadPrior && prior.Kind == KindDeclared && prior.Type != nil && isSubtype != nil {
		if !isSubtype(bodyType, prior.Type) {
			return fmt.Errorf("symbols: assign %q: %s is not a subtype of declared %s", name, bodyType, prior.Type)
		}
	}
	return s.Register(name, VarInfo{Type: bodyType, Kind: KindDefined, Visibility: vis})
}

// AssignParams binds each formal parameter into s. It records the
// bindings only; parameter names are not checked against the `!` naming
// convention here or elsewhere.
func (s *Scope) AssignParams(params []types.ParamTy) error {
	for i, p := range params {
		name := fmt.Sprintf("_%d", i)
		if p.Name != nil {
			name = *p.Name
		}
		if err := s.Register(name, VarInfo{Type: p.Ty, Kind: KindParameter, ParamIndex: i, Visibility: Private}); err != nil {
			return err
		}
	}
	return nil
}

// Preregister hoists every name in names (with a pending/unknown type) so
// that mutually recursive definitions within the same block are
// admissible, per spec.md §4.4.
func (s *Scope) Preregister(names []string) error {
	for _, n := range names {
		if s.Registered(n, false) {
			continue
		}
		if err := s.Declare(n, nil); err != nil {
			return err
		}
	}
	return nil
}

// PushBound records an active quantifier bound in s (used while checking a
// generic definition's body).
func (s *Scope) PushBound(b types.TyBound) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bounds = append(s.bounds, b)
}

// Bounds returns the quantifier bounds active in s and its ancestors.
func (s *Scope) Bounds() []types.TyBound {
	var out []types.TyBound
	for cur := s; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		out = append(out, cur.bounds...)
		cur.mu.RUnlock()
	}
	return out
}

// SetConstDefault records a const parameter's default value.
func (s *Scope) SetConstDefault(name string, val types.TyParam) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.constDefaults[name] = val
}

// ConstDefault returns a const parameter's recorded default, if any.
func (s *Scope) ConstDefault(name string) (types.TyParam, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.constDefaults[name]
	return v, ok
}

// Children returns a snapshot of s's owned child scopes.
func (s *Scope) Children() []*Scope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Scope, len(s.children))
	copy(out, s.children)
	return out
}
