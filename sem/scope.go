package sem

import "github.com/gel-lang/gelc/loc"
import "github.com/gel-lang/gelc/types"

// An entry is what a Scope binds a name to: the location of its
// declaration and its type. Type is nil if the declaration itself
// failed to type, so that later lookups don't cascade a spurious
// second error.
type entry struct {
	loc loc.Location
	typ types.Type
}

// A Scope is one link in a chain of nested lexical scopes: function
// bodies, if/while bodies, and the top-level scope holding function
// names and the print builtin.
type Scope struct {
	parent   *Scope
	bindings map[string]entry
}

// NewScope returns a child scope of parent. A nil parent makes the
// returned Scope the root of a chain.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent}
}

// Define binds name to e in this scope. It returns false, leaving the
// scope unchanged, if name is already bound in this scope (not a
// parent); shadowing a parent binding succeeds.
func (s *Scope) Define(name string, e entry) bool {
	if _, ok := s.bindings[name]; ok {
		return false
	}
	if s.bindings == nil {
		s.bindings = make(map[string]entry)
	}
	s.bindings[name] = e
	return true
}

// Lookup searches this scope and its ancestors for name, returning the
// bound entry and true, or the zero entry and false.
func (s *Scope) Lookup(name string) (entry, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if e, ok := sc.bindings[name]; ok {
			return e, ok
		}
	}
	return entry{}, false
}
