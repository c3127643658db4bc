// Package eval implements the expression evaluator (spec §4.C) and the
// scope hierarchy it evaluates against (spec §3.3).
package eval

import (
	"github.com/dbschema/dbschema/value"
)

// Scope is a frame in the hierarchy described in spec §3.3. Frames are
// mutable: Set adds or replaces a binding in place, and the resolver keeps
// adding to a module's namespace objects while it evaluates that module. It
// binds top-level namespaces ("var", "local", "data", "module", "each",
// "count") to Values; traversal further down (var.foo, data.type.name.attr)
// is plain object-attribute lookup performed by the evaluator, not by the
// Scope itself. Scopes form a parent chain; lookup walks outward until a
// frame defines the name.
type Scope struct {
	parent *Scope
	names  map[string]value.Value
}

// NewRootScope returns an empty top-level scope (used for a module's
// outermost evaluation frame).
func NewRootScope() *Scope {
	return &Scope{names: make(map[string]value.Value)}
}

// Child creates a new frame whose lookups fall back to s. Used for
// for-comprehension and dynamic-block iteration bindings (each.*,
// count.index) so they shadow only within their own expression.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, names: make(map[string]value.Value)}
}

// Set binds name in this frame (not the parent chain).
func (s *Scope) Set(name string, v value.Value) {
	s.names[name] = v
}

// Lookup walks the parent chain looking for name, returning ok=false if
// no frame defines it (spec §3.3 "lookup walks the chain").
func (s *Scope) Lookup(name string) (value.Value, bool) {
	for f := s; f != nil; f = f.parent {
		if v, ok := f.names[name]; ok {
			return v, true
		}
	}
	return value.Value{}, false
}

// WithEach returns a child scope with each.key/each.value bound, for
// for_each/dynamic expansion (spec §4.F).
func (s *Scope) WithEach(key, val value.Value) *Scope {
	c := s.Child()
	each := value.NewObject()
	each.Set("key", key)
	each.Set("value", val)
	c.Set("each", value.ObjectVal(each))
	return c
}

// WithCountIndex returns a child scope with count.index bound.
func (s *Scope) WithCountIndex(idx int64) *Scope {
	c := s.Child()
	count := value.NewObject()
	count.Set("index", value.IntVal(idx))
	c.Set("count", value.ObjectVal(count))
	return c
}
