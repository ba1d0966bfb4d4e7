package types

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/seen-lang/seen/internal/token"
)

// ScopeID indexes a scope in a Scopes arena.
type ScopeID int32

const (
	// NoScope is the parent of the universe scope.
	NoScope ScopeID = -1

	// Universe is the scope holding predeclared names. Every arena
	// starts with it.
	Universe ScopeID = 0
)

type scope struct {
	parent   ScopeID
	children []ScopeID
	elems    map[string]*Symbol
	span     token.Span
	comment  string
}

// Scopes is an arena of lexical scopes. Scopes refer to their parent by
// ID, so the tree holds no pointer cycles. Lookups are O(depth).
type Scopes struct {
	list []scope
}

// NewScopes returns an arena containing only the universe scope.
func NewScopes() *Scopes {
	s := &Scopes{}
	s.list = append(s.list, scope{
		parent:  NoScope,
		elems:   make(map[string]*Symbol),
		comment: "universe",
	})
	populateUniverse(s)
	return s
}

// New adds a child scope of parent and returns its ID.
func (s *Scopes) New(parent ScopeID, span token.Span, comment string) ScopeID {
	id := ScopeID(len(s.list))
	s.list = append(s.list, scope{
		parent:  parent,
		elems:   make(map[string]*Symbol),
		span:    span,
		comment: comment,
	})
	if parent != NoScope {
		p := &s.list[parent]
		p.children = append(p.children, id)
	}
	return id
}

// Len returns the number of scopes in the arena.
func (s *Scopes) Len() int {
	return len(s.list)
}

// Parent returns the parent of id, or NoScope for the universe.
func (s *Scopes) Parent(id ScopeID) ScopeID {
	return s.list[id].parent
}

// Children returns the child scopes of id in creation order.
func (s *Scopes) Children(id ScopeID) []ScopeID {
	return s.list[id].children
}

// Span returns the source range covered by id.
func (s *Scopes) Span(id ScopeID) token.Span {
	return s.list[id].span
}

// Comment returns the debugging label of id.
func (s *Scopes) Comment(id ScopeID) string {
	return s.list[id].comment
}

// Insert binds sym in scope id. If the name is already bound in id, the
// existing symbol is returned and sym is not inserted.
func (s *Scopes) Insert(id ScopeID, sym *Symbol) *Symbol {
	sc := &s.list[id]
	if existing := sc.elems[sym.Name]; existing != nil {
		return existing
	}
	sym.Scope = id
	sc.elems[sym.Name] = sym
	return nil
}

// LookupLocal returns the symbol bound to name in id itself.
func (s *Scopes) LookupLocal(id ScopeID, name string) *Symbol {
	return s.list[id].elems[name]
}

// Lookup walks outward from id and returns the innermost symbol bound
// to name, or nil.
func (s *Scopes) Lookup(id ScopeID, name string) *Symbol {
	for ; id != NoScope; id = s.list[id].parent {
		if sym := s.list[id].elems[name]; sym != nil {
			return sym
		}
	}
	return nil
}

// Visible returns the names visible from id, innermost binding first for
// shadowed names, sorted alphabetically.
func (s *Scopes) Visible(id ScopeID) []string {
	seen := make(map[string]bool)
	for ; id != NoScope; id = s.list[id].parent {
		for name := range s.list[id].elems {
			seen[name] = true
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Names returns the names bound in id, sorted.
func (s *Scopes) Names(id ScopeID) []string {
	return slices.Sorted(maps.Keys(s.list[id].elems))
}

// Innermost returns the deepest scope under root whose span contains the
// byte offset off. It returns root when no child contains off.
func (s *Scopes) Innermost(root ScopeID, off int) ScopeID {
	for {
		next := NoScope
		for _, c := range s.list[root].children {
			if s.list[c].span.ContainsOffset(off) {
				next = c
				break
			}
		}
		if next == NoScope {
			return root
		}
		root = next
	}
}

// String dumps the tree below the universe for debugging.
func (s *Scopes) String() string {
	var buf strings.Builder
	for _, c := range s.list[Universe].children {
		s.writeTo(&buf, c, 0)
	}
	return buf.String()
}

func (s *Scopes) writeTo(buf *strings.Builder, id ScopeID, indent int) {
	prefix := strings.Repeat("  ", indent)
	fmt.Fprintf(buf, "%sscope %s {\n", prefix, s.list[id].comment)
	for _, name := range s.Names(id) {
		fmt.Fprintf(buf, "%s  %s\n", prefix, s.list[id].elems[name])
	}
	for _, c := range s.list[id].children {
		s.writeTo(buf, c, indent+1)
	}
	fmt.Fprintf(buf, "%s}\n", prefix)
}
