// Package icons maps result types to the Font Awesome classes shown for
// expanded and collapsed nodes.
//
// A Set is immutable once built and is handed to the renderers that need
// it; there is no package-level mutable table.
package icons

import (
	"sort"

	"github.com/prettyresults/prettyresults/internal/results"
)

// None is returned for types without an icon. Renderers skip the icon
// element when they get it.
const None = ""

// Pair holds the icons for the expanded and collapsed state of one type.
type Pair struct {
	Open   string `yaml:"open" json:"open"`
	Closed string `yaml:"closed" json:"closed"`
}

// Pick returns the icon for the given state.
func (p Pair) Pick(open bool) string {
	if open {
		return p.Open
	}
	return p.Closed
}

// Set is an immutable type-to-icon table.
type Set struct {
	entries  map[results.Type]Pair
	fallback *Pair
}

// Option configures a Set.
type Option func(*Set)

// WithFallback sets the icons used for types that have no entry.
func WithFallback(p Pair) Option {
	return func(s *Set) {
		fb := p
		s.fallback = &fb
	}
}

// New builds a Set from entries. The map is copied.
func New(entries map[results.Type]Pair, opts ...Option) Set {
	s := Set{entries: make(map[results.Type]Pair, len(entries))}
	for t, p := range entries {
		s.entries[t] = p
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Default returns the built-in icon table.
func Default() Set {
	return New(map[results.Type]Pair{
		results.TypeFigure:    {Open: "fa-bar-chart", Closed: "fa-bar-chart"},
		results.TypeTable:     {Open: "fa-table", Closed: "fa-table"},
		results.TypeContainer: {Open: "fa-folder-open", Closed: "fa-folder"},
	})
}

// Lookup returns the icon for type t in the given state. ok is false when
// t has no entry, in which case the fallback (or None) is returned.
func (s Set) Lookup(t results.Type, open bool) (icon string, ok bool) {
	if p, found := s.entries[t]; found {
		return p.Pick(open), true
	}
	if s.fallback != nil {
		return s.fallback.Pick(open), false
	}
	return None, false
}

// IconFor returns the icon for type t in the given state, or the fallback
// (None when no fallback is configured) for unknown types.
func (s Set) IconFor(t results.Type, open bool) string {
	icon, _ := s.Lookup(t, open)
	return icon
}

// Open returns the expanded-state icon for t.
func (s Set) Open(t results.Type) string {
	return s.IconFor(t, true)
}

// Closed returns the collapsed-state icon for t.
func (s Set) Closed(t results.Type) string {
	return s.IconFor(t, false)
}

// With returns a new Set with overrides applied on top of s. Empty fields
// in an override keep the existing value.
func (s Set) With(overrides map[results.Type]Pair) Set {
	next := New(s.entries)
	next.fallback = s.fallback
	for t, p := range overrides {
		cur := next.entries[t]
		if p.Open != "" {
			cur.Open = p.Open
		}
		if p.Closed != "" {
			cur.Closed = p.Closed
		}
		next.entries[t] = cur
	}
	return next
}

// Types returns the types with an entry, sorted.
func (s Set) Types() []results.Type {
	out := make([]results.Type, 0, len(s.entries))
	for t := range s.entries {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
