package diag

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/seen-lang/seen/internal/token"
)

// List accumulates the diagnostics of one compilation unit.
// The zero value is an empty list ready to use.
type List []Diagnostic

// Add appends d.
func (l *List) Add(d Diagnostic) {
	*l = append(*l, d)
}

// Report appends a diagnostic for template t at span and returns it.
func (l *List) Report(t *Template, span token.Span, args ...any) Diagnostic {
	d := New(t, span, args...)
	l.Add(d)
	return d
}

// Len returns the number of diagnostics.
func (l List) Len() int {
	return len(l)
}

// Errors returns the diagnostics with Error severity.
func (l List) Errors() List {
	return lo.Filter(l, func(d Diagnostic, _ int) bool {
		return d.Severity == Error
	})
}

// HasErrors reports whether l contains an Error diagnostic.
func (l List) HasErrors() bool {
	return slices.ContainsFunc(l, func(d Diagnostic) bool {
		return d.Severity == Error
	})
}

// WithCode returns the diagnostics whose code is c.
func (l List) WithCode(c Code) List {
	return lo.Filter(l, func(d Diagnostic, _ int) bool {
		return d.Code == c
	})
}

// Sorted returns a copy of l ordered by file and source position.
// Diagnostics at the same position keep their report order.
func (l List) Sorted() List {
	sorted := slices.Clone(l)
	slices.SortStableFunc(sorted, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Span.File, b.Span.File),
			cmp.Compare(a.Span.Offset, b.Span.Offset),
		)
	})
	return sorted
}
