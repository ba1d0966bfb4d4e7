// Package types2 type-checks Seen syntax trees. It resolves names
// against arena scopes, infers the types of unannotated bindings, and
// records the results in an Info overlay keyed by node id.
package types2

import (
	"github.com/seen-lang/seen/internal/diag"
	"github.com/seen-lang/seen/internal/syntax"
	"github.com/seen-lang/seen/internal/token"
	"github.com/seen-lang/seen/internal/types"
)

// report adds d to the checker's diagnostics.
func (c *Checker) report(d diag.Diagnostic) {
	c.diags.Add(d)
}

// errorf reports a diagnostic for template t at span.
func (c *Checker) errorf(t *diag.Template, span token.Span, args ...any) {
	c.report(diag.New(t, span, args...))
}

// undefined reports an undefined name, suggesting the closest visible
// name when one is near enough.
func (c *Checker) undefined(name *syntax.Name) {
	d := diag.New(diag.UndefinedSymbol, name.Span(), name.Value)
	if alt := closest(name.Value, c.info.Scopes.Visible(c.scope)); alt != "" {
		d = d.WithFix(name.Span(), alt, diag.FixDidYouMean, alt)
	}
	c.report(d)
}

// declaredHere attaches a note pointing at the declaration of sym.
func declaredHere(d diag.Diagnostic, sym *types.Symbol) diag.Diagnostic {
	if sym != nil && sym.Decl.IsValid() {
		return d.WithRelated(sym.Decl, diag.NoteDeclaredHere, sym.Name)
	}
	return d
}

// closest returns the candidate with the smallest edit distance to name,
// if that distance is small relative to the name's length.
func closest(name string, candidates []string) string {
	limit := max(1, min(2, len([]rune(name))/3))
	best, bestDist := "", limit+1
	for _, cand := range candidates {
		if cand == name {
			continue
		}
		if d := editDistance(name, cand); d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best
}

// editDistance returns the Levenshtein distance between a and b in runes.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
