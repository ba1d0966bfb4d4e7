// Package diag defines the diagnostic record shared by every stage of the
// Seen front end, together with its message templates and localization.
package diag

import (
	"fmt"
	"slices"

	"github.com/seen-lang/seen/internal/token"
)

// Severity captures how impactful the diagnostic is.
type Severity uint8

const (
	Error Severity = iota
	Warning
	Info
	Hint
)

var severityNames = [...]string{
	Error:   "error",
	Warning: "warning",
	Info:    "info",
	Hint:    "hint",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return fmt.Sprintf("Severity(%d)", s)
}

// Code is a stable identifier for a diagnostic class. The leading letter
// names the producing stage: L lexer, P parser, T type checker, C
// configuration. W marks warnings.
type Code string

// Related is a secondary location with its own message.
type Related struct {
	Span token.Span
	ID   string
	Args []any
}

// Fix is a suggested textual replacement.
type Fix struct {
	Span        token.Span
	Replacement string
	ID          string
	Args        []any
}

// Diagnostic is an immutable report about the source. The message is not
// stored: it is rendered from the template ID and Args on demand so it can
// be presented in any configured language.
type Diagnostic struct {
	Severity Severity
	Code     Code
	ID       string
	Args     []any
	Span     token.Span
	Related  []Related
	Fixes    []Fix
}

// New returns a diagnostic for template t at span.
func New(t *Template, span token.Span, args ...any) Diagnostic {
	return Diagnostic{
		Severity: t.Severity,
		Code:     t.Code,
		ID:       t.ID,
		Args:     args,
		Span:     span,
	}
}

// WithRelated returns a copy of d with a related location added.
func (d Diagnostic) WithRelated(span token.Span, t *Template, args ...any) Diagnostic {
	d.Related = append(slices.Clip(d.Related), Related{Span: span, ID: t.ID, Args: args})
	return d
}

// WithFix returns a copy of d with a fix suggestion added.
func (d Diagnostic) WithFix(span token.Span, replacement string, t *Template, args ...any) Diagnostic {
	d.Fixes = append(slices.Clip(d.Fixes), Fix{Span: span, Replacement: replacement, ID: t.ID, Args: args})
	return d
}

// Message renders the diagnostic message in English.
func (d Diagnostic) Message() string {
	return English().Sprintf(d.ID, d.Args...)
}

// Error implements the error interface so a diagnostic can be surfaced
// through APIs that expect one.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Span, d.Message())
}
