// Package keywords implements the bilingual keyword table: an immutable
// mapping between canonical keyword kinds and their per-language lexemes.
package keywords

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/seen-lang/seen/internal/token"
)

// Configuration errors. Every error returned while building a table wraps
// one of these.
var (
	ErrDuplicateLexeme  = errors.New("duplicate keyword lexeme")
	ErrUnknownKind      = errors.New("unknown keyword name")
	ErrInvalidLanguage  = errors.New("invalid language")
	ErrUndeclaredLang   = errors.New("undeclared language")
	ErrInvalidLexeme    = errors.New("keyword lexeme is not an identifier")
	ErrInvalidDirection = errors.New("invalid text direction")
)

// Direction is the writing direction of a language.
type Direction uint8

const (
	LTR Direction = iota
	RTL
)

func (d Direction) String() string {
	if d == RTL {
		return "rtl"
	}
	return "ltr"
}

// ParseDirection parses "ltr" or "rtl".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "ltr":
		return LTR, nil
	case "rtl":
		return RTL, nil
	}
	return LTR, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Language describes one keyword language.
type Language struct {
	Code      string // two-letter ISO 639-1 code
	Name      string
	Direction Direction
}

// Table is an immutable keyword table. It is safe for concurrent use.
type Table struct {
	langs   []Language
	lexemes map[string]map[token.Kind]string // lang -> kind -> lexeme
	kinds   map[string]map[string]token.Kind // lang -> NFC lexeme -> kind
}

// New builds a table. entries is keyed by keyword name ("func", see
// token.Kind.Name) and then by language code. Lexemes are stored in Unicode
// normalization form C.
func New(langs []Language, entries map[string]map[string]string) (*Table, error) {
	t := &Table{
		lexemes: make(map[string]map[token.Kind]string),
		kinds:   make(map[string]map[string]token.Kind),
	}
	for _, l := range langs {
		if err := validateCode(l.Code); err != nil {
			return nil, err
		}
		if _, ok := t.lexemes[l.Code]; ok {
			return nil, fmt.Errorf("%w: %s declared twice", ErrInvalidLanguage, l.Code)
		}
		t.langs = append(t.langs, l)
		t.lexemes[l.Code] = make(map[token.Kind]string)
		t.kinds[l.Code] = make(map[string]token.Kind)
	}

	names := lo.Keys(entries)
	slices.Sort(names)
	for _, name := range names {
		kind, ok := token.LookupKeyword(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKind, name)
		}
		codes := lo.Keys(entries[name])
		slices.Sort(codes)
		for _, code := range codes {
			lexeme := norm.NFC.String(entries[name][code])
			byKind, ok := t.lexemes[code]
			if !ok {
				return nil, fmt.Errorf("%w: %s (keyword %s)", ErrUndeclaredLang, code, name)
			}
			if !token.IsIdentifier(lexeme) {
				return nil, fmt.Errorf("%w: %s %q in %s", ErrInvalidLexeme, name, lexeme, code)
			}
			if prev, ok := t.kinds[code][lexeme]; ok && prev != kind {
				return nil, fmt.Errorf("%w: %q maps to both %s and %s in %s",
					ErrDuplicateLexeme, lexeme, prev.Name(), kind.Name(), code)
			}
			byKind[kind] = lexeme
			t.kinds[code][lexeme] = kind
		}
	}
	return t, nil
}

func validateCode(code string) error {
	if len(code) != 2 {
		return fmt.Errorf("%w: code %q is not two letters", ErrInvalidLanguage, code)
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidLanguage, code, err)
	}
	if base.String() != code {
		return fmt.Errorf("%w: %q is not canonical (want %q)", ErrInvalidLanguage, code, base.String())
	}
	return nil
}

// Languages returns the declared languages in declaration order.
func (t *Table) Languages() []Language {
	return slices.Clone(t.langs)
}

// Language returns the language declared with code.
func (t *Table) Language(code string) (Language, bool) {
	return lo.Find(t.langs, func(l Language) bool {
		return l.Code == code
	})
}

// Lexeme returns the spelling of kind in lang.
func (t *Table) Lexeme(kind token.Kind, lang string) (string, bool) {
	s, ok := t.lexemes[lang][kind]
	return s, ok
}

// Lookup returns the keyword kind spelled lexeme in lang. The lexeme is
// compared after NFC normalization.
func (t *Table) Lookup(lexeme, lang string) (token.Kind, bool) {
	kinds, ok := t.kinds[lang]
	if !ok {
		return 0, false
	}
	k, ok := kinds[lexeme]
	if !ok && !norm.NFC.IsNormalString(lexeme) {
		k, ok = kinds[norm.NFC.String(lexeme)]
	}
	return k, ok
}

// LookupAny tries every language in declaration order and returns the
// first match together with its language code.
func (t *Table) LookupAny(lexeme string) (token.Kind, string, bool) {
	for _, l := range t.langs {
		if k, ok := t.Lookup(lexeme, l.Code); ok {
			return k, l.Code, true
		}
	}
	return 0, "", false
}

// Missing returns the keyword kinds that have no lexeme in lang.
func (t *Table) Missing(lang string) []token.Kind {
	return lo.Filter(token.Keywords(), func(k token.Kind, _ int) bool {
		_, ok := t.lexemes[lang][k]
		return !ok
	})
}

// Entries returns the table in its configuration shape: keyword name, then
// language code, then lexeme.
func (t *Table) Entries() map[string]map[string]string {
	out := make(map[string]map[string]string)
	for code, byKind := range t.lexemes {
		for kind, lexeme := range byKind {
			m, ok := out[kind.Name()]
			if !ok {
				m = make(map[string]string)
				out[kind.Name()] = m
			}
			m[code] = lexeme
		}
	}
	return out
}
