package syntax

import (
	"unicode"
	"unicode/utf8"

	"github.com/seen-lang/seen/internal/token"
)

const bom = 0xFEFF

// source is a character reader with position tracking.
//
// Position tracking: (line, col) and offs always describe s.ch, the
// current character. The reader starts before the first character and
// the first nextch moves it to line 1, col 1.
type source struct {
	buf      []byte
	filename string
	tabWidth uint32

	line, col uint32
	ch        rune // current character, -1 at EOF
	chw       int  // byte width of ch; 1 for an invalid byte
	offs      int  // byte offset of ch
	bad       bool // ch is an invalid UTF-8 byte
}

func (s *source) init(filename string, buf []byte, tabWidth int) {
	s.buf = buf
	s.filename = filename
	s.tabWidth = 1
	if tabWidth > 1 {
		s.tabWidth = uint32(tabWidth)
	}
	s.line, s.col = 1, 1
	s.offs = 0
	s.read()
	if s.ch == bom {
		s.offs += s.chw
		s.read()
	}
}

// read decodes the character at s.offs without moving the position.
func (s *source) read() {
	s.bad = false
	if s.offs >= len(s.buf) {
		s.ch, s.chw = -1, 0
		return
	}
	r, w := utf8.DecodeRune(s.buf[s.offs:])
	if r == utf8.RuneError && w == 1 {
		s.bad = true
	}
	s.ch, s.chw = r, w
}

// nextch advances past the current character. At EOF it does nothing.
func (s *source) nextch() {
	switch s.ch {
	case -1:
		return
	case '\n':
		s.line++
		s.col = 1
	case '\t':
		s.col += s.tabWidth
	default:
		s.col++
	}
	s.offs += s.chw
	s.read()
}

// peek returns the character after the current one, or -1.
func (s *source) peek() rune {
	next := s.offs + s.chw
	if s.ch < 0 || next >= len(s.buf) {
		return -1
	}
	r, _ := utf8.DecodeRune(s.buf[next:])
	return r
}

// mark is a saved reader location used to build spans.
type mark struct {
	pos  token.Pos
	offs int
}

func (s *source) mark() mark {
	return mark{pos: token.NewPos(s.line, s.col), offs: s.offs}
}

// spanFrom returns the span from m to the current character.
func (s *source) spanFrom(m mark) token.Span {
	return token.Span{
		File:      s.filename,
		Start:     m.pos,
		End:       token.NewPos(s.line, s.col),
		Offset:    m.offs,
		EndOffset: s.offs,
	}
}

func (s *source) textFrom(m mark) string {
	return string(s.buf[m.offs:s.offs])
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || 'a' <= lower(r) && lower(r) <= 'f'
}

func isOctalDigit(r rune) bool {
	return '0' <= r && r <= '7'
}

func isBinaryDigit(r rune) bool {
	return r == '0' || r == '1'
}

// lower returns the lowercase version of an ASCII letter; other
// characters are returned with bit 0x20 set, which is harmless for the
// range checks above.
func lower(r rune) rune {
	return ('a' - 'A') | r
}

// isWhitespace reports whether r separates tokens. The invisible
// left-to-right and right-to-left marks common in bidirectional text
// count as whitespace.
func isWhitespace(r rune) bool {
	return r >= 0 && unicode.IsSpace(r) || r == '\u200e' || r == '\u200f'
}
