package token

import "fmt"

// Pos is a 1-based line/column position in a source file.
// Columns count Unicode scalar values, with tabs expanded by the lexer's
// configured tab width. The zero value is an invalid position.
type Pos struct {
	Line uint32
	Col  uint32
}

// NewPos returns the position at line, col.
func NewPos(line, col uint32) Pos {
	return Pos{Line: line, Col: col}
}

// IsValid reports whether the position is valid.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

// Before reports whether p comes strictly before q.
func (p Pos) Before(q Pos) bool {
	return p.Line < q.Line || p.Line == q.Line && p.Col < q.Col
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Span is a half-open source range [Start, End) within a single file.
// Offset and EndOffset are the matching byte offsets.
type Span struct {
	File      string
	Start     Pos
	End       Pos
	Offset    int
	EndOffset int
}

// MakeSpan returns the span covering from..to. Both spans must belong to
// the same file; the file of from wins.
func MakeSpan(from, to Span) Span {
	return Span{
		File:      from.File,
		Start:     from.Start,
		End:       to.End,
		Offset:    from.Offset,
		EndOffset: to.EndOffset,
	}
}

// IsValid reports whether the span has a valid start position.
func (s Span) IsValid() bool {
	return s.Start.IsValid()
}

// Len returns the byte length of the span.
func (s Span) Len() int {
	return s.EndOffset - s.Offset
}

// Contains reports whether inner lies within s.
func (s Span) Contains(inner Span) bool {
	if s.File != inner.File {
		return false
	}
	return s.Offset <= inner.Offset && inner.EndOffset <= s.EndOffset
}

// ContainsOffset reports whether the byte offset lies within s.
// An empty span contains its own offset.
func (s Span) ContainsOffset(off int) bool {
	if s.Offset == s.EndOffset {
		return off == s.Offset
	}
	return s.Offset <= off && off < s.EndOffset
}

// String returns "file:line:col" or "line:col" when the file is unnamed.
func (s Span) String() string {
	if s.File != "" {
		return fmt.Sprintf("%s:%s", s.File, s.Start)
	}
	return s.Start.String()
}
