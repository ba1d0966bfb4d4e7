package diag

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Fprint writes l in source order, one diagnostic per block:
//
//	main.seen:3:5: error[T0001]: undefined symbol: x
//	    x + 1;
//	    ^
//	main.seen:1:7: note: x declared here
//
// src is the text of the file the diagnostics refer to; when nil, source
// excerpts are omitted. A nil loc renders English.
func Fprint(w io.Writer, l List, src []byte, loc *Localizer) error {
	if loc == nil {
		loc = English()
	}
	var buf bytes.Buffer
	for _, d := range l.Sorted() {
		if d.Code != "" {
			fmt.Fprintf(&buf, "%s: %s[%s]: %s\n", d.Span, d.Severity, d.Code, loc.Message(d))
		} else {
			fmt.Fprintf(&buf, "%s: %s: %s\n", d.Span, d.Severity, loc.Message(d))
		}
		if src != nil {
			excerpt(&buf, src, d)
		}
		for _, r := range d.Related {
			fmt.Fprintf(&buf, "%s: note: %s\n", r.Span, loc.Sprintf(r.ID, r.Args...))
		}
		for _, f := range d.Fixes {
			fmt.Fprintf(&buf, "%s: help: %s\n", f.Span, loc.Sprintf(f.ID, f.Args...))
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Sprint is like Fprint but returns the rendered text.
func Sprint(l List, src []byte, loc *Localizer) string {
	var sb strings.Builder
	_ = Fprint(&sb, l, src, loc)
	return sb.String()
}

// excerpt writes the source line of d's primary span with a caret marker.
func excerpt(buf *bytes.Buffer, src []byte, d Diagnostic) {
	if !d.Span.IsValid() || d.Span.Offset > len(src) {
		return
	}
	start := bytes.LastIndexByte(src[:d.Span.Offset], '\n') + 1
	end := bytes.IndexByte(src[start:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += start
	}
	line := string(src[start:end])
	col := utf8.RuneCount(src[start:d.Span.Offset])
	width := 1
	if d.Span.EndOffset > d.Span.Offset && d.Span.EndOffset <= end {
		width = max(1, utf8.RuneCount(src[d.Span.Offset:d.Span.EndOffset]))
	}
	fmt.Fprintf(buf, "    %s\n", strings.ReplaceAll(line, "\t", " "))
	fmt.Fprintf(buf, "    %s%s\n", strings.Repeat(" ", col), strings.Repeat("^", width))
}
