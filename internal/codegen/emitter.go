package codegen

import (
	"fmt"
	"io"

	"github.com/seen-lang/seen/internal/ssa"
)

// emitter wraps an io.Writer with helpers for emitting LLVM IR text.
// The first write error sticks; later writes are dropped.
type emitter struct {
	w   io.Writer
	err error
	tmp int // counter for anonymous temporaries (%t0, %t1, ...)
}

// emit writes a formatted line with no indentation.
func (e *emitter) emit(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format+"\n", args...)
}

func (e *emitter) emitLine() {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, "\n")
}

func (e *emitter) emitComment(text string) {
	e.emit("; %s", text)
}

// emitLabel writes a basic block label.
func (e *emitter) emitLabel(label string) {
	e.emit("%s:", label)
}

// emitInst writes an indented instruction line.
func (e *emitter) emitInst(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, "  "+format+"\n", args...)
}

// nextTmp returns the next anonymous temporary name.
func (e *emitter) nextTmp() string {
	name := fmt.Sprintf("%%t%d", e.tmp)
	e.tmp++
	return name
}

// valueName returns the LLVM local name for an SSA value: %vN.
func valueName(v *ssa.Value) string {
	return fmt.Sprintf("%%v%d", v.ID)
}

// blockName returns the LLVM label for an SSA block. The entry block is
// "entry", others are "bN".
func blockName(b *ssa.Block) string {
	if b == b.Func.Entry {
		return "entry"
	}
	return fmt.Sprintf("b%d", b.ID)
}
