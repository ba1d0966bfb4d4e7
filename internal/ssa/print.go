package ssa

import (
	"fmt"
	"io"
	"strings"

	"github.com/seen-lang/seen/internal/types"
)

// Fprint writes the textual form of a function to w.
//
// Format:
//
//	func add(a Int, b Int) -> Int:
//	  b0: (entry)
//	    v0 = Arg <Int> [0] {a}
//	    v1 = Alloca <*Int> {a}
//	    Store v1 v0
//	    ...
//	    Return v7
//	  b1 (while.cond): <- b0 b2
//	    Branch v9 -> b2 b3
func Fprint(w io.Writer, f *Func) {
	fmt.Fprintf(w, "func %s(", f.Name)
	if f.Sig != nil {
		for i, p := range f.Sig.Params() {
			if i > 0 {
				io.WriteString(w, ", ")
			}
			if i < len(f.ParamNames) {
				fmt.Fprintf(w, "%s ", f.ParamNames[i])
			}
			io.WriteString(w, p.String())
		}
	}
	io.WriteString(w, ")")
	if f.Sig != nil && !types.IsVoid(f.Sig.Result()) {
		fmt.Fprintf(w, " -> %s", f.Sig.Result())
	}
	io.WriteString(w, ":\n")

	for _, b := range f.Blocks {
		fprintBlock(w, b, f)
	}
}

func fprintBlock(w io.Writer, b *Block, f *Func) {
	label := ""
	if b.Hint != "" {
		label = " (" + b.Hint + ")"
	}
	fmt.Fprintf(w, "  %s%s:", b, label)
	if b == f.Entry {
		io.WriteString(w, " (entry)")
	}
	if len(b.Preds) > 0 {
		preds := make([]string, len(b.Preds))
		for i, p := range b.Preds {
			preds[i] = p.String()
		}
		fmt.Fprintf(w, " <- %s", strings.Join(preds, " "))
	}
	io.WriteString(w, "\n")

	for _, v := range b.Values {
		fmt.Fprintf(w, "    %s\n", v.LongString())
	}
	fmt.Fprintf(w, "    %s\n", formatTerminator(b))
}

func formatTerminator(b *Block) string {
	switch b.Kind {
	case BlockJump:
		if len(b.Succs) > 0 {
			return fmt.Sprintf("Jump -> %s", b.Succs[0])
		}
		return "Jump"
	case BlockBranch:
		if len(b.Controls) > 0 && b.Controls[0] != nil && len(b.Succs) >= 2 {
			return fmt.Sprintf("Branch %s -> %s %s", b.Controls[0], b.Succs[0], b.Succs[1])
		}
		return "Branch (malformed)"
	case BlockReturn:
		if len(b.Controls) > 0 && b.Controls[0] != nil {
			return fmt.Sprintf("Return %s", b.Controls[0])
		}
		return "Return"
	}
	return "(unterminated)"
}

// Sprint returns the textual form of a function.
func Sprint(f *Func) string {
	var sb strings.Builder
	Fprint(&sb, f)
	return sb.String()
}

// FprintProgram writes the globals of p followed by each function,
// separated by blank lines.
func FprintProgram(w io.Writer, p *Program) {
	for _, g := range p.Globals {
		kw := "val"
		if g.Mutable {
			kw = "var"
		}
		fmt.Fprintf(w, "global %s %s: %s\n", kw, g.Name, g.Type)
	}
	for i, f := range p.AllFuncs() {
		if i > 0 || len(p.Globals) > 0 {
			io.WriteString(w, "\n")
		}
		Fprint(w, f)
	}
}

// SprintProgram returns the textual form of a program.
func SprintProgram(p *Program) string {
	var sb strings.Builder
	FprintProgram(&sb, p)
	return sb.String()
}
