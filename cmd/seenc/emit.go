package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/seen-lang/seen/internal/codegen"
	"github.com/seen-lang/seen/internal/ssa"
	"github.com/seen-lang/seen/internal/syntax"
	"github.com/seen-lang/seen/internal/types"
	"github.com/seen-lang/seen/internal/types2"
	"github.com/seen-lang/seen/internal/workspace"
)

// emit writes the stages selected by opts. Front-end stages are written
// even for erroneous files; the IR stages need a clean file.
func emit(w io.Writer, r *workspace.Result, opts *options, failed bool) error {
	llvm := opts.emitLLVM || opts.output != "" &&
		!(opts.emitTokens || opts.emitAST || opts.emitTypedAST || opts.emitLayout || opts.emitSSA)

	if opts.emitTokens {
		emitTokens(w, r)
	}
	if opts.emitAST {
		if opts.astFormat == "json" {
			if err := syntax.FprintJSON(w, r.File); err != nil {
				return err
			}
		} else {
			syntax.Fprint(w, r.File)
		}
	}
	if opts.emitTypedAST {
		printTypedAST(w, r.File, r.Info)
	}
	if failed {
		return nil
	}
	if opts.emitLayout {
		emitLayout(w, r.File, r.Info)
	}
	if !opts.emitSSA && !llvm {
		return nil
	}

	prog, err := ssa.Build(r.File, r.Info)
	if err != nil {
		return err
	}
	if opts.emitSSA {
		if err := emitSSA(w, prog, opts.dumpFunc); err != nil {
			return err
		}
	}
	if llvm {
		return codegen.Generate(w, prog, codegen.Options{SourceName: r.Path})
	}
	return nil
}

// emitTokens prints all tokens with positions.
func emitTokens(w io.Writer, r *workspace.Result) {
	fmt.Fprintf(w, "%-20s %-14s %-8s %s\n", "POSITION", "TOKEN", "LANG", "LEXEME")
	fmt.Fprintf(w, "%-20s %-14s %-8s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 14), strings.Repeat("-", 8), strings.Repeat("-", 20))
	for _, tok := range r.Tokens {
		fmt.Fprintf(w, "%-20s %-14s %-8s %s\n", tok.Span.Start, tok.Kind, tok.Lang, formatLexeme(tok.Lexeme))
	}
}

// formatLexeme quotes a lexeme for display, escaping control characters.
func formatLexeme(lit string) string {
	if lit == "" {
		return "\"\""
	}

	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		case '\\':
			b.WriteString("\\\\")
		case '"':
			b.WriteString("\\\"")
		case 0:
			b.WriteString("\\0")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}

// emitLayout prints the memory layout of every struct declared in file.
func emitLayout(w io.Writer, file *syntax.File, info *types2.Info) {
	fmt.Fprintf(w, "=== Struct Layouts ===\n\n")
	sizes := types.DefaultSizes
	for _, stmt := range file.Body {
		d, ok := stmt.(*syntax.StructDecl)
		if !ok {
			continue
		}
		sym := info.Defs[d.Name.ID()]
		if sym == nil {
			continue
		}
		st, ok := sym.Type.(*types.Struct)
		if !ok {
			continue
		}
		offsets := sizes.Offsetsof(st)
		fmt.Fprintf(w, "struct %s {\n", st.Name())
		for i, field := range st.Fields() {
			fmt.Fprintf(w, "    %-10s %-15s // offset: %d, size: %d, align: %d\n",
				field.Name, field.Type, offsets[i], sizes.Sizeof(field.Type), sizes.Alignof(field.Type))
		}
		fmt.Fprintf(w, "}\n")
		fmt.Fprintf(w, "// size: %d, align: %d\n\n", sizes.Sizeof(st), sizes.Alignof(st))
	}
}

func emitSSA(w io.Writer, prog *ssa.Program, only string) error {
	if only == "" {
		ssa.FprintProgram(w, prog)
		return nil
	}
	fn := prog.Func(only)
	if fn == nil {
		return fmt.Errorf("no function %q", only)
	}
	ssa.Fprint(w, fn)
	return nil
}
