package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/samber/lo"
	"github.com/seen-lang/seen/internal/codegen"
	"github.com/seen-lang/seen/internal/diag"
	"github.com/seen-lang/seen/internal/keywords"
	"github.com/seen-lang/seen/internal/ssa"
	"github.com/seen-lang/seen/internal/syntax"
	"github.com/seen-lang/seen/internal/token"
	"github.com/seen-lang/seen/internal/types"
	"github.com/seen-lang/seen/internal/types2"
)

const (
	historyFile = ".seen_history"
	promptMain  = "seen> "
	promptCont  = "  ... "
	replFile    = "<repl>"
)

var (
	banner   = fmt.Sprintf("Seen %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands.", Version)
	helpText = `REPL commands:
  :help         Show this help
  :quit         Exit the REPL
  :reset        Forget every declaration
  :source       Show the session source
  :type <expr>  Show the type of an expression
  :ast          Show the session AST
  :ssa          Show the session SSA
  :llvm         Show the session LLVM IR
  :lang <code>  Switch keyword language (resets the session)`
)

// prompter reads one line of input. *liner.State implements it.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// lineReader is the prompter used when input is not a terminal.
type lineReader struct {
	sc *bufio.Scanner
	w  io.Writer
}

func (r *lineReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(r.w, prompt)
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.sc.Text(), nil
}

func cmdRepl(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, _, err := parseOptions("repl", args, stderr, nil)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	project, table, err := loadProject(opts)
	if err != nil {
		reportConfigError(stderr, opts, err)
		return 1
	}

	s := &session{
		cfg: syntax.LexerConfig{
			Table:    table,
			Lang:     project.Language,
			Mixed:    project.Mixed,
			TabWidth: project.TabWidth,
		},
		loc:    diag.NewLocalizer(project.DiagLanguage),
		out:    stdout,
		errOut: stderr,
	}

	fmt.Fprintln(stdout, banner)

	if f, ok := stdin.(*os.File); ok && f == os.Stdin && liner.TerminalSupported() {
		return replTerminal(s)
	}
	return replLoop(s, &lineReader{sc: bufio.NewScanner(stdin), w: stdout}, nil)
}

// replTerminal runs the session on a line editor with persistent history.
func replTerminal(s *session) int {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	return replLoop(s, ln, func(input string) {
		ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
	})
}

func replLoop(s *session, p prompter, remember func(string)) int {
	for {
		input, ok := readChunk(p, s.cfg)
		if !ok {
			fmt.Fprintln(s.out)
			return 0
		}
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		if remember != nil {
			remember(input)
		}
		if strings.HasPrefix(trimmed, ":") {
			if s.command(trimmed) {
				return 0
			}
			continue
		}
		s.eval(input)
	}
}

// readChunk reads lines until every bracket opened in them is closed.
func readChunk(p prompter, cfg syntax.LexerConfig) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := p.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl+C drops the pending input.
			b.Reset()
			continue
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if strings.HasPrefix(strings.TrimSpace(b.String()), ":") || depth(b.String(), cfg) <= 0 {
			return b.String(), true
		}
	}
}

// depth returns the number of brackets left open in src.
func depth(src string, cfg syntax.LexerConfig) int {
	toks, _ := syntax.Tokenize(replFile, []byte(src), cfg)
	n := 0
	for _, t := range toks {
		switch t.Kind {
		case token.LeftParen, token.LeftBrace, token.LeftBracket:
			n++
		case token.RightParen, token.RightBrace, token.RightBracket:
			n--
		}
	}
	return n
}

// session accumulates the declarations and statements accepted so far.
// Every input is checked together with them; only inputs without errors
// are kept.
type session struct {
	cfg    syntax.LexerConfig
	loc    *diag.Localizer
	chunks []string
	out    io.Writer
	errOut io.Writer
}

func (s *session) source() string {
	if len(s.chunks) == 0 {
		return ""
	}
	return strings.Join(s.chunks, "\n") + "\n"
}

// check parses and checks the session extended with input. Diagnostics
// located in earlier chunks are dropped.
func (s *session) check(input string) (src string, file *syntax.File, info *types2.Info, fresh diag.List, prefix int) {
	prefixSrc := s.source()
	src = prefixSrc + input + "\n"
	file, diags := syntax.Parse(replFile, []byte(src), s.cfg)
	info, checkDiags := types2.Check(file, nil)
	diags = append(diags, checkDiags...)
	fresh = lo.Filter(diags, func(d diag.Diagnostic, _ int) bool {
		return d.Span.Offset >= len(prefixSrc)
	})
	return src, file, info, fresh, len(prefixSrc)
}

func (s *session) eval(input string) {
	src, file, info, diags, prefix := s.check(input)
	if diags.Len() > 0 {
		_ = diag.Fprint(s.errOut, diags, []byte(src), s.loc)
	}
	if diags.HasErrors() {
		return
	}

	keep := false
	for _, stmt := range file.Body {
		if stmt.Span().Offset < prefix {
			continue
		}
		if line := describe(stmt, info); line != "" {
			fmt.Fprintln(s.out, line)
		}
		if !isPureExpr(stmt) {
			keep = true
		}
	}
	if keep {
		s.chunks = append(s.chunks, input)
	}
}

// isPureExpr reports whether stmt is an expression statement without
// effects worth keeping in the session.
func isPureExpr(stmt syntax.Stmt) bool {
	es, ok := stmt.(*syntax.ExprStmt)
	if !ok {
		return false
	}
	switch syntax.Unparen(es.X).(type) {
	case *syntax.CallExpr, *syntax.AssignExpr:
		return false
	}
	return true
}

func describe(stmt syntax.Stmt, info *types2.Info) string {
	switch stmt := stmt.(type) {
	case *syntax.VarDecl:
		if sym := info.Defs[stmt.Name.ID()]; sym != nil {
			return fmt.Sprintf("%s %s: %s", sym.Kind, sym.Name, sym.Type)
		}
	case *syntax.FuncDecl:
		if sym := info.Defs[stmt.Name.ID()]; sym != nil {
			return fmt.Sprintf("func %s: %s", sym.Name, sym.Type)
		}
	case *syntax.StructDecl:
		return "struct " + stmt.Name.Value
	case *syntax.EnumDecl:
		return "enum " + stmt.Name.Value
	case *syntax.ExprStmt:
		if t := info.TypeOf(stmt.X); t != nil && !types.IsVoid(t) {
			return t.String()
		}
	}
	return ""
}

// command runs a :command and reports whether the REPL should exit.
func (s *session) command(line string) (quit bool) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(name) {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		fmt.Fprintln(s.out, helpText)
	case ":reset":
		s.chunks = nil
		fmt.Fprintln(s.out, "session reset")
	case ":source":
		fmt.Fprint(s.out, s.source())
	case ":type":
		s.typeOf(arg)
	case ":ast":
		file, _ := syntax.Parse(replFile, []byte(s.source()), s.cfg)
		syntax.Fprint(s.out, file)
	case ":ssa", ":llvm":
		s.lower(name == ":llvm")
	case ":lang":
		s.setLang(arg)
	default:
		fmt.Fprintf(s.out, "unknown command %s. Type :help for commands.\n", name)
	}
	return false
}

func (s *session) typeOf(expr string) {
	if expr == "" {
		fmt.Fprintln(s.errOut, "usage: :type <expr>")
		return
	}
	src, file, info, diags, _ := s.check(expr + ";")
	if diags.HasErrors() {
		_ = diag.Fprint(s.errOut, diags, []byte(src), s.loc)
		return
	}
	last, ok := file.Body[len(file.Body)-1].(*syntax.ExprStmt)
	if !ok {
		fmt.Fprintln(s.errOut, "not an expression")
		return
	}
	fmt.Fprintln(s.out, info.TypeOf(last.X))
}

func (s *session) lower(llvm bool) {
	src := s.source()
	file, diags := syntax.Parse(replFile, []byte(src), s.cfg)
	info, checkDiags := types2.Check(file, nil)
	diags = append(diags, checkDiags...)
	if diags.HasErrors() {
		_ = diag.Fprint(s.errOut, diags, []byte(src), s.loc)
		return
	}
	prog, err := ssa.Build(file, info)
	if err != nil {
		fmt.Fprintln(s.errOut, err)
		return
	}
	if !llvm {
		ssa.FprintProgram(s.out, prog)
		return
	}
	if err := codegen.Generate(s.out, prog, codegen.Options{SourceName: replFile}); err != nil {
		fmt.Fprintln(s.errOut, err)
	}
}

func (s *session) setLang(code string) {
	table := s.cfg.Table
	if table == nil {
		table = keywords.Default()
	}
	lang, ok := table.Language(code)
	if !ok {
		fmt.Fprintf(s.errOut, "unknown language %q\n", code)
		return
	}
	s.cfg.Lang = lang.Code
	s.chunks = nil
	fmt.Fprintf(s.out, "keywords: %s (%s), session reset\n", lang.Name, lang.Direction)
}
