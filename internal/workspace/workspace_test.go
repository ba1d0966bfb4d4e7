package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/reusee/dscope"
	"github.com/seen-lang/seen/internal/configs"
	"github.com/seen-lang/seen/internal/diag"
	"github.com/seen-lang/seen/internal/keywords"
	"github.com/seen-lang/seen/internal/logs"
	"github.com/seen-lang/seen/internal/syntax"
	"github.com/seen-lang/seen/internal/token"
)

const program = `struct Point { x: Int, y: Int }

func norm(p: Point) -> Int {
    return p.x * p.x + p.y * p.y;
}

func main() {
    val p = Point { x: 3, y: 4 };
    var total = norm(p);
    total = total + 1;
    println(total);
}
`

// spanOf returns the span of the n-th (0-based) occurrence of needle.
func spanOf(t *testing.T, src, needle string, n int) token.Span {
	t.Helper()
	off := -1
	for i := 0; i <= n; i++ {
		next := strings.Index(src[off+1:], needle)
		if next < 0 {
			t.Fatalf("occurrence %d of %q not found", n, needle)
		}
		off += 1 + next
	}
	return token.Span{File: "main.seen", Offset: off, EndOffset: off + len(needle)}
}

// head keeps the first n bytes of s.
func head(s token.Span, n int) token.Span {
	s.EndOffset = s.Offset + n
	return s
}

func newWorkspace(t *testing.T, files map[string]string) *Workspace {
	t.Helper()
	w := New(Config{})
	for path, src := range files {
		w.NotifyContentChanged(path, []byte(src))
	}
	return w
}

func codes(l diag.List) []diag.Code {
	var out []diag.Code
	for _, d := range l {
		out = append(out, d.Code)
	}
	return out
}

func TestSnapshotIsCached(t *testing.T) {
	ctx := context.Background()
	w := newWorkspace(t, map[string]string{"main.seen": program})

	r1, err := w.Snapshot(ctx, "main.seen")
	if err != nil {
		t.Fatal(err)
	}
	r2, err := w.Snapshot(ctx, "main.seen")
	if err != nil {
		t.Fatal(err)
	}
	if r1 != r2 {
		t.Fatal("second query should be served from the cache")
	}
	if r1.Version != 1 || r1.Diagnostics.Len() != 0 {
		t.Fatalf("version %d, diagnostics %v", r1.Version, r1.Diagnostics)
	}
	if len(r1.Tokens) == 0 || r1.Tokens[len(r1.Tokens)-1].Kind != token.EOF {
		t.Fatal("token stream should end with EOF")
	}
}

func TestQueries(t *testing.T) {
	ctx := context.Background()
	w := newWorkspace(t, map[string]string{"main.seen": program})

	toks, err := w.Tokens(ctx, "main.seen")
	if err != nil || toks[0].Kind != token.Struct {
		t.Fatalf("tokens: %v %v", toks, err)
	}
	file, err := w.AST(ctx, "main.seen")
	if err != nil || len(file.Body) != 3 {
		t.Fatalf("ast: %v", err)
	}
	file2, info, err := w.TypedAST(ctx, "main.seen")
	if err != nil {
		t.Fatal(err)
	}
	if file2 != file {
		t.Fatal("AST and TypedAST should share the tree")
	}
	main := file.Body[2].(*syntax.FuncDecl)
	if sym := info.SymbolOf(main.Name); sym == nil || sym.Name != "main" {
		t.Fatalf("got %v", sym)
	}
	diags, err := w.Diagnostics(ctx, "main.seen")
	if err != nil || diags.Len() != 0 {
		t.Fatalf("diagnostics: %v %v", diags, err)
	}
}

func TestNotOpen(t *testing.T) {
	w := New(Config{})
	_, err := w.AST(context.Background(), "missing.seen")
	if !errors.Is(err, ErrNotOpen) {
		t.Fatalf("got %v", err)
	}
	if _, ok := w.Version("missing.seen"); ok {
		t.Fatal("missing path has no version")
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.seen")
	if err := os.WriteFile(path, []byte(`println("hi");`), 0o644); err != nil {
		t.Fatal(err)
	}
	w := New(Config{})
	version, err := w.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if version != 1 {
		t.Fatalf("got %d", version)
	}
	file, err := w.AST(context.Background(), path)
	if err != nil || len(file.Body) != 1 {
		t.Fatalf("got %v", err)
	}

	if _, err := w.Open(filepath.Join(t.TempDir(), "none.seen")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got %v", err)
	}
}

func TestNotifyContentChanged(t *testing.T) {
	ctx := context.Background()
	w := newWorkspace(t, map[string]string{"a.seen": "val x = 1;"})

	before, err := w.Snapshot(ctx, "a.seen")
	if err != nil {
		t.Fatal(err)
	}

	v := w.NotifyContentChanged("a.seen", []byte("val x = 1;\nprintln(y);"))
	if v != 2 {
		t.Fatalf("version = %d", v)
	}
	after, err := w.Snapshot(ctx, "a.seen")
	if err != nil {
		t.Fatal(err)
	}
	if after == before || after.Version != 2 {
		t.Fatal("stale result served after update")
	}
	if got := fmt.Sprint(codes(after.Diagnostics)); got != "[T0001]" {
		t.Fatalf("got %v", got)
	}
	if before.Diagnostics.Len() != 0 || before.Version != 1 {
		t.Fatal("published results must not change")
	}
}

func TestContentIsCopied(t *testing.T) {
	buf := []byte("val x = 1;")
	w := newWorkspace(t, nil)
	w.NotifyContentChanged("a.seen", buf)
	copy(buf, "!!!")
	diags, err := w.Diagnostics(context.Background(), "a.seen")
	if err != nil || diags.Len() != 0 {
		t.Fatalf("got %v %v", diags, err)
	}
}

func TestDiagnosticsAllStages(t *testing.T) {
	src := "val x = 1 $;\nval y = ;\nprintln(z);\n"
	w := newWorkspace(t, map[string]string{"a.seen": src})
	diags, err := w.Diagnostics(context.Background(), "a.seen")
	if err != nil {
		t.Fatal(err)
	}
	if got := fmt.Sprint(codes(diags)); got != "[L0002 P0002 T0001]" {
		t.Fatalf("got %v", got)
	}
}

func TestFindDefinition(t *testing.T) {
	ctx := context.Background()
	w := newWorkspace(t, map[string]string{"main.seen": program})

	tests := []struct {
		name   string
		at     token.Span
		want   token.Span
		wantOK bool
	}{
		{"call", spanOf(t, program, "norm", 1), spanOf(t, program, "norm", 0), true},
		{"param use", spanOf(t, program, "p.x", 0), spanOf(t, program, "p: Point", 0), true},
		{"type in signature", spanOf(t, program, "Point", 1), spanOf(t, program, "Point", 0), true},
		{"struct literal type", spanOf(t, program, "Point", 2), spanOf(t, program, "Point", 0), true},
		{"local", spanOf(t, program, "total", 2), spanOf(t, program, "total", 0), true},
		{"local with a parameter's name", head(spanOf(t, program, "p);", 0), 1), spanOf(t, program, "p = Point", 0), true},
		{"field selector", spanOf(t, program, "y", 2), spanOf(t, program, "y", 0), true},
		{"field in literal", spanOf(t, program, "x: 3", 0), spanOf(t, program, "x", 0), true},
		{"declaration itself", spanOf(t, program, "main", 0), spanOf(t, program, "main", 0), true},
		{"builtin", spanOf(t, program, "println", 0), token.Span{}, false},
		{"predeclared type", spanOf(t, program, "Int", 0), token.Span{}, false},
		{"keyword", spanOf(t, program, "return", 0), token.Span{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Queries may cover any part of a name.
			got, ok, err := w.FindDefinition(ctx, "main.seen", head(tt.at, 1))
			if err != nil {
				t.Fatal(err)
			}
			if ok != tt.wantOK {
				t.Fatalf("ok = %v", ok)
			}
			if ok && got.Offset != tt.want.Offset {
				t.Fatalf("got offset %d, want %d", got.Offset, tt.want.Offset)
			}
		})
	}
}

func TestFindReferences(t *testing.T) {
	ctx := context.Background()
	w := newWorkspace(t, map[string]string{"main.seen": program})

	offsets := func(spans []token.Span) []int {
		var out []int
		for _, s := range spans {
			out = append(out, s.Offset)
		}
		return out
	}

	t.Run("local", func(t *testing.T) {
		refs, err := w.FindReferences(ctx, "main.seen", spanOf(t, program, "total", 1))
		if err != nil {
			t.Fatal(err)
		}
		var want []int
		for i := range 4 {
			want = append(want, spanOf(t, program, "total", i).Offset)
		}
		if fmt.Sprint(offsets(refs)) != fmt.Sprint(want) {
			t.Fatalf("got %v, want %v", offsets(refs), want)
		}
	})

	t.Run("parameter is not the local", func(t *testing.T) {
		refs, err := w.FindReferences(ctx, "main.seen", head(spanOf(t, program, "p: Point", 0), 1))
		if err != nil {
			t.Fatal(err)
		}
		// the declaration plus four uses in norm
		if len(refs) != 5 {
			t.Fatalf("got %v", offsets(refs))
		}
	})

	t.Run("field", func(t *testing.T) {
		refs, err := w.FindReferences(ctx, "main.seen", spanOf(t, program, "x", 0))
		if err != nil {
			t.Fatal(err)
		}
		// declaration, p.x twice, and the literal
		if len(refs) != 4 {
			t.Fatalf("got %v", offsets(refs))
		}
	})

	t.Run("nothing", func(t *testing.T) {
		refs, err := w.FindReferences(ctx, "main.seen", spanOf(t, program, "return", 0))
		if err != nil || refs != nil {
			t.Fatalf("got %v %v", refs, err)
		}
	})
}

func TestCheckAll(t *testing.T) {
	files := make(map[string]string)
	for i := range 8 {
		src := fmt.Sprintf("val x%d = %d;", i, i)
		if i%2 == 1 {
			src += "\nprintln(missing);"
		}
		files[fmt.Sprintf("f%d.seen", i)] = src
	}
	w := New(Config{Workers: 2})
	for path, src := range files {
		w.NotifyContentChanged(path, []byte(src))
	}

	all, err := w.CheckAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(files) {
		t.Fatalf("got %d results", len(all))
	}
	for i := range 8 {
		path := fmt.Sprintf("f%d.seen", i)
		if got, want := all[path].HasErrors(), i%2 == 1; got != want {
			t.Errorf("%s: HasErrors = %v", path, got)
		}
	}
}

func TestCheckAllCanceled(t *testing.T) {
	w := newWorkspace(t, map[string]string{"a.seen": "val x = 1;"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := w.CheckAll(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}

func TestClose(t *testing.T) {
	w := newWorkspace(t, map[string]string{"a.seen": "", "b.seen": ""})
	w.Close("a.seen")
	if got := fmt.Sprint(w.Paths()); got != "[b.seen]" {
		t.Fatalf("got %v", got)
	}
}

func TestVersionsNotReusedAfterReopen(t *testing.T) {
	w := newWorkspace(t, map[string]string{"a.seen": "val x = 1;", "b.seen": ""})
	va, _ := w.Version("a.seen")
	vb, _ := w.Version("b.seen")
	if va == vb {
		t.Fatalf("paths share version %d", va)
	}

	w.Close("a.seen")
	v := w.NotifyContentChanged("a.seen", []byte("val x = 2;"))
	if v <= max(va, vb) {
		t.Fatalf("reopened version %d, want greater than %d and %d", v, va, vb)
	}
}

func TestReopenWhileAnalyzing(t *testing.T) {
	ctx := context.Background()
	w := newWorkspace(t, map[string]string{"a.seen": "val old = 1;"})
	old, _ := w.Version("a.seen")

	started := make(chan struct{})
	release := make(chan struct{})
	w.beforeAnalyze = func(path string, version uint64) {
		if version == old {
			close(started)
			<-release
		}
	}

	type outcome struct {
		r   *Result
		err error
	}
	first := make(chan outcome, 1)
	go func() {
		r, err := w.Snapshot(ctx, "a.seen")
		first <- outcome{r, err}
	}()
	<-started

	w.Close("a.seen")
	v := w.NotifyContentChanged("a.seen", []byte("val fresh = 2;"))

	second := make(chan outcome, 1)
	go func() {
		r, err := w.Snapshot(ctx, "a.seen")
		second <- outcome{r, err}
	}()
	close(release)

	for name, ch := range map[string]chan outcome{"in flight": first, "after reopen": second} {
		got := <-ch
		if got.err != nil {
			t.Fatalf("%s: %v", name, got.err)
		}
		if got.r.Version != v || string(got.r.Content) != "val fresh = 2;" {
			t.Fatalf("%s: got version %d content %q, want version %d", name, got.r.Version, got.r.Content, v)
		}
		decl := got.r.File.Body[0].(*syntax.VarDecl)
		if decl.Name.Value != "fresh" {
			t.Fatalf("%s: got %s", name, decl.Name.Value)
		}
	}
}

func TestConcurrentReadersAndWriter(t *testing.T) {
	ctx := context.Background()
	w := newWorkspace(t, map[string]string{"a.seen": "val v0 = 0;"})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				r, err := w.Snapshot(ctx, "a.seen")
				if err != nil {
					t.Error(err)
					return
				}
				// Every result is internally consistent.
				want := fmt.Sprintf("v%d", r.Version-1)
				if !strings.Contains(string(r.Content), want) {
					t.Errorf("version %d has content %q", r.Version, r.Content)
					return
				}
			}
		}()
	}

	var last uint64
	for i := 1; i <= 20; i++ {
		last = w.NotifyContentChanged("a.seen", fmt.Appendf(nil, "val v%d = %d;", i, i))
	}
	wg.Wait()

	r, err := w.Snapshot(ctx, "a.seen")
	if err != nil {
		t.Fatal(err)
	}
	if r.Version != last || !strings.Contains(string(r.Content), "v20") {
		t.Fatalf("got version %d content %q", r.Version, r.Content)
	}
	decl := r.File.Body[0].(*syntax.VarDecl)
	if decl.Name.Value != "v20" {
		t.Fatalf("got %s", decl.Name.Value)
	}
}

func TestModule(t *testing.T) {
	dir := t.TempDir()
	project := configs.DefaultProject(dir)
	project.Language = "ar"

	dscope.New(
		new(Module),
		dscope.Provide(project),
		dscope.Provide(keywords.Default()),
	).Fork(
		func() logs.Writer {
			return io.Discard
		},
	).Call(func(
		w *Workspace,
	) {
		w.NotifyContentChanged("main.seen", []byte("ثابت س = 1؛\nاطبع(س)؛"))
		diags, err := w.Diagnostics(context.Background(), "main.seen")
		if err != nil {
			t.Fatal(err)
		}
		if diags.Len() != 0 {
			t.Fatalf("got %v", diags)
		}
	})
}
