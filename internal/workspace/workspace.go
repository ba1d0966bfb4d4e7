// Package workspace caches the analysis of every open source file and
// answers tooling queries against it.
//
// Each path holds its content, a version and, once computed, an immutable
// Result. Versions come from one counter shared by all paths, so a path
// that is closed and reopened never reuses a version. Many readers may query concurrently; NotifyContentChanged takes
// the write lock, replaces the content and drops the Result in one step,
// so a Result for an older version is never served after it returns.
// Recomputes of the same path and version are shared.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"sync"

	"github.com/samber/lo"
	"github.com/seen-lang/seen/internal/diag"
	"github.com/seen-lang/seen/internal/logs"
	"github.com/seen-lang/seen/internal/syntax"
	"github.com/seen-lang/seen/internal/token"
	"github.com/seen-lang/seen/internal/types2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ErrNotOpen is returned by queries on a path that is not open.
var ErrNotOpen = errors.New("workspace: path is not open")

// Config configures a Workspace.
type Config struct {
	Lexer syntax.LexerConfig

	// Workers bounds CheckAll. Zero means one worker per path.
	Workers int

	// Logger receives recompute and invalidation records. Nil discards
	// them.
	Logger *slog.Logger
}

// Workspace holds the open source files of a project and their cached
// analyses. It is safe for concurrent use.
type Workspace struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]*entry
	seq     uint64 // last version handed out

	group singleflight.Group

	beforeAnalyze func(path string, version uint64) // test hook
}

type entry struct {
	content []byte
	version uint64
	result  *Result // nil until computed for version
}

// New returns an empty workspace.
func New(cfg Config) *Workspace {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Workspace{
		cfg:     cfg,
		logger:  logger,
		entries: make(map[string]*entry),
	}
}

// Open reads path from disk and sets it as the content of path.
func (w *Workspace) Open(path string) (uint64, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("workspace: %w", err)
	}
	return w.NotifyContentChanged(path, content), nil
}

// NotifyContentChanged replaces the content of path, opening it if
// needed, and returns the new version. Versions increase across all
// paths. Derived state for the previous version is dropped before it
// returns.
func (w *Workspace) NotifyContentChanged(path string, content []byte) uint64 {
	content = slices.Clone(content)
	w.mu.Lock()
	e, ok := w.entries[path]
	if !ok {
		e = new(entry)
		w.entries[path] = e
	}
	w.seq++
	e.content = content
	e.version = w.seq
	e.result = nil
	version := e.version
	w.mu.Unlock()

	w.logger.DebugContext(logs.WithUnit(context.Background(), path), "invalidate",
		"version", version,
		"bytes", len(content))
	return version
}

// Close forgets path.
func (w *Workspace) Close(path string) {
	w.mu.Lock()
	delete(w.entries, path)
	w.mu.Unlock()
}

// Paths returns the open paths, sorted.
func (w *Workspace) Paths() []string {
	w.mu.RLock()
	paths := lo.Keys(w.entries)
	w.mu.RUnlock()
	slices.Sort(paths)
	return paths
}

// Version returns the current version of path.
func (w *Workspace) Version(path string) (uint64, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.entries[path]
	if !ok {
		return 0, false
	}
	return e.version, true
}

// Snapshot returns the analysis of the current content of path,
// computing it if needed.
func (w *Workspace) Snapshot(ctx context.Context, path string) (*Result, error) {
	for {
		w.mu.RLock()
		e, ok := w.entries[path]
		if !ok {
			w.mu.RUnlock()
			return nil, fmt.Errorf("%w: %s", ErrNotOpen, path)
		}
		if r := e.result; r != nil {
			w.mu.RUnlock()
			return r, nil
		}
		content, version := e.content, e.version
		w.mu.RUnlock()

		key := path + "@" + strconv.FormatUint(version, 10)
		v, _, _ := w.group.Do(key, func() (any, error) {
			r := w.analyze(ctx, path, version, content)
			w.mu.Lock()
			if cur, ok := w.entries[path]; ok && cur == e && cur.version == version {
				cur.result = r
			}
			w.mu.Unlock()
			return r, nil
		})
		r := v.(*Result)

		// The content may have changed, or the path been reopened, while
		// r was computed.
		w.mu.RLock()
		cur, ok := w.entries[path]
		current := ok && cur == e && cur.version == r.Version
		w.mu.RUnlock()
		if current {
			return r, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}

func (w *Workspace) analyze(ctx context.Context, path string, version uint64, content []byte) *Result {
	if w.beforeAnalyze != nil {
		w.beforeAnalyze(path, version)
	}
	ctx = logs.WithUnit(ctx, path)

	toks, lexDiags := syntax.Tokenize(path, content, w.cfg.Lexer)
	file, parseDiags := syntax.ParseTokens(path, toks, w.cfg.Lexer, lexDiags)
	info, checkDiags := types2.Check(file, &types2.Config{Logger: w.logger})

	diags := make(diag.List, 0, lexDiags.Len()+parseDiags.Len()+checkDiags.Len())
	diags = append(diags, lexDiags...)
	diags = append(diags, parseDiags...)
	diags = append(diags, checkDiags...)

	r := &Result{
		Path:        path,
		Version:     version,
		Content:     content,
		Tokens:      toks,
		File:        file,
		Info:        info,
		Diagnostics: diags.Sorted(),
	}
	r.index()

	w.logger.DebugContext(ctx, "analyze",
		"version", version,
		"tokens", len(toks),
		"nodes", file.MaxID,
		"diagnostics", len(diags))
	return r
}

// Tokens returns the token stream of path.
func (w *Workspace) Tokens(ctx context.Context, path string) ([]token.Token, error) {
	r, err := w.Snapshot(ctx, path)
	if err != nil {
		return nil, err
	}
	return r.Tokens, nil
}

// AST returns the syntax tree of path.
func (w *Workspace) AST(ctx context.Context, path string) (*syntax.File, error) {
	r, err := w.Snapshot(ctx, path)
	if err != nil {
		return nil, err
	}
	return r.File, nil
}

// TypedAST returns the syntax tree of path together with its typed
// overlay.
func (w *Workspace) TypedAST(ctx context.Context, path string) (*syntax.File, *types2.Info, error) {
	r, err := w.Snapshot(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return r.File, r.Info, nil
}

// Diagnostics returns the lexer, parser and checker diagnostics of path
// in source order.
func (w *Workspace) Diagnostics(ctx context.Context, path string) (diag.List, error) {
	r, err := w.Snapshot(ctx, path)
	if err != nil {
		return nil, err
	}
	return r.Diagnostics, nil
}

// FindDefinition returns the span of the declaration referred to by the
// name covering span. ok is false when span covers no resolvable name or
// the name is predeclared.
func (w *Workspace) FindDefinition(ctx context.Context, path string, span token.Span) (def token.Span, ok bool, err error) {
	r, err := w.Snapshot(ctx, path)
	if err != nil {
		return token.Span{}, false, err
	}
	def, ok = r.Definition(span)
	return def, ok, nil
}

// FindReferences returns every occurrence, declaration included, of the
// entity named at span, in source order.
func (w *Workspace) FindReferences(ctx context.Context, path string, span token.Span) ([]token.Span, error) {
	r, err := w.Snapshot(ctx, path)
	if err != nil {
		return nil, err
	}
	return r.References(span), nil
}

// CheckAll analyses every open path with at most Workers concurrent
// pipelines and returns the diagnostics per path. A single pipeline is
// never interrupted; ctx only stops pipelines from starting.
func (w *Workspace) CheckAll(ctx context.Context) (map[string]diag.List, error) {
	paths := w.Paths()
	results := make([]*Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if w.cfg.Workers > 0 {
		g.SetLimit(w.cfg.Workers)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := w.Snapshot(ctx, path)
			if err != nil {
				if errors.Is(err, ErrNotOpen) {
					// closed meanwhile
					return nil
				}
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]diag.List, len(paths))
	for _, r := range results {
		if r != nil {
			out[r.Path] = r.Diagnostics
		}
	}
	w.logger.DebugContext(ctx, "check all",
		"paths", len(out),
		"errors", lo.SumBy(lo.Values(out), func(l diag.List) int {
			return l.Errors().Len()
		}))
	return out, nil
}
