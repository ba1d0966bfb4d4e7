package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/reusee/dscope"
	"github.com/seen-lang/seen/internal/configs"
	"github.com/seen-lang/seen/internal/diag"
	"github.com/seen-lang/seen/internal/keywords"
	"github.com/seen-lang/seen/internal/logs"
	"github.com/seen-lang/seen/internal/workspace"
)

func buildUsage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintf(w, "Seen Compiler %s\n\n", Version)
	fmt.Fprintf(w, "Usage: seenc [options] <file.seen>...\n")
	fmt.Fprintf(w, "       seenc repl | init | doctor | version\n\n")
	fmt.Fprintf(w, "Options:\n")
	fs.PrintDefaults()
}

// cmdBuild checks every input file and writes the requested stage. Files
// are analysed concurrently; output follows the argument order.
func cmdBuild(args []string, stdout, stderr io.Writer) int {
	opts, files, err := parseOptions("seenc", args, stderr, buildUsage)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.version {
		printVersion(stdout)
		return 0
	}

	if len(files) == 0 {
		fmt.Fprintln(stderr, "error: no input file")
		fmt.Fprintln(stderr, "usage: seenc [options] <file.seen>...")
		return 1
	}
	if opts.output != "" && len(files) > 1 {
		fmt.Fprintln(stderr, "error: -o requires a single input file")
		return 1
	}
	if opts.astFormat != "text" && opts.astFormat != "json" {
		fmt.Fprintf(stderr, "error: unknown AST format %q\n", opts.astFormat)
		return 1
	}

	project, table, err := loadProject(opts)
	if err != nil {
		reportConfigError(stderr, opts, err)
		return 1
	}

	code := 0
	newScope(project, table, stderr).Call(func(
		ws *workspace.Workspace,
		logger logs.Logger,
	) {
		code = build(context.Background(), ws, logger, project, files, opts, stdout, stderr)
	})
	return code
}

func newScope(project configs.Project, table *keywords.Table, stderr io.Writer) dscope.Scope {
	return dscope.New(
		new(workspace.Module),
		dscope.Provide(project),
		dscope.Provide(table),
	).Fork(
		func() logs.Writer {
			return stderr
		},
	)
}

func reportConfigError(w io.Writer, opts *options, err error) {
	loc := diag.NewLocalizer(opts.diagLang)
	fmt.Fprintf(w, "seenc: %s[%s]: %s\n", diag.InvalidConfig.Severity, diag.InvalidConfig.Code,
		loc.Sprintf(diag.InvalidConfig.ID, err.Error()))
}

func build(
	ctx context.Context,
	ws *workspace.Workspace,
	logger logs.Logger,
	project configs.Project,
	files []string,
	opts *options,
	stdout, stderr io.Writer,
) int {
	code := 0
	for _, file := range files {
		if _, err := ws.Open(file); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			code = 1
		}
	}
	if code != 0 {
		return code
	}

	if _, err := ws.CheckAll(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	out := bufio.NewWriter(stdout)
	var closeOutput func() error
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		out = bufio.NewWriter(f)
		closeOutput = f.Close
	}

	loc := diag.NewLocalizer(project.DiagLanguage)
	for _, file := range files {
		r, err := ws.Snapshot(ctx, file)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			code = 1
			continue
		}
		if err := diag.Fprint(stderr, r.Diagnostics, r.Content, loc); err != nil {
			code = 1
		}
		failed := r.Diagnostics.HasErrors()
		if failed {
			code = 1
		}

		unitCtx := logs.WithUnit(ctx, file)
		if err := emit(out, r, opts, failed); err != nil {
			logger.ErrorContext(unitCtx, "emit", "error", err)
			fmt.Fprintf(stderr, "%s: %v\n", file, err)
			code = 1
		}
	}

	if err := out.Flush(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		code = 1
	}
	if closeOutput != nil {
		if err := closeOutput(); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			code = 1
		}
	}
	return code
}
