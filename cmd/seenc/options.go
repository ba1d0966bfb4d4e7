package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/seen-lang/seen/internal/configs"
	"github.com/seen-lang/seen/internal/keywords"
	"github.com/seen-lang/seen/internal/logs"
)

// options are the flags shared by the build and repl commands.
type options struct {
	emitTokens   bool
	emitAST      bool
	astFormat    string
	emitTypedAST bool
	emitLayout   bool
	emitSSA      bool
	emitLLVM     bool
	dumpFunc     string
	output       string
	version      bool

	config   string
	lang     string
	mixed    bool
	tabWidth int
	diagLang string
	logLevel string
	workers  int

	set map[string]bool // flags given on the command line
}

func newFlagSet(name string, opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	if name == "seenc" {
		fs.BoolVar(&opts.emitTokens, "emit-tokens", false, "Output token stream")
		fs.BoolVar(&opts.emitAST, "emit-ast", false, "Output AST")
		fs.StringVar(&opts.astFormat, "ast-format", "text", "AST output format (text or json)")
		fs.BoolVar(&opts.emitTypedAST, "emit-typed-ast", false, "Output typed AST")
		fs.BoolVar(&opts.emitLayout, "emit-layout", false, "Output struct layouts")
		fs.BoolVar(&opts.emitSSA, "emit-ssa", false, "Output SSA")
		fs.BoolVar(&opts.emitLLVM, "emit-llvm", false, "Output LLVM IR")
		fs.StringVar(&opts.dumpFunc, "dump-func", "", "Only dump specific function")
		fs.StringVar(&opts.output, "o", "", "Output file")
		fs.BoolVar(&opts.version, "version", false, "Print version")
		fs.IntVar(&opts.workers, "workers", 0, "Files checked in parallel (default from project)")
	}

	fs.StringVar(&opts.config, "config", "", "Project directory, seen.cue or seen.toml (default: current directory)")
	fs.StringVar(&opts.lang, "lang", "", "Keyword language code (default from project, else en)")
	fs.BoolVar(&opts.mixed, "mixed", false, "Accept keywords of every language")
	fs.IntVar(&opts.tabWidth, "tab-width", 0, "Columns per tab in positions (0 counts a tab as one column)")
	fs.StringVar(&opts.diagLang, "diag-lang", "", "Diagnostic message language (default: keyword language)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	return fs
}

func parseOptions(name string, args []string, stderr io.Writer, usage func(*flag.FlagSet)) (*options, []string, error) {
	opts := new(options)
	fs := newFlagSet(name, opts, stderr)
	if usage != nil {
		fs.Usage = func() { usage(fs) }
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})
	return opts, fs.Args(), nil
}

// loadProject resolves the project configuration and applies the
// command-line overrides.
func loadProject(opts *options) (configs.Project, *keywords.Table, error) {
	project, err := discoverProject(opts.config)
	if err != nil {
		return project, nil, err
	}

	if opts.set["lang"] {
		project.Language = opts.lang
		if !opts.set["diag-lang"] {
			project.DiagLanguage = opts.lang
		}
	}
	if opts.set["mixed"] {
		project.Mixed = opts.mixed
	}
	if opts.set["tab-width"] {
		project.TabWidth = opts.tabWidth
	}
	if opts.set["diag-lang"] {
		project.DiagLanguage = opts.diagLang
	}
	if opts.set["log-level"] {
		project.LogLevel = opts.logLevel
	}
	if opts.set["workers"] {
		project.Workers = opts.workers
	}

	if project.LogLevel != "" {
		level, err := logs.ParseLevel(project.LogLevel)
		if err != nil {
			return project, nil, err
		}
		logs.SetLevel(level)
	} else {
		logs.SetLevel(slog.LevelWarn)
	}

	table, err := project.Table()
	if err != nil {
		return project, nil, err
	}
	if err := project.Validate(table); err != nil {
		return project, nil, err
	}
	return project, table, nil
}

func discoverProject(config string) (configs.Project, error) {
	if config == "" {
		dir, err := os.Getwd()
		if err != nil {
			return configs.Project{}, err
		}
		return configs.Discover(dir)
	}
	info, err := os.Stat(config)
	if err != nil {
		return configs.Project{}, fmt.Errorf("configs: %w", err)
	}
	if info.IsDir() {
		return configs.Discover(config)
	}
	dir := filepath.Dir(config)
	switch strings.ToLower(filepath.Ext(config)) {
	case ".cue":
		return configs.FromLoader(dir, configs.NewLoader([]string{config}, configs.Schema))
	case ".toml":
		m, err := configs.ReadManifest(config)
		if err != nil {
			return configs.Project{}, err
		}
		return m.ToProject(dir), nil
	}
	return configs.Project{}, fmt.Errorf("configs: %s: expected a directory, .cue or .toml file", config)
}
