package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/seen-lang/seen/internal/configs"
	"github.com/seen-lang/seen/internal/keywords"
	"github.com/seen-lang/seen/internal/token"
)

// cmdInit creates a project: a seen.toml manifest and a hello world
// program written with the keywords of the chosen language.
func cmdInit(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	lang := fs.String("lang", "en", "Keyword language of the new project")
	dir := fs.String("dir", ".", "Directory to create the project in")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: seenc init [-lang code] [-dir dir] <name>")
		return 2
	}
	name := fs.Arg(0)

	table := keywords.Default()
	if _, ok := table.Language(*lang); !ok {
		fmt.Fprintf(stderr, "error: unknown language %q\n", *lang)
		return 1
	}

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	manifest := filepath.Join(*dir, configs.TOMLFile)
	if err := configs.WriteManifest(manifest, configs.DefaultManifest(name, *lang)); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	mainFile := filepath.Join(*dir, "main.seen")
	src := helloWorld(table, *lang)
	f, err := os.OpenFile(mainFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err == nil {
		_, err = io.WriteString(f, src)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil && !errors.Is(err, os.ErrExist) {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "created %s\n", manifest)
	if err == nil {
		fmt.Fprintf(stdout, "created %s\n", mainFile)
	}
	return 0
}

func helloWorld(table *keywords.Table, lang string) string {
	kw := func(k token.Kind) string {
		if s, ok := table.Lexeme(k, lang); ok {
			return s
		}
		s, _ := table.Lexeme(k, "en")
		return s
	}
	return fmt.Sprintf("%s main() {\n    %s(\"Hello, World!\");\n}\n", kw(token.Func), kw(token.Println))
}
