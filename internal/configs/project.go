package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/seen-lang/seen/internal/keywords"
)

// Schema is the closed CUE schema of seen.cue.
const Schema = `
name?:          string
language?:      =~"^[a-z]{2}$"
mixed?:         bool
tab_width?:     int & >=0 & <=16
keyword_files?: [...string]
workers?:       int & >0
diag_language?: =~"^[a-z]{2}$"
log_level?:     "debug" | "info" | "warn" | "error"
`

const (
	CUEFile  = "seen.cue"
	TOMLFile = "seen.toml"
)

// Project is the resolved configuration of one project directory.
type Project struct {
	Dir          string
	Name         string
	Language     string
	Mixed        bool
	TabWidth     int
	KeywordFiles []string
	Workers      int
	DiagLanguage string
	LogLevel     string
}

// DefaultProject is used when a directory has no configuration file.
func DefaultProject(dir string) Project {
	return Project{
		Dir:          dir,
		Language:     "en",
		Workers:      runtime.GOMAXPROCS(0),
		DiagLanguage: "en",
		LogLevel:     "warn",
	}
}

// FromLoader reads a project from a CUE loader. Unset fields keep their
// defaults; for the others the first file that sets them wins.
func FromLoader(dir string, loader Loader) (Project, error) {
	p := DefaultProject(dir)
	if err := loader.Err(); err != nil {
		return p, err
	}
	name, err := First[string](loader, "name")
	if err != nil {
		return p, err
	}
	p.Name = name
	// Keyword files accumulate across every loaded file.
	for files, err := range All[[]string](loader, "keyword_files") {
		if err != nil {
			return p, err
		}
		p.KeywordFiles = append(p.KeywordFiles, files...)
	}
	var diagLang string
	for _, assign := range []func() error{
		assignIfSet(loader, "language", &p.Language),
		assignIfSet(loader, "mixed", &p.Mixed),
		assignIfSet(loader, "tab_width", &p.TabWidth),
		assignIfSet(loader, "workers", &p.Workers),
		assignIfSet(loader, "diag_language", &diagLang),
		assignIfSet(loader, "log_level", &p.LogLevel),
	} {
		if err := assign(); err != nil {
			return p, err
		}
	}
	p.DiagLanguage = diagLang
	if p.DiagLanguage == "" {
		p.DiagLanguage = p.Language
	}
	return p, nil
}

// assignIfSet leaves target untouched when path is not set.
func assignIfSet(loader Loader, path string, target any) func() error {
	return func() error {
		err := loader.AssignFirst(path, target)
		if errors.Is(err, ErrValueNotFound) {
			return nil
		}
		return err
	}
}

// Discover loads the configuration of dir: seen.cue if present, else
// seen.toml, else the defaults.
func Discover(dir string) (Project, error) {
	cuePath := filepath.Join(dir, CUEFile)
	if _, err := os.Stat(cuePath); err == nil {
		return FromLoader(dir, NewLoader([]string{cuePath}, Schema))
	} else if !errors.Is(err, os.ErrNotExist) {
		return Project{}, fmt.Errorf("configs: %w", err)
	}
	tomlPath := filepath.Join(dir, TOMLFile)
	m, err := ReadManifest(tomlPath)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultProject(dir), nil
	} else if err != nil {
		return Project{}, err
	}
	return m.ToProject(dir), nil
}

// Table builds the keyword table of the project. Keyword files are
// resolved against Dir and must all be TOML language files, or a single
// YAML or CUE table.
func (p Project) Table() (*keywords.Table, error) {
	if len(p.KeywordFiles) == 0 {
		return keywords.Default(), nil
	}

	var tomls []string
	for _, file := range p.KeywordFiles {
		switch ext := strings.ToLower(filepath.Ext(file)); ext {
		case ".toml":
			tomls = append(tomls, filepath.ToSlash(filepath.Clean(file)))
		case ".yaml", ".yml", ".cue":
			if len(p.KeywordFiles) != 1 {
				return nil, fmt.Errorf("configs: %s: a %s keyword table must be the only keyword file", file, ext)
			}
			content, err := os.ReadFile(filepath.Join(p.Dir, file))
			if err != nil {
				return nil, fmt.Errorf("configs: %w", err)
			}
			if ext == ".cue" {
				return keywords.LoadCUE(file, content)
			}
			return keywords.LoadYAML(content)
		default:
			return nil, fmt.Errorf("configs: %s: unknown keyword file format", file)
		}
	}
	t, err := keywords.LoadTOML(os.DirFS(p.Dir), tomls...)
	if err != nil {
		return nil, fmt.Errorf("configs: %w", err)
	}
	return t, nil
}

// Validate checks the project against its keyword table.
func (p Project) Validate(table *keywords.Table) error {
	if _, ok := table.Language(p.Language); !ok {
		return fmt.Errorf("configs: language %q is not in the keyword table", p.Language)
	}
	if p.TabWidth < 0 {
		return fmt.Errorf("configs: negative tab width %d", p.TabWidth)
	}
	if p.Workers <= 0 {
		return fmt.Errorf("configs: workers must be positive, got %d", p.Workers)
	}
	return nil
}
