// Package configs loads Seen project configuration.
//
// A project is configured by a seen.cue file, validated against a closed
// schema, or by a seen.toml manifest. Both produce a Project.
package configs

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

var ErrValueNotFound = errors.New("configs: value not found")

// Loader reads CUE files lazily on first access. Later files do not
// override earlier ones; lookups return the first file defining a path.
type Loader struct {
	getRoots func() ([]rootInfo, error)
}

func NewLoader(filePaths []string, schemaSrc string) Loader {
	return Loader{

		getRoots: sync.OnceValues(func() (ret []rootInfo, err error) {

			var schema cue.Value
			if schemaSrc != "" {
				ctx := cuecontext.New()
				schema = ctx.CompileString("close({" + schemaSrc + "})")
				if err := schema.Err(); err != nil {
					return nil, fmt.Errorf("configs: schema: %w", err)
				}
			}

			for _, filePath := range filePaths {
				content, err := os.ReadFile(filePath)
				if err != nil {
					return nil, fmt.Errorf("configs: %w", err)
				}
				value, err := compile(schema, filePath, content)
				if err != nil {
					return nil, err
				}
				ret = append(ret, rootInfo{
					value: value,
					path:  filePath,
				})
			}

			return
		}),
	}
}

// NewSourceLoader is NewLoader for in-memory sources.
func NewSourceLoader(filename string, src []byte, schemaSrc string) Loader {
	return Loader{
		getRoots: sync.OnceValues(func() ([]rootInfo, error) {
			var schema cue.Value
			if schemaSrc != "" {
				schema = cuecontext.New().CompileString("close({" + schemaSrc + "})")
				if err := schema.Err(); err != nil {
					return nil, fmt.Errorf("configs: schema: %w", err)
				}
			}
			value, err := compile(schema, filename, src)
			if err != nil {
				return nil, err
			}
			return []rootInfo{{value: value, path: filename}}, nil
		}),
	}
}

func compile(schema cue.Value, filePath string, content []byte) (cue.Value, error) {
	var ctx *cue.Context
	if schema.Exists() {
		ctx = schema.Context()
	} else {
		ctx = cuecontext.New()
	}
	value := ctx.CompileBytes(
		content,
		cue.Filename(filePath),
	)
	if err := value.Err(); err != nil {
		return value, fmt.Errorf("configs: %w", err)
	}
	if schema.Exists() {
		if err := schema.Unify(value).Validate(); err != nil {
			return value, fmt.Errorf("configs: %s: %w", filePath, err)
		}
	}
	return value, nil
}

type rootInfo struct {
	value cue.Value
	path  string
}

// Err reports the error from reading or validating the files, if any.
func (l Loader) Err() error {
	_, err := l.getRoots()
	return err
}

func (l Loader) IterCueValues(path string) iter.Seq2[*cue.Value, error] {
	return func(yield func(*cue.Value, error) bool) {
		roots, err := l.getRoots()
		if err != nil {
			yield(nil, err)
			return
		}

		cuePath := cue.ParsePath(path)
		for _, info := range roots {
			value := info.value.LookupPath(cuePath)
			if err := value.Err(); err == nil && value.Exists() {
				if !yield(&value, nil) {
					break
				}
			}
		}
	}
}

func (l Loader) AssignFirst(path string, target any) error {
	roots, err := l.getRoots()
	if err != nil {
		return err
	}

	cuePath := cue.ParsePath(path)
	for _, info := range roots {
		value := info.value.LookupPath(cuePath)
		if err := value.Err(); err == nil && value.Exists() {
			if err := value.Decode(target); err != nil {
				return fmt.Errorf("configs: %s: %s: %w", info.path, path, err)
			}
			return nil
		}
	}

	return ErrValueNotFound
}
