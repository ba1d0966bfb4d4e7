package keywords

import (
	"bytes"
	"fmt"
	"io/fs"

	"github.com/pelletier/go-toml/v2"
)

// languageFile is the on-disk shape of one language's keyword file:
//
//	[language]
//	code = "ar"
//	name = "Arabic"
//	direction = "rtl"
//
//	[keywords]
//	func = "دالة"
type languageFile struct {
	Language struct {
		Code      string `toml:"code"`
		Name      string `toml:"name"`
		Direction string `toml:"direction"`
	} `toml:"language"`
	Keywords map[string]string `toml:"keywords"`
}

// LoadTOML builds a table from one TOML language file per language.
// Languages are declared in the order of paths.
func LoadTOML(fsys fs.FS, paths ...string) (*Table, error) {
	var langs []Language
	entries := make(map[string]map[string]string)
	for _, p := range paths {
		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, err
		}
		var file languageFile
		dec := toml.NewDecoder(bytes.NewReader(content))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		dir, err := ParseDirection(file.Language.Direction)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		langs = append(langs, Language{
			Code:      file.Language.Code,
			Name:      file.Language.Name,
			Direction: dir,
		})
		for name, lexeme := range file.Keywords {
			m, ok := entries[name]
			if !ok {
				m = make(map[string]string)
				entries[name] = m
			}
			m[file.Language.Code] = lexeme
		}
	}
	t, err := New(langs, entries)
	if err != nil {
		return nil, fmt.Errorf("keyword table: %w", err)
	}
	return t, nil
}
