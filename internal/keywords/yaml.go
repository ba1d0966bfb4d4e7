package keywords

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// tableFile is the single-document map-of-maps form of a table:
//
//	languages:
//	  - {code: en, name: English, direction: ltr}
//	  - {code: ar, name: Arabic, direction: rtl}
//	keywords:
//	  func: {en: func, ar: دالة}
type tableFile struct {
	Languages []struct {
		Code      string `yaml:"code" json:"code"`
		Name      string `yaml:"name" json:"name"`
		Direction string `yaml:"direction" json:"direction"`
	} `yaml:"languages" json:"languages"`
	Keywords map[string]map[string]string `yaml:"keywords" json:"keywords"`
}

func (f *tableFile) build() (*Table, error) {
	langs := make([]Language, 0, len(f.Languages))
	for _, l := range f.Languages {
		dir, err := ParseDirection(l.Direction)
		if err != nil {
			return nil, fmt.Errorf("language %s: %w", l.Code, err)
		}
		langs = append(langs, Language{Code: l.Code, Name: l.Name, Direction: dir})
	}
	return New(langs, f.Keywords)
}

// LoadYAML builds a table from its map-of-maps YAML form.
func LoadYAML(data []byte) (*Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("keyword table: %w", err)
	}
	t, err := file.build()
	if err != nil {
		return nil, fmt.Errorf("keyword table: %w", err)
	}
	return t, nil
}
