package configs

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Manifest is the shape of seen.toml.
//
//	[project]
//	name = "hello"
//	version = "0.1.0"
//
//	[language]
//	keywords = "ar"
//	allow_mixed = false
type Manifest struct {
	Project struct {
		Name        string   `toml:"name"`
		Version     string   `toml:"version"`
		Description string   `toml:"description,omitempty"`
		Authors     []string `toml:"authors,omitempty"`
	} `toml:"project"`
	Language struct {
		Keywords     string   `toml:"keywords"`
		AllowMixed   bool     `toml:"allow_mixed"`
		KeywordFiles []string `toml:"keyword_files,omitempty"`
	} `toml:"language"`
	Lexer struct {
		TabWidth int `toml:"tab_width,omitempty"`
	} `toml:"lexer"`
	Build struct {
		Target    string `toml:"target,omitempty"`
		OutputDir string `toml:"output_dir,omitempty"`
		Workers   int    `toml:"workers,omitempty"`
	} `toml:"build"`
	Diagnostics struct {
		Language string `toml:"language,omitempty"`
	} `toml:"diagnostics"`
	Dependencies map[string]string `toml:"dependencies,omitempty"`
}

// MissingSettingError names a required manifest key that is empty.
type MissingSettingError struct {
	Key string
}

func (e *MissingSettingError) Error() string {
	return fmt.Sprintf("configs: required setting %q is missing", e.Key)
}

// ParseManifest decodes and validates a seen.toml document.
func ParseManifest(content []byte) (*Manifest, error) {
	var m Manifest
	dec := toml.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("configs: %w", err)
	}
	switch {
	case m.Project.Name == "":
		return nil, &MissingSettingError{Key: "project.name"}
	case m.Project.Version == "":
		return nil, &MissingSettingError{Key: "project.version"}
	case m.Language.Keywords == "":
		return nil, &MissingSettingError{Key: "language.keywords"}
	}
	return &m, nil
}

func ReadManifest(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := ParseManifest(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ToProject converts the manifest to a Project rooted at dir.
func (m *Manifest) ToProject(dir string) Project {
	p := DefaultProject(dir)
	p.Name = m.Project.Name
	p.Language = m.Language.Keywords
	p.Mixed = m.Language.AllowMixed
	p.KeywordFiles = m.Language.KeywordFiles
	p.TabWidth = m.Lexer.TabWidth
	if m.Build.Workers > 0 {
		p.Workers = m.Build.Workers
	}
	p.DiagLanguage = p.Language
	if m.Diagnostics.Language != "" {
		p.DiagLanguage = m.Diagnostics.Language
	}
	return p
}

// DefaultManifest is the manifest written for a new project.
func DefaultManifest(name, lang string) *Manifest {
	var m Manifest
	m.Project.Name = name
	m.Project.Version = "0.1.0"
	m.Project.Description = "A Seen language project"
	m.Language.Keywords = lang
	m.Build.Target = "debug"
	m.Build.OutputDir = "target"
	return &m
}

// WriteManifest writes m to path, failing if the file exists.
func WriteManifest(path string, m *Manifest) error {
	content, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("configs: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("configs: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return fmt.Errorf("configs: %w", err)
	}
	return f.Close()
}
