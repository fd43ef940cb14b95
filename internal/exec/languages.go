package exec

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// LanguageSpec maps an internal language tag to the identifiers each
// execution backend expects.
type LanguageSpec struct {
	Name           string `yaml:"-"`
	PistonLanguage string `yaml:"piston_language"`
	PistonVersion  string `yaml:"piston_version"`
	FileName       string `yaml:"file_name"`
	Judge0ID       int    `yaml:"judge0_id"`
}

// LanguageTable is the set of supported languages keyed by tag (cpp, java, python).
type LanguageTable map[string]LanguageSpec

func DefaultLanguageTable() LanguageTable {
	return LanguageTable{
		"cpp": {
			Name:           "cpp",
			PistonLanguage: "cpp",
			PistonVersion:  "10.2.0",
			FileName:       "main.cpp",
			Judge0ID:       54,
		},
		"java": {
			Name:           "java",
			PistonLanguage: "java",
			PistonVersion:  "15.0.2",
			FileName:       "Main.java",
			Judge0ID:       62,
		},
		"python": {
			Name:           "python",
			PistonLanguage: "python",
			PistonVersion:  "3.10.0",
			FileName:       "main.py",
			Judge0ID:       71,
		},
	}
}

func (t LanguageTable) Lookup(language string) (LanguageSpec, bool) {
	spec, ok := t[language]
	if !ok {
		return LanguageSpec{}, false
	}
	spec.Name = language
	return spec, true
}

// Tags lists the supported language tags in sorted order.
func (t LanguageTable) Tags() []string {
	tags := make([]string, 0, len(t))
	for tag := range t {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

type languageFile struct {
	Languages map[string]LanguageSpec `yaml:"languages"`
}

// LoadLanguageTable reads a YAML file of the form
//
//	languages:
//	  python:
//	    piston_language: python
//	    piston_version: 3.10.0
//	    file_name: main.py
//	    judge0_id: 71
//
// The file replaces the default table entirely.
func LoadLanguageTable(path string) (LanguageTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read language table: %w", err)
	}
	return ParseLanguageTable(raw)
}

func ParseLanguageTable(raw []byte) (LanguageTable, error) {
	var file languageFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse language table: %w", err)
	}
	if len(file.Languages) == 0 {
		return nil, fmt.Errorf("language table defines no languages")
	}
	table := make(LanguageTable, len(file.Languages))
	for tag, spec := range file.Languages {
		if spec.PistonLanguage == "" && spec.Judge0ID == 0 {
			return nil, fmt.Errorf("language %q has neither a piston name nor a judge0 id", tag)
		}
		spec.Name = tag
		table[tag] = spec
	}
	return table, nil
}
