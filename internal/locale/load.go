package locale

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed resources.yaml
var defaultResources []byte

type resourceFile struct {
	Default   string                           `yaml:"default"`
	Languages map[string]map[MessageKey]string `yaml:"languages"`
}

// Load reads YAML resources and returns a validated store.
func Load(r io.Reader) (*Store, error) {
	var rf resourceFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil {
		return nil, fmt.Errorf("locale: decode resources: %w", err)
	}
	if rf.Default == "" {
		rf.Default = "en"
	}

	s := NewStore(rf.Default)
	for code, messages := range rf.Languages {
		if err := s.AddLanguage(code, messages); err != nil {
			return nil, err
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Load(f)
}

// Default returns the built-in English and Italian resources.
func Default() (*Store, error) {
	return Load(bytes.NewReader(defaultResources))
}
