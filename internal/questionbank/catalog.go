package questionbank

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtinYAML []byte

// Catalog is a complete question bank: the fixed diagnostic sequence and
// the adaptive practice pool.
type Catalog struct {
	Diagnostic *Set
	Practice   *Set
}

type catalogFile struct {
	Diagnostic []Question `yaml:"diagnostic"`
	Practice   []Question `yaml:"practice"`
}

// Load parses and validates a YAML catalog.
func Load(r io.Reader) (*Catalog, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	diag, diagErr := NewSet("diagnostic", f.Diagnostic)
	practice, practiceErr := NewSet("practice", f.Practice)
	if diagErr != nil || practiceErr != nil {
		return nil, errors.Join(diagErr, practiceErr)
	}
	return &Catalog{Diagnostic: diag, Practice: practice}, nil
}

// LoadFile loads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Builtin returns the catalog compiled into the binary.
// Panics if the embedded catalog is invalid (build-time error).
func Builtin() *Catalog {
	c, err := Load(bytes.NewReader(builtinYAML))
	if err != nil {
		panic(fmt.Sprintf("builtin question catalog is invalid: %v", err))
	}
	return c
}

// Open returns the catalog at path, or the built-in one when path is empty.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return Builtin(), nil
	}
	return LoadFile(path)
}
