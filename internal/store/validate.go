package store

import (
	"bytes"
	"embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	schemaDiagnosticResult = "diagnostic_result.json"
	schemaSessionResult    = "session_result.json"
)

// ValidationError reports a document that does not match its schema.
type ValidationError struct {
	Kind string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s document: %v", e.Kind, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var (
	compileOnce sync.Once
	compiled    map[string]*jsonschema.Schema
	compileErr  error
)

// schemas compiles the embedded schema set once.
func schemas() (map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		entries, err := schemaFS.ReadDir("schemas")
		if err != nil {
			compileErr = fmt.Errorf("read schemas: %w", err)
			return
		}
		for _, e := range entries {
			data, err := schemaFS.ReadFile("schemas/" + e.Name())
			if err != nil {
				compileErr = fmt.Errorf("read schema %s: %w", e.Name(), err)
				return
			}
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
			if err != nil {
				compileErr = fmt.Errorf("parse schema %s: %w", e.Name(), err)
				return
			}
			if err := c.AddResource(schemaURL(e.Name()), doc); err != nil {
				compileErr = fmt.Errorf("add resource %s: %w", e.Name(), err)
				return
			}
		}

		compiled = make(map[string]*jsonschema.Schema)
		for _, name := range []string{schemaDiagnosticResult, schemaSessionResult} {
			s, err := c.Compile(schemaURL(name))
			if err != nil {
				compileErr = fmt.Errorf("compile %s: %w", name, err)
				return
			}
			compiled[name] = s
		}
	})
	return compiled, compileErr
}

func schemaURL(name string) string {
	return "schema://skillbit/" + name
}

// validateDocument checks raw JSON against the named schema.
// Returns *ValidationError on failure.
func validateDocument(kind, schemaName string, raw []byte) error {
	set, err := schemas()
	if err != nil {
		return err
	}

	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ValidationError{Kind: kind, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := set[schemaName].Validate(parsed); err != nil {
		return &ValidationError{Kind: kind, Err: err}
	}
	return nil
}
