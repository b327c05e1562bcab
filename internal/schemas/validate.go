// Package schemas provides JSON Schema validation for the structured documents the
// career guide exchanges with models: elicitation replies and persona templates.
// Schemas are embedded at compile time and compiled once.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Embedded schema names.
const (
	ElicitationReply = "elicitation_reply.schema.json"
	CareerTemplate   = "career_template.schema.json"
)

//go:embed *.schema.json
var schemaFiles embed.FS

var (
	compiled   = make(map[string]*gojsonschema.Schema)
	compiledMu sync.Mutex
)

// ValidationError lists every field of a document that broke its schema.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError is one schema violation. Field is "(root)" for document-level issues.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s validation failed:\n", ve.Schema)
	for i, fe := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, fe.Field, fe.Message)
	}
	return sb.String()
}

// SchemaLoadError reports a schema that could not be compiled or a document that
// could not be decoded.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Validate checks a JSON document against the named embedded schema. It returns a
// *ValidationError when the document does not conform, and a *SchemaLoadError when
// the schema is missing or the document is not JSON at all.
func Validate(name string, document []byte) error {
	return check(name, gojsonschema.NewBytesLoader(document), "document")
}

// ValidateGo validates a Go value through its JSON encoding.
func ValidateGo(name string, value any) error {
	return check(name, gojsonschema.NewGoLoader(value), "value")
}

func check(name string, doc gojsonschema.JSONLoader, kind string) error {
	schema, err := load(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(doc)
	if err != nil {
		return &SchemaLoadError{Path: name, Message: kind + " could not be loaded", Cause: err}
	}
	if result.Valid() {
		return nil
	}

	issues := result.Errors()
	vErr := &ValidationError{Schema: name, Errors: make([]FieldError, len(issues))}
	for i, issue := range issues {
		field := issue.Field()
		if field == "" {
			field = "(root)"
		}
		vErr.Errors[i] = FieldError{Field: field, Message: issue.Description()}
	}
	return vErr
}

func load(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if s, ok := compiled[name]; ok {
		return s, nil
	}
	raw, err := schemaFiles.ReadFile(name)
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "schema not found", Cause: err}
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "invalid schema", Cause: err}
	}
	compiled[name] = s
	return s, nil
}
