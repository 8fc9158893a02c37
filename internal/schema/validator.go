package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema names, relative to the embedded schemas directory.
const (
	PostFields    = "post_fields.schema.json"
	BlogFields    = "blog_fields.schema.json"
	MultiLanguage = "multi_language.schema.json"
)

//go:embed schemas/*.schema.json
var schemaFiles embed.FS

type compiled struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

var (
	registryMu sync.Mutex
	registry   = map[string]*compiled{}
)

// Validate strictly decodes payload and checks it against the named schema.
// The decoded value is returned so callers can re-marshal a normalized form.
func Validate(name string, payload []byte) (any, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload JSON: %w", err)
	}

	sch, err := load(name)
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", name, err)
	}
	if err := sch.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	return value, nil
}

// Decode validates payload against the named schema and unmarshals it into dest.
func Decode(name string, payload []byte, dest any) error {
	value, err := Validate(name, payload)
	if err != nil {
		return err
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("normalize payload JSON: %w", err)
	}
	if err := json.Unmarshal(normalized, dest); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	return nil
}

// Source returns the raw schema document, for backends that accept a
// response schema alongside the prompt.
func Source(name string) (map[string]any, error) {
	raw, err := schemaFiles.ReadFile("schemas/" + name)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", name, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}
	return doc, nil
}

func load(name string) (*jsonschema.Schema, error) {
	registryMu.Lock()
	entry, ok := registry[name]
	if !ok {
		entry = &compiled{}
		registry[name] = entry
	}
	registryMu.Unlock()

	entry.once.Do(func() {
		raw, err := schemaFiles.ReadFile("schemas/" + name)
		if err != nil {
			entry.err = fmt.Errorf("read schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource(name, bytes.NewReader(raw)); err != nil {
			entry.err = fmt.Errorf("add schema resource: %w", err)
			return
		}
		entry.schema, entry.err = compiler.Compile(name)
		if entry.err != nil {
			entry.err = fmt.Errorf("compile schema: %w", entry.err)
		}
	})

	if entry.err != nil {
		return nil, entry.err
	}
	if entry.schema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return entry.schema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}

	return value, nil
}
