package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// snapshotSchema guards against corrupt or foreign documents in the
// snapshot table. Nothing is required: older snapshot versions omit
// fields freely and the loader fills them from defaults. What the
// schema rejects is wrong types and out-of-range stats.
const snapshotSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "pet": {
      "type": "object",
      "properties": {
        "species": {"type": "string"},
        "level": {"type": "integer", "minimum": 1},
        "name": {"type": "string"},
        "traits": {"type": "array", "items": {"type": "string"}, "maxItems": 3},
        "imageRef": {"type": "string"}
      }
    },
    "hunger": {"type": "integer", "minimum": 0, "maximum": 100},
    "happiness": {"type": "integer", "minimum": 0, "maximum": 100},
    "energy": {"type": "integer", "minimum": 0, "maximum": 100},
    "hygiene": {"type": "integer", "minimum": 0, "maximum": 100},
    "coins": {"type": "integer", "minimum": 0},
    "xp": {"type": "integer", "minimum": 0},
    "stamina": {"type": "integer", "minimum": 0},
    "lastSavedTime": {"type": "integer", "minimum": 0}
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = jsonschema.CompileString("snapshot.schema.json", snapshotSchema)
	})
	return compiledSchema, compileErr
}

// ValidateSnapshot checks a raw snapshot document against the schema.
func ValidateSnapshot(raw []byte) error {
	s, err := schema()
	if err != nil {
		return fmt.Errorf("compile snapshot schema: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("not valid JSON: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("schema violation: %w", err)
	}
	return nil
}
