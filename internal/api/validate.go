package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema names for endpoints validated in strict mode.
const (
	schemaCreateQuiz = "create-quiz"
	schemaQuestion   = "question"
	schemaAnswer     = "answer"
	schemaChat       = "chat"
	schemaFileList   = "file-list"
	schemaRegister   = "register"
)

var questionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":       map[string]any{"type": "string", "minLength": 1},
		"question": map[string]any{"type": "string"},
		"type":     map[string]any{"type": "string"},
		"options": map[string]any{
			"type":  []any{"array", "null"},
			"items": map[string]any{"type": "string"},
		},
	},
	"required": []any{"id", "question"},
}

// schemas holds the response contracts. Only fields the client acts on are required.
var schemas = map[string]map[string]any{
	schemaCreateQuiz: {
		"type": "object",
		"properties": map[string]any{
			"quiz_id":         map[string]any{"type": "string", "minLength": 1},
			"total_questions": map[string]any{"type": "integer", "minimum": 0},
		},
		"required": []any{"quiz_id"},
	},
	schemaQuestion: questionSchema,
	schemaAnswer: {
		"type": "object",
		"properties": map[string]any{
			"correct":       map[string]any{"type": "boolean"},
			"feedback":      map[string]any{"type": []any{"string", "null"}},
			"score":         map[string]any{"type": []any{"number", "null"}},
			"next_question": map[string]any{"anyOf": []any{map[string]any{"type": "null"}, questionSchema}},
			"summary": map[string]any{
				"type": []any{"object", "null"},
				"properties": map[string]any{
					"correct": map[string]any{"type": "integer", "minimum": 0},
					"total":   map[string]any{"type": "integer", "minimum": 0},
				},
			},
		},
		"required": []any{"correct"},
	},
	schemaChat: {
		"type": "object",
		"properties": map[string]any{
			"answer": map[string]any{"type": "string"},
		},
		"required": []any{"answer"},
	},
	schemaFileList: {
		"type": "object",
		"properties": map[string]any{
			"files": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []any{"files"},
	},
	schemaRegister: {
		"type": "object",
		"properties": map[string]any{
			"user_id": map[string]any{"type": "string", "minLength": 1},
			"name":    map[string]any{"type": "string"},
		},
		"required": []any{"user_id"},
	},
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateResponse validates raw JSON against the named schema.
// Returns *ErrInvalidResponse on failure.
func validateResponse(name string, raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("invalid JSON: %w", err),
		}
	}

	compiled, err := getCompiledSchema(name)
	if err != nil {
		return &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("compile schema %q: %w", name, err),
		}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("schema %q validation failed: %w", name, err),
		}
	}
	return nil
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(name string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	def, ok := schemas[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}

	// The compiler wants plain decoded JSON values, so round-trip the Go map.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}
