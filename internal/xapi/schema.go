package xapi

import (
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://xapi-event.json"

// statementSchema describes the subset of an H5P xAPI event this module reads.
// Finish verbs must carry a duration because the elapsed time is derived from it.
var statementSchema = map[string]any{
	"type":     "object",
	"required": []any{"statement"},
	"properties": map[string]any{
		"statement": map[string]any{
			"type":     "object",
			"required": []any{"verb"},
			"properties": map[string]any{
				"verb": map[string]any{
					"type":     "object",
					"required": []any{"display"},
					"properties": map[string]any{
						"id":      map[string]any{"type": "string"},
						"display": map[string]any{"type": "object"},
					},
				},
				"result": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"duration": map[string]any{"type": "string"},
						"response": map[string]any{"type": "string"},
					},
				},
				"object": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"definition": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"correctResponsesPattern": map[string]any{
									"type":  "array",
									"items": map[string]any{"type": "string"},
								},
							},
						},
					},
				},
			},
			"if": map[string]any{
				"properties": map[string]any{
					"verb": map[string]any{
						"properties": map[string]any{
							"display": map[string]any{
								"required": []any{DefaultLocale},
								"properties": map[string]any{
									DefaultLocale: map[string]any{"enum": []any{VerbCompleted, VerbAnswered}},
								},
							},
						},
					},
				},
			},
			"then": map[string]any{
				"required": []any{"result"},
				"properties": map[string]any{
					"result": map[string]any{
						"required": []any{"duration"},
						"properties": map[string]any{
							"duration": map[string]any{"pattern": "[0-9]"},
						},
					},
				},
			},
		},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, statementSchema); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

func validate(doc any) error {
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile statement schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return &ErrInvalidStatement{Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}
