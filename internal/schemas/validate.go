// Package schemas provides JSON Schema validation for structured payloads
// coming back from external services.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// scoreBatchSchema constrains the external scorer's response: an object
// with a "scores" map of numeric-id keys to scores in [0,1].
const scoreBatchSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["scores"],
  "properties": {
    "scores": {
      "type": "object",
      "patternProperties": {
        "^[0-9]+$": {"type": "number", "minimum": 0, "maximum": 1}
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`

// ValidationError aggregates field-level schema violations.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "schema validation failed: " + strings.Join(e.Errors, "; ")
}

// ValidateScoreBatch checks a raw scorer response against the score-batch
// schema before it is parsed and merged.
func ValidateScoreBatch(jsonPayload string) error {
	schemaLoader := gojsonschema.NewStringLoader(scoreBatchSchema)
	documentLoader := gojsonschema.NewStringLoader(jsonPayload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to run schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return &ValidationError{Errors: violations}
}
