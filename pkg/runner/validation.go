package runner

import (
	"bytes"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Javier162380/airbyte/pkg/airbyteerrors"
	"github.com/Javier162380/airbyte/pkg/json"
)

// SchemaValidator checks a JSON value against a JSON schema and returns the
// set of violation messages; empty means valid. It is injected into the
// runner as a constructor-supplied collaborator, never held as process-wide
// state, so runner instances stay independently testable.
type SchemaValidator interface {
	Validate(schema, value json.RawMessage) ([]string, error)
}

// NewSchemaValidator returns the default draft-07 JSON-schema validator.
func NewSchemaValidator() SchemaValidator {
	return &schemaValidator{}
}

type schemaValidator struct{}

func (v *schemaValidator) Validate(schema, value json.RawMessage) ([]string, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource("connection_specification.json", bytes.NewReader(schema)); err != nil {
		return nil, airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeInternal, "connector declared an unreadable schema")
	}
	compiled, err := compiler.Compile("connection_specification.json")
	if err != nil {
		return nil, airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeInternal, "connector declared an invalid schema")
	}

	var doc interface{}
	if err := json.Unmarshal(value, &doc); err != nil {
		return nil, airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeConfig, "config is not valid JSON")
	}

	if err := compiled.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if ok := asValidationError(err, &ve); ok {
			return collectViolations(ve), nil
		}
		return nil, err
	}
	return nil, nil
}

func asValidationError(err error, target **jsonschema.ValidationError) bool {
	ve, ok := err.(*jsonschema.ValidationError)
	if ok {
		*target = ve
	}
	return ok
}

// collectViolations flattens the cause tree into leaf messages so the
// resulting error names every failed constraint, not just the first.
func collectViolations(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		location := ve.InstanceLocation
		if location == "" {
			location = "#"
		}
		return []string{location + ": " + ve.Message}
	}
	var all []string
	for _, cause := range ve.Causes {
		all = append(all, collectViolations(cause)...)
	}
	return all
}

// validateConfig aggregates all schema violations into a single validation
// error. Validation errors are fatal for DISCOVER/READ/WRITE and recovered
// into a failed connection status for CHECK.
func (r *Runner) validateConfig(schema, config json.RawMessage, operation string) error {
	violations, err := r.validator.Validate(schema, config)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		return airbyteerrors.Newf(airbyteerrors.ErrorTypeValidation,
			"verification error(s) occurred for %s: %s", operation, strings.Join(violations, "; "))
	}
	return nil
}
