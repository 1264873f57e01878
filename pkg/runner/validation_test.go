package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Javier162380/airbyte/pkg/json"
)

func TestValidateAcceptsConformingConfig(t *testing.T) {
	v := NewSchemaValidator()

	violations, err := v.Validate(
		json.RawMessage(testSchema),
		json.RawMessage(`{"host":"db.internal","port":5432}`),
	)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestValidateEnumeratesAllViolations(t *testing.T) {
	v := NewSchemaValidator()

	violations, err := v.Validate(
		json.RawMessage(testSchema),
		json.RawMessage(`{"port":"not-a-number"}`),
	)
	require.NoError(t, err)
	require.NotEmpty(t, violations)

	joined := ""
	for _, violation := range violations {
		joined += violation + "\n"
	}
	// both failed constraints are reported, not just the first
	assert.Contains(t, joined, "host")
	assert.Contains(t, joined, "port")
}

func TestValidateRejectsBrokenSchema(t *testing.T) {
	v := NewSchemaValidator()

	_, err := v.Validate(
		json.RawMessage(`{"type": 42}`),
		json.RawMessage(`{}`),
	)
	assert.Error(t, err)
}

func TestValidateRejectsNonJSONValue(t *testing.T) {
	v := NewSchemaValidator()

	_, err := v.Validate(
		json.RawMessage(testSchema),
		json.RawMessage(`not json`),
	)
	assert.Error(t, err)
}
