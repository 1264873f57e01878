package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCollectorIsShared(t *testing.T) {
	// duplicate counter names cannot register twice against one registry,
	// so every default-registry caller must get the same instance
	assert.Same(t, Default(), Default())
}

func TestCollectorGathersAllCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.MessageEmitted("RECORD")
	c.MessageEmitted("RECORD")
	c.LineConsumed()
	c.MalformedLine()
	c.MessageAccepted()

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]float64)
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			byName[family.GetName()] = metric.GetCounter().GetValue()
		}
	}

	assert.Equal(t, float64(2), byName["airbyte_runner_messages_emitted_total"])
	assert.Equal(t, float64(1), byName["airbyte_runner_input_lines_total"])
	assert.Equal(t, float64(1), byName["airbyte_runner_malformed_lines_total"])
	assert.Equal(t, float64(1), byName["airbyte_runner_messages_accepted_total"])
}
