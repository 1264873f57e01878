// Package metrics provides Prometheus counters for the message pipelines.
// Connector processes are short-lived, so the primary consumers are tests
// and the push-based scrapers some deployments attach to the process.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	defaultCollector *Collector
	defaultOnce      sync.Once
)

// Default returns the process-wide Collector registered against the default
// Prometheus registry. Counter names can only be registered once per
// registry, so every caller that does not bring its own registry shares this
// instance.
func Default() *Collector {
	defaultOnce.Do(func() {
		defaultCollector = NewCollector(prometheus.DefaultRegisterer)
	})
	return defaultCollector
}

// Collector tracks pipeline throughput for one runner instance. Registering
// against a caller-supplied registry keeps runner instances independent in
// tests.
type Collector struct {
	messagesEmitted  *prometheus.CounterVec
	linesConsumed    prometheus.Counter
	malformedLines   prometheus.Counter
	messagesAccepted prometheus.Counter
}

// NewCollector creates a Collector registered against reg. A nil reg uses
// the default registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		messagesEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "airbyte",
			Subsystem: "runner",
			Name:      "messages_emitted_total",
			Help:      "Protocol messages written to the output sink, by message type.",
		}, []string{"type"}),
		linesConsumed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "airbyte",
			Subsystem: "runner",
			Name:      "input_lines_total",
			Help:      "Lines read from standard input during WRITE.",
		}),
		malformedLines: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "airbyte",
			Subsystem: "runner",
			Name:      "malformed_lines_total",
			Help:      "Input lines skipped because they could not be decoded.",
		}),
		messagesAccepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "airbyte",
			Subsystem: "runner",
			Name:      "messages_accepted_total",
			Help:      "Messages delivered to the destination consumer.",
		}),
	}
}

// MessageEmitted records one message written to the output sink.
func (c *Collector) MessageEmitted(messageType string) {
	c.messagesEmitted.WithLabelValues(messageType).Inc()
}

// LineConsumed records one line read from the input stream.
func (c *Collector) LineConsumed() {
	c.linesConsumed.Inc()
}

// MalformedLine records one skipped undecodable line.
func (c *Collector) MalformedLine() {
	c.malformedLines.Inc()
}

// MessageAccepted records one message handed to the consumer.
func (c *Collector) MessageAccepted() {
	c.messagesAccepted.Inc()
}
