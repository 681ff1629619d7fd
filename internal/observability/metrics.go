package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danmuck/bitpacket/internal/protocol"
)

// Metrics counts decoded messages for one process run.
type Metrics struct {
	messages *prometheus.CounterVec
	packets  prometheus.Counter
	bits     prometheus.Histogram
}

// NewMetrics creates the decoder metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pktdecode",
				Name:      "messages_total",
				Help:      "Messages processed, by result class.",
			},
			[]string{"result"},
		),
		packets: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "pktdecode",
				Name:      "packets_total",
				Help:      "Packets decoded across all accepted messages.",
			},
		),
		bits: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "pktdecode",
				Name:      "message_bits",
				Help:      "Bit length of the outermost packet of accepted messages.",
				Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
			},
		),
	}
	for _, c := range []prometheus.Collector{m.messages, m.packets, m.bits} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

// Record accounts for one batch outcome.
func (m *Metrics) Record(o protocol.Outcome) {
	m.messages.WithLabelValues(protocol.Classify(o.Err)).Inc()
	if o.Err != nil {
		return
	}
	m.packets.Add(float64(o.Result.Packets))
	m.bits.Observe(float64(o.Result.Bits))
}

// RecordReport accounts for every outcome of a batch.
func (m *Metrics) RecordReport(r protocol.Report) {
	for _, o := range r.Outcomes {
		m.Record(o)
	}
}

// WriteTextfile writes the gathered metrics in the Prometheus text format,
// for pickup by a node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile (%s): %w", path, err)
	}
	return nil
}
