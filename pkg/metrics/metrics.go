// Package metrics provides Prometheus metrics for minisock.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "minisock"

// Metrics counts datagram traffic through the transport.
type Metrics struct {
	DatagramsSent     prometheus.Counter
	DatagramsReceived prometheus.Counter
	BytesSent         prometheus.Counter
	BytesReceived     prometheus.Counter
	SendErrors        prometheus.Counter
}

var (
	defaultMetrics *Metrics
	metricsOnce    sync.Once
)

// Default returns the process-wide metrics instance, registering it on
// first use.
func Default() *Metrics {
	metricsOnce.Do(func() {
		defaultMetrics = &Metrics{
			DatagramsSent: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "datagrams_sent_total",
				Help:      "Datagrams handed to the OS for transmission.",
			}),
			DatagramsReceived: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "datagrams_received_total",
				Help:      "Datagrams read from the socket.",
			}),
			BytesSent: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bytes_sent_total",
				Help:      "Payload bytes accepted by the OS.",
			}),
			BytesReceived: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bytes_received_total",
				Help:      "Payload bytes read from the socket.",
			}),
			SendErrors: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "send_errors_total",
				Help:      "Sends that failed or were truncated by the OS.",
			}),
		}
	})
	return defaultMetrics
}
