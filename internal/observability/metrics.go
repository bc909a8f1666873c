package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	datagramsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nsmclient",
			Subsystem: "transport",
			Name:      "datagrams_received_total",
			Help:      "Datagrams received from the session server.",
		},
		[]string{"client", "outcome"},
	)
	messagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nsmclient",
			Subsystem: "transport",
			Name:      "messages_sent_total",
			Help:      "Messages sent to the session server.",
		},
		[]string{"client", "path", "success"},
	)
	dispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nsmclient",
			Subsystem: "dispatch",
			Name:      "messages_total",
			Help:      "Decoded messages by dispatch route.",
		},
		[]string{"client", "route"},
	)
	imports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nsmclient",
			Subsystem: "resource",
			Name:      "imports_total",
			Help:      "Resource imports by outcome.",
		},
		[]string{"client", "success"},
	)
)

// Receive outcomes.
const (
	OutcomeDecoded   = "decoded"
	OutcomeMalformed = "malformed"
	OutcomeError     = "error"
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(datagramsReceived, messagesSent, dispatched, imports)
	})
}

func RecordReceive(client, outcome string) {
	RegisterMetrics()
	datagramsReceived.WithLabelValues(client, outcome).Inc()
}

func RecordSend(client, path string, err error) {
	RegisterMetrics()
	messagesSent.WithLabelValues(client, path, successLabel(err)).Inc()
}

func RecordDispatch(client, route string) {
	RegisterMetrics()
	dispatched.WithLabelValues(client, route).Inc()
}

func RecordImport(client string, err error) {
	RegisterMetrics()
	imports.WithLabelValues(client, successLabel(err)).Inc()
}

// Handler serves the default registry for a host's /metrics endpoint.
func Handler() http.Handler {
	RegisterMetrics()
	return promhttp.Handler()
}

func successLabel(err error) string {
	if err != nil {
		return "false"
	}
	return "true"
}
