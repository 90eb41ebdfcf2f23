package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	FetchesTotal *prometheus.CounterVec
	ErrorsTotal  *prometheus.CounterVec
	BytesWritten prometheus.Counter
}

// NewMetrics registers the collectors with reg, normally
// prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lightbox_fetches_total",
			Help: "The total number of links processed, by outcome",
		}, []string{"outcome"}),
		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lightbox_errors_total",
			Help: "The total number of errors encountered",
		}, []string{"type"}), // e.g., 'image_fetch_failed', 'ledger_save_failed'
		BytesWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "lightbox_image_bytes_written_total",
			Help: "The total number of image bytes written to disk",
		}),
	}
}

func (m *Metrics) IncFetchesTotal(outcome string) {
	m.FetchesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncErrorsTotal(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

func (m *Metrics) AddBytesWritten(n int64) {
	m.BytesWritten.Add(float64(n))
}
