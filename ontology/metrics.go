package ontology

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of a manager.
// A nil *Metrics records nothing.
type Metrics struct {
	created      *prometheus.CounterVec
	loaded       *prometheus.CounterVec
	loadDuration prometheus.Histogram
	changes      *prometheus.CounterVec
	ontologies   prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semonto",
			Subsystem: "manager",
			Name:      "ontologies_created_total",
			Help:      "Ontologies created, by manager mode.",
		}, []string{"mode"}),
		loaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semonto",
			Subsystem: "manager",
			Name:      "loads_total",
			Help:      "Ontology document loads, by result.",
		}, []string{"result"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "semonto",
			Subsystem: "manager",
			Name:      "load_duration_seconds",
			Help:      "Time to load and apply an ontology document.",
			Buckets:   prometheus.DefBuckets,
		}),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semonto",
			Subsystem: "ontology",
			Name:      "changes_total",
			Help:      "Applied ontology changes, by kind.",
		}, []string{"kind"}),
		ontologies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "semonto",
			Subsystem: "manager",
			Name:      "ontologies",
			Help:      "Ontologies currently registered.",
		}),
	}

	for _, c := range []prometheus.Collector{m.created, m.loaded, m.loadDuration, m.changes, m.ontologies} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) recordCreated(mode Mode) {
	if m == nil {
		return
	}
	m.created.WithLabelValues(mode.String()).Inc()
	m.ontologies.Inc()
}

func (m *Metrics) recordRemoved() {
	if m == nil {
		return
	}
	m.ontologies.Dec()
}

func (m *Metrics) recordLoad(start time.Time, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.loaded.WithLabelValues(result).Inc()
	m.loadDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) recordChanges(changes []Change) {
	if m == nil {
		return
	}
	for _, c := range changes {
		m.changes.WithLabelValues(string(c.Kind)).Inc()
	}
}
