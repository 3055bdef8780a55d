package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mind-engage/mindengage-blueprint/internal/blueprint"
)

type Metrics struct {
	registry  *prometheus.Registry
	generated *prometheus.CounterVec
	issues    *prometheus.CounterVec
	scored    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		generated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blueprint",
			Name:      "generated_total",
			Help:      "Blueprints generated, by exam type (\"other\" for types without a layout).",
		}, []string{"exam_type"}),
		issues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blueprint",
			Name:      "validation_issues_total",
			Help:      "Validation issues reported, by kind.",
		}, []string{"kind"}),
		scored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blueprint",
			Name:      "smart_marks_total",
			Help:      "Section results computed, by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.generated, m.issues, m.scored)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Generated(examType string) {
	label := "other"
	if blueprint.Supported(examType) {
		label = blueprint.NormalizeExamType(examType)
	}
	m.generated.WithLabelValues(label).Inc()
}

func (m *Metrics) Issues(is blueprint.Issues) {
	for _, i := range is {
		m.issues.WithLabelValues(string(i.Kind)).Inc()
	}
}

// Scored counts n results computed, or one configuration failure when err is set.
func (m *Metrics) Scored(n int, err error) {
	if err != nil {
		m.scored.WithLabelValues("config_error").Inc()
		return
	}
	m.scored.WithLabelValues("ok").Add(float64(n))
}
