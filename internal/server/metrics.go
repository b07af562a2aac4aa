package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agenthands/mechcheck/internal/core/model"
)

type Metrics struct {
	Registry  *prometheus.Registry
	Checks    *prometheus.CounterVec
	Conflicts *prometheus.GaugeVec
	Duration  *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mechcheck_checks_total",
			Help: "Version checks run, by outcome.",
		}, []string{"version", "status"}),
		Conflicts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mechcheck_conflicts",
			Help: "Conflicting names found by the last check of a version.",
		}, []string{"version", "category"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mechcheck_check_duration_seconds",
			Help:    "Time taken to check one version.",
			Buckets: prometheus.DefBuckets,
		}, []string{"version"}),
	}
	m.Registry.MustRegister(m.Checks, m.Conflicts, m.Duration)
	return m
}

func (m *Metrics) Observe(results []*model.VersionResult) {
	for _, r := range results {
		if r == nil {
			continue
		}
		status := "ok"
		if r.Err != nil {
			status = "error"
		}
		m.Checks.WithLabelValues(r.Version, status).Inc()
		m.Duration.WithLabelValues(r.Version).Observe(r.Duration.Seconds())
		// Categories that did not run, or a failed version, report zero.
		for _, cat := range model.Categories() {
			n := 0
			if rep, ok := r.Conflict(cat); ok && r.Err == nil {
				n = rep.Count()
			}
			m.Conflicts.WithLabelValues(r.Version, string(cat)).Set(float64(n))
		}
	}
}
