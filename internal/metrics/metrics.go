// Package metrics счётчики сервиса для /metrics
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор коллекторов сервиса. Регистрируется в переданном реестре
type Metrics struct {
	OverviewRenders  *prometheus.CounterVec
	AppointmentSaves *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OverviewRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grading_overview_renders_total",
			Help: "Rendered grading overview pages by scope.",
		}, []string{"scope"}),
		AppointmentSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "appointment_updates_total",
			Help: "Appointment grade and attendance updates by action and result.",
		}, []string{"action", "result"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(m.OverviewRenders, m.AppointmentSaves, m.RequestDuration)
	return m
}
