package observability

import (
	"context"
	"strconv"

	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects engine counters from lifecycle hooks.
type Metrics struct {
	Rebuilds        *prometheus.CounterVec
	RebuildDuration *prometheus.HistogramVec
	Flushes         *prometheus.CounterVec
	GripEdits       *prometheus.CounterVec
	Sessions        *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Rebuilds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cadmark_rebuilds_total",
				Help: "Total number of geometry rebuilds",
			},
			[]string{"type", "result"},
		),
		RebuildDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cadmark_rebuild_duration_seconds",
				Help:    "Duration of geometry rebuilds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"type"},
		),
		Flushes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cadmark_container_flushes_total",
				Help: "Total number of container writes",
			},
			[]string{"type", "mode", "result"},
		),
		GripEdits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cadmark_grip_edits_total",
				Help: "Total number of grip edits",
			},
			[]string{"kind", "committed"},
		),
		Sessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cadmark_sessions_total",
				Help: "Total number of interactive creation sessions",
			},
			[]string{"type", "committed"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Rebuilds, m.RebuildDuration, m.Flushes, m.GripEdits, m.Sessions)
	}
	return m
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRebuild: func(_ context.Context, e *domain.RebuildEvent) {
			m.Rebuilds.WithLabelValues(e.TypeName, result(e.Err)).Inc()
			m.RebuildDuration.WithLabelValues(e.TypeName).Observe(e.Duration.Seconds())
		},
		OnFlush: func(_ context.Context, e *domain.FlushEvent) {
			mode := "in_place"
			if e.Copied {
				mode = "copy"
			}
			m.Flushes.WithLabelValues(e.TypeName, mode, result(e.Err)).Inc()
		},
		OnGripEdit: func(_ context.Context, e *domain.GripEvent) {
			m.GripEdits.WithLabelValues(e.Kind, strconv.FormatBool(e.Committed)).Inc()
		},
		OnSessionEnd: func(_ context.Context, e *domain.SessionEvent) {
			m.Sessions.WithLabelValues(e.TypeName, strconv.FormatBool(e.Committed)).Inc()
		},
	}
}
