package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkflowMetrics records outcomes of bundle workflows and reconcile runs.
type WorkflowMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	drift    prometheus.Counter
}

// NewWorkflowMetrics registers the workflow metrics on the provided registerer.
func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	if reg == nil {
		return &WorkflowMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "workflow_duration_seconds",
		Help:    "Duration of bundle workflows in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"workflow"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_success",
		Help: "Successful bundle workflow executions.",
	}, []string{"workflow"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_failure",
		Help: "Failed bundle workflow executions.",
	}, []string{"workflow"})
	drift := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reconcile_drift_detected",
		Help: "Bundles found out of sync with the storefront during reconcile runs.",
	})
	reg.MustRegister(duration, success, failure, drift)
	return &WorkflowMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		drift:    drift,
	}
}

// ObserveDuration records the duration for the named workflow.
func (w *WorkflowMetrics) ObserveDuration(workflow string, duration time.Duration) {
	if w == nil || w.duration == nil {
		return
	}
	w.duration.WithLabelValues(normalizeLabel(workflow)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named workflow.
func (w *WorkflowMetrics) IncSuccess(workflow string) {
	if w == nil || w.success == nil {
		return
	}
	w.success.WithLabelValues(normalizeLabel(workflow)).Inc()
}

// IncFailure increments the failure counter for the named workflow.
func (w *WorkflowMetrics) IncFailure(workflow string) {
	if w == nil || w.failure == nil {
		return
	}
	w.failure.WithLabelValues(normalizeLabel(workflow)).Inc()
}

// IncDrift counts a bundle found out of sync during reconciliation.
func (w *WorkflowMetrics) IncDrift() {
	if w == nil || w.drift == nil {
		return
	}
	w.drift.Inc()
}

func normalizeLabel(workflow string) string {
	if workflow == "" {
		return "unknown"
	}
	return workflow
}
