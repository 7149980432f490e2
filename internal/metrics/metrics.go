package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label of successful runs.
const OutcomeSuccess = "success"

type Registry struct {
	reg                *prometheus.Registry
	Runs               *prometheus.CounterVec
	FormattingFailures prometheus.Counter
	RunDurationSec     prometheus.Histogram
	UploadBytes        prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dcrmerge_runs_total",
		Help: "Merge runs by outcome (success or error code).",
	}, []string{"outcome"})
	formattingFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dcrmerge_formatting_failures_total",
		Help: "Runs that fell back to unstyled output.",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dcrmerge_run_duration_seconds",
		Help:    "Wall time of a merge run, styling included.",
		Buckets: prometheus.DefBuckets,
	})
	uploadBytes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dcrmerge_upload_bytes_total",
		Help: "Bytes of PAXLIST and DCR uploads received over HTTP.",
	})

	r.MustRegister(runs, formattingFailures, duration, uploadBytes)
	return &Registry{
		reg:                r,
		Runs:               runs,
		FormattingFailures: formattingFailures,
		RunDurationSec:     duration,
		UploadBytes:        uploadBytes,
	}
}

// ObserveRun records one finished merge run. An empty code means success.
func (r *Registry) ObserveRun(code string, d time.Duration, formattingFailed bool) {
	if code == "" {
		code = OutcomeSuccess
	}
	r.Runs.WithLabelValues(code).Inc()
	r.RunDurationSec.Observe(d.Seconds())
	if formattingFailed {
		r.FormattingFailures.Inc()
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
