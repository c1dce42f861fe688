package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	RecomputeLatencyMs = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "path_recompute_latency_ms", Help: "Full best-path rebuild latency", Buckets: prometheus.ExponentialBuckets(0.01, 2, 16)})
	RecomputesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "path_recomputes_total", Help: "Full best-path rebuilds by side"}, []string{"side"})
	RelaxationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "path_relaxations_total", Help: "Successful edge relaxations by side"}, []string{"side"})
	ExecutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "synthetic_executions_total", Help: "Synthetic lots executed by side"}, []string{"side"})
	LegsExecutedTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "legs_executed_total", Help: "Instrument legs consumed by executions"})
	RejectedExecutionsTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "rejected_executions_total", Help: "Executions requested towards an unreachable target"})
	InstrumentsLoaded = prometheus.NewGauge(prometheus.GaugeOpts{Name: "instruments_loaded", Help: "Instruments wired into the graph"})
	SyntheticLevels = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "synthetic_levels", Help: "Synthetic book levels produced by side"}, []string{"side"})
	BookBuildLatencyMs = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "book_build_latency_ms", Help: "Time to drain a synthetic book", Buckets: prometheus.ExponentialBuckets(0.1, 2, 16)})
)

func Init(logger zerolog.Logger) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	toRegister := []prometheus.Collector{
		RecomputeLatencyMs, RecomputesTotal, RelaxationsTotal,
		ExecutionsTotal, LegsExecutedTotal, RejectedExecutionsTotal,
		InstrumentsLoaded, SyntheticLevels, BookBuildLatencyMs,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range toRegister { _ = reg.Register(c) }
	logger.Info().Msg("Prometheus metrics initialized")
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
