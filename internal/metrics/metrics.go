package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics holds the Prometheus collectors for the signal runs.
type Metrics struct {
	RunsTotal            prometheus.Counter
	RunDuration          prometheus.Histogram
	InstrumentsTotal     *prometheus.CounterVec // labels: outcome=evaluated|skipped
	AlertsTotal          *prometheus.CounterVec // labels: category
	NotificationFailures *prometheus.CounterVec // labels: kind=text|image|chart
	LastRunTimestamp     prometheus.Gauge
}

// NewMetrics creates all collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_runs_total",
			Help: "Total signal runs executed",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentinel_run_duration_seconds",
			Help:    "Wall time of one pass over all instruments",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 8),
		}),
		InstrumentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_instruments_total",
			Help: "Instruments processed per outcome",
		}, []string{"outcome"}),
		AlertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_alerts_total",
			Help: "Decisions per alert category",
		}, []string{"category"}),
		NotificationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_notification_failures_total",
			Help: "Failed notification or chart steps",
		}, []string{"kind"}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
	}
	reg.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.InstrumentsTotal,
		m.AlertsTotal,
		m.NotificationFailures,
		m.LastRunTimestamp,
	)
	return m
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("metrics server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.L().Error("metrics server", zap.Error(err))
	}
}
