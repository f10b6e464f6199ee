// Package metrics exposes prometheus counters for menu activity.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atomicstack/wmmenu/internal/diag"
	"github.com/atomicstack/wmmenu/internal/logging"
)

const namespace = "wmmenu"

// Metrics holds every collector on a private registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	pipeOutcomes *prometheus.CounterVec
	pipeDuration prometheus.Histogram
	diagnostics  *prometheus.CounterVec
	activations  prometheus.Counter
	menus        prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		pipeOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipemenu",
			Name:      "requests_total",
			Help:      "Pipe menu requests by final state",
		}, []string{"state"}),
		pipeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipemenu",
			Name:      "duration_seconds",
			Help:      "Time from spawn to the end of a pipe menu request",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 4},
		}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "Diagnostics reported by kind",
		}, []string{"kind"}),
		activations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "menu",
			Name:      "activations_total",
			Help:      "Menu items activated",
		}),
		menus: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "menu",
			Name:      "menus",
			Help:      "Menus currently in the tree",
		}),
	}
	m.registry.MustRegister(m.pipeOutcomes, m.pipeDuration, m.diagnostics, m.activations, m.menus)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObservePipe records how a pipe menu request ended.
func (m *Metrics) ObservePipe(state string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.pipeOutcomes.WithLabelValues(state).Inc()
	m.pipeDuration.Observe(elapsed.Seconds())
}

// ObserveActivation counts an executed menu item.
func (m *Metrics) ObserveActivation() {
	if m == nil {
		return
	}
	m.activations.Inc()
}

// SetMenus records the current size of the menu tree.
func (m *Metrics) SetMenus(n int) {
	if m == nil {
		return
	}
	m.menus.Set(float64(n))
}

// Sink counts each diagnostic by kind before passing it to next.
func (m *Metrics) Sink(next diag.Sink) diag.Sink {
	return diag.SinkFunc(func(d diag.Diagnostic) {
		if m != nil {
			m.diagnostics.WithLabelValues(string(d.Kind)).Inc()
		}
		if next != nil {
			next.Report(d)
		}
	})
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logging.Info("metrics listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
