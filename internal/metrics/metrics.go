// Package metrics counts what the assistant does and exposes the counters
// for Prometheus on their own listener, apart from the liveness endpoint.
package metrics

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voxassist/internal/assistant"
	"voxassist/internal/dispatch"
)

type Collector struct {
	reg *prometheus.Registry

	outcomes  *prometheus.CounterVec
	launches  *prometheus.CounterVec
	aiLatency prometheus.Histogram
}

func New() *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voxassist_outcomes_total",
			Help: "Listening cycles by outcome.",
		}, []string{"kind"}),
		launches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voxassist_app_launches_total",
			Help: "App launch attempts by app and result.",
		}, []string{"app", "success"}),
		aiLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "voxassist_ai_request_seconds",
			Help:    "Time spent waiting for the AI backend.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	c.reg.MustRegister(c.outcomes, c.launches, c.aiLatency)
	return c
}

// Report implements dispatch.Reporter.
func (c *Collector) Report(o dispatch.Outcome) error {
	c.outcomes.WithLabelValues(o.Kind.String()).Inc()
	if o.Kind == dispatch.Launched {
		c.launches.WithLabelValues(o.App, strconv.FormatBool(o.Success)).Inc()
	}
	return nil
}

// Timed wraps an Asker so each question is observed in the latency histogram.
func (c *Collector) Timed(a assistant.Asker) assistant.Asker {
	return timedAsker{next: a, hist: c.aiLatency}
}

type timedAsker struct {
	next assistant.Asker
	hist prometheus.Histogram
}

func (t timedAsker) Ask(ctx context.Context, q string) string {
	start := time.Now()
	defer func() { t.hist.Observe(time.Since(start).Seconds()) }()
	return t.next.Ask(ctx, q)
}

func (c *Collector) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}))
	return mux
}

// ListenAndServe serves /metrics on addr until ctx is cancelled.
func (c *Collector) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics server: %w", err)
	}

	srv := &http.Server{Handler: c.Handler(), ReadHeaderTimeout: 5 * time.Second}
	log.Info("metrics server listening", "addr", ln.Addr().String())

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
