package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Recorder collects per-run bootstrap metrics on a private registry.
// The job exits before any scrape, so results go to a Pushgateway.
type Recorder struct {
	registry     *prometheus.Registry
	stepDuration *prometheus.GaugeVec
	stepTotal    *prometheus.CounterVec
	lastSuccess  prometheus.Gauge
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		stepDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "chatdb_init_step_duration_seconds",
			Help: "Duration of the last execution of each bootstrap step",
		}, []string{"step"}),
		stepTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatdb_init_steps_total",
			Help: "Bootstrap steps executed, by outcome",
		}, []string{"step", "status"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chatdb_init_last_success_timestamp_seconds",
			Help: "Unix time of the last successful bootstrap run",
		}),
	}
	r.registry.MustRegister(r.stepDuration, r.stepTotal, r.lastSuccess)
	return r
}

func (r *Recorder) ObserveStep(step string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.stepDuration.WithLabelValues(step).Set(d.Seconds())
	r.stepTotal.WithLabelValues(step, status).Inc()
}

func (r *Recorder) MarkSuccess(t time.Time) {
	r.lastSuccess.Set(float64(t.Unix()))
}

func (r *Recorder) Push(ctx context.Context, url, job string) error {
	return push.New(url, job).Gatherer(r.registry).PushContext(ctx)
}
