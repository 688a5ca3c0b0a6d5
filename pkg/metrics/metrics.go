package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Portal groups the collectors exported on /metrics. A nil *Portal, or one
// built with a nil registerer, records nothing.
type Portal struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	pipeline     *prometheus.HistogramVec
	redemptions  *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Portal {
	if reg == nil {
		return &Portal{}
	}
	p := &Portal{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, by route pattern and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		pipeline: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_pipeline_duration_seconds",
			Help:    "Time to resolve, fetch, filter and aggregate a dashboard view.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"view"}),
		redemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coupon_redemptions_total",
			Help: "Coupon scan and redeem attempts by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(p.httpRequests, p.httpDuration, p.pipeline, p.redemptions)
	return p
}

func (p *Portal) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if p == nil || p.httpRequests == nil {
		return
	}
	route = normalizeLabel(route)
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (p *Portal) ObservePipeline(view string, elapsed time.Duration) {
	if p == nil || p.pipeline == nil {
		return
	}
	p.pipeline.WithLabelValues(normalizeLabel(view)).Observe(elapsed.Seconds())
}

// IncRedemption counts a redemption outcome such as "redeemed", "already_redeemed" or "invalid".
func (p *Portal) IncRedemption(outcome string) {
	if p == nil || p.redemptions == nil {
		return
	}
	p.redemptions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
