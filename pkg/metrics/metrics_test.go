package metrics

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPortalExportsCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveHTTP(http.MethodGet, "/api/v1/dashboard/overview", http.StatusOK, 20*time.Millisecond)
	m.ObservePipeline("overview", 5*time.Millisecond)
	m.IncRedemption("redeemed")
	m.IncRedemption("redeemed")
	m.IncRedemption("")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "http_requests_total", "route", "/api/v1/dashboard/overview"); err != nil || got != 1 {
		t.Fatalf("expected one request, got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "coupon_redemptions_total", "outcome", "redeemed"); err != nil || got != 2 {
		t.Fatalf("expected redeemed=2, got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "coupon_redemptions_total", "outcome", "unknown"); err != nil || got != 1 {
		t.Fatalf("expected blank outcome under unknown, got %f err=%v", got, err)
	}
	if got, err := fetchHistogramSum(mfs, "dashboard_pipeline_duration_seconds", "view", "overview"); err != nil || got <= 0 {
		t.Fatalf("expected pipeline duration recorded, got %f err=%v", got, err)
	}
}

func TestNilPortalIsNoop(t *testing.T) {
	var m *Portal
	m.ObserveHTTP(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	m.ObservePipeline("overview", time.Millisecond)
	m.IncRedemption("redeemed")

	New(nil).IncRedemption("redeemed")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
