package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPaymentMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPaymentMetrics(reg)
	source := "webhook"
	metrics.IncApplied(source)
	metrics.IncDuplicate(source)
	metrics.IncDuplicate(source)
	metrics.IncRejected(source)
	metrics.ObserveDuration(source, 50*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "payment_reconciliation_applied", "source", source); err != nil {
		t.Fatalf("fetch applied: %v", err)
	} else if got != 1 {
		t.Fatalf("expected applied=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "payment_reconciliation_duplicate", "source", source); err != nil {
		t.Fatalf("fetch duplicate: %v", err)
	} else if got != 2 {
		t.Fatalf("expected duplicate=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "payment_reconciliation_rejected", "source", source); err != nil {
		t.Fatalf("fetch rejected: %v", err)
	} else if got != 1 {
		t.Fatalf("expected rejected=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "payment_reconciliation_duration_seconds", "source", source); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestPaymentMetricsNilRegistererIsNoop(t *testing.T) {
	metrics := NewPaymentMetrics(nil)
	metrics.IncApplied("webhook")
	metrics.IncDuplicate("verify")
	metrics.IncRejected("")
	metrics.ObserveDuration("webhook", time.Second)
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
