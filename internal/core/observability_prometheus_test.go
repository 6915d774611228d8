package core

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusMetricsRecorderObserves(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder, err := NewPrometheusMetricsRecorder(registry)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	recorder.Observe(context.Background(), "create_lease", true, 20*time.Millisecond)
	recorder.Observe(context.Background(), "create_lease", false, 5*time.Millisecond)
	recorder.Observe(context.Background(), "", true, time.Millisecond)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	byName := make(map[string]bool, len(families))
	for _, family := range families {
		byName[family.GetName()] = true
	}
	if !byName["rentcore_service_operation_duration_seconds"] {
		t.Fatalf("expected duration histogram, got %v", byName)
	}
	if !byName["rentcore_service_operation_results_total"] {
		t.Fatalf("expected result counter, got %v", byName)
	}

	var total float64
	for _, family := range families {
		if family.GetName() != "rentcore_service_operation_results_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	if total != 2 {
		t.Fatalf("expected 2 counted outcomes, got %v", total)
	}
}

func TestPrometheusMetricsRecorderDuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	if _, err := NewPrometheusMetricsRecorder(registry); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPrometheusMetricsRecorder(registry); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}
