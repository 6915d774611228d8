package core

import (
	"bytes"
	"context"
	"expvar"
	"strings"
	"testing"
	"time"
)

type captureAuditRecorder struct {
	entries []AuditEntry
}

func (c *captureAuditRecorder) Record(_ context.Context, entry AuditEntry) {
	c.entries = append(c.entries, entry)
}

func (c *captureAuditRecorder) has(op string, status AuditStatus, predicate func(AuditEntry) bool) bool {
	for _, entry := range c.entries {
		if entry.Operation == op && entry.Status == status {
			if predicate == nil || predicate(entry) {
				return true
			}
		}
	}
	return false
}

type metricsCall struct {
	op       string
	success  bool
	duration time.Duration
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, duration time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success, duration: duration})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type captureTracer struct {
	started []string
	ended   []spanRecord
}

type spanRecord struct {
	op  string
	err error
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	c.started = append(c.started, op)
	return ctx, &captureSpan{tracer: c, op: op}
}

func (c *captureTracer) has(op string, success bool) bool {
	for _, record := range c.ended {
		if record.op == op {
			if success && record.err == nil {
				return true
			}
			if !success && record.err != nil {
				return true
			}
		}
	}
	return false
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
}

func TestServiceObservabilityCoversOperations(t *testing.T) {
	ctx := context.Background()
	audit := &captureAuditRecorder{}
	metrics := &captureMetricsRecorder{}
	tracer := &captureTracer{}

	svc := NewInMemoryService(NewDefaultRulesEngine(),
		WithAuditRecorder(audit),
		WithMetricsRecorder(metrics),
		WithTracer(tracer),
	)

	property, _, err := svc.CreateProperty(ctx, Property{Name: "Navy Yard Flats", Address: "77 Water St SE", Type: "Apartment"})
	if err != nil {
		t.Fatalf("create property: %v", err)
	}
	if !audit.has("create_property", AuditStatusSuccess, func(entry AuditEntry) bool { return entry.EntityID == property.ID }) {
		t.Fatalf("expected audit entry for create_property success")
	}

	unit, _, err := svc.CreateUnit(ctx, Unit{PropertyID: property.ID, Label: "101", SqFt: 720, Rent: 2500})
	if err != nil {
		t.Fatalf("create unit: %v", err)
	}
	tenant, _, err := svc.CreateTenant(ctx, Tenant{UnitID: unit.ID, Name: "Sam Patel"})
	if err != nil {
		t.Fatalf("create tenant: %v", err)
	}
	lease, payments, _, err := svc.CreateLease(ctx, Lease{UnitID: unit.ID, TenantID: tenant.ID, Start: "2026-01-01", End: "2026-02-28", Rent: 2500})
	if err != nil {
		t.Fatalf("create lease: %v", err)
	}
	if _, _, err := svc.TogglePaymentStatus(ctx, payments[0].ID); err != nil {
		t.Fatalf("toggle payment: %v", err)
	}
	if _, _, err := svc.EndLease(ctx, lease.ID); err != nil {
		t.Fatalf("end lease: %v", err)
	}

	if _, err := svc.DeleteProperty(ctx, "missing-property"); err == nil {
		t.Fatalf("expected delete_property error for missing id")
	}
	if !audit.has("delete_property", AuditStatusError, func(entry AuditEntry) bool { return entry.Error != "" }) {
		t.Fatalf("expected audit error entry for delete_property")
	}
	if !metrics.has("delete_property", false) {
		t.Fatalf("expected metrics entry for failed delete_property")
	}
	if !tracer.has("delete_property", false) {
		t.Fatalf("expected trace span for failed delete_property")
	}

	successOps := []string{
		"create_property",
		"create_unit",
		"create_tenant",
		"create_lease",
		"toggle_payment_status",
		"end_lease",
	}
	for _, op := range successOps {
		if !metrics.has(op, true) {
			t.Fatalf("expected metrics success entry for %s", op)
		}
		if !tracer.has(op, true) {
			t.Fatalf("expected finished span for %s", op)
		}
		if !audit.has(op, AuditStatusSuccess, nil) {
			t.Fatalf("expected audit success entry for %s", op)
		}
	}
}

const entryStatusSuccess = "success"
const entryStatusError = "error"

func TestExpvarMetricsRecorderExports(t *testing.T) {
	recorder := NewExpvarMetricsRecorder("")
	if recorder.Name() == "" {
		t.Fatalf("expected recorder to have export name")
	}
	recorder.Observe(context.Background(), "test_op", true, 10*time.Millisecond)
	recorder.Observe(context.Background(), "test_op", false, 5*time.Millisecond)

	snapshot := recorder.Snapshot()
	if snapshot.DurationsMS["test_op"] <= 0 {
		t.Fatalf("expected positive duration, snapshot=%+v", snapshot)
	}
	if snapshot.Results["test_op"][entryStatusSuccess] != 1 || snapshot.Results["test_op"][entryStatusError] != 1 {
		t.Fatalf("unexpected results snapshot=%+v", snapshot)
	}

	if v := expvar.Get(recorder.Name()); v == nil {
		t.Fatalf("expected expvar export to be registered")
	} else if !strings.Contains(v.String(), "test_op") {
		t.Fatalf("expected expvar output to contain operation: %s", v.String())
	}
}

func TestJSONTraceTracerExports(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	_, span := tracer.Start(context.Background(), "trace_op")
	span.End(nil)

	entries := tracer.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected single span entry, got %d", len(entries))
	}
	if entries[0].Operation != "trace_op" || entries[0].Status != entryStatusSuccess {
		t.Fatalf("unexpected span entry: %+v", entries[0])
	}
	if !strings.Contains(buf.String(), "\"operation\":\"trace_op\"") {
		t.Fatalf("expected JSON output to contain operation: %q", buf.String())
	}
}
