package core

import (
	"context"
	"encoding/json"
	"testing"
)

func TestBootstrapSeedsEmptyStoreOnce(t *testing.T) {
	ctx := context.Background()
	svc := NewInMemoryService(NewDefaultRulesEngine())

	seeded, err := svc.Bootstrap(ctx)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if !seeded {
		t.Fatalf("expected empty store to be seeded")
	}

	store := svc.Store()
	if got := len(store.ListProperties()); got != 2 {
		t.Fatalf("expected 2 seed properties, got %d", got)
	}
	if got := len(store.ListUnits()); got != 5 {
		t.Fatalf("expected 5 seed units, got %d", got)
	}
	if got := len(store.ListLeases()); got != 3 {
		t.Fatalf("expected 3 seed leases, got %d", got)
	}
	for _, lease := range store.ListLeases() {
		if !lease.Active {
			t.Fatalf("expected seed lease %s active", lease.ID)
		}
	}
	if got := len(store.ListMaintenanceRecords()); got != 2 {
		t.Fatalf("expected 2 seed history records, got %d", got)
	}
	unit, ok := store.GetUnit("u1")
	if !ok || unit.Status != UnitOccupied || unit.TenantName != "Jordan Lee" {
		t.Fatalf("unexpected seed unit u1: %v %+v", ok, unit)
	}

	again, err := svc.Bootstrap(ctx)
	if err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}
	if again {
		t.Fatalf("expected second bootstrap to be a no-op")
	}
	if got := len(store.ListProperties()); got != 2 {
		t.Fatalf("expected seed to stay unchanged, got %d properties", got)
	}
}

func TestBootstrapSkipsNonEmptyStore(t *testing.T) {
	ctx := context.Background()
	svc := NewInMemoryService(NewDefaultRulesEngine())

	if _, _, err := svc.CreateVendor(ctx, Vendor{Name: "Capitol Plumbing", Category: "Plumbing"}); err != nil {
		t.Fatalf("create vendor: %v", err)
	}
	seeded, err := svc.Bootstrap(ctx)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if seeded {
		t.Fatalf("expected non-empty store to skip seeding")
	}
	if got := len(svc.Store().ListProperties()); got != 0 {
		t.Fatalf("expected no seed records, got %d properties", got)
	}
}

func TestExportDocumentRoundTrips(t *testing.T) {
	ctx := context.Background()
	svc := NewInMemoryService(NewDefaultRulesEngine())
	if _, err := svc.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	raw, err := svc.ExportDocument(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	for _, bucket := range []string{"properties", "units", "tenants", "leases", "payments", "vendors", "notifications"} {
		if _, ok := doc[bucket]; !ok {
			t.Fatalf("expected bucket %s in export", bucket)
		}
	}

	// Exporting twice yields the same document.
	second, err := svc.ExportDocument(ctx)
	if err != nil {
		t.Fatalf("second export: %v", err)
	}
	if string(raw) != string(second) {
		t.Fatalf("expected stable export output")
	}
}

func TestResetToSeedRestoresDemoPortfolio(t *testing.T) {
	ctx := context.Background()
	svc := NewInMemoryService(NewDefaultRulesEngine())
	if _, err := svc.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if _, err := svc.ClearNotifications(ctx); err != nil {
		t.Fatalf("clear notifications: %v", err)
	}
	if _, _, err := svc.CreateVendor(ctx, Vendor{Name: "Extra Vendor", Category: "Roofing"}); err != nil {
		t.Fatalf("create vendor: %v", err)
	}

	if err := svc.ResetToSeed(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	store := svc.Store()
	if got := len(store.ListVendors()); got != 2 {
		t.Fatalf("expected reset to drop extra vendor, got %d", got)
	}
	if got := len(store.ListNotifications()); got != 3 {
		t.Fatalf("expected seed notifications restored, got %d", got)
	}
}
