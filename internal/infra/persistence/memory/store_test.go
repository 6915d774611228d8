package memory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"rentcore/internal/infra/persistence/memory"
	"rentcore/pkg/domain"
)

func TestSnapshotExportImportRoundTrip(t *testing.T) {
	store := memory.NewStore(nil)
	ctx := context.Background()

	_, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		property, err := tx.CreateProperty(domain.Property{Name: "Navy Yard Flats", Address: "77 Water St SE", Type: "Apartment"})
		if err != nil {
			return err
		}
		if _, err := tx.CreateUnit(domain.Unit{PropertyID: property.ID, Label: "101", SqFt: 720, Rent: 2500}); err != nil {
			return err
		}
		if _, err := tx.PutProfile(domain.Profile{Email: "Sam@Example.com", Completed: true, Role: "Owner"}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	snapshot := store.ExportState()
	if snapshot.IsEmpty() {
		t.Fatalf("expected non-empty snapshot")
	}
	if len(snapshot.Properties) != 1 || len(snapshot.Units) != 1 {
		t.Fatalf("unexpected snapshot shape: %+v", snapshot)
	}

	restored := memory.NewStore(nil)
	restored.ImportState(snapshot)
	if got := len(restored.ListProperties()); got != 1 {
		t.Fatalf("expected restored property, got %d", got)
	}
	if _, ok := restored.GetProfile("sam@example.com"); !ok {
		t.Fatalf("expected profile to survive round trip under lowercase key")
	}

	// Mutating the exported snapshot must not leak into either store.
	snapshot.Properties[0].Name = "mutated"
	if p := restored.ListProperties()[0]; p.Name != "Navy Yard Flats" {
		t.Fatalf("expected store isolation from snapshot mutation, got %q", p.Name)
	}
}

func TestImportStateNormalizesProfileKeys(t *testing.T) {
	store := memory.NewStore(nil)
	store.ImportState(memory.Snapshot{
		Profiles: map[string]domain.Profile{
			"  Avery@Example.COM ": {Email: "Avery@Example.COM", Completed: true},
		},
	})
	profile, ok := store.GetProfile("avery@example.com")
	if !ok {
		t.Fatalf("expected profile under normalized key")
	}
	if profile.Email != "avery@example.com" {
		t.Fatalf("expected stored email to be normalized, got %q", profile.Email)
	}
}

func TestImportStateTolerateNilCollections(t *testing.T) {
	store := memory.NewStore(nil)
	store.ImportState(memory.Snapshot{})
	if !store.ExportState().IsEmpty() {
		t.Fatalf("expected empty state after importing zero snapshot")
	}
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.PutProfile(domain.Profile{Email: "new@example.com"})
		return err
	}); err != nil {
		t.Fatalf("expected store usable after zero import: %v", err)
	}
}

type blockVendorChanges struct{}

func (blockVendorChanges) Name() string { return "block-vendor-changes" }

func (blockVendorChanges) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	var result domain.Result
	for _, change := range changes {
		if change.Entity == domain.EntityVendor {
			result.Violations = append(result.Violations, domain.Violation{
				Rule:     "block-vendor-changes",
				Severity: domain.SeverityBlock,
				Message:  "vendor changes are frozen",
				Entity:   change.Entity,
			})
		}
	}
	return result, nil
}

func TestRunInTransactionBlockingRuleRollsBack(t *testing.T) {
	engine := domain.NewRulesEngine()
	engine.Register(blockVendorChanges{})
	store := memory.NewStore(engine)

	res, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateVendor(domain.Vendor{Name: "District HVAC Co.", Category: "HVAC"})
		return err
	})
	var ruleErr domain.RuleViolationError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("expected rule violation error, got %v", err)
	}
	if !res.HasBlocking() {
		t.Fatalf("expected blocking result returned alongside error")
	}
	if got := len(store.ListVendors()); got != 0 {
		t.Fatalf("expected blocked transaction to roll back, got %d vendors", got)
	}
}

func TestRunInTransactionRuleErrorAborts(t *testing.T) {
	engine := domain.NewRulesEngine()
	engine.Register(failingRule{})
	store := memory.NewStore(engine)

	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateProperty(domain.Property{Name: "X"})
		return err
	}); err == nil {
		t.Fatalf("expected rule evaluation error to abort commit")
	}
	if got := len(store.ListProperties()); got != 0 {
		t.Fatalf("expected no committed state, got %d properties", got)
	}
}

type failingRule struct{}

func (failingRule) Name() string { return "failing" }

func (failingRule) Evaluate(context.Context, domain.RuleView, []domain.Change) (domain.Result, error) {
	return domain.Result{}, fmt.Errorf("evaluation failed")
}

func TestClearNotifications(t *testing.T) {
	store := memory.NewStore(nil)
	ctx := context.Background()

	_, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		for i := 0; i < 3; i++ {
			if _, err := tx.CreateNotification(domain.Notification{Type: domain.NotificationRent, Text: fmt.Sprintf("reminder %d", i), Created: "2026-01-26"}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed notifications: %v", err)
	}

	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.ClearNotifications()
	}); err != nil {
		t.Fatalf("clear notifications: %v", err)
	}
	if got := len(store.ListNotifications()); got != 0 {
		t.Fatalf("expected no notifications after clear, got %d", got)
	}
}

func TestPutProfileReplacesWholeRecord(t *testing.T) {
	store := memory.NewStore(nil)
	ctx := context.Background()

	_, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, err := tx.PutProfile(domain.Profile{Email: "owner@example.com", Completed: true, Phone: "555-000-1111", Company: "Lee Holdings"}); err != nil {
			return err
		}
		_, err := tx.PutProfile(domain.Profile{Email: "OWNER@example.com", Completed: true, Role: "Manager"})
		return err
	})
	if err != nil {
		t.Fatalf("put profile: %v", err)
	}

	profile, ok := store.GetProfile("owner@example.com")
	if !ok {
		t.Fatalf("expected profile lookup to succeed")
	}
	if profile.Phone != "" || profile.Company != "" {
		t.Fatalf("expected whole-record replacement, got %+v", profile)
	}
	if profile.Role != "Manager" {
		t.Fatalf("expected latest role, got %q", profile.Role)
	}
	if got := len(store.ListProfiles()); got != 1 {
		t.Fatalf("expected single profile after case-insensitive upsert, got %d", got)
	}
}

func TestSetNowFuncDrivesTimestamps(t *testing.T) {
	store := memory.NewStore(nil)
	fixed := time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)
	store.SetNowFunc(func() time.Time { return fixed })

	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateVendor(domain.Vendor{Name: "Capitol Plumbing", Category: "Plumbing"})
		return err
	})
	if err != nil {
		t.Fatalf("create vendor: %v", err)
	}
	vendor := store.ListVendors()[0]
	if !vendor.CreatedAt.Equal(fixed) || !vendor.UpdatedAt.Equal(fixed) {
		t.Fatalf("expected timestamps pinned to clock, got %v / %v", vendor.CreatedAt, vendor.UpdatedAt)
	}
}

func TestViewSeesCommittedState(t *testing.T) {
	store := memory.NewStore(nil)
	ctx := context.Background()

	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.CreateProperty(domain.Property{Name: "Capitol Hill Duplex"})
		return err
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := store.View(ctx, func(view domain.TransactionView) error {
		if got := len(view.ListProperties()); got != 1 {
			return fmt.Errorf("expected 1 property in view, got %d", got)
		}
		if _, ok := view.FindProperty("missing"); ok {
			return fmt.Errorf("unexpected lookup success in view")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestNewIDUsesPrefix(t *testing.T) {
	id := memory.NewID("pay")
	if len(id) != len("pay")+12 {
		t.Fatalf("expected prefix plus 12 hex chars, got %q", id)
	}
	if id == memory.NewID("pay") {
		t.Fatalf("expected IDs to be unique")
	}
}
