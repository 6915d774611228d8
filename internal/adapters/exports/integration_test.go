package exports_test

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"rentcore/internal/adapters/exports"
	"rentcore/internal/blob"
	"rentcore/internal/core"
	"rentcore/internal/reporting"
	"rentcore/pkg/domain"
)

// Exercises the full path: seeded service, live snapshot, worker, blob store.
func TestExportFromSeededService(t *testing.T) {
	service := core.NewInMemoryService(nil)
	seeded, err := service.Bootstrap(context.Background())
	if err != nil || !seeded {
		t.Fatalf("bootstrap: seeded=%v err=%v", seeded, err)
	}

	snapshot := func(ctx context.Context) (reporting.Document, error) {
		var doc reporting.Document
		err := service.Store().View(ctx, func(view domain.TransactionView) error {
			doc = reporting.Collect(view)
			return nil
		})
		return doc, err
	}

	store := blob.NewMemory()
	worker := exports.NewWorker(exports.NewCatalog(), snapshot, store, &exports.MemoryAuditLog{})
	worker.Start()
	defer func() { _ = worker.Stop(context.Background()) }()

	queued, err := worker.Enqueue(context.Background(), exports.Request{
		TemplateSlug: "rent_roll",
		Parameters:   map[string]any{"month": "2026-01"},
		Formats:      []exports.Format{exports.FormatJSON},
		RequestedBy:  "ops@rentcore.dev",
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	var record exports.Record
	for time.Now().Before(deadline) {
		record, _ = worker.Get(queued.ID)
		if record.Status == exports.StatusSucceeded || record.Status == exports.StatusFailed {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if record.Status != exports.StatusSucceeded {
		t.Fatalf("export did not succeed: %+v", record)
	}
	if len(record.Artifacts) != 1 {
		t.Fatalf("expected 1 artifact, got %d", len(record.Artifacts))
	}

	_, rc, err := store.Get(context.Background(), record.Artifacts[0].Key)
	if err != nil {
		t.Fatalf("fetch artifact: %v", err)
	}
	payload, _ := io.ReadAll(rc)
	_ = rc.Close()

	var body struct {
		Template string           `json:"template"`
		Rows     []map[string]any `json:"rows"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("decode artifact: %v", err)
	}
	if body.Template != "rent_roll" {
		t.Fatalf("unexpected template %q", body.Template)
	}
	// The demo portfolio carries three January payments.
	if len(body.Rows) != 3 {
		t.Fatalf("expected 3 rent rows, got %d", len(body.Rows))
	}
}
