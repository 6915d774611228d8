package core

import (
	"context"
	"path/filepath"
	"testing"

	"rentcore/internal/infra/persistence/memory"
	"rentcore/internal/infra/persistence/sqlite"
)

func TestOpenPersistentStoreMemoryDriver(t *testing.T) {
	t.Setenv("RENTCORE_STORAGE_DRIVER", string(StorageMemory))

	store, err := OpenPersistentStore(NewDefaultRulesEngine())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, ok := store.(*memory.Store); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}
}

func TestOpenPersistentStoreSQLiteDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rentcore.db")
	t.Setenv("RENTCORE_STORAGE_DRIVER", string(StorageSQLite))
	t.Setenv("RENTCORE_SQLITE_PATH", path)

	store, err := OpenPersistentStore(NewDefaultRulesEngine())
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	sqliteStore, ok := store.(*sqlite.Store)
	if !ok {
		t.Fatalf("expected sqlite store, got %T", store)
	}
	defer func() { _ = sqliteStore.Close() }()

	svc := NewService(store)
	if _, err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap through sqlite: %v", err)
	}
	if got := len(store.ListProperties()); got != 2 {
		t.Fatalf("expected seeded sqlite store, got %d properties", got)
	}
}

func TestOpenPersistentStoreDefaultsToSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.db")
	t.Setenv("RENTCORE_STORAGE_DRIVER", "")
	t.Setenv("RENTCORE_SQLITE_PATH", path)

	store, err := OpenPersistentStore(nil)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	sqliteStore, ok := store.(*sqlite.Store)
	if !ok {
		t.Fatalf("expected sqlite store by default, got %T", store)
	}
	_ = sqliteStore.Close()
}

func TestOpenPersistentStoreUnknownDriver(t *testing.T) {
	t.Setenv("RENTCORE_STORAGE_DRIVER", "cloud")

	if _, err := OpenPersistentStore(nil); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}
