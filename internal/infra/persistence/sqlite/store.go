// Package sqlite provides a SQLite-backed persistent store. It reuses the
// in-memory implementation for transactional semantics and snapshots the full
// state to a single table as JSON blobs after every successful transaction.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"rentcore/internal/infra/persistence/memory"
	"rentcore/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentStore = (*Store)(nil)

// Store persists the in-memory state to a single SQLite table as JSON blobs.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore constructs a snapshotting SQLite-backed persistent store.
func NewStore(path string, engine *domain.RulesEngine) (*Store, error) {
	if path == "" {
		path = "rentcore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &Store{Store: memory.NewStore(engine), db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

var sqliteBuckets = []string{
	"properties",
	"units",
	"tenants",
	"leases",
	"payments",
	"unit_features",
	"maintenance",
	"maintenance_history",
	"vendors",
	"preventive_tasks",
	"notifications",
	"profiles",
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()
	type raw struct {
		bucket  string
		payload []byte
	}
	var raws []raw
	for rows.Next() {
		var r raw
		if err := rows.Scan(&r.bucket, &r.payload); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		raws = append(raws, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	if len(raws) == 0 {
		return nil
	}
	snapshot := memory.Snapshot{}
	for _, r := range raws {
		if err := decodeBucket(&snapshot, r.bucket, r.payload); err != nil {
			// A corrupt snapshot is treated as absent: the store opens empty
			// instead of refusing to start.
			s.ImportState(memory.Snapshot{})
			return nil
		}
	}
	s.ImportState(snapshot)
	return nil
}

func decodeBucket(snapshot *memory.Snapshot, bucket string, payload []byte) error {
	if len(payload) == 0 {
		return nil
	}
	switch bucket {
	case "properties":
		return json.Unmarshal(payload, &snapshot.Properties)
	case "units":
		return json.Unmarshal(payload, &snapshot.Units)
	case "tenants":
		return json.Unmarshal(payload, &snapshot.Tenants)
	case "leases":
		return json.Unmarshal(payload, &snapshot.Leases)
	case "payments":
		return json.Unmarshal(payload, &snapshot.Payments)
	case "unit_features":
		return json.Unmarshal(payload, &snapshot.UnitFeatures)
	case "maintenance":
		return json.Unmarshal(payload, &snapshot.MaintenanceRequests)
	case "maintenance_history":
		return json.Unmarshal(payload, &snapshot.MaintenanceRecords)
	case "vendors":
		return json.Unmarshal(payload, &snapshot.Vendors)
	case "preventive_tasks":
		return json.Unmarshal(payload, &snapshot.PreventiveTasks)
	case "notifications":
		return json.Unmarshal(payload, &snapshot.Notifications)
	case "profiles":
		return json.Unmarshal(payload, &snapshot.Profiles)
	}
	return nil
}

func encodeBucket(snapshot memory.Snapshot, bucket string) ([]byte, error) {
	switch bucket {
	case "properties":
		return json.Marshal(snapshot.Properties)
	case "units":
		return json.Marshal(snapshot.Units)
	case "tenants":
		return json.Marshal(snapshot.Tenants)
	case "leases":
		return json.Marshal(snapshot.Leases)
	case "payments":
		return json.Marshal(snapshot.Payments)
	case "unit_features":
		return json.Marshal(snapshot.UnitFeatures)
	case "maintenance":
		return json.Marshal(snapshot.MaintenanceRequests)
	case "maintenance_history":
		return json.Marshal(snapshot.MaintenanceRecords)
	case "vendors":
		return json.Marshal(snapshot.Vendors)
	case "preventive_tasks":
		return json.Marshal(snapshot.PreventiveTasks)
	case "notifications":
		return json.Marshal(snapshot.Notifications)
	case "profiles":
		return json.Marshal(snapshot.Profiles)
	}
	return nil, fmt.Errorf("unknown bucket %q", bucket)
}

func (s *Store) persist() (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, bucket := range sqliteBuckets {
		data, err := encodeBucket(snapshot, bucket)
		if err != nil {
			retErr = err
			return retErr
		}
		if _, err := tx.Exec(`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, bucket, data); err != nil {
			retErr = fmt.Errorf("upsert %s: %w", bucket, err)
			return retErr
		}
	}
	return tx.Commit()
}

// RunInTransaction applies the provided function within a transaction, then snapshots state to SQLite if successful.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Transaction) error) (domain.Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	if pErr := s.persist(); pErr != nil {
		return res, pErr
	}
	return res, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }
