// Package postgres provides a Postgres-backed persistent store that mirrors
// the in-memory semantics while snapshotting the full state per bucket as
// JSONB payloads.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"rentcore/internal/infra/persistence/memory"
	"rentcore/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentStore = (*Store)(nil)

const (
	defaultDriver = "pgx"
	// Default DSN keeps parity with OpenPersistentStore defaults while allowing overrides via env.
	defaultDSN = "postgres://localhost/rentcore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store persists state to Postgres while reusing the in-memory implementation for transactions.
type Store struct {
	*memory.Store
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens a Postgres-backed store using the provided DSN (falls back to
// defaultDSN). It ensures the snapshot table exists and hydrates the in-memory
// store from any existing snapshot.
func NewStore(dsn string, engine *domain.RulesEngine) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureStateTable(ctx, db); err != nil {
		return nil, err
	}
	snapshot, err := loadSnapshot(ctx, db)
	if err != nil {
		return nil, err
	}
	mem := memory.NewStore(engine)
	mem.ImportState(snapshot)
	return &Store{Store: mem, db: db}, nil
}

// RunInTransaction applies the provided function within a transaction, then snapshots to Postgres if successful.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) (domain.Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	if err := s.persist(ctx); err != nil {
		return res, err
	}
	return res, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func ensureStateTable(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure state table: %w", err)
	}
	return nil
}

var postgresBuckets = []string{
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

func loadSnapshot(ctx context.Context, db *sql.DB) (memory.Snapshot, error) {
	rows, err := db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return memory.Snapshot{}, fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshot memory.Snapshot
	targets := map[string]any{
		"properties":          &snapshot.Properties,
		"units":               &snapshot.Units,
		"tenants":             &snapshot.Tenants,
		"leases":              &snapshot.Leases,
		"payments":            &snapshot.Payments,
		"unit_features":       &snapshot.UnitFeatures,
		"maintenance":         &snapshot.MaintenanceRequests,
		"maintenance_history": &snapshot.MaintenanceRecords,
		"vendors":             &snapshot.Vendors,
		"preventive_tasks":    &snapshot.PreventiveTasks,
		"notifications":       &snapshot.Notifications,
		"profiles":            &snapshot.Profiles,
	}

	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return memory.Snapshot{}, fmt.Errorf("scan state: %w", err)
		}
		if len(payload) == 0 {
			continue
		}
		if target, ok := targets[bucket]; ok {
			if err := json.Unmarshal(payload, target); err != nil {
				// A corrupt snapshot is treated as absent: the store opens
				// empty instead of refusing to start.
				return memory.Snapshot{}, nil
			}
		}
	}
	if err := rows.Err(); err != nil {
		return memory.Snapshot{}, fmt.Errorf("iterate state: %w", err)
	}
	return snapshot, nil
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

func (s *Store) persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for _, bucket := range postgresBuckets {
		data, err := encodeBucket(snapshot, bucket)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO state(bucket,payload) VALUES($1,$2) ON CONFLICT(bucket) DO UPDATE SET payload=EXCLUDED.payload`, bucket, data); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
