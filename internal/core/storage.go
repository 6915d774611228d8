package core

import (
	"fmt"
	"os"

	"rentcore/internal/infra/persistence/memory"
	"rentcore/internal/infra/persistence/postgres"
	"rentcore/internal/infra/persistence/sqlite"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenPersistentStore selects a backend using environment variables.
// Defaults to sqlite when unset.
//
//	RENTCORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	RENTCORE_SQLITE_PATH: path to sqlite file (default ./rentcore.db)
//	RENTCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenPersistentStore(engine *RulesEngine) (PersistentStore, error) {
	driver := os.Getenv("RENTCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(engine), nil
	case StorageSQLite:
		path := os.Getenv("RENTCORE_SQLITE_PATH")
		store, err := sqlite.NewStore(path, engine)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StoragePostgres:
		dsn := os.Getenv("RENTCORE_POSTGRES_DSN")
		store, err := postgres.NewStore(dsn, engine)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
