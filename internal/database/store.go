// file: internal/database/store.go
// version: 3.0.0
// guid: 37a8cd33-66f7-4ec1-9551-d8e08abef02b

package database

import (
	"context"
	"fmt"

	"github.com/jdfalk/library-catalog/internal/library"
)

// Supported store types.
const (
	TypePebble   = "pebble"
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Store defines the persistence operations of the catalog and loan services.
// PebbleDB is the default engine; SQLite and PostgreSQL are served by SQLStore.
type Store interface {
	library.BookStore
	library.LoanStore

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}

// InitializeStore opens the store selected by dbType. path is used by the
// embedded engines, dsn by PostgreSQL.
func InitializeStore(dbType, path, dsn string) (Store, error) {
	switch dbType {
	case TypePebble, "":
		store, err := NewPebbleStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PebbleDB store: %w", err)
		}
		return store, nil
	case TypeSQLite, "sqlite3":
		store, err := NewSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		return store, nil
	case TypePostgres, "postgresql":
		if dsn == "" {
			return nil, fmt.Errorf("postgres store requires a dsn")
		}
		store, err := NewPostgresStore(dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s (supported: pebble, sqlite, postgres)", dbType)
	}
}
