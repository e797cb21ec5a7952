package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/5w1tchy/catalog-api/internal/config"
	"github.com/5w1tchy/catalog-api/internal/repository/sqlconnect"
)

// Open returns the store selected by cfg.Driver. For Postgres it also
// returns the *sql.DB so callers can share the pool and close it; for the
// memory driver db is nil.
func Open(ctx context.Context, cfg config.Store) (s Store, db *sql.DB, err error) {
	switch cfg.Driver {
	case config.DriverMemory:
		log.Println("[store] using in-memory catalog")
		return NewMemory(), nil, nil
	case config.DriverPostgres:
		db, err := sqlconnect.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.AutoMigrate {
			if err := Migrate(ctx, db); err != nil {
				db.Close()
				return nil, nil, err
			}
		}
		log.Println("[store] connected to postgres")
		return NewPG(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
