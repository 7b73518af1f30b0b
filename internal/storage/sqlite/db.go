package sqlite

import (
	"database/sql"
	"fmt"

	sqlitedb "github.com/agalitsyn/sqlite"

	"github.com/agalitsyn/todos/internal/storage/sqlite/migrations"
)

// Open connects to the database file at path and applies pending migrations.
func Open(path string) (*sql.DB, error) {
	db, err := sqlitedb.Connect(path)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; one connection also keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if err := sqlitedb.MigrateUp(db, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not migrate database: %w", err)
	}
	return db, nil
}
