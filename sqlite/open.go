package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// DriverName is the database/sql driver used by Open.
const DriverName = "sqlite3"

// Open opens the SQLite database at dsn and verifies the connection. An
// in-memory database (":memory:") is private to a connection, so the pool is
// limited to one connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dsn, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", dsn, err)
	}
	return db, nil
}
