// Package board provides the SQL-backed post repository.
package board

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

const sqliteSchemaSQL = `
CREATE TABLE IF NOT EXISTS posts (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	subject_name    TEXT NOT NULL,
	link_url        TEXT NOT NULL DEFAULT '',
	image_ref       TEXT NOT NULL DEFAULT '',
	image_key       TEXT NOT NULL DEFAULT '',
	notes           TEXT NOT NULL DEFAULT '',
	author_name     TEXT NOT NULL,
	password_digest TEXT NOT NULL,
	created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const postgresSchemaSQL = `
CREATE TABLE IF NOT EXISTS posts (
	id              BIGSERIAL PRIMARY KEY,
	subject_name    TEXT NOT NULL,
	link_url        TEXT NOT NULL DEFAULT '',
	image_ref       TEXT NOT NULL DEFAULT '',
	image_key       TEXT NOT NULL DEFAULT '',
	notes           TEXT NOT NULL DEFAULT '',
	author_name     TEXT NOT NULL,
	password_digest TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// DB wraps a sql.DB with board-specific operations.
type DB struct {
	conn   *sql.DB
	driver string
}

// Open opens (or creates) the posts database and applies the schema.
// driver must be DriverSQLite or DriverPostgres. The DSN is handed to the
// driver unchanged, except that sqlite gets WAL and busy-timeout parameters
// appended.
func Open(driver, dsn string) (*DB, error) {
	var schema string
	switch driver {
	case DriverSQLite:
		dsn += "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
		schema = sqliteSchemaSQL
	case DriverPostgres:
		schema = postgresSchemaSQL
	default:
		return nil, fmt.Errorf("board: unsupported driver: %s", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("board: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("board: ping: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("board: apply schema: %w", err)
	}
	return &DB{conn: conn, driver: driver}, nil
}

// newDB wraps an already-open connection. Used by tests that substitute a
// mock connection for the postgres paths.
func newDB(conn *sql.DB, driver string) *DB {
	return &DB{conn: conn, driver: driver}
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// bind rewrites '?' placeholders to the numbered '$n' form lib/pq expects.
// Queries in this package are written in sqlite's '?' style.
func (db *DB) bind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
