package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type Config struct {
	Driver string
	DSN    string
}

// DB wraps sql.DB with driver awareness so repositories can stay
// placeholder-agnostic.
type DB struct {
	*sql.DB
	driver string
}

func NewConnection(config Config) (*DB, error) {
	driver := config.Driver
	if driver == "" {
		driver = DriverSQLite
	}

	dsn := config.DSN
	if driver == DriverSQLite && !strings.Contains(dsn, "?") && dsn != ":memory:" {
		// Serialize writers instead of failing fast on a locked database
		dsn += "?_busy_timeout=5000&_journal_mode=WAL"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite allows a single writer; more connections just contend
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, driver: driver}, nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// Driver returns the driver name this connection was opened with
func (db *DB) Driver() string {
	return db.driver
}

// Rebind converts ?-style placeholders to the dialect the connection uses.
// Queries throughout the repositories are written with ?.
func (db *DB) Rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// RunMigrations runs all pending database migrations
func (db *DB) RunMigrations() error {
	return NewMigrator(db).RunMigrations()
}
