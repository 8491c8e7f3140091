package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Dialect identifies the SQL flavour behind a *sql.DB.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite3"
}

// validSyncModes lists the allowed values for the synchronous pragma.
var validSyncModes = map[string]bool{
	"OFF":    true,
	"NORMAL": true,
	"FULL":   true,
	"EXTRA":  true, // SQLite also supports EXTRA
}

// IsPostgresDSN reports whether dsn points at a PostgreSQL server rather than a SQLite file.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// RedactDSN masks the password of a PostgreSQL URL, in the userinfo or in a
// password query parameter, so the DSN can be logged. SQLite paths are
// returned unchanged; an unparsable postgres URL is hidden entirely.
func RedactDSN(dsn string) string {
	if !IsPostgresDSN(dsn) {
		return dsn
	}

	u, err := url.Parse(dsn)
	if err != nil {
		return "postgres://<redacted>"
	}

	q := u.Query()
	if q.Has("password") {
		q.Set("password", "xxxxx")
		u.RawQuery = q.Encode()
	}
	return u.Redacted()
}

// Open connects to PostgreSQL when dsn is a postgres URL and to SQLite otherwise.
// enableWAL and syncPragma only apply to SQLite.
func Open(dsn string, enableWAL bool, syncPragma string) (*sql.DB, error) {
	if IsPostgresDSN(dsn) {
		return OpenPostgresConnection(dsn)
	}
	return OpenDBConnection(dsn, enableWAL, syncPragma)
}

// OpenDBConnection establishes a connection to a SQLite database with specified options.
// baseDSN is the initial data source name (e.g., file path).
// enableWAL sets the journal_mode to WAL if true.
// syncPragma sets the synchronous pragma (e.g., "OFF", "NORMAL", "FULL", "EXTRA").
func OpenDBConnection(baseDSN string, enableWAL bool, syncPragma string) (*sql.DB, error) {
	params := url.Values{}

	if enableWAL {
		params.Add("_journal_mode", "WAL")
	}

	if syncPragma != "" {
		ucSyncPragma := strings.ToUpper(syncPragma)
		if !validSyncModes[ucSyncPragma] {
			return nil, fmt.Errorf("invalid sync pragma value: %s. Must be one of OFF, NORMAL, FULL, EXTRA", syncPragma)
		}
		params.Add("_synchronous", ucSyncPragma)
	}

	constructedDSN := baseDSN
	if len(params) > 0 {
		if strings.Contains(baseDSN, "?") {
			constructedDSN += "&" + params.Encode()
		} else {
			constructedDSN += "?" + params.Encode()
		}
	}

	db, err := sql.Open("sqlite3", constructedDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database with DSN '%s': %w", constructedDSN, err)
	}

	// An in-memory database lives and dies with its connection.
	if strings.HasPrefix(baseDSN, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database with DSN '%s': %w", constructedDSN, err)
	}

	return db, nil
}

// OpenPostgresConnection opens and pings a PostgreSQL database.
func OpenPostgresConnection(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres database: %w", err)
	}

	return db, nil
}

// DialectOf inspects the driver behind db.
func DialectOf(db *sql.DB) Dialect {
	if _, ok := db.Driver().(*pq.Driver); ok {
		return Postgres
	}
	return SQLite
}

// Rebind rewrites '?' placeholders into '$n' form for PostgreSQL.
// Queries for SQLite are returned untouched.
func Rebind(db *sql.DB, query string) string {
	if DialectOf(db) != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
