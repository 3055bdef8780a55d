package db

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:blueprints.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/mindengage?sslmode=disable"
		}
	default:
		return nil, errors.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", driver)
	}
	if driver == DriverSQLite {
		// one writer; shared-cache in-memory databases vanish with their last connection
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "ping %s", driver)
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ensure schema")
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS blueprints (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL DEFAULT '',
  exam_type TEXT NOT NULL,
  total_marks REAL NOT NULL,
  duration_minutes INTEGER NOT NULL DEFAULT 0,
  sections_json TEXT NOT NULL,
  created_by TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS section_results (
  blueprint_id TEXT NOT NULL REFERENCES blueprints(id) ON DELETE CASCADE,
  section_index INTEGER NOT NULL,
  student_id TEXT NOT NULL,
  total_marks REAL NOT NULL,
  percentage REAL NOT NULL,
  result_json TEXT NOT NULL,
  computed_at INTEGER NOT NULL,
  PRIMARY KEY (blueprint_id, section_index, student_id)
);

CREATE TABLE IF NOT EXISTS event_log (
  "offset" INTEGER PRIMARY KEY AUTOINCREMENT,
  site_id TEXT NOT NULL DEFAULT 'local',
  typ TEXT NOT NULL,                         -- e.g., BlueprintSaved
  key TEXT NOT NULL,                         -- natural key: blueprintID
  data TEXT NOT NULL,                        -- JSON payload
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS blueprints (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL DEFAULT '',
  exam_type TEXT NOT NULL,
  total_marks DOUBLE PRECISION NOT NULL,
  duration_minutes INTEGER NOT NULL DEFAULT 0,
  sections_json TEXT NOT NULL,
  created_by TEXT NOT NULL DEFAULT '',
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS section_results (
  blueprint_id TEXT NOT NULL REFERENCES blueprints(id) ON DELETE CASCADE,
  section_index INTEGER NOT NULL,
  student_id TEXT NOT NULL,
  total_marks DOUBLE PRECISION NOT NULL,
  percentage DOUBLE PRECISION NOT NULL,
  result_json TEXT NOT NULL,
  computed_at BIGINT NOT NULL,
  PRIMARY KEY (blueprint_id, section_index, student_id)
);

CREATE TABLE IF NOT EXISTS event_log (
  "offset" BIGSERIAL PRIMARY KEY,
  site_id TEXT NOT NULL DEFAULT 'local',
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`
