package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
)

const (
	// TargetSchemaVersion is the highest schema version this build supports for the diary component.
	TargetSchemaVersion int64 = 1
	// DiaryDBComponent is the name of the diary component in fieldlog_versions.
	DiaryDBComponent = "diarydb"
)

// GetComponentSchemaVersion retrieves the schema version for a given component.
// Returns 0 if the component is not found or the versions table doesn't exist yet.
func GetComponentSchemaVersion(db *sql.DB, componentName string) (int64, error) {
	query := Rebind(db, `SELECT version FROM fieldlog_versions WHERE component = ?;`)

	var version int64
	err := db.QueryRow(query, componentName).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		// sqlite: "no such table", postgres: "does not exist"
		msg := err.Error()
		if strings.Contains(msg, "fieldlog_versions") &&
			(strings.Contains(msg, "no such table") || strings.Contains(msg, "does not exist")) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan version for component '%s': %w", componentName, err)
	}
	return version, nil
}

// InitializeSchema creates all diary tables and records schemaVersionToSet for the diary component.
func InitializeSchema(db *sql.DB, schemaVersionToSet int64) error {
	dialect := DialectOf(db)

	if _, err := db.Exec(schemaFor(dialect)); err != nil {
		return fmt.Errorf("failed to execute schema v1 SQL: %w", err)
	}

	stamp := "unixepoch()"
	if dialect == Postgres {
		stamp = "EXTRACT(EPOCH FROM now())"
	}
	insertVersionSQL := Rebind(db, `
INSERT INTO fieldlog_versions (component, version) VALUES (?, ?)
ON CONFLICT(component) DO UPDATE SET version = excluded.version, created_at = `+stamp+`;`)

	if _, err := db.Exec(insertVersionSQL, DiaryDBComponent, schemaVersionToSet); err != nil {
		return fmt.Errorf("failed to insert/update version for component %s to %d: %w", DiaryDBComponent, schemaVersionToSet, err)
	}

	log.Printf("db: component %s initialized/updated to schema version %d", DiaryDBComponent, schemaVersionToSet)
	return nil
}

// UpgradeDB brings the diary component of db to appTargetSchemaVersion.
// dbIdentifierForLog is used for messages only.
func UpgradeDB(db *sql.DB, dbIdentifierForLog string, appTargetSchemaVersion int64) error {
	dbIdentifierForLog = RedactDSN(dbIdentifierForLog)
	currentDBVersion, err := GetComponentSchemaVersion(db, DiaryDBComponent)
	if err != nil {
		return err
	}

	switch {
	case currentDBVersion == 0:
		log.Printf("db: component %s in '%s' is uninitialized; initializing schema version %d", DiaryDBComponent, dbIdentifierForLog, appTargetSchemaVersion)
		if err := InitializeSchema(db, appTargetSchemaVersion); err != nil {
			return fmt.Errorf("failed to initialize component %s in database '%s': %w", DiaryDBComponent, dbIdentifierForLog, err)
		}
		return nil
	case currentDBVersion == appTargetSchemaVersion:
		return nil
	case currentDBVersion < appTargetSchemaVersion:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is older than application's target schema version %d. Automatic migration from this older version is not yet supported", DiaryDBComponent, dbIdentifierForLog, currentDBVersion, appTargetSchemaVersion)
	default:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is newer than application's target schema version %d. Please upgrade the application", DiaryDBComponent, dbIdentifierForLog, currentDBVersion, appTargetSchemaVersion)
	}
}
