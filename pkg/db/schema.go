package db

const (
	// SchemaV1 defines version 1 of the diary schema for SQLite.
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS fieldlog_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS irrigation_activities (
    id UUID PRIMARY KEY,
    user_id VARCHAR(256) NOT NULL,
    action VARCHAR(200) NOT NULL,
    note TEXT,
    temperature REAL,
    humidity REAL,
    weather_location VARCHAR(256) NOT NULL,
    created_at REAL DEFAULT (unixepoch('subsec')),
    CHECK ((temperature IS NULL) = (humidity IS NULL))
);

CREATE INDEX IF NOT EXISTS idx_irrigation_activities_user_created
    ON irrigation_activities (user_id, created_at);
`

	// SchemaV1Postgres is SchemaV1 for PostgreSQL.
	SchemaV1Postgres = `
CREATE TABLE IF NOT EXISTS fieldlog_versions (
    component TEXT PRIMARY KEY,
    version BIGINT NOT NULL,
    created_at DOUBLE PRECISION DEFAULT EXTRACT(EPOCH FROM now())
);

CREATE TABLE IF NOT EXISTS irrigation_activities (
    id UUID PRIMARY KEY,
    user_id VARCHAR(256) NOT NULL,
    action VARCHAR(200) NOT NULL,
    note TEXT,
    temperature DOUBLE PRECISION,
    humidity DOUBLE PRECISION,
    weather_location VARCHAR(256) NOT NULL,
    created_at DOUBLE PRECISION DEFAULT EXTRACT(EPOCH FROM clock_timestamp()),
    CHECK ((temperature IS NULL) = (humidity IS NULL))
);

CREATE INDEX IF NOT EXISTS idx_irrigation_activities_user_created
    ON irrigation_activities (user_id, created_at);
`
)

func schemaFor(d Dialect) string {
	if d == Postgres {
		return SchemaV1Postgres
	}
	return SchemaV1
}
