// ABOUTME: SQLite schema for the ledger's bucket table
// ABOUTME: One row per bucket holding its serialized JSON text and a change version
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- One row per ledger bucket. value is NULL once the bucket is removed so
-- the removal still carries a version other processes can observe.
CREATE TABLE IF NOT EXISTS buckets (
    name TEXT PRIMARY KEY,
    value TEXT,
    origin TEXT NOT NULL DEFAULT '',
    version INTEGER NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_buckets_version ON buckets(version);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 2
