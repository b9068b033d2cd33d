package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kv (
    key        TEXT PRIMARY KEY,
    version    INTEGER NOT NULL,
    value      TEXT NOT NULL,
    saved_at   TEXT NOT NULL
);
`
