package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- One row per successful count run
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    file_count INTEGER NOT NULL,
    skipped_count INTEGER NOT NULL DEFAULT 0,
    distinct_tokens INTEGER NOT NULL,
    total_tokens INTEGER NOT NULL,
    strategy TEXT NOT NULL,
    workers INTEGER NOT NULL,
    excludes_path TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

-- Input files of a run, in input order
CREATE TABLE IF NOT EXISTS run_files (
    run_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    path TEXT NOT NULL,
    status TEXT NOT NULL,          -- counted, skipped
    language TEXT,
    tokens_seen INTEGER NOT NULL DEFAULT 0,
    tokens_counted INTEGER NOT NULL DEFAULT 0,
    error_message TEXT,
    PRIMARY KEY (run_id, position),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

-- Ranked frequencies of a run
CREATE TABLE IF NOT EXISTS run_frequencies (
    run_id INTEGER NOT NULL,
    rank INTEGER NOT NULL,
    token TEXT NOT NULL,
    count INTEGER NOT NULL,
    PRIMARY KEY (run_id, rank),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);
`
