package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create fraud cases",
		SQL: `
			CREATE TABLE fraud_cases (
				id                INTEGER PRIMARY KEY AUTOINCREMENT,
				username          TEXT NOT NULL,
				customer_name     TEXT NOT NULL,
				security_id       TEXT NOT NULL DEFAULT '',
				masked_card       TEXT NOT NULL,
				amount            REAL NOT NULL,
				merchant          TEXT NOT NULL,
				location          TEXT NOT NULL,
				timestamp         TEXT NOT NULL,
				security_question TEXT NOT NULL,
				security_answer   TEXT NOT NULL,
				status            TEXT NOT NULL DEFAULT 'pending',
				outcome_note      TEXT NOT NULL DEFAULT ''
			);

			CREATE INDEX idx_fraud_cases_username ON fraud_cases (username, id);
		`,
	},
	{
		Version: 2,
		Name:    "create session log",
		SQL: `
			CREATE TABLE sessions (
				id          TEXT PRIMARY KEY,
				assistant   TEXT NOT NULL,
				created_at  TEXT NOT NULL DEFAULT (datetime('now')),
				updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_sessions_assistant ON sessions (assistant);

			CREATE TABLE messages (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id  TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
				role        TEXT NOT NULL,
				content     TEXT NOT NULL,
				timestamp   TEXT NOT NULL DEFAULT (datetime('now')),
				tool_calls  TEXT,
				FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
			);

			CREATE INDEX idx_messages_session ON messages (session_id, id);
		`,
	},
}
