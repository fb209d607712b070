package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/voicedesk/voicedesk/internal/domain"
)

// SessionLog persists per-turn conversation messages. It is deliberately
// forgiving: a failed write is logged and dropped rather than interrupting
// the conversation it belongs to.
type SessionLog interface {
	Create(sess domain.Session)
	Append(sessionID string, msg domain.Message)
	Get(id string) *domain.Session
	List() []string
}

// SQLiteSessionLog implements SessionLog backed by SQLite.
type SQLiteSessionLog struct {
	db *DB
}

// NewSQLiteSessionLog creates a session log using the given database.
func NewSQLiteSessionLog(db *DB) *SQLiteSessionLog {
	return &SQLiteSessionLog{db: db}
}

// Create records a new session row.
func (s *SQLiteSessionLog) Create(sess domain.Session) {
	created := sess.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.sql.Exec(
		`INSERT INTO sessions (id, assistant, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		sess.ID, sess.Assistant,
		created.Format(time.DateTime), created.Format(time.DateTime),
	)
	if err != nil {
		s.db.log.Error().Err(err).Str("session", sess.ID).Msg("failed to create session")
	}
}

// Append adds a message to a session.
func (s *SQLiteSessionLog) Append(sessionID string, msg domain.Message) {
	var toolCallsJSON sql.NullString
	if len(msg.ToolCalls) > 0 {
		if data, err := json.Marshal(msg.ToolCalls); err == nil {
			toolCallsJSON = sql.NullString{String: string(data), Valid: true}
		}
	}

	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.sql.Exec(
		`INSERT INTO messages (session_id, role, content, timestamp, tool_calls)
		 VALUES (?, ?, ?, ?, ?)`,
		sessionID, msg.Role, msg.Content, ts.Format(time.DateTime), toolCallsJSON,
	)
	if err != nil {
		s.db.log.Error().Err(err).Str("session", sessionID).Msg("failed to append message")
		return
	}

	_, _ = s.db.sql.Exec(
		`UPDATE sessions SET updated_at = ? WHERE id = ?`,
		time.Now().Format(time.DateTime), sessionID,
	)
}

// Get returns a session with its messages, or nil if not found.
func (s *SQLiteSessionLog) Get(id string) *domain.Session {
	var sess domain.Session
	var createdAt, updatedAt string

	err := s.db.sql.QueryRow(
		`SELECT id, assistant, created_at, updated_at FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.Assistant, &createdAt, &updatedAt)
	if err != nil {
		return nil
	}

	sess.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	sess.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	sess.Messages = s.loadMessages(id)
	return &sess
}

// List returns all session IDs, most recently updated first.
func (s *SQLiteSessionLog) List() []string {
	rows, err := s.db.sql.Query(`SELECT id FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (s *SQLiteSessionLog) loadMessages(sessionID string) []domain.Message {
	rows, err := s.db.sql.Query(
		`SELECT role, content, timestamp, tool_calls
		 FROM messages WHERE session_id = ? ORDER BY id`, sessionID,
	)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var msg domain.Message
		var ts string
		var toolCallsJSON sql.NullString

		if err := rows.Scan(&msg.Role, &msg.Content, &ts, &toolCallsJSON); err != nil {
			continue
		}
		msg.Timestamp, _ = time.Parse(time.DateTime, ts)

		if toolCallsJSON.Valid && toolCallsJSON.String != "" {
			_ = json.Unmarshal([]byte(toolCallsJSON.String), &msg.ToolCalls)
		}

		msgs = append(msgs, msg)
	}
	return msgs
}

// NopSessionLog discards everything. Used when the session store is set to
// memory: the engine keeps history in RAM and nothing is persisted.
type NopSessionLog struct{}

func (NopSessionLog) Create(domain.Session)         {}
func (NopSessionLog) Append(string, domain.Message) {}
func (NopSessionLog) Get(string) *domain.Session    { return nil }
func (NopSessionLog) List() []string                { return nil }
