// Package store persists sink payloads (metrics, logs, session recordings,
// support tickets) in a local SQLite database. The daemon stays a single
// process with no external storage dependency.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // CGO-free SQLite
)

// Metric is one persisted performance metric.
type Metric struct {
	ID         string  `json:"metricId"`
	Type       string  `json:"type"`
	Value      float64 `json:"value"`
	SessionID  int64   `json:"sessionId,omitempty"`
	DeviceType string  `json:"deviceType,omitempty"`
	Browser    string  `json:"browser,omitempty"`
	OS         string  `json:"os,omitempty"`
	Timestamp  string  `json:"timestamp"`
}

// LogEntry is one persisted log record.
type LogEntry struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	SessionID int64          `json:"sessionId,omitempty"`
	SlideType string         `json:"slideType,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// Recording is one persisted session-recording batch.
type Recording struct {
	ID             string           `json:"recordingId"`
	SessionID      int64            `json:"sessionId"`
	EventCount     int              `json:"eventCount"`
	Events         []map[string]any `json:"events,omitempty"`
	Metadata       map[string]any   `json:"metadata,omitempty"`
	IdempotencyKey string           `json:"idempotencyKey,omitempty"`
	Timestamp      string           `json:"timestamp"`
}

// Ticket is one persisted support ticket.
type Ticket struct {
	ID          string `json:"ticketId"`
	SessionID   int64  `json:"sessionId"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email"`
	IssueType   string `json:"issueType,omitempty"`
	Description string `json:"description"`
	Urgency     string `json:"urgency,omitempty"`
	Timestamp   string `json:"timestamp"`
}

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	// WAL + busy timeout to avoid "database is locked"
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS metrics(
	  id          TEXT PRIMARY KEY,
	  type        TEXT    NOT NULL,
	  value       REAL    NOT NULL,
	  session_id  INTEGER,
	  device_type TEXT,
	  browser     TEXT,
	  os          TEXT,
	  ts          TEXT    NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_metrics_type ON metrics(type);
	CREATE INDEX IF NOT EXISTS idx_metrics_ts   ON metrics(ts);

	CREATE TABLE IF NOT EXISTS logs(
	  id         TEXT PRIMARY KEY,
	  type       TEXT NOT NULL,
	  message    TEXT NOT NULL,
	  session_id INTEGER,
	  slide_type TEXT,
	  meta_json  TEXT NOT NULL CHECK (json_valid(meta_json)),
	  ts         TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_logs_type ON logs(type);
	CREATE INDEX IF NOT EXISTS idx_logs_ts   ON logs(ts);

	CREATE TABLE IF NOT EXISTS recordings(
	  id          TEXT PRIMARY KEY,
	  session_id  INTEGER NOT NULL,
	  idem_key    TEXT,
	  events_json TEXT NOT NULL CHECK (json_valid(events_json)),
	  meta_json   TEXT NOT NULL CHECK (json_valid(meta_json)),
	  ts          TEXT NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_recordings_idem ON recordings(idem_key) WHERE idem_key IS NOT NULL AND idem_key != '';
	CREATE INDEX IF NOT EXISTS idx_recordings_session ON recordings(session_id);

	CREATE TABLE IF NOT EXISTS tickets(
	  id          TEXT PRIMARY KEY,
	  session_id  INTEGER NOT NULL,
	  name        TEXT,
	  email       TEXT NOT NULL,
	  issue_type  TEXT,
	  description TEXT NOT NULL,
	  urgency     TEXT,
	  ts          TEXT NOT NULL
	);
	`)
	if err != nil {
		return fmt.Errorf("failed to create database tables: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertMetric stores a metric and returns its generated id.
func (s *Store) InsertMetric(m Metric) (string, error) {
	if m.Type == "" {
		return "", fmt.Errorf("metric type cannot be empty")
	}
	id := "metric_" + uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO metrics(id, type, value, session_id, device_type, browser, os, ts) VALUES(?,?,?,?,?,?,?,?)`,
		id, m.Type, m.Value, nullableID(m.SessionID), m.DeviceType, m.Browser, m.OS, m.Timestamp,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert metric: %w", err)
	}
	return id, nil
}

// InsertLog stores a log entry and returns its generated id.
func (s *Store) InsertLog(e LogEntry) (string, error) {
	meta := e.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("failed to marshal log metadata: %w", err)
	}

	id := "log_" + uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO logs(id, type, message, session_id, slide_type, meta_json, ts) VALUES(?,?,?,?,?,json(?),?)`,
		id, e.Type, e.Message, nullableID(e.SessionID), e.SlideType, string(metaJSON), e.Timestamp,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert log: %w", err)
	}
	return id, nil
}

// InsertRecording stores a session-recording batch and returns its generated
// id. When the batch carries an idempotency key already seen, the existing
// recording id is returned and nothing is written (duplicate flush).
func (s *Store) InsertRecording(r Recording) (string, error) {
	if r.SessionID == 0 {
		return "", fmt.Errorf("recording sessionId cannot be zero")
	}

	if r.IdempotencyKey != "" {
		var existing string
		err := s.db.QueryRow(`SELECT id FROM recordings WHERE idem_key = ?`, r.IdempotencyKey).Scan(&existing)
		if err == nil {
			return existing, nil
		}
		if err != sql.ErrNoRows {
			return "", fmt.Errorf("failed to check idempotency key: %w", err)
		}
	}

	events := r.Events
	if events == nil {
		events = []map[string]any{}
	}
	eventsJSON, err := json.Marshal(events)
	if err != nil {
		return "", fmt.Errorf("failed to marshal events: %w", err)
	}
	meta := r.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("failed to marshal recording metadata: %w", err)
	}

	id := "rec_" + uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO recordings(id, session_id, idem_key, events_json, meta_json, ts) VALUES(?,?,?,json(?),json(?),?)`,
		id, r.SessionID, r.IdempotencyKey, string(eventsJSON), string(metaJSON), r.Timestamp,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert recording: %w", err)
	}
	return id, nil
}

// InsertTicket stores a support ticket and returns its generated id.
func (s *Store) InsertTicket(t Ticket) (string, error) {
	if t.SessionID == 0 {
		return "", fmt.Errorf("ticket sessionId cannot be zero")
	}
	if t.Email == "" {
		return "", fmt.Errorf("ticket email cannot be empty")
	}
	if t.Description == "" {
		return "", fmt.Errorf("ticket description cannot be empty")
	}

	id := "ticket_" + uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO tickets(id, session_id, name, email, issue_type, description, urgency, ts) VALUES(?,?,?,?,?,?,?,?)`,
		id, t.SessionID, t.Name, t.Email, t.IssueType, t.Description, t.Urgency, t.Timestamp,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert ticket: %w", err)
	}
	return id, nil
}

// ListMetrics returns the most recent metrics, newest first. A non-empty
// metricType filters by type; limit <= 0 means no limit.
func (s *Store) ListMetrics(metricType string, limit int) ([]Metric, error) {
	query := `SELECT id, type, value, COALESCE(session_id, 0), device_type, browser, os, ts FROM metrics`
	var args []any
	if metricType != "" {
		query += ` WHERE type = ?`
		args = append(args, metricType)
	}
	query += ` ORDER BY ts DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer rows.Close()

	var out []Metric
	for rows.Next() {
		var m Metric
		if err := rows.Scan(&m.ID, &m.Type, &m.Value, &m.SessionID, &m.DeviceType, &m.Browser, &m.OS, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan metric: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListLogs returns the most recent log entries, newest first. A non-empty
// level filters by type; limit <= 0 means no limit.
func (s *Store) ListLogs(level string, limit int) ([]LogEntry, error) {
	query := `SELECT id, type, message, COALESCE(session_id, 0), slide_type, meta_json, ts FROM logs`
	var args []any
	if level != "" {
		query += ` WHERE type = ?`
		args = append(args, level)
	}
	query += ` ORDER BY ts DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	var out []LogEntry
	for rows.Next() {
		var e LogEntry
		var metaJSON string
		if err := rows.Scan(&e.ID, &e.Type, &e.Message, &e.SessionID, &e.SlideType, &metaJSON, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}
		if err := json.Unmarshal([]byte(metaJSON), &e.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal log metadata: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListRecordings returns recording summaries (no event payloads), newest
// first. sessionID 0 means all sessions; limit <= 0 means no limit.
func (s *Store) ListRecordings(sessionID int64, limit int) ([]Recording, error) {
	query := `SELECT id, session_id, COALESCE(idem_key, ''), json_array_length(events_json), meta_json, ts FROM recordings`
	var args []any
	if sessionID != 0 {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY ts DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recordings: %w", err)
	}
	defer rows.Close()

	var out []Recording
	for rows.Next() {
		var r Recording
		var metaJSON string
		if err := rows.Scan(&r.ID, &r.SessionID, &r.IdempotencyKey, &r.EventCount, &metaJSON, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan recording: %w", err)
		}
		if err := json.Unmarshal([]byte(metaJSON), &r.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recording metadata: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListTickets returns the most recent support tickets, newest first.
// limit <= 0 means no limit.
func (s *Store) ListTickets(limit int) ([]Ticket, error) {
	query := `SELECT id, session_id, name, email, issue_type, description, urgency, ts FROM tickets ORDER BY ts DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	var out []Ticket
	for rows.Next() {
		var t Ticket
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Name, &t.Email, &t.IssueType, &t.Description, &t.Urgency, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// nullableID maps a zero session id to NULL so optional fields stay NULL in
// the schema.
func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
