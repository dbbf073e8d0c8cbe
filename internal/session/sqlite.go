package session

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	cfg Config
}

// Schema for the sessions database.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    name TEXT,
    provider TEXT NOT NULL,
    model TEXT NOT NULL,
    tone TEXT NOT NULL DEFAULT 'friendly',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    archived BOOLEAN DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
    text_content TEXT NOT NULL,
    files TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    sequence INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS memory_facts (
    session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    content TEXT NOT NULL,
    PRIMARY KEY (session_id, position)
);

CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_messages_session_id ON messages(session_id, sequence);

-- Metadata table for current session tracking
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT
);

-- Full-text search on message text
CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
    text_content,
    content='messages',
    content_rowid='id'
);

-- Triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS messages_ai AFTER INSERT ON messages BEGIN
    INSERT INTO messages_fts(rowid, text_content) VALUES (new.id, new.text_content);
END;

CREATE TRIGGER IF NOT EXISTS messages_ad AFTER DELETE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, text_content) VALUES ('delete', old.id, old.text_content);
END;

CREATE TRIGGER IF NOT EXISTS messages_au AFTER UPDATE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, text_content) VALUES ('delete', old.id, old.text_content);
    INSERT INTO messages_fts(rowid, text_content) VALUES (new.id, new.text_content);
END;
`

// NewSQLiteStore creates a new SQLite-based session store.
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	dbPath := cfg.Path
	if dbPath == "" {
		var err error
		dbPath, err = GetDBPath()
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	store := &SQLiteStore{db: db, cfg: cfg}

	if err := store.cleanup(); err != nil {
		// Log but don't fail
		fmt.Fprintf(os.Stderr, "warning: session cleanup failed: %v\n", err)
	}

	return store, nil
}

// schemaVersion is the current schema version.
// - Fresh databases get the full schema from `schema` const and start at this version
// - Existing databases run migrations to reach this version
// Increment when adding new migrations.
const schemaVersion = 1

// initSchema initializes the database schema. The base schema uses
// IF NOT EXISTS throughout, so it is safe to run on every open; the
// schema_version table is the hook for future migrations.
func initSchema(db *sql.DB) error {
	var currentVersion int
	verr := db.QueryRow("SELECT version FROM schema_version").Scan(&currentVersion)
	if verr == nil && currentVersion >= schemaVersion {
		return nil
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create base schema: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	if verr != nil {
		if verr == sql.ErrNoRows || strings.Contains(verr.Error(), "no such table") {
			if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
				return fmt.Errorf("insert initial version: %w", err)
			}
			return nil
		}
		return fmt.Errorf("get current version: %w", verr)
	}

	if _, err := db.Exec("UPDATE schema_version SET version = ?", schemaVersion); err != nil {
		return fmt.Errorf("update version: %w", err)
	}
	return nil
}

// cleanup removes old sessions based on configuration.
func (s *SQLiteStore) cleanup() error {
	ctx := context.Background()

	if s.cfg.MaxAgeDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -s.cfg.MaxAgeDays)
		_, err := s.db.ExecContext(ctx,
			"DELETE FROM sessions WHERE updated_at < ? AND archived = FALSE",
			cutoff)
		if err != nil {
			return fmt.Errorf("delete old sessions: %w", err)
		}
	}

	if s.cfg.MaxCount > 0 {
		_, err := s.db.ExecContext(ctx, `
			DELETE FROM sessions WHERE id IN (
				SELECT id FROM sessions
				WHERE archived = FALSE
				ORDER BY updated_at DESC
				LIMIT -1 OFFSET ?
			)`, s.cfg.MaxCount)
		if err != nil {
			return fmt.Errorf("enforce max count: %w", err)
		}
	}

	return nil
}

// Create inserts a new session.
func (s *SQLiteStore) Create(ctx context.Context, sess *Session) error {
	if sess.ID == "" {
		sess.ID = NewID()
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}
	if sess.UpdatedAt.IsZero() {
		sess.UpdatedAt = sess.CreatedAt
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, name, provider, model, tone, created_at, updated_at, archived)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Name, sess.Provider, sess.Model, sess.Tone,
		sess.CreatedAt, sess.UpdatedAt, sess.Archived)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID. A missing session returns (nil, nil).
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, provider, model, tone, created_at, updated_at, archived
		FROM sessions WHERE id = ?`, id)

	var sess Session
	err := row.Scan(&sess.ID, &sess.Name, &sess.Provider, &sess.Model, &sess.Tone,
		&sess.CreatedAt, &sess.UpdatedAt, &sess.Archived)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	return &sess, nil
}

// Update modifies an existing session.
func (s *SQLiteStore) Update(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = time.Now()
	result, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET name = ?, provider = ?, model = ?, tone = ?,
		       updated_at = ?, archived = ?
		WHERE id = ?`,
		sess.Name, sess.Provider, sess.Model, sess.Tone,
		sess.UpdatedAt, sess.Archived, sess.ID)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("session not found: %s", sess.ID)
	}
	return nil
}

// Delete removes a session, its messages, and its memory facts.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	// Foreign key cascade handles messages and facts
	result, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("session not found: %s", id)
	}
	return nil
}

// List returns sessions matching the options.
func (s *SQLiteStore) List(ctx context.Context, opts ListOptions) ([]SessionSummary, error) {
	query := `
		SELECT s.id, s.name, s.provider, s.model, s.tone, s.created_at, s.updated_at,
		       (SELECT COUNT(*) FROM messages WHERE session_id = s.id) as message_count
		FROM sessions s
		WHERE 1=1`
	args := []any{}

	if opts.Provider != "" {
		query += " AND s.provider = ?"
		args = append(args, opts.Provider)
	}
	if !opts.Archived {
		query += " AND s.archived = FALSE"
	}

	query += " ORDER BY s.updated_at DESC"

	limit := opts.Limit
	if limit == 0 {
		limit = 50 // Default
	}
	query += fmt.Sprintf(" LIMIT %d", limit)
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var results []SessionSummary
	for rows.Next() {
		var sum SessionSummary
		err := rows.Scan(&sum.ID, &sum.Name, &sum.Provider, &sum.Model, &sum.Tone,
			&sum.CreatedAt, &sum.UpdatedAt, &sum.MessageCount)
		if err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		results = append(results, sum)
	}
	return results, rows.Err()
}

// Search finds sessions containing the query text using FTS5.
func (s *SQLiteStore) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit == 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.session_id, m.id, s.name, snippet(messages_fts, 0, '**', '**', '...', 32),
		       s.provider, s.model, m.created_at
		FROM messages_fts f
		JOIN messages m ON m.id = f.rowid
		JOIN sessions s ON s.id = m.session_id
		WHERE messages_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search messages: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		err := rows.Scan(&r.SessionID, &r.MessageID, &r.SessionName,
			&r.Snippet, &r.Provider, &r.Model, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// AddMessage adds a message to a session.
func (s *SQLiteStore) AddMessage(ctx context.Context, sessionID string, msg *Message) error {
	msg.SessionID = sessionID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	filesJSON, err := msg.FilesJSON()
	if err != nil {
		return fmt.Errorf("serialize files: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (session_id, role, text_content, files, created_at, sequence)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, string(msg.Role), msg.Text, nullString(filesJSON), msg.CreatedAt, msg.Sequence)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	id, _ := result.LastInsertId()
	msg.ID = id

	_, err = s.db.ExecContext(ctx, "UPDATE sessions SET updated_at = ? WHERE id = ?",
		time.Now(), sessionID)
	if err != nil {
		return fmt.Errorf("update session timestamp: %w", err)
	}

	return nil
}

// GetMessages retrieves messages for a session in sequence order.
func (s *SQLiteStore) GetMessages(ctx context.Context, sessionID string, limit, offset int) ([]Message, error) {
	query := `
		SELECT id, session_id, role, text_content, files, created_at, sequence
		FROM messages
		WHERE session_id = ?
		ORDER BY sequence ASC`

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", offset)
	}

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		var filesJSON sql.NullString
		err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Text,
			&filesJSON, &msg.CreatedAt, &msg.Sequence)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if filesJSON.Valid {
			if err := msg.SetFilesFromJSON(filesJSON.String); err != nil {
				return nil, fmt.Errorf("deserialize files: %w", err)
			}
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// ReplaceMessages atomically swaps a session's transcript. Used by the
// conversation reset, which rewrites the history to the seed greeting.
func (s *SQLiteStore) ReplaceMessages(ctx context.Context, sessionID string, messages []Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("clear messages: %w", err)
	}

	for i := range messages {
		msg := &messages[i]
		msg.SessionID = sessionID
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = time.Now()
		}
		filesJSON, err := msg.FilesJSON()
		if err != nil {
			return fmt.Errorf("serialize files: %w", err)
		}
		result, err := tx.ExecContext(ctx, `
			INSERT INTO messages (session_id, role, text_content, files, created_at, sequence)
			VALUES (?, ?, ?, ?, ?, ?)`,
			sessionID, string(msg.Role), msg.Text, nullString(filesJSON), msg.CreatedAt, msg.Sequence)
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
		id, _ := result.LastInsertId()
		msg.ID = id
	}

	if _, err := tx.ExecContext(ctx, "UPDATE sessions SET updated_at = ? WHERE id = ?",
		time.Now(), sessionID); err != nil {
		return fmt.Errorf("update session timestamp: %w", err)
	}

	return tx.Commit()
}

// GetFacts returns a session's memory facts in position order.
func (s *SQLiteStore) GetFacts(ctx context.Context, sessionID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT content FROM memory_facts
		WHERE session_id = ?
		ORDER BY position ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query facts: %w", err)
	}
	defer rows.Close()

	var points []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("scan fact: %w", err)
		}
		points = append(points, content)
	}
	return points, rows.Err()
}

// ReplaceFacts atomically swaps a session's memory facts. The fact list is
// small enough that a full rewrite is simpler than diffing positions.
func (s *SQLiteStore) ReplaceFacts(ctx context.Context, sessionID string, points []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM memory_facts WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("clear facts: %w", err)
	}
	for i, point := range points {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO memory_facts (session_id, position, content)
			VALUES (?, ?, ?)`, sessionID, i, point); err != nil {
			return fmt.Errorf("insert fact: %w", err)
		}
	}
	return tx.Commit()
}

// SetCurrent marks a session as the current one.
func (s *SQLiteStore) SetCurrent(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO metadata (key, value) VALUES ('current_session', ?)`,
		sessionID)
	return err
}

// GetCurrent retrieves the current session.
func (s *SQLiteStore) GetCurrent(ctx context.Context) (*Session, error) {
	var sessionID string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM metadata WHERE key = 'current_session'").Scan(&sessionID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, sessionID)
}

// ClearCurrent removes the current session marker.
func (s *SQLiteStore) ClearCurrent(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM metadata WHERE key = 'current_session'")
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// nullString converts an empty string to NULL for database storage.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
