// Package store persists users and chat messages in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Jayasurya1108/newRag/internal/domain"
)

// SQLiteStore implements Store using SQLite. The full-text index over
// message text stands in for the original deployment's document-store
// text index.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// migrate runs database migrations. Safe to run repeatedly; the text-search
// index is created here once, before first use.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			username TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			message_id TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL,
			role TEXT NOT NULL,
			text TEXT NOT NULL,
			retrieved TEXT,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_user ON messages(username, created_at)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts4(text, tokenize=porter)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateUser inserts a new user record. Returns domain.ErrUsernameTaken if
// the username already exists.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		user.Username, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrUsernameTaken
		}
		return err
	}
	return nil
}

// GetUser retrieves a user by username. Returns (nil, nil) when absent.
func (s *SQLiteStore) GetUser(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := s.db.QueryRowContext(ctx,
		`SELECT username, password_hash, created_at FROM users WHERE username = ?`,
		username).Scan(&user.Username, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateMessage appends a message and indexes its text for search.
func (s *SQLiteStore) CreateMessage(ctx context.Context, message *domain.Message) error {
	var retrieved sql.NullString
	if len(message.Retrieved) > 0 {
		data, err := json.Marshal(message.Retrieved)
		if err != nil {
			return fmt.Errorf("failed to marshal retrieved context: %w", err)
		}
		retrieved = sql.NullString{String: string(data), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO messages (message_id, username, role, text, retrieved, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		message.MessageID, message.Username, message.Role, message.Text, retrieved, message.CreatedAt)
	if err != nil {
		return err
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages_fts (docid, text) VALUES (?, ?)`,
		rowID, message.Text); err != nil {
		return err
	}
	return tx.Commit()
}

// ListMessages retrieves a user's messages in display order: timestamp
// ascending, insertion order breaking ties.
func (s *SQLiteStore) ListMessages(ctx context.Context, username string, limit int) ([]domain.Message, error) {
	query := `SELECT message_id, username, role, text, retrieved, created_at FROM messages WHERE username = ? ORDER BY created_at ASC, id ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// CountMessages returns the number of messages stored for a user.
func (s *SQLiteStore) CountMessages(ctx context.Context, username string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE username = ?`, username).Scan(&count)
	return count, err
}

// SearchMessages returns at most limit messages belonging to username whose
// text matches the query under full-text semantics, most recent first.
// A query with no indexable terms matches nothing.
func (s *SQLiteStore) SearchMessages(ctx context.Context, username, query string, limit int) ([]domain.Message, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT m.message_id, m.username, m.role, m.text, m.retrieved, m.created_at
		 FROM messages m
		 JOIN messages_fts f ON f.docid = m.id
		 WHERE m.username = ? AND f.text MATCH ?
		 ORDER BY m.created_at DESC, m.id DESC
		 LIMIT ?`,
		username, match, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]domain.Message, error) {
	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var retrieved sql.NullString
		if err := rows.Scan(&msg.MessageID, &msg.Username, &msg.Role, &msg.Text, &retrieved, &msg.CreatedAt); err != nil {
			return nil, err
		}
		if retrieved.Valid {
			if err := json.Unmarshal([]byte(retrieved.String), &msg.Retrieved); err != nil {
				return nil, fmt.Errorf("failed to unmarshal retrieved context: %w", err)
			}
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// ftsQuery rewrites a raw utterance into an FTS match expression: terms are
// OR-joined so that any matching term qualifies a document, mirroring
// document-store text-search semantics. Raw input never reaches the MATCH
// parser, so punctuation cannot produce a syntax error.
func ftsQuery(raw string) string {
	terms := strings.FieldsFunc(raw, func(r rune) bool {
		return !inTerm(r)
	})
	if len(terms) == 0 {
		return ""
	}
	for i, t := range terms {
		terms[i] = `"` + t + `"`
	}
	return strings.Join(terms, " OR ")
}

func inTerm(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return r > 127
}
