package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/ewhitmore/cardtable/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS games (
	id            TEXT PRIMARY KEY,
	created_at    TIMESTAMP NOT NULL,
	last_activity TIMESTAMP NOT NULL,
	cards         TEXT NOT NULL DEFAULT '{}'
)`

// SQLiteStore is the local file-based default backend.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) a sqlite database file and
// ensures the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db %s: %w", path, err)
	}
	// sqlite serializes writers; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure games table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, session *models.GameSession) error {
	data, err := marshalCards(session)
	if err != nil {
		return err
	}
	q := `
		INSERT INTO games (id, created_at, last_activity, cards)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id)
		DO UPDATE SET last_activity = excluded.last_activity, cards = excluded.cards
	`
	if _, err := s.db.ExecContext(ctx, q, session.ID, session.CreatedAt, session.LastActivity, string(data)); err != nil {
		return fmt.Errorf("upsert session %s: %w", session.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.GameSession, error) {
	q := `SELECT id, created_at, last_activity, cards FROM games WHERE id = ?`

	session := &models.GameSession{}
	var data string
	err := s.db.QueryRowContext(ctx, q, id).Scan(&session.ID, &session.CreatedAt, &session.LastActivity, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query session %s: %w", id, err)
	}

	if session.Cards, err = unmarshalCards(id, []byte(data)); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SQLiteStore) Close() {
	s.db.Close()
}
