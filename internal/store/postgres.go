package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ewhitmore/cardtable/internal/models"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS games (
	id            TEXT PRIMARY KEY,
	created_at    TIMESTAMPTZ NOT NULL,
	last_activity TIMESTAMPTZ NOT NULL,
	cards         JSONB NOT NULL DEFAULT '{}'::jsonb
)`

// PostgresStore persists sessions in a network relational engine via pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects a pgx pool, pings it, and ensures the schema.
func OpenPostgres(ctx context.Context, connStr string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure games table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Put(ctx context.Context, session *models.GameSession) error {
	data, err := marshalCards(session)
	if err != nil {
		return err
	}
	q := `
		INSERT INTO games (id, created_at, last_activity, cards)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id)
		DO UPDATE SET last_activity = EXCLUDED.last_activity, cards = EXCLUDED.cards
	`
	if _, err := s.pool.Exec(ctx, q, session.ID, session.CreatedAt, session.LastActivity, data); err != nil {
		return fmt.Errorf("upsert session %s: %w", session.ID, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.GameSession, error) {
	q := `SELECT id, created_at, last_activity, cards FROM games WHERE id = $1`

	session := &models.GameSession{}
	var data []byte
	err := s.pool.QueryRow(ctx, q, id).Scan(&session.ID, &session.CreatedAt, &session.LastActivity, &data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query session %s: %w", id, err)
	}

	if session.Cards, err = unmarshalCards(id, data); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
