// Package store persists game sessions as single durable records keyed by
// session id. Put is a whole-record upsert and the store's native atomic
// upsert is the only concurrency primitive: two concurrent Puts for the
// same id resolve last-write-wins, which can discard a concurrent redraw
// of a different suit. That race is accepted, not locked away.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ewhitmore/cardtable/internal/models"
)

// ErrNotFound is returned by Get for an unknown session id.
var ErrNotFound = errors.New("session not found")

// Store is durable key-value persistence of GameSession by id.
type Store interface {
	// Put creates or replaces the whole session record.
	Put(ctx context.Context, session *models.GameSession) error

	// Get returns the stored session, or ErrNotFound.
	Get(ctx context.Context, id string) (*models.GameSession, error)

	Close()
}

// Open selects and connects a backend from a connection string:
//
//	postgres://... or postgresql://...  pgx pool
//	memory:                             in-memory map (dev, tests)
//	sqlite://path or a bare path        local sqlite file
func Open(ctx context.Context, databaseURL string) (Store, error) {
	url := strings.TrimSpace(databaseURL)
	switch {
	case url == "":
		return nil, errors.New("empty database url")
	case url == "memory:" || url == "memory://":
		return NewMemoryStore(), nil
	case strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://"):
		return OpenPostgres(ctx, url)
	case strings.HasPrefix(url, "sqlite://"):
		return OpenSQLite(ctx, strings.TrimPrefix(url, "sqlite://"))
	case strings.HasPrefix(url, "sqlite:"):
		return OpenSQLite(ctx, strings.TrimPrefix(url, "sqlite:"))
	default:
		// Bare paths (e.g. cards.db) mean the local file engine.
		return OpenSQLite(ctx, url)
	}
}

func marshalCards(s *models.GameSession) ([]byte, error) {
	data, err := json.Marshal(s.Cards)
	if err != nil {
		return nil, fmt.Errorf("marshal cards for session %s: %w", s.ID, err)
	}
	return data, nil
}

func unmarshalCards(id string, data []byte) (map[models.Suit]*models.Card, error) {
	cards := make(map[models.Suit]*models.Card)
	if len(data) == 0 {
		return cards, nil
	}
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, fmt.Errorf("unmarshal cards for session %s: %w", id, err)
	}
	return cards, nil
}
