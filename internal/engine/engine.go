// Package engine owns the rules for shared game sessions: creation,
// drawing into one or all suits, and merging results into stored state.
package engine

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ewhitmore/cardtable/internal/cache"
	"github.com/ewhitmore/cardtable/internal/models"
	"github.com/ewhitmore/cardtable/internal/store"
)

// CardSource produces one pseudo-random card per request for a suit.
// Loaded once at startup and injected read-only.
type CardSource interface {
	RandomCard(suit models.Suit) (*models.Card, error)
}

// Engine coordinates the card source and the session store. It takes no
// locks: the store's atomic whole-record upsert is the sole concurrency
// primitive, and a lost update between two concurrent single-suit
// redraws is an accepted limitation.
type Engine struct {
	catalog CardSource
	store   store.Store
	cache   *cache.SessionCache // nil disables caching
	logger  *log.Logger
}

// New builds an Engine. cache may be nil.
func New(catalog CardSource, st store.Store, sc *cache.SessionCache, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New()
	}
	return &Engine{catalog: catalog, store: st, cache: sc, logger: logger}
}

// newGameID returns a short, URL-safe identifier: 6 random bytes as 8
// base64url characters. Opaque and shareable; the only credential.
func newGameID() (string, error) {
	var raw [6]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("generate game id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}

// CreateSession generates a fresh identifier that does not collide with
// any stored session, persists an empty session, and returns it. All
// suits start unset.
func (e *Engine) CreateSession(ctx context.Context) (*models.GameSession, error) {
	const maxAttempts = 8
	for attempt := 0; attempt < maxAttempts; attempt++ {
		id, err := newGameID()
		if err != nil {
			return nil, err
		}

		// The store is the source of truth for uniqueness.
		_, err = e.store.Get(ctx, id)
		if err == nil {
			e.logger.WithField("game_id", id).Warn("game id collision, regenerating")
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}

		now := time.Now().UTC()
		session := &models.GameSession{
			ID:           id,
			Cards:        make(map[models.Suit]*models.Card),
			CreatedAt:    now,
			LastActivity: now,
		}
		if err := e.persist(ctx, session); err != nil {
			return nil, err
		}
		e.logger.WithField("game_id", id).Info("created shared game")
		return session, nil
	}
	return nil, fmt.Errorf("%w: could not generate a unique game id", ErrStoreUnavailable)
}

// DrawAll replaces every suit's card with a fresh draw and persists the
// session as one atomic upsert, so no reader of this session's record
// observes a partially-updated set from this call.
func (e *Engine) DrawAll(ctx context.Context, id string) (*models.GameSession, error) {
	session, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, suit := range models.Suits() {
		card, err := e.draw(suit)
		if err != nil {
			return nil, err
		}
		session.Cards[suit] = card
	}
	session.LastActivity = time.Now().UTC()
	if err := e.persist(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// DrawOne redraws a single suit, leaving the other suits' cards exactly
// as stored. The whole record is still written back: the store contract
// is create-or-replace, not partial update. Returns the full mapping so
// the caller can re-render consistently.
func (e *Engine) DrawOne(ctx context.Context, id, rawSuit string) (*models.GameSession, error) {
	// Validate before touching the store; an invalid suit must not mutate
	// or even read state.
	suit, ok := models.CanonicalSuit(rawSuit)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSuit, rawSuit)
	}

	session, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	card, err := e.draw(suit)
	if err != nil {
		return nil, err
	}
	session.Cards[suit] = card
	session.LastActivity = time.Now().UTC()
	if err := e.persist(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession is a read-only fetch, served from the snapshot cache when
// one is configured.
func (e *Engine) GetSession(ctx context.Context, id string) (*models.GameSession, error) {
	if e.cache != nil {
		if session, ok := e.cache.Get(ctx, id); ok {
			return session, nil
		}
	}
	session, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Put(ctx, session)
	}
	return session, nil
}

// DrawAllSolo draws one card per suit with no session and no persistence.
func (e *Engine) DrawAllSolo(_ context.Context) (map[models.Suit]*models.Card, error) {
	cards := make(map[models.Suit]*models.Card, len(models.Suits()))
	for _, suit := range models.Suits() {
		card, err := e.draw(suit)
		if err != nil {
			return nil, err
		}
		cards[suit] = card
	}
	return cards, nil
}

// DrawOneSolo draws a single suit with no session and no persistence.
func (e *Engine) DrawOneSolo(_ context.Context, rawSuit string) (map[models.Suit]*models.Card, error) {
	suit, ok := models.CanonicalSuit(rawSuit)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSuit, rawSuit)
	}
	card, err := e.draw(suit)
	if err != nil {
		return nil, err
	}
	return map[models.Suit]*models.Card{suit: card}, nil
}

func (e *Engine) draw(suit models.Suit) (*models.Card, error) {
	card, err := e.catalog.RandomCard(suit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return card, nil
}

func (e *Engine) load(ctx context.Context, id string) (*models.GameSession, error) {
	session, err := e.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return session, nil
}

func (e *Engine) persist(ctx context.Context, session *models.GameSession) error {
	if err := e.store.Put(ctx, session); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if e.cache != nil {
		e.cache.Put(ctx, session)
	}
	return nil
}
