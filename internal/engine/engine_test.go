package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewhitmore/cardtable/internal/models"
	"github.com/ewhitmore/cardtable/internal/store"
)

// seqCatalog deals deterministic cards with increasing ids.
type seqCatalog struct {
	mu sync.Mutex
	n  int
}

func (c *seqCatalog) RandomCard(suit models.Suit) (*models.Card, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return &models.Card{
		ID:        strconv.Itoa(c.n),
		Suit:      suit,
		Name:      fmt.Sprintf("%s card %d", suit, c.n),
		ShortText: "short",
		Text:      "text",
	}, nil
}

// failCatalog always fails to produce a card.
type failCatalog struct{}

func (failCatalog) RandomCard(models.Suit) (*models.Card, error) {
	return nil, errors.New("pool exhausted")
}

// spyStore counts store traffic on top of a real memory store.
type spyStore struct {
	*store.MemoryStore
	mu   sync.Mutex
	puts int
	gets int
}

func newSpyStore() *spyStore {
	return &spyStore{MemoryStore: store.NewMemoryStore()}
}

func (s *spyStore) Put(ctx context.Context, session *models.GameSession) error {
	s.mu.Lock()
	s.puts++
	s.mu.Unlock()
	return s.MemoryStore.Put(ctx, session)
}

func (s *spyStore) Get(ctx context.Context, id string) (*models.GameSession, error) {
	s.mu.Lock()
	s.gets++
	s.mu.Unlock()
	return s.MemoryStore.Get(ctx, id)
}

func (s *spyStore) counts() (puts, gets int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts, s.gets
}

// downStore simulates an unreachable persistence layer.
type downStore struct{}

func (downStore) Put(context.Context, *models.GameSession) error {
	return errors.New("connection refused")
}
func (downStore) Get(context.Context, string) (*models.GameSession, error) {
	return nil, errors.New("connection refused")
}
func (downStore) Close() {}

func newTestEngine(t *testing.T) (*Engine, *spyStore) {
	t.Helper()
	st := newSpyStore()
	return New(&seqCatalog{}, st, nil, nil), st
}

func TestCreateSessionStartsEmpty(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	session, err := e.CreateSession(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)
	assert.Empty(t, session.Cards, "a fresh session has all suits unset")
	assert.False(t, session.CreatedAt.IsZero())

	fetched, err := e.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, fetched.ID)
	assert.Empty(t, fetched.Cards)
}

func TestCreateSessionUniqueIDs(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		session, err := e.CreateSession(ctx)
		require.NoError(t, err)
		require.False(t, seen[session.ID], "duplicate id %s", session.ID)
		seen[session.ID] = true
	}
}

func TestDrawAllCoversEverySuit(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	session, err := e.CreateSession(ctx)
	require.NoError(t, err)

	updated, err := e.DrawAll(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, updated.Cards, 5)
	for _, suit := range models.Suits() {
		require.Contains(t, updated.Cards, suit)
		assert.Equal(t, suit, updated.Cards[suit].Suit)
	}

	// Shape is invariant across repeated full draws.
	again, err := e.DrawAll(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, again.Cards, 5)
}

func TestDrawAllUnknownID(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.DrawAll(context.Background(), "zzz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDrawOneTouchesOnlyThatSuit(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	session, err := e.CreateSession(ctx)
	require.NoError(t, err)
	full, err := e.DrawAll(ctx, session.ID)
	require.NoError(t, err)

	before := make(map[models.Suit]string)
	for suit, card := range full.Cards {
		before[suit] = card.ID
	}

	updated, err := e.DrawOne(ctx, session.ID, "Tool")
	require.NoError(t, err)
	require.Len(t, updated.Cards, 5, "draw-one returns the full mapping")

	assert.NotEqual(t, before[models.SuitTool], updated.Cards[models.SuitTool].ID)
	for _, suit := range models.Suits() {
		if suit == models.SuitTool {
			continue
		}
		assert.Equal(t, before[suit], updated.Cards[suit].ID, "suit %s must be untouched", suit)
	}
}

func TestDrawOneIntoEmptySession(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	session, err := e.CreateSession(ctx)
	require.NoError(t, err)

	updated, err := e.DrawOne(ctx, session.ID, "Protocol")
	require.NoError(t, err)
	require.Len(t, updated.Cards, 1)
	require.Contains(t, updated.Cards, models.SuitProtocol)

	fetched, err := e.GetSession(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Cards, 1, "only the drawn suit is set, others stay absent")
	assert.Contains(t, fetched.Cards, models.SuitProtocol)
}

func TestDrawOneSuitNormalization(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	session, err := e.CreateSession(ctx)
	require.NoError(t, err)

	updated, err := e.DrawOne(ctx, session.ID, "  workshop ")
	require.NoError(t, err)
	assert.Contains(t, updated.Cards, models.SuitWorkshop)
}

func TestDrawOneInvalidSuitNoMutation(t *testing.T) {
	e, st := newTestEngine(t)
	ctx := context.Background()

	session, err := e.CreateSession(ctx)
	require.NoError(t, err)
	putsBefore, getsBefore := st.counts()

	_, err = e.DrawOne(ctx, session.ID, "Bogus")
	assert.ErrorIs(t, err, ErrInvalidSuit)

	puts, gets := st.counts()
	assert.Equal(t, putsBefore, puts, "invalid suit must not write")
	assert.Equal(t, getsBefore, gets, "invalid suit is rejected before the store is read")
}

func TestDrawOneUnknownID(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.DrawOne(context.Background(), "zzz", "Tool")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSequentialDrawOneIndependentCards(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	session, err := e.CreateSession(ctx)
	require.NoError(t, err)

	first, err := e.DrawOne(ctx, session.ID, "Tool")
	require.NoError(t, err)
	second, err := e.DrawOne(ctx, session.ID, "Tool")
	require.NoError(t, err)

	assert.NotEqual(t, first.Cards[models.SuitTool].ID, second.Cards[models.SuitTool].ID,
		"each call is an independent draw from the catalog")
	require.Len(t, second.Cards, 1)
}

func TestGetSessionUnknownID(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.GetSession(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSoloDraws(t *testing.T) {
	e, st := newTestEngine(t)
	ctx := context.Background()
	putsBefore, getsBefore := st.counts()

	all, err := e.DrawAllSolo(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)

	one, err := e.DrawOneSolo(ctx, "Touchstone")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Contains(t, one, models.SuitTouchstone)

	_, err = e.DrawOneSolo(ctx, "Bogus")
	assert.ErrorIs(t, err, ErrInvalidSuit)

	puts, gets := st.counts()
	assert.Equal(t, putsBefore, puts, "solo draws never touch the store")
	assert.Equal(t, getsBefore, gets)
}

func TestCatalogFailurePropagates(t *testing.T) {
	st := newSpyStore()
	e := New(failCatalog{}, st, nil, nil)
	ctx := context.Background()

	session, err := e.CreateSession(ctx)
	require.NoError(t, err)

	_, err = e.DrawAll(ctx, session.ID)
	assert.ErrorIs(t, err, ErrCatalogUnavailable)

	_, err = e.DrawOne(ctx, session.ID, "Tool")
	assert.ErrorIs(t, err, ErrCatalogUnavailable)

	_, err = e.DrawAllSolo(ctx)
	assert.ErrorIs(t, err, ErrCatalogUnavailable)

	// The session draw failed before persisting; stored state is intact.
	fetched, err := e.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.Cards)
}

func TestStoreFailureSurfaces(t *testing.T) {
	e := New(&seqCatalog{}, downStore{}, nil, nil)
	ctx := context.Background()

	_, err := e.CreateSession(ctx)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = e.GetSession(ctx, "abc")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = e.DrawAll(ctx, "abc")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestNewGameIDShape(t *testing.T) {
	id, err := newGameID()
	require.NoError(t, err)
	assert.Len(t, id, 8)
	assert.NotContains(t, id, "/")
	assert.NotContains(t, id, "+")
}
