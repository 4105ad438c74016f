// Package catalog holds the card pools the engine draws from. The catalog
// is loaded once at startup and never mutated afterwards.
package catalog

import (
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/ewhitmore/cardtable/internal/models"
)

var (
	// ErrUnknownSuit is returned for a suit outside the fixed enumeration.
	ErrUnknownSuit = errors.New("unknown suit")

	// ErrNoCards is returned when a suit's pool is empty.
	ErrNoCards = errors.New("no cards available")
)

// Catalog buckets a fixed pool of cards by suit.
type Catalog struct {
	bySuit map[models.Suit][]*models.Card
}

// New builds a catalog from a flat card list. Cards whose suit is not a
// member of the fixed enumeration are dropped.
func New(cards []*models.Card) *Catalog {
	c := &Catalog{bySuit: make(map[models.Suit][]*models.Card)}
	for _, card := range cards {
		suit, ok := models.CanonicalSuit(string(card.Suit))
		if !ok {
			continue
		}
		card.Suit = suit
		c.bySuit[suit] = append(c.bySuit[suit], card)
	}
	return c
}

// Load reads a card file, dispatching on extension: .toml is parsed as a
// deck file, anything else as tab-separated values.
func Load(path string) (*Catalog, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return LoadDeck(path)
	}
	return LoadTSV(path)
}

// RandomCard returns one pseudo-random card from the given suit's pool.
func (c *Catalog) RandomCard(suit models.Suit) (*models.Card, error) {
	pool, ok := c.bySuit[suit]
	if !ok || len(pool) == 0 {
		if _, valid := models.CanonicalSuit(string(suit)); !valid {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSuit, suit)
		}
		return nil, fmt.Errorf("%w in suit %q", ErrNoCards, suit)
	}
	return pool[rand.Intn(len(pool))], nil
}

// Size returns the number of cards loaded for the given suit.
func (c *Catalog) Size(suit models.Suit) int {
	return len(c.bySuit[suit])
}

// shortTextLimit caps derived short summaries.
const shortTextLimit = 190

// buildShortText prefers the source's short text; otherwise it truncates
// the full text on a word boundary.
func buildShortText(text, shortText string) string {
	if s := strings.TrimSpace(shortText); s != "" {
		return s
	}
	snippet := strings.TrimSpace(text)
	if len(snippet) <= shortTextLimit {
		return snippet
	}
	truncated := snippet[:shortTextLimit]
	if idx := strings.LastIndex(truncated, " "); idx > 0 {
		truncated = truncated[:idx]
	}
	return truncated + "..."
}
