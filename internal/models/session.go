package models

import "time"

// GameSession is a shareable, persisted set of drawn cards. The ID is the
// sole access credential; anyone holding it has full read/write access.
//
// A suit key is either absent (never drawn) or holds exactly one card.
// Sessions are never deleted by the core; LastActivity is recorded so an
// external retention sweep could evict idle sessions.
type GameSession struct {
	ID           string         `json:"game_id"`
	Cards        map[Suit]*Card `json:"cards"`
	CreatedAt    time.Time      `json:"created_at"`
	LastActivity time.Time      `json:"last_activity"`
}

// Clone returns a deep-enough copy: the cards map is copied, the cards
// themselves are shared (they are immutable).
func (s *GameSession) Clone() *GameSession {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Cards = make(map[Suit]*Card, len(s.Cards))
	for suit, card := range s.Cards {
		cp.Cards[suit] = card
	}
	return &cp
}
