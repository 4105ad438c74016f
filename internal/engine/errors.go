package engine

import "errors"

// Error taxonomy. Callers classify with errors.Is; the HTTP layer's only
// job is status-code translation.
var (
	// ErrNotFound means the session id does not resolve to a stored session.
	ErrNotFound = errors.New("game not found")

	// ErrInvalidSuit means the suit is outside the fixed enumeration.
	ErrInvalidSuit = errors.New("invalid suit")

	// ErrCatalogUnavailable means the card source failed to produce a card.
	// Not retried: a random draw has no meaningful retry semantics.
	ErrCatalogUnavailable = errors.New("card catalog unavailable")

	// ErrStoreUnavailable means the persistence layer is unreachable.
	ErrStoreUnavailable = errors.New("session store unavailable")
)
