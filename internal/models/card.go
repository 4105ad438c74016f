package models

import "strings"

// Suit is one of the five fixed card categories.
type Suit string

const (
	SuitPlatform   Suit = "Platform"
	SuitProtocol   Suit = "Protocol"
	SuitTool       Suit = "Tool"
	SuitTouchstone Suit = "Touchstone"
	SuitWorkshop   Suit = "Workshop"
)

// suitOrder fixes the display order. Storage does not depend on it.
var suitOrder = []Suit{SuitPlatform, SuitProtocol, SuitTool, SuitTouchstone, SuitWorkshop}

// Suits returns the fixed suit enumeration in display order.
// Callers must not mutate the returned slice.
func Suits() []Suit {
	return suitOrder
}

// CanonicalSuit maps a raw user-supplied suit name to its canonical form,
// normalizing case and surrounding whitespace. ok is false for anything
// outside the fixed enumeration.
func CanonicalSuit(raw string) (Suit, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for _, s := range suitOrder {
		if normalized == strings.ToLower(string(s)) {
			return s, true
		}
	}
	return "", false
}

// Card is an immutable drawn item. Never mutated after creation.
type Card struct {
	ID        string `json:"id"`
	Suit      Suit   `json:"suit"`
	Name      string `json:"name"`
	ShortText string `json:"short_text"`
	Text      string `json:"text"`
	URL       string `json:"url,omitempty"`
}
