package catalog

import (
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/ewhitmore/cardtable/internal/models"
)

// DeckConfig is the TOML deck file layout:
//
//	[deck]
//	name = "Facilitation cards"
//
//	[[card]]
//	suit = "Protocol"
//	name = "..."
//	text = "..."
type DeckConfig struct {
	Deck struct {
		Name        string `toml:"name"`
		Version     string `toml:"version"`
		Author      string `toml:"author"`
		Description string `toml:"description"`
	} `toml:"deck"`
	Cards []DeckCard `toml:"card"`
}

type DeckCard struct {
	Suit      string `toml:"suit"`
	Name      string `toml:"name"`
	Text      string `toml:"text"`
	ShortText string `toml:"short_text"`
	URL       string `toml:"url"`
}

// LoadDeck reads cards from a TOML deck file. Row filtering matches the
// TSV loader: entries missing suit, name, or text are skipped.
func LoadDeck(path string) (*Catalog, error) {
	var config DeckConfig
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("parse deck file %s: %w", path, err)
	}

	var cards []*models.Card
	for i, dc := range config.Cards {
		if dc.Suit == "" || dc.Name == "" || dc.Text == "" {
			continue
		}
		cards = append(cards, &models.Card{
			ID:        strconv.Itoa(i),
			Suit:      models.Suit(dc.Suit),
			Name:      dc.Name,
			Text:      dc.Text,
			ShortText: buildShortText(dc.Text, dc.ShortText),
			URL:       dc.URL,
		})
	}

	c := New(cards)
	if len(c.bySuit) == 0 {
		return nil, fmt.Errorf("no cards were loaded from %s", path)
	}
	return c, nil
}
