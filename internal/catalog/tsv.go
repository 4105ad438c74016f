package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ewhitmore/cardtable/internal/models"
)

// Column headers expected in the card data file.
const (
	colSuit      = "Category2"
	colName      = "Name"
	colText      = "Text"
	colShortText = "ShortText"
	colURL       = "URL"
)

// LoadTSV reads cards from a tab-separated file with a header row.
// Rows missing a suit, name, or text are skipped, as are rows whose suit
// is not one of the five fixed suits.
func LoadTSV(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open card data: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse card data %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("card data %s has no rows", path)
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.TrimSpace(name)] = i
	}
	field := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var cards []*models.Card
	for i, row := range rows[1:] {
		suit := field(row, colSuit)
		name := field(row, colName)
		text := field(row, colText)
		if suit == "" || name == "" || text == "" {
			continue
		}
		cards = append(cards, &models.Card{
			ID:        strconv.Itoa(i),
			Suit:      models.Suit(suit),
			Name:      name,
			Text:      text,
			ShortText: buildShortText(text, field(row, colShortText)),
			URL:       field(row, colURL),
		})
	}

	c := New(cards)
	if len(c.bySuit) == 0 {
		return nil, fmt.Errorf("no cards were loaded from %s", path)
	}
	return c, nil
}
