package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewhitmore/cardtable/internal/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTSV(t *testing.T) {
	longText := strings.Repeat("word ", 50) // 250 chars, forces truncation
	tsv := strings.Join([]string{
		"Name\tCategory2\tShortText\tText\tURL",
		"Anvil\tPlatform\tA sturdy base.\tA long description of the anvil.\thttps://example.com/anvil",
		"Handshake\tProtocol\t\t" + longText + "\t",
		"Hammer\tTool\tHits things.\tThe hammer hits things.\t",
		"North Star\tTouchstone\tGuides.\tThe north star guides.\t",
		"Forge\tWorkshop\tHot.\tThe forge is hot.\t",
		"Nameless\tTool\t\t\t",             // missing text, skipped
		"Stray\tSomethingElse\ts\ttext\t", // suit outside the enumeration, skipped
	}, "\n")

	c, err := LoadTSV(writeFile(t, "cards.tsv", tsv))
	require.NoError(t, err)

	for _, suit := range models.Suits() {
		assert.Equal(t, 1, c.Size(suit), "suit %s", suit)
	}

	card, err := c.RandomCard(models.SuitPlatform)
	require.NoError(t, err)
	assert.Equal(t, "Anvil", card.Name)
	assert.Equal(t, models.SuitPlatform, card.Suit)
	assert.Equal(t, "A sturdy base.", card.ShortText)
	assert.Equal(t, "https://example.com/anvil", card.URL)

	// Derived short text truncates on a word boundary and appends "...".
	card, err = c.RandomCard(models.SuitProtocol)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(card.ShortText, "..."))
	assert.LessOrEqual(t, len(card.ShortText), shortTextLimit+3)
	assert.False(t, strings.HasSuffix(strings.TrimSuffix(card.ShortText, "..."), " "))
}

func TestLoadTSVEmpty(t *testing.T) {
	_, err := LoadTSV(writeFile(t, "cards.tsv", "Name\tCategory2\tText\n"))
	require.Error(t, err)

	_, err = LoadTSV(filepath.Join(t.TempDir(), "missing.tsv"))
	require.Error(t, err)
}

func TestLoadDeck(t *testing.T) {
	deck := `
[deck]
name = "Test deck"

[[card]]
suit = "protocol"
name = "Handshake"
text = "Agree on the rules before you start."

[[card]]
suit = "Tool"
name = "Hammer"
text = "Hit the thing."
short_text = "Hit it."
url = "https://example.com/hammer"

[[card]]
suit = "Unknown"
name = "Stray"
text = "Does not belong anywhere."
`
	c, err := LoadDeck(writeFile(t, "deck.toml", deck))
	require.NoError(t, err)

	assert.Equal(t, 1, c.Size(models.SuitProtocol), "suit names are case-insensitive")
	assert.Equal(t, 1, c.Size(models.SuitTool))
	assert.Equal(t, 0, c.Size(models.SuitWorkshop))

	card, err := c.RandomCard(models.SuitTool)
	require.NoError(t, err)
	assert.Equal(t, "Hit it.", card.ShortText)
	assert.Equal(t, models.SuitTool, card.Suit)
}

func TestLoadDispatch(t *testing.T) {
	deckPath := writeFile(t, "deck.toml", "[[card]]\nsuit = \"Tool\"\nname = \"Hammer\"\ntext = \"Hit.\"\n")
	c, err := Load(deckPath)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Size(models.SuitTool))
}

func TestRandomCardErrors(t *testing.T) {
	c := New([]*models.Card{{Suit: models.SuitTool, Name: "Hammer", Text: "Hit."}})

	_, err := c.RandomCard("Bogus")
	assert.ErrorIs(t, err, ErrUnknownSuit)

	_, err = c.RandomCard(models.SuitWorkshop)
	assert.ErrorIs(t, err, ErrNoCards)

	card, err := c.RandomCard(models.SuitTool)
	require.NoError(t, err)
	assert.Equal(t, "Hammer", card.Name)
}
