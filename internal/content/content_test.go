package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
venue:
  name: Кофейня "Утро"
  address: ул. Ленина, 1
  phone: "+7 900 000-00-00"
  hours: 08:00-22:00
  description: Уютное место.
menu:
  - name: Кофе
    items:
      - name: Капучино
        price: "250"
        description: Классический
        photo: https://example.com/cappuccino.jpg
      - name: Эспрессо
        price: "150.50"
  - name: Десерты
    items:
      - name: Чизкейк
        price: 320
promotions:
  - title: Счастливые часы
    description: Скидка 20% с 15 до 17.
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, `Кофейня "Утро"`, s.Venue().Name)
	assert.Equal(t, []string{"Кофе", "Десерты"}, s.CategoryNames())

	items := s.Items("Кофе")
	require.Len(t, items, 2)
	assert.Equal(t, "250", items[0].Price.String())
	assert.Equal(t, "150.5", items[1].Price.String())
	assert.Equal(t, "https://example.com/cappuccino.jpg", items[0].Photo)
	assert.Empty(t, items[1].Photo)
	assert.Equal(t, "320", s.Items("Десерты")[0].Price.String())

	require.Len(t, s.Promotions(), 1)
	assert.Equal(t, "Счастливые часы", s.Promotions()[0].Title)
}

func TestUnknownCategoryIsEmpty(t *testing.T) {
	s, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Empty(t, s.Items("Супы"))
	assert.False(t, s.HasCategory("Супы"))
}

func TestItemsReturnsCopy(t *testing.T) {
	s, err := Parse([]byte(sample))
	require.NoError(t, err)
	items := s.Items("Кофе")
	items[0].Name = "changed"
	assert.Equal(t, "Капучино", s.Items("Кофе")[0].Name)
}

func TestParseValidation(t *testing.T) {
	cases := map[string]string{
		"no venue name": "menu:\n  - name: A\n",
		"duplicate":     "venue: {name: X}\nmenu:\n  - name: A\n  - name: A\n",
		"bad price":     "venue: {name: X}\nmenu:\n  - name: A\n    items:\n      - {name: B, price: abc}\n",
		"negative":      "venue: {name: X}\nmenu:\n  - name: A\n    items:\n      - {name: B, price: \"-1\"}\n",
		"empty promo":   "venue: {name: X}\nmenu:\n  - name: A\npromotions:\n  - description: d\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	_, err := Parse([]byte("venue: {name: X}\n"))
	assert.ErrorIs(t, err, ErrNoCategories)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	s, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, s.CategoryNames(), 2)

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
