package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `Кофе\_Бар \*1\*`, EscapeMarkdown("Кофе_Бар *1*"))
	assert.Equal(t, "plain", EscapeMarkdown("plain"))
}

func TestBold(t *testing.T) {
	assert.Equal(t, "*Счастливые часы*", Bold(" Счастливые_часы "))
	assert.Equal(t, "*Кофе Бар 1 link*", Bold("*Кофе* Бар `1` [link]"))
	assert.NotContains(t, Bold("a_b*c"), `\`)
	assert.Empty(t, Bold("  "))
	assert.Empty(t, Bold("**"))
}
