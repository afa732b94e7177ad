package render_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m3rciful/cafebot/internal/content"
	"github.com/m3rciful/cafebot/internal/render"
	"github.com/m3rciful/cafebot/internal/render/rendertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogue = `
venue:
  name: Утро
  address: ул. Ленина, 1
  phone: "+7 900 000-00-00"
  hours: 08:00-22:00
  description: Кофе_и_выпечка
menu:
  - name: Кофе
    items:
      - name: Капучино
        price: "250"
        description: Классический
        photo: https://example.com/cappuccino.jpg
      - name: Эспрессо
        price: "150"
  - name: Десерты
    items:
      - name: Чизкейк
        price: "320"
`

func newPresenter(t *testing.T, doc string) *render.Presenter {
	t.Helper()
	store, err := content.Parse([]byte(doc))
	require.NoError(t, err)
	return render.NewPresenter(store)
}

func TestRenderCategory(t *testing.T) {
	p := newPresenter(t, catalogue)
	canvas := &rendertest.Canvas{}

	require.NoError(t, p.RenderCategory(context.Background(), canvas, "Кофе"))

	ops := canvas.Ops()
	require.Len(t, ops, 4)
	assert.Equal(t, rendertest.OpDelete, ops[0].Kind)
	assert.Equal(t, rendertest.OpPhoto, ops[1].Kind)
	assert.Equal(t, "https://example.com/cappuccino.jpg", ops[1].Photo)
	assert.Equal(t, "Капучино — 250 руб.\nКлассический", ops[1].View.Text)
	assert.Equal(t, rendertest.OpSend, ops[2].Kind)
	assert.Equal(t, "Эспрессо — 150 руб.", ops[2].View.Text)
	assert.Equal(t, "Кофе — выберите действие:", ops[3].View.Text)
	assert.Equal(t, []render.Action{
		{Label: "< К категориям", ID: "menu"},
		{Label: "<< Главное меню", ID: "main"},
	}, ops[3].View.Actions)
}

func TestRenderUnknownCategoryOnlyNavigation(t *testing.T) {
	p := newPresenter(t, catalogue)
	canvas := &rendertest.Canvas{}

	require.NoError(t, p.RenderCategory(context.Background(), canvas, "Супы"))

	texts := canvas.Texts()
	require.Len(t, texts, 1)
	assert.Equal(t, "Супы — выберите действие:", texts[0])
}

func TestRenderCategoryPhotoFallback(t *testing.T) {
	p := newPresenter(t, catalogue)
	canvas := &rendertest.Canvas{FailPhoto: errors.New("wrong file identifier")}

	require.NoError(t, p.RenderCategory(context.Background(), canvas, "Кофе"))

	ops := canvas.Ops()
	require.Len(t, ops, 4)
	assert.Equal(t, rendertest.OpSend, ops[1].Kind)
	assert.Equal(t, "Капучино — 250 руб.\nКлассический", ops[1].View.Text)
}

func TestRenderCategoryIsDeterministic(t *testing.T) {
	p := newPresenter(t, catalogue)
	first, second := &rendertest.Canvas{}, &rendertest.Canvas{}

	require.NoError(t, p.RenderCategory(context.Background(), first, "Кофе"))
	require.NoError(t, p.RenderCategory(context.Background(), second, "Кофе"))
	assert.Equal(t, first.Transcript(), second.Transcript())
}

func TestRenderCategoryNavigationFailure(t *testing.T) {
	p := newPresenter(t, catalogue)
	boom := errors.New("blocked by user")
	canvas := &rendertest.Canvas{FailSend: boom}
	assert.ErrorIs(t, p.RenderCategory(context.Background(), canvas, "Десерты"), boom)
}

func TestMainMenuAndCategories(t *testing.T) {
	p := newPresenter(t, catalogue)

	menu := p.MainMenu()
	assert.Equal(t, "Добро пожаловать в Утро!\n\nВыберите, что вас интересует:", menu.Text)
	require.Len(t, menu.Actions, 5)
	assert.Equal(t, "booking", menu.Actions[1].ID)
	assert.Equal(t, "feedback", menu.Actions[4].ID)

	cats := p.Categories()
	assert.Equal(t, []render.Action{
		{Label: "Кофе", ID: "cat_Кофе"},
		{Label: "Десерты", ID: "cat_Десерты"},
		{Label: "< Назад", ID: "main"},
	}, cats.Actions)
	assert.Equal(t, "Десерты", render.CategoryFromAction(cats.Actions[1].ID))
}

func TestPromotions(t *testing.T) {
	empty := newPresenter(t, catalogue).Promotions()
	assert.Equal(t, "Сейчас акций нет, но скоро появятся!", empty.Text)

	p := newPresenter(t, catalogue+"promotions:\n  - title: Счастливые часы\n    description: Скидка 20%\n")
	v := p.Promotions()
	assert.True(t, v.Markdown)
	assert.Equal(t, "Наши акции:\n\n  *Счастливые часы*\n  Скидка 20%\n\n", v.Text)
}

func TestAbout(t *testing.T) {
	v := newPresenter(t, catalogue).About()
	assert.True(t, v.Markdown)
	assert.Equal(t, "*Утро*\n\n  Адрес: ул. Ленина, 1\n  Телефон: +7 900 000-00-00\n  Часы работы: 08:00-22:00\n\nКофе\\_и\\_выпечка", v.Text)
}

func TestMarkdownMarkersInBoldText(t *testing.T) {
	doc := `
venue:
  name: Cafe_Bar *24*
menu:
  - name: Кофе
promotions:
  - title: 2_for_1
    description: Каждый_вторник
`
	p := newPresenter(t, doc)
	assert.True(t, strings.HasPrefix(p.About().Text, "*Cafe Bar 24*\n"))
	assert.Equal(t, "Наши акции:\n\n  *2 for 1*\n  Каждый\\_вторник\n\n", p.Promotions().Text)
}

func TestBookingConfirmationIncludesPhone(t *testing.T) {
	v := newPresenter(t, catalogue).BookingConfirmation(render.BookingSummary{
		Name: "Alice", Date: "20.02.2026", Time: "19:00", Guests: "4",
	})
	assert.Contains(t, v.Text, "  Имя: Alice\n  Дата: 20.02.2026\n  Время: 19:00\n  Гостей: 4\n")
	assert.Contains(t, v.Text, "Или позвоните нам: +7 900 000-00-00")
	assert.Equal(t, []render.Action{{Label: "На главную", ID: "main"}}, v.Actions)
}

func TestReplaceFallsBackToSend(t *testing.T) {
	canvas := &rendertest.Canvas{FailEdit: errors.New("message can't be edited")}
	require.NoError(t, render.Replace(context.Background(), canvas, render.View{Text: "hi"}))
	op, ok := canvas.Last()
	require.True(t, ok)
	assert.Equal(t, rendertest.OpSend, op.Kind)
}
