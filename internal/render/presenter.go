package render

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/cafebot/core/logger"
	"github.com/m3rciful/cafebot/core/telegram/format"
	"github.com/m3rciful/cafebot/internal/content"
)

// Callback identifiers of the static screens and flow entry points.
const (
	ActionMain     = "main"
	ActionMenu     = "menu"
	ActionPromos   = "promos"
	ActionAbout    = "about"
	ActionBooking  = "booking"
	ActionFeedback = "feedback"
)

var (
	backToMain       = Action{Label: "< Назад", ID: ActionMain}
	homeAction       = Action{Label: "На главную", ID: ActionMain}
	navCategories    = Action{Label: "< К категориям", ID: ActionMenu}
	navMainMenu      = Action{Label: "<< Главное меню", ID: ActionMain}
	mainMenuControls = []Action{
		{Label: "Меню", ID: ActionMenu},
		{Label: "Забронировать столик", ID: ActionBooking},
		{Label: "Акции", ID: ActionPromos},
		{Label: "О нас", ID: ActionAbout},
		{Label: "Оставить отзыв", ID: ActionFeedback},
	}
)

// BookingSummary is the data shown back to the customer after a reservation.
type BookingSummary struct {
	Name   string
	Date   string
	Time   string
	Guests string
}

// Presenter builds the cafe's views from the content store.
type Presenter struct {
	store *content.Store
}

// NewPresenter returns a Presenter over store.
func NewPresenter(store *content.Store) *Presenter {
	return &Presenter{store: store}
}

// CategoryAction returns the id that opens the named category.
func CategoryAction(name string) string {
	return content.CategoryPrefix + name
}

// CategoryFromAction extracts the category name from a category action id.
func CategoryFromAction(id string) string {
	return strings.TrimPrefix(id, content.CategoryPrefix)
}

// MainMenu is the welcome screen.
func (p *Presenter) MainMenu() View {
	return View{
		Text:    fmt.Sprintf("Добро пожаловать в %s!\n\nВыберите, что вас интересует:", p.store.Venue().Name),
		Actions: append([]Action(nil), mainMenuControls...),
	}
}

// Categories lists the menu categories in catalogue order.
func (p *Presenter) Categories() View {
	names := p.store.CategoryNames()
	actions := make([]Action, 0, len(names)+1)
	for _, name := range names {
		actions = append(actions, Action{Label: name, ID: CategoryAction(name)})
	}
	return View{Text: "Выберите категорию:", Actions: append(actions, backToMain)}
}

// ItemCaption is the text shown for a menu item.
func ItemCaption(item content.Item) string {
	caption := fmt.Sprintf("%s — %s руб.", item.Name, item.Price.String())
	if item.Description != "" {
		caption += "\n" + item.Description
	}
	return caption
}

// CategoryNavigation follows the items of a category.
func (p *Presenter) CategoryNavigation(category string) View {
	return View{
		Text:    category + " — выберите действие:",
		Actions: []Action{navCategories, navMainMenu},
	}
}

// RenderCategory replaces the tapped message with the items of category, one
// message per item, followed by navigation. Photo failures fall back to the
// plain caption; only a failed navigation message is returned as an error.
func (p *Presenter) RenderCategory(ctx context.Context, c Canvas, category string) error {
	_ = c.Delete(ctx)

	if !p.store.HasCategory(category) {
		logger.Debug(ctx, "render", "category.unknown", slog.String("category", category))
	}
	items := p.store.Items(category)
	for _, item := range items {
		caption := ItemCaption(item)
		if item.Photo != "" {
			err := c.SendPhoto(ctx, item.Photo, caption)
			if err == nil {
				continue
			}
			logger.Debug(ctx, "render", "photo.fallback",
				slog.String("item", item.Name),
				slog.String("err", logger.SanitizeLimit(err.Error(), 200)),
			)
		}
		if err := c.Send(ctx, View{Text: caption}); err != nil {
			logger.Warn(ctx, "render", "item.send.fail",
				slog.String("item", item.Name),
				slog.String("err", logger.SanitizeLimit(err.Error(), 200)),
			)
		}
	}
	logger.Debug(ctx, "render", "category.rendered",
		slog.String("category", category),
		slog.Int("items", len(items)),
	)
	return c.Send(ctx, p.CategoryNavigation(category))
}

// Promotions lists the current offers.
func (p *Presenter) Promotions() View {
	promos := p.store.Promotions()
	if len(promos) == 0 {
		return View{Text: "Сейчас акций нет, но скоро появятся!", Actions: []Action{backToMain}}
	}
	var b strings.Builder
	b.WriteString("Наши акции:\n\n")
	for _, promo := range promos {
		fmt.Fprintf(&b, "  %s\n  %s\n\n", format.Bold(promo.Title), format.EscapeMarkdown(promo.Description))
	}
	return View{Text: b.String(), Actions: []Action{backToMain}, Markdown: true}
}

// About shows the venue details.
func (p *Presenter) About() View {
	v := p.store.Venue()
	text := fmt.Sprintf("%s\n\n  Адрес: %s\n  Телефон: %s\n  Часы работы: %s\n\n%s",
		format.Bold(v.Name),
		format.EscapeMarkdown(v.Address),
		format.EscapeMarkdown(v.Phone),
		format.EscapeMarkdown(v.Hours),
		format.EscapeMarkdown(v.Description),
	)
	return View{Text: text, Actions: []Action{backToMain}, Markdown: true}
}

// BookingName asks for the name on the reservation.
func (p *Presenter) BookingName() View {
	return View{Text: "Давайте забронируем столик!\n\nВведите ваше имя:"}
}

// BookingDate greets the customer by name and asks for the date.
func (p *Presenter) BookingDate(name string) View {
	return View{Text: fmt.Sprintf("Отлично, %s!\n\nНа какую дату бронируем? (например: 20.02.2026)", name)}
}

// BookingTime asks for the time.
func (p *Presenter) BookingTime() View {
	return View{Text: "На какое время? (например: 19:00)"}
}

// BookingGuests asks for the number of guests.
func (p *Presenter) BookingGuests() View {
	return View{Text: "Сколько гостей будет?"}
}

// BookingConfirmation repeats the reservation back to the customer.
func (p *Presenter) BookingConfirmation(s BookingSummary) View {
	text := fmt.Sprintf("Ваша бронь:\n\n  Имя: %s\n  Дата: %s\n  Время: %s\n  Гостей: %s\n\n"+
		"Мы свяжемся с вами для подтверждения.\nИли позвоните нам: %s\n\nСпасибо!",
		s.Name, s.Date, s.Time, s.Guests, p.store.Venue().Phone)
	return View{Text: text, Actions: []Action{homeAction}}
}

// FeedbackPrompt asks for a free-text review.
func (p *Presenter) FeedbackPrompt() View {
	return View{Text: "Будем рады вашему отзыву!\n\nНапишите сообщение, и мы обязательно его прочитаем.\n(Для отмены введите /cancel)"}
}

// FeedbackThanks acknowledges a review.
func (p *Presenter) FeedbackThanks() View {
	return View{Text: "Спасибо за ваш отзыв! Мы ценим каждое мнение.", Actions: []Action{homeAction}}
}

// Cancelled acknowledges /cancel.
func (p *Presenter) Cancelled() View {
	return View{Text: "Бронирование отменено."}
}
