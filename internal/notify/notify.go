// Package notify delivers completed bookings and feedback to the operator chat.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/m3rciful/cafebot/core/logger"
	"github.com/m3rciful/cafebot/core/telegram/sender"
	"github.com/m3rciful/cafebot/internal/conversation"

	tele "gopkg.in/telebot.v4"
)

// Actions reported to the sender dispatcher for operator messages.
const (
	ActionBooking  = "notify.booking"
	ActionFeedback = "notify.feedback"
)

// Sender is the part of *tele.Bot used to post messages.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Options configures a Telegram notifier.
type Options struct {
	ChatID int64
	Sender Sender
	// Dispatcher sends in the background when set; otherwise messages are sent inline.
	Dispatcher *sender.Dispatcher
}

// Telegram posts operator notifications to a fixed chat.
type Telegram struct {
	chat       tele.ChatID
	sender     Sender
	dispatcher *sender.Dispatcher
}

var _ conversation.Notifier = (*Telegram)(nil)

// New builds a Telegram notifier.
func New(opts Options) (*Telegram, error) {
	if opts.ChatID == 0 {
		return nil, errors.New("notify: operator chat id is required")
	}
	if opts.Sender == nil {
		return nil, errors.New("notify: sender is required")
	}
	return &Telegram{chat: tele.ChatID(opts.ChatID), sender: opts.Sender, dispatcher: opts.Dispatcher}, nil
}

// NotifyBooking posts a new reservation.
func (n *Telegram) NotifyBooking(ctx context.Context, r conversation.BookingResult) error {
	return n.deliver(ctx, ActionBooking, r.Reference, BookingMessage(r))
}

// NotifyFeedback posts a new review.
func (n *Telegram) NotifyFeedback(ctx context.Context, r conversation.FeedbackResult) error {
	return n.deliver(ctx, ActionFeedback, r.Reference, FeedbackMessage(r))
}

func (n *Telegram) deliver(ctx context.Context, action string, ref uuid.UUID, text string) error {
	run := func() error {
		_, err := n.sender.Send(n.chat, text)
		return err
	}
	attrs := []slog.Attr{
		slog.String("action", action),
		slog.String("reference", ref.String()),
	}

	if n.dispatcher != nil {
		err := n.dispatcher.Enqueue(context.WithoutCancel(ctx), action, "sendMessage", run)
		if err == nil {
			logger.Debug(ctx, "notify", "notify.queued", attrs...)
			return nil
		}
		if !errors.Is(err, sender.ErrQueueFull) && !errors.Is(err, sender.ErrQueueClosed) {
			return fmt.Errorf("notify: enqueue: %w", err)
		}
		logger.Warn(ctx, "notify", "notify.inline", append(attrs, slog.String("err", err.Error()))...)
	}

	if err := run(); err != nil {
		return fmt.Errorf("notify: send %s: %w", action, err)
	}
	logger.Info(ctx, "notify", "notify.sent", append(attrs, slog.String("outcome", "ok"))...)
	return nil
}

// BookingMessage renders the operator message for a reservation.
func BookingMessage(r conversation.BookingResult) string {
	var b strings.Builder
	b.WriteString("🔔 Новая бронь!\n\n")
	fmt.Fprintf(&b, "Имя: %s\nДата: %s\nВремя: %s\nГостей: %s\n\n", r.Name, r.Date, r.Time, r.Guests)
	b.WriteString("Клиент: " + customer(r.Customer))
	b.WriteString("\nID: " + r.Reference.String())
	return b.String()
}

// FeedbackMessage renders the operator message for a review.
func FeedbackMessage(r conversation.FeedbackResult) string {
	var b strings.Builder
	b.WriteString("💬 Новый отзыв!\n\n")
	b.WriteString("От: " + customer(r.Customer))
	b.WriteString("\n\nТекст: " + r.Text)
	b.WriteString("\nID: " + r.Reference.String())
	return b.String()
}

func customer(u conversation.User) string {
	if u.Username == "" {
		return u.FullName
	}
	return fmt.Sprintf("%s (@%s)", u.FullName, u.Username)
}
