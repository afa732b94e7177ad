package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/cafebot/core/telegram/sender"
	"github.com/m3rciful/cafebot/internal/conversation"

	tele "gopkg.in/telebot.v4"
)

type sentMessage struct {
	to   string
	text string
}

type fakeSender struct {
	mu    sync.Mutex
	sent  []sentMessage
	calls int
	err   error
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, sentMessage{to: to.Recipient(), text: what.(string)})
	return &tele.Message{}, nil
}

var ref = uuid.MustParse("5b1f0c9e-3a2d-4c8b-9e61-7f0a2b3c4d5e")

func booking(username string) conversation.BookingResult {
	return conversation.BookingResult{
		Reference: ref,
		Name:      "Alice",
		Date:      "20.02.2026",
		Time:      "19:00",
		Guests:    "4",
		Customer:  conversation.User{ID: 1, FullName: "Alice Smith", Username: username},
	}
}

func TestBookingMessage(t *testing.T) {
	want := "🔔 Новая бронь!\n\nИмя: Alice\nДата: 20.02.2026\nВремя: 19:00\nГостей: 4\n\n" +
		"Клиент: Alice Smith (@alice)\nID: 5b1f0c9e-3a2d-4c8b-9e61-7f0a2b3c4d5e"
	assert.Equal(t, want, BookingMessage(booking("alice")))
	assert.Contains(t, BookingMessage(booking("")), "Клиент: Alice Smith\n")
}

func TestFeedbackMessage(t *testing.T) {
	msg := FeedbackMessage(conversation.FeedbackResult{
		Reference: ref,
		Customer:  conversation.User{FullName: "Bob"},
		Text:      "Отличный кофе",
	})
	assert.Equal(t, "💬 Новый отзыв!\n\nОт: Bob\n\nТекст: Отличный кофе\nID: 5b1f0c9e-3a2d-4c8b-9e61-7f0a2b3c4d5e", msg)
}

func TestNotifyInline(t *testing.T) {
	s := &fakeSender{}
	n, err := New(Options{ChatID: -100500, Sender: s})
	require.NoError(t, err)

	require.NoError(t, n.NotifyBooking(context.Background(), booking("alice")))
	require.Len(t, s.sent, 1)
	assert.Equal(t, "-100500", s.sent[0].to)
	assert.Contains(t, s.sent[0].text, "Имя: Alice")
}

func TestNotifyInlineError(t *testing.T) {
	boom := errors.New("chat not found")
	n, err := New(Options{ChatID: 42, Sender: &fakeSender{err: boom}})
	require.NoError(t, err)
	assert.ErrorIs(t, n.NotifyFeedback(context.Background(), conversation.FeedbackResult{}), boom)
}

func TestNotifyThroughDispatcher(t *testing.T) {
	s := &fakeSender{}
	var actions []string
	var mu sync.Mutex
	d := sender.NewDispatcher(sender.Options{Workers: 1, OnResult: func(action string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err == nil {
			actions = append(actions, action)
		}
	}})
	n, err := New(Options{ChatID: 42, Sender: s, Dispatcher: d})
	require.NoError(t, err)

	require.NoError(t, n.NotifyFeedback(context.Background(), conversation.FeedbackResult{Text: "ok"}))
	d.Close()

	assert.Len(t, s.sent, 1)
	assert.Equal(t, []string{ActionFeedback}, actions)
}

func TestNotifyFallsBackWhenDispatcherClosed(t *testing.T) {
	s := &fakeSender{}
	d := sender.NewDispatcher(sender.Options{})
	d.Close()
	n, err := New(Options{ChatID: 42, Sender: s, Dispatcher: d})
	require.NoError(t, err)

	require.NoError(t, n.NotifyBooking(context.Background(), booking("")))
	assert.Len(t, s.sent, 1)
}

// lostReply is a timeout after Telegram already accepted the message.
type lostReply struct{}

func (lostReply) Error() string   { return "net/http: timeout awaiting response headers" }
func (lostReply) Timeout() bool   { return true }
func (lostReply) Temporary() bool { return true }

func TestNotifyTimeoutIsNotResent(t *testing.T) {
	s := &fakeSender{err: lostReply{}}
	d := sender.NewDispatcher(sender.Options{Workers: 1, MaxRetries: 3, RetryBackoff: time.Millisecond})
	n, err := New(Options{ChatID: 42, Sender: s, Dispatcher: d})
	require.NoError(t, err)

	require.NoError(t, n.NotifyBooking(context.Background(), booking("alice")))
	d.Close()

	assert.Equal(t, 1, s.calls, "a booking must reach the operator at most once")
	assert.EqualValues(t, 1, d.ErrorCount())
}

func TestNewValidates(t *testing.T) {
	_, err := New(Options{Sender: &fakeSender{}})
	assert.Error(t, err)
	_, err = New(Options{ChatID: 1})
	assert.Error(t, err)
}
