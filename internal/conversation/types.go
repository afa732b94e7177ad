// Package conversation runs the multi-step dialogues of the cafe bot: table
// reservation and feedback. Each user has at most one active flow; its state
// lives in a session.Store and completed flows are handed to a Notifier.
package conversation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/cafebot/core/session"
)

// Flow names a dialogue.
type Flow string

const (
	FlowBooking  Flow = "booking"
	FlowFeedback Flow = "feedback"
)

// Conversation states. Every state except session.StateIdle waits for one text reply.
const (
	StateBookingName   session.State = "booking.name"
	StateBookingDate   session.State = "booking.date"
	StateBookingTime   session.State = "booking.time"
	StateBookingGuests session.State = "booking.guests"
	StateFeedbackText  session.State = "feedback.text"
)

// Collected field names.
const (
	FieldName   = "name"
	FieldDate   = "date"
	FieldTime   = "time"
	FieldGuests = "guests"
	FieldText   = "text"
)

// CancelCommand aborts the active flow.
const CancelCommand = "/cancel"

// User identifies who is talking to the bot.
type User struct {
	ID       int64
	ChatID   int64
	FullName string
	Username string
}

// BookingResult is a completed reservation request.
type BookingResult struct {
	Reference uuid.UUID
	Name      string
	Date      string
	Time      string
	Guests    string
	Customer  User
	CreatedAt time.Time
}

// FeedbackResult is a submitted review.
type FeedbackResult struct {
	Reference uuid.UUID
	Customer  User
	Text      string
	CreatedAt time.Time
}

// Notifier delivers completed flows to the operator. It is called once per
// completed flow; errors are logged by the engine and never reach the user.
type Notifier interface {
	NotifyBooking(ctx context.Context, r BookingResult) error
	NotifyFeedback(ctx context.Context, r FeedbackResult) error
}

// Observer receives flow lifecycle events, typically for metrics.
type Observer interface {
	FlowStarted(flow Flow)
	FlowCompleted(flow Flow)
	FlowCancelled(flow Flow)
	NotifyResult(flow Flow, err error)
}

type nopObserver struct{}

func (nopObserver) FlowStarted(Flow)         {}
func (nopObserver) FlowCompleted(Flow)       {}
func (nopObserver) FlowCancelled(Flow)       {}
func (nopObserver) NotifyResult(Flow, error) {}

// FlowOf returns the flow a state belongs to; ok is false for idle or unknown states.
func FlowOf(state session.State) (Flow, bool) {
	st, ok := steps[state]
	if !ok {
		return "", false
	}
	return st.flow, true
}
