package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/cafebot/core/logger"
	"github.com/m3rciful/cafebot/core/session"
	"github.com/m3rciful/cafebot/internal/render"
)

// ErrUnknownFlow is returned by Begin for a flow the engine does not know.
var ErrUnknownFlow = errors.New("conversation: unknown flow")

// Options configures an Engine. Store, Notifier and Presenter are required.
type Options struct {
	Store     session.Store
	Notifier  Notifier
	Presenter *render.Presenter
	Observer  Observer
	Now       func() time.Time
	NewID     func() uuid.UUID
}

// Engine advances per-user conversations. It is safe for concurrent use;
// all transitions of one user run one at a time.
type Engine struct {
	store     session.Store
	notifier  Notifier
	presenter *render.Presenter
	observer  Observer
	now       func() time.Time
	newID     func() uuid.UUID
	locks     *userLocks
}

// NewEngine validates opts and builds an Engine.
func NewEngine(opts Options) (*Engine, error) {
	switch {
	case opts.Store == nil:
		return nil, errors.New("conversation: session store is required")
	case opts.Notifier == nil:
		return nil, errors.New("conversation: notifier is required")
	case opts.Presenter == nil:
		return nil, errors.New("conversation: presenter is required")
	}
	e := &Engine{
		store:     opts.Store,
		notifier:  opts.Notifier,
		presenter: opts.Presenter,
		observer:  opts.Observer,
		now:       opts.Now,
		newID:     opts.NewID,
		locks:     newUserLocks(),
	}
	if e.observer == nil {
		e.observer = nopObserver{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.newID == nil {
		e.newID = uuid.New
	}
	return e, nil
}

// Begin starts flow for user and replaces the tapped message with the first
// prompt. A flow already in progress is discarded and started over.
func (e *Engine) Begin(ctx context.Context, user User, flow Flow, canvas render.Canvas) error {
	entry, ok := entries[flow]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFlow, flow)
	}
	defer e.locks.lock(user.ID)()

	current, err := e.load(ctx, user.ID)
	if err != nil {
		return err
	}
	if current.Active() {
		prev, _ := FlowOf(current.State)
		flowLog(ctx, flow, slog.LevelInfo, "flow.restart",
			slog.String("state", string(current.State)),
			slog.String("flow_prev", string(prev)),
		)
	}

	next := session.Session{UserID: user.ID, State: entry.state}
	if err := e.save(ctx, next); err != nil {
		return err
	}
	e.observer.FlowStarted(flow)
	flowLog(ctx, flow, slog.LevelInfo, "flow.started", slog.String("state", string(next.State)))
	return render.Replace(ctx, canvas, entry.prompt(e.presenter))
}

// HandleText feeds a text message to the user's active flow. It reports
// false, leaving the text to other handlers, when no flow is active or the
// text is a command other than /cancel.
func (e *Engine) HandleText(ctx context.Context, user User, text string, canvas render.Canvas) (bool, error) {
	defer e.locks.lock(user.ID)()

	s, err := e.load(ctx, user.ID)
	if err != nil {
		return false, err
	}
	if !s.Active() {
		return false, nil
	}
	if cmd, ok := command(text); ok {
		if cmd != CancelCommand {
			return false, nil
		}
		return true, e.cancel(ctx, s, canvas)
	}

	st, ok := steps[s.State]
	if !ok {
		logger.Warn(ctx, "conversation", "session.state.unknown", slog.String("state", string(s.State)))
		if err := e.clear(ctx, user.ID); err != nil {
			return false, err
		}
		return false, nil
	}

	s.Set(st.field, text)
	if st.complete {
		return true, e.complete(ctx, user, st.flow, s, canvas)
	}

	prev := s.State
	s.State = st.next
	if err := e.save(ctx, s); err != nil {
		return true, err
	}
	flowLog(ctx, st.flow, slog.LevelDebug, "flow.step",
		slog.String("state", string(s.State)),
		slog.String("state_prev", string(prev)),
	)
	return true, canvas.Send(ctx, st.prompt(e.presenter, s))
}

// Cancel aborts the user's active flow without notifying the operator.
// It reports false and does nothing when no flow is active.
func (e *Engine) Cancel(ctx context.Context, user User, canvas render.Canvas) (bool, error) {
	defer e.locks.lock(user.ID)()

	s, err := e.load(ctx, user.ID)
	if err != nil {
		return false, err
	}
	if !s.Active() {
		return false, nil
	}
	return true, e.cancel(ctx, s, canvas)
}

func (e *Engine) cancel(ctx context.Context, s session.Session, canvas render.Canvas) error {
	flow, _ := FlowOf(s.State)
	if err := e.clear(ctx, s.UserID); err != nil {
		return err
	}
	e.observer.FlowCancelled(flow)
	flowLog(ctx, flow, slog.LevelInfo, "flow.cancelled",
		slog.String("state", string(s.State)),
		slog.String("outcome", "cancelled"),
	)
	return canvas.Send(ctx, e.presenter.Cancelled())
}

// complete ends a flow. The session is cleared first so a repeated final
// message cannot complete the flow twice; the customer's confirmation is
// attempted before the operator is notified and its failure does not stop
// the notification.
func (e *Engine) complete(ctx context.Context, user User, flow Flow, s session.Session, canvas render.Canvas) error {
	if err := e.clear(ctx, user.ID); err != nil {
		return err
	}
	e.observer.FlowCompleted(flow)

	ref := e.newID()
	createdAt := e.now()

	var (
		view   render.View
		notify func() error
	)
	switch flow {
	case FlowBooking:
		r := BookingResult{Reference: ref, Customer: user, CreatedAt: createdAt}
		r.Name, _ = s.Value(FieldName)
		r.Date, _ = s.Value(FieldDate)
		r.Time, _ = s.Value(FieldTime)
		r.Guests, _ = s.Value(FieldGuests)
		view = e.presenter.BookingConfirmation(render.BookingSummary{Name: r.Name, Date: r.Date, Time: r.Time, Guests: r.Guests})
		notify = func() error { return e.notifier.NotifyBooking(ctx, r) }
		flowLog(ctx, flow, slog.LevelInfo, "booking.completed",
			slog.String("reference", ref.String()),
			slog.String("date", logger.SanitizeLimit(r.Date, 32)),
			slog.String("time", logger.SanitizeLimit(r.Time, 32)),
			slog.String("guests", logger.SanitizeLimit(r.Guests, 16)),
			slog.String("outcome", "ok"),
		)
	case FlowFeedback:
		r := FeedbackResult{Reference: ref, Customer: user, CreatedAt: createdAt}
		r.Text, _ = s.Value(FieldText)
		view = e.presenter.FeedbackThanks()
		notify = func() error { return e.notifier.NotifyFeedback(ctx, r) }
		flowLog(ctx, flow, slog.LevelInfo, "feedback.received",
			slog.String("reference", ref.String()),
			slog.String("full_name", logger.SanitizeLimit(user.FullName, 64)),
			slog.String("username", user.Username),
			slog.String("payload", logger.SanitizeLimit(r.Text, 512)),
			slog.String("outcome", "ok"),
		)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFlow, flow)
	}

	sendErr := canvas.Send(ctx, view)
	if sendErr != nil {
		flowLog(ctx, flow, slog.LevelWarn, "confirmation.fail",
			slog.String("reference", ref.String()),
			slog.String("err", logger.SanitizeLimit(sendErr.Error(), 256)),
		)
	}

	err := notify()
	e.observer.NotifyResult(flow, err)
	if err != nil {
		logger.Error(ctx, "notify", "notify.fail",
			slog.String("flow", string(flow)),
			slog.String("reference", ref.String()),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("outcome", "fail"),
		)
	}
	return sendErr
}

func (e *Engine) load(ctx context.Context, userID int64) (session.Session, error) {
	s, err := e.store.Load(ctx, userID)
	if err != nil {
		storeFailure(ctx, "load", err)
		return session.Session{}, fmt.Errorf("conversation: load session: %w", err)
	}
	return s, nil
}

func (e *Engine) save(ctx context.Context, s session.Session) error {
	if err := e.store.Save(ctx, s); err != nil {
		storeFailure(ctx, "save", err)
		return fmt.Errorf("conversation: save session: %w", err)
	}
	return nil
}

func (e *Engine) clear(ctx context.Context, userID int64) error {
	if err := e.store.Clear(ctx, userID); err != nil {
		storeFailure(ctx, "clear", err)
		return fmt.Errorf("conversation: clear session: %w", err)
	}
	return nil
}

func storeFailure(ctx context.Context, op string, err error) {
	logger.Error(ctx, "session", "session.store.fail",
		slog.String("op", op),
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
	)
}

func flowLog(ctx context.Context, flow Flow, level slog.Level, event string, attrs ...slog.Attr) {
	logg := logger.Booking
	if flow == FlowFeedback {
		logg = logger.Feedback
	}
	logger.LogEvent(ctx, logg, level, event, append(attrs, slog.String("flow", string(flow)))...)
}

// command returns the command word of text ("/cancel@cafe_bot now" -> "/cancel").
func command(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	word, _, _ := strings.Cut(text, " ")
	word, _, _ = strings.Cut(word, "@")
	return strings.ToLower(word), true
}
