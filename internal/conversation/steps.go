package conversation

import (
	"github.com/m3rciful/cafebot/core/session"
	"github.com/m3rciful/cafebot/internal/render"
)

// step handles the text reply expected in one state. The reply is stored in
// field; then either the session moves to next and prompt is shown, or the
// flow completes.
type step struct {
	flow     Flow
	field    string
	next     session.State
	prompt   func(p *render.Presenter, s session.Session) render.View
	complete bool
}

var steps = map[session.State]step{
	StateBookingName: {
		flow: FlowBooking, field: FieldName, next: StateBookingDate,
		prompt: func(p *render.Presenter, s session.Session) render.View {
			name, _ := s.Value(FieldName)
			return p.BookingDate(name)
		},
	},
	StateBookingDate: {
		flow: FlowBooking, field: FieldDate, next: StateBookingTime,
		prompt: func(p *render.Presenter, _ session.Session) render.View { return p.BookingTime() },
	},
	StateBookingTime: {
		flow: FlowBooking, field: FieldTime, next: StateBookingGuests,
		prompt: func(p *render.Presenter, _ session.Session) render.View { return p.BookingGuests() },
	},
	StateBookingGuests: {flow: FlowBooking, field: FieldGuests, complete: true},
	StateFeedbackText:  {flow: FlowFeedback, field: FieldText, complete: true},
}

// entries maps each flow to its first state and opening prompt.
var entries = map[Flow]struct {
	state  session.State
	prompt func(p *render.Presenter) render.View
}{
	FlowBooking:  {state: StateBookingName, prompt: (*render.Presenter).BookingName},
	FlowFeedback: {state: StateFeedbackText, prompt: (*render.Presenter).FeedbackPrompt},
}
