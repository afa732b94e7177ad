package middleware

import (
	tele "gopkg.in/telebot.v4"
)

const (
	ctxMessages = "messages"
	ctxKeyboard = "kb"
)

// UpdateObserver receives one call per processed update.
type UpdateObserver interface {
	ObserveUpdate(kind string, err error)
}

// countingContext counts successful outbound messages and keyboard usage of a handler.
type countingContext struct{ tele.Context }

func (m countingContext) count(err error, opts []interface{}) error {
	if err != nil {
		return err
	}
	n, _ := m.Get(ctxMessages).(int)
	m.Set(ctxMessages, n+1)
	if hasKeyboard(opts) {
		m.Set(ctxKeyboard, true)
	}
	return nil
}

func hasKeyboard(opts []interface{}) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

func (m countingContext) Send(what interface{}, opts ...interface{}) error {
	return m.count(m.Context.Send(what, opts...), opts)
}

func (m countingContext) Reply(what interface{}, opts ...interface{}) error {
	return m.count(m.Context.Reply(what, opts...), opts)
}

func (m countingContext) Edit(what interface{}, opts ...interface{}) error {
	return m.count(m.Context.Edit(what, opts...), opts)
}

func (m countingContext) EditOrSend(what interface{}, opts ...interface{}) error {
	return m.count(m.Context.EditOrSend(what, opts...), opts)
}

// UpdateMetricsMiddleware wraps the context with message counters and reports
// every update to obs when it is not nil.
func UpdateMetricsMiddleware(obs UpdateObserver) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(ctxMessages, 0)
			c.Set(ctxKeyboard, false)
			err := next(countingContext{Context: c})
			if obs != nil {
				obs.ObserveUpdate(UpdateKind(c.Update()), err)
			}
			return err
		}
	}
}

// GetCounters reads message count and keyboard presence flags from context.
func GetCounters(c tele.Context) (int, bool) {
	msgs, _ := c.Get(ctxMessages).(int)
	kb, _ := c.Get(ctxKeyboard).(bool)
	return msgs, kb
}
