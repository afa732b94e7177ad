package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/m3rciful/cafebot/core/logger"
	"github.com/m3rciful/cafebot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by SendAsync. nil unwires it.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

// Dispatcher returns the wired asynchronous sender, nil when none is set.
func Dispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

// SendAsync queues a reply to the current chat and returns without waiting
// for delivery. Without a dispatcher, or when its queue is full or closed,
// the reply is sent inline. Replies whose order matters must use c.Send.
func SendAsync(c tele.Context, action, text string, opts ...any) error {
	run := func() error { return c.Send(text, opts...) }
	disp := Dispatcher()
	if disp == nil {
		return run()
	}
	ctx := BuildContext(c)
	err := disp.Enqueue(ctx, action, "sendMessage", run)
	if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
		logger.Warn(ctx, "tg.sender", "queue.fallback",
			slog.String("action", action),
			slog.String("err", err.Error()),
		)
		return run()
	}
	return err
}
