package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/m3rciful/cafebot/core/logger"
	tghelpers "github.com/m3rciful/cafebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// ErrHandlerPanic wraps the value recovered from a panicking handler.
var ErrHandlerPanic = errors.New("telegram: handler panic")

const maxStackBytes = 4096

// RecoverMiddleware converts a handler panic into ErrHandlerPanic so the
// poller keeps serving other updates.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			stack := debug.Stack()
			if len(stack) > maxStackBytes {
				stack = stack[:maxStackBytes]
			}
			logger.Error(tghelpers.BuildContext(c), "tg", "tg.panic",
				slog.String("kind", UpdateKind(c.Update())),
				slog.String("err", fmt.Sprint(r)),
				slog.String("stack", string(stack)),
			)
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}()
		return next(c)
	}
}
