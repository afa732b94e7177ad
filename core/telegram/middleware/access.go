package middleware

import (
	"log/slog"

	"github.com/m3rciful/cafebot/core/logger"
	tghelpers "github.com/m3rciful/cafebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	AdminID  int64
	OnReject tele.HandlerFunc
}

// WithAdminCheck wraps handler so that only the configured admin may run it.
// A zero AdminID rejects everyone: admin-only commands stay closed until configured.
func WithAdminCheck(opts AdminOptions, handler tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if sender := c.Sender(); sender != nil && opts.AdminID != 0 && sender.ID == opts.AdminID {
			return handler(c)
		}
		var uid int64
		if sender := c.Sender(); sender != nil {
			uid = sender.ID
		}
		logger.Warn(tghelpers.BuildContext(c), "tg", "access.denied",
			slog.Int64("user_id", uid),
			slog.String("outcome", "denied"),
		)
		if opts.OnReject != nil {
			return opts.OnReject(c)
		}
		return nil
	}
}
