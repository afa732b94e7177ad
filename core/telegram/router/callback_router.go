package router

import (
	"log/slog"
	"strings"

	tg "github.com/m3rciful/cafebot/core/telegram"
	tghelpers "github.com/m3rciful/cafebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// CallbackRoute returns the route that dispatches every callback through reg.
// The callback is always acknowledged; unknown keys go to the registry's
// not-found handler or are dropped when none is set.
func CallbackRoute(reg *tg.Registry) tg.Route {
	handler := func(c tele.Context) error {
		cb := c.Callback()
		if cb == nil || reg == nil {
			return nil
		}
		key := tghelpers.CallbackKey(cb)
		_ = c.Respond()

		s := newSummary(handlerName("callback", routeLabel(key)), slog.String("cb_key", key))
		h, ok := reg.GetCallback(key)
		if !ok {
			h = reg.CallbackNotFound()
		}
		if h == nil {
			s.skip(c, "not_found")
			return nil
		}
		return s.run(c, func() error { return h(c) })
	}
	return tg.Route{Endpoint: tele.OnCallback, Handler: handler}
}

// routeLabel keeps handler names bounded: prefixed keys such as "cat_Напитки"
// are reported under their prefix.
func routeLabel(key string) string {
	if i := strings.IndexByte(key, '_'); i > 0 {
		return key[:i+1]
	}
	return key
}
