package router

import (
	"strings"

	tg "github.com/m3rciful/cafebot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// Conversation consumes free text that belongs to an active multi-step flow.
// HandleText reports false when the sender has no active flow or the text is
// not meant for it.
type Conversation interface {
	HandleText(c tele.Context) (bool, error)
}

// TextRoute returns the route for plain text. Active conversations see the
// text first, then registered commands typed as text, then the registry's
// text fallback. Anything left is ignored.
func TextRoute(conv Conversation, reg *tg.Registry) tg.Route {
	handler := func(c tele.Context) error {
		text := c.Text()

		if conv != nil {
			s := newSummary("conversation")
			consumed, err := conv.HandleText(c)
			if consumed || err != nil {
				s.log(c, err)
				return err
			}
		}

		if reg != nil && strings.HasPrefix(text, "/") {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil && !cmd.AdminOnly {
				return newSummary(handlerName("command", key)).run(c, func() error { return cmd.Handler(c) })
			}
		}
		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return newSummary("text.fallback").run(c, func() error { return fb(c) })
			}
		}

		newSummary("text.unknown").skip(c, "no_route")
		return nil
	}
	return tg.Route{Endpoint: tele.OnText, Handler: handler}
}
