package bot

import (
	"fmt"

	"github.com/m3rciful/cafebot/core/buildinfo"
	tg "github.com/m3rciful/cafebot/core/telegram"
	"github.com/m3rciful/cafebot/core/telegram/commands"
	tghelpers "github.com/m3rciful/cafebot/core/telegram/helpers"
	"github.com/m3rciful/cafebot/internal/conversation"
	"github.com/m3rciful/cafebot/internal/render"

	tele "gopkg.in/telebot.v4"
)

// handlers binds Telegram updates to the presenter and the conversation engine.
type handlers struct {
	presenter *render.Presenter
	engine    *conversation.Engine
	// status renders the /version reply.
	status func() string
}

// register fills reg with the bot's commands and callbacks.
func (h *handlers) register(reg *tg.Registry) error {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.start,
		Description: "Главное меню",
		Aliases:     []string{"/help"},
	})
	reg.RegisterCommand(conversation.CancelCommand, commands.Command{
		Handler:     h.cancel,
		Description: "Отменить бронирование или отзыв",
	})
	reg.RegisterCommand("/version", commands.Command{
		Handler:     h.version,
		Description: "Версия бота",
		AdminOnly:   true,
		Hidden:      true,
	})

	screens := map[string]func() render.View{
		render.ActionMain:   h.presenter.MainMenu,
		render.ActionMenu:   h.presenter.Categories,
		render.ActionPromos: h.presenter.Promotions,
		render.ActionAbout:  h.presenter.About,
	}
	for id, view := range screens {
		if err := reg.RegisterCallback(id, h.screen(view)); err != nil {
			return err
		}
	}
	flows := map[string]conversation.Flow{
		render.ActionBooking:  conversation.FlowBooking,
		render.ActionFeedback: conversation.FlowFeedback,
	}
	for id, flow := range flows {
		if err := reg.RegisterCallback(id, h.begin(flow)); err != nil {
			return err
		}
	}
	return reg.RegisterCallbackPrefix(render.CategoryAction(""), h.category)
}

func (h *handlers) start(c tele.Context) error {
	return newCanvas(c).Send(tghelpers.BuildContext(c), h.presenter.MainMenu())
}

func (h *handlers) cancel(c tele.Context) error {
	_, err := h.engine.Cancel(tghelpers.BuildContext(c), userFrom(c), newCanvas(c))
	return err
}

func (h *handlers) version(c tele.Context) error {
	text := "cafebot " + buildinfo.Summary()
	if h.status != nil {
		text = h.status()
	}
	return tghelpers.SendAsync(c, "reply.version", text)
}

func (h *handlers) screen(view func() render.View) tele.HandlerFunc {
	return func(c tele.Context) error {
		return render.Replace(tghelpers.BuildContext(c), newCanvas(c), view())
	}
}

func (h *handlers) begin(flow conversation.Flow) tele.HandlerFunc {
	return func(c tele.Context) error {
		return h.engine.Begin(tghelpers.BuildContext(c), userFrom(c), flow, newCanvas(c))
	}
}

func (h *handlers) category(c tele.Context) error {
	name := render.CategoryFromAction(tghelpers.CallbackKey(c.Callback()))
	return h.presenter.RenderCategory(tghelpers.BuildContext(c), newCanvas(c), name)
}

// HandleText lets the conversation engine consume free text.
func (h *handlers) HandleText(c tele.Context) (bool, error) {
	return h.engine.HandleText(tghelpers.BuildContext(c), userFrom(c), c.Text(), newCanvas(c))
}

func statusText(backend string, errorCount func() uint64) func() string {
	return func() string {
		return fmt.Sprintf("cafebot %s\nsessions: %s\nsender errors: %d", buildinfo.Summary(), backend, errorCount())
	}
}
