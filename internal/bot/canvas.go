package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/m3rciful/cafebot/core/telegram/keyboard"
	"github.com/m3rciful/cafebot/internal/render"

	tele "gopkg.in/telebot.v4"
)

var errNoMessage = errors.New("bot: update has no message to modify")

// canvas draws views into the chat of a Telegram update.
type canvas struct {
	c tele.Context
}

var _ render.Canvas = canvas{}

func newCanvas(c tele.Context) canvas {
	return canvas{c: c}
}

func sendOptions(v render.View) *tele.SendOptions {
	opts := &tele.SendOptions{}
	if v.Markdown {
		opts.ParseMode = tele.ModeMarkdown
	}
	if len(v.Actions) > 0 {
		buttons := make([]keyboard.Button, len(v.Actions))
		for i, a := range v.Actions {
			buttons[i] = keyboard.Button{Text: a.Label, Data: a.ID}
		}
		opts.ReplyMarkup = keyboard.Inline(buttons)
	}
	return opts
}

func (cv canvas) Send(_ context.Context, v render.View) error {
	return cv.c.Send(v.Text, sendOptions(v))
}

// Edit changes the message whose button was pressed.
func (cv canvas) Edit(_ context.Context, v render.View) error {
	if cv.c.Callback() == nil {
		return errNoMessage
	}
	return cv.c.Edit(v.Text, sendOptions(v))
}

func (cv canvas) SendPhoto(_ context.Context, photo, caption string) error {
	return cv.c.Send(&tele.Photo{File: photoFile(photo), Caption: caption})
}

func (cv canvas) Delete(context.Context) error {
	if cv.c.Callback() == nil {
		return errNoMessage
	}
	return cv.c.Delete()
}

// photoFile treats http(s) references as URLs and anything else as a Telegram file id.
func photoFile(ref string) tele.File {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return tele.FromURL(ref)
	}
	return tele.File{FileID: ref}
}
