package keyboard

import tele "gopkg.in/telebot.v4"

// Button is an inline button whose callback data is the raw routing key.
type Button struct {
	Text string
	Data string
}

// Inline builds an inline keyboard with one button per row.
// A nil markup is returned for an empty list so no keyboard is attached.
func Inline(buttons []Button) *tele.ReplyMarkup {
	if len(buttons) == 0 {
		return nil
	}
	rows := make([][]tele.InlineButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, []tele.InlineButton{{Text: b.Text, Data: b.Data}})
	}
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

// RemoveKeyboard returns a markup that hides the reply keyboard.
func RemoveKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}
