package bot

import (
	"strings"

	"github.com/m3rciful/cafebot/internal/conversation"

	tele "gopkg.in/telebot.v4"
)

func userFrom(c tele.Context) conversation.User {
	var u conversation.User
	if s := c.Sender(); s != nil {
		u.ID = s.ID
		u.Username = s.Username
		u.FullName = strings.TrimSpace(s.FirstName + " " + s.LastName)
	}
	if chat := c.Chat(); chat != nil {
		u.ChatID = chat.ID
	} else {
		u.ChatID = u.ID
	}
	return u
}
