// Package commands describes slash commands kept in the registry.
package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command is a slash command. Aliases may be written with or without the leading slash.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	// AdminOnly commands run only for telegram.admin_id.
	AdminOnly bool
	// Hidden commands are routed but left out of the Telegram command menu.
	Hidden  bool
	Aliases []string
}

// Listed reports whether the command belongs in the public command menu.
func (c Command) Listed() bool {
	return !c.Hidden && !c.AdminOnly
}
