// Package render turns cafe content and conversation steps into
// transport-neutral views and draws them on a Canvas.
package render

import "context"

// Action is one selectable control. ID is routed back as callback data.
type Action struct {
	Label string
	ID    string
}

// View is a single text message with optional actions, one per row.
type View struct {
	Text     string
	Actions  []Action
	Markdown bool
}

// Canvas is the chat a handler draws on. Edit and Delete act on the message
// the user interacted with.
type Canvas interface {
	Send(ctx context.Context, v View) error
	Edit(ctx context.Context, v View) error
	SendPhoto(ctx context.Context, photo, caption string) error
	Delete(ctx context.Context) error
}

// Replace edits the current message into v, sending v as a new message when
// the edit is impossible (no message to edit, photo message, too old).
func Replace(ctx context.Context, c Canvas, v View) error {
	if err := c.Edit(ctx, v); err != nil {
		return c.Send(ctx, v)
	}
	return nil
}
