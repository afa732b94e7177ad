// Package rendertest provides a recording render.Canvas for tests.
package rendertest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/m3rciful/cafebot/internal/render"
)

// Op kinds recorded by Canvas.
const (
	OpSend   = "send"
	OpEdit   = "edit"
	OpPhoto  = "photo"
	OpDelete = "delete"
)

// Op is one recorded canvas call.
type Op struct {
	Kind  string
	View  render.View
	Photo string
}

// String renders the op on one line, stable across runs.
func (o Op) String() string {
	var ids []string
	for _, a := range o.View.Actions {
		ids = append(ids, a.Label+"="+a.ID)
	}
	return fmt.Sprintf("%s photo=%q md=%t text=%q actions=[%s]", o.Kind, o.Photo, o.View.Markdown, o.View.Text, strings.Join(ids, ","))
}

// Canvas records every call. The Fail* fields make the matching call fail.
type Canvas struct {
	mu  sync.Mutex
	ops []Op

	FailEdit  error
	FailPhoto error
	FailSend  error
}

// Send records a text message.
func (c *Canvas) Send(_ context.Context, v render.View) error {
	return c.record(Op{Kind: OpSend, View: v}, c.FailSend)
}

// Edit records an edit of the current message.
func (c *Canvas) Edit(_ context.Context, v render.View) error {
	return c.record(Op{Kind: OpEdit, View: v}, c.FailEdit)
}

// SendPhoto records a photo with caption.
func (c *Canvas) SendPhoto(_ context.Context, photo, caption string) error {
	return c.record(Op{Kind: OpPhoto, Photo: photo, View: render.View{Text: caption}}, c.FailPhoto)
}

// Delete records removal of the current message.
func (c *Canvas) Delete(context.Context) error {
	return c.record(Op{Kind: OpDelete}, nil)
}

func (c *Canvas) record(op Op, fail error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fail != nil {
		return fail
	}
	c.ops = append(c.ops, op)
	return nil
}

// Ops returns the successful calls in order.
func (c *Canvas) Ops() []Op {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Op(nil), c.ops...)
}

// Texts returns the text of every recorded message in order.
func (c *Canvas) Texts() []string {
	var out []string
	for _, op := range c.Ops() {
		if op.Kind != OpDelete {
			out = append(out, op.View.Text)
		}
	}
	return out
}

// Last returns the last recorded op; ok is false when nothing was recorded.
func (c *Canvas) Last() (Op, bool) {
	ops := c.Ops()
	if len(ops) == 0 {
		return Op{}, false
	}
	return ops[len(ops)-1], true
}

// Transcript joins all ops, one per line.
func (c *Canvas) Transcript() string {
	var b strings.Builder
	for _, op := range c.Ops() {
		b.WriteString(op.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Reset forgets recorded ops.
func (c *Canvas) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = nil
}
