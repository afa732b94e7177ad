package bot

import (
	"errors"

	tele "gopkg.in/telebot.v4"
)

type sentMessage struct {
	op     string
	text   string
	markup *tele.ReplyMarkup
}

// fakeContext records what handlers draw into a chat.
type fakeContext struct {
	tele.Context
	update  tele.Update
	store   map[string]any
	sent    []sentMessage
	deleted int
	editErr error
}

func newFakeCallback(userID int64, data string) *fakeContext {
	user := &tele.User{ID: userID, FirstName: "Alice", Username: "alice"}
	msg := &tele.Message{ID: 10, Chat: &tele.Chat{ID: userID}}
	return &fakeContext{
		update: tele.Update{ID: 1, Callback: &tele.Callback{Sender: user, Data: data, Message: msg}},
		store:  map[string]any{},
	}
}

func newFakeText(userID int64, text string) *fakeContext {
	user := &tele.User{ID: userID, FirstName: "Alice", Username: "alice"}
	return &fakeContext{
		update: tele.Update{ID: 2, Message: &tele.Message{Sender: user, Chat: &tele.Chat{ID: userID}, Text: text}},
		store:  map[string]any{},
	}
}

func (f *fakeContext) Update() tele.Update      { return f.update }
func (f *fakeContext) Callback() *tele.Callback { return f.update.Callback }
func (f *fakeContext) Message() *tele.Message {
	if f.update.Callback != nil {
		return f.update.Callback.Message
	}
	return f.update.Message
}
func (f *fakeContext) Text() string {
	if f.update.Message != nil {
		return f.update.Message.Text
	}
	return ""
}
func (f *fakeContext) Sender() *tele.User {
	if f.update.Callback != nil {
		return f.update.Callback.Sender
	}
	return f.update.Message.Sender
}
func (f *fakeContext) Chat() *tele.Chat {
	if m := f.Message(); m != nil {
		return m.Chat
	}
	return nil
}
func (f *fakeContext) Get(key string) any    { return f.store[key] }
func (f *fakeContext) Set(key string, v any) { f.store[key] = v }
func (f *fakeContext) Respond(...*tele.CallbackResponse) error {
	return nil
}

func (f *fakeContext) record(op string, what any, opts []any) {
	m := sentMessage{op: op}
	switch v := what.(type) {
	case string:
		m.text = v
	case *tele.Photo:
		m.text = v.Caption
	}
	for _, o := range opts {
		if so, ok := o.(*tele.SendOptions); ok {
			m.markup = so.ReplyMarkup
		}
	}
	f.sent = append(f.sent, m)
}

func (f *fakeContext) Send(what any, opts ...any) error {
	op := "send"
	if _, ok := what.(*tele.Photo); ok {
		op = "photo"
	}
	f.record(op, what, opts)
	return nil
}

func (f *fakeContext) Edit(what any, opts ...any) error {
	if f.editErr != nil {
		return f.editErr
	}
	f.record("edit", what, opts)
	return nil
}

func (f *fakeContext) Delete() error {
	f.deleted++
	return nil
}

func (f *fakeContext) texts() []string {
	out := make([]string, len(f.sent))
	for i, m := range f.sent {
		out[i] = m.text
	}
	return out
}

var errEditFailed = errors.New("message can't be edited")
