package router

import (
	"errors"
	"testing"

	tg "github.com/m3rciful/cafebot/core/telegram"
	"github.com/m3rciful/cafebot/core/telegram/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

// fakeContext implements the parts of tele.Context the routes touch.
type fakeContext struct {
	tele.Context
	update    tele.Update
	store     map[string]any
	responded int
}

func newCallbackContext(data string) *fakeContext {
	user := &tele.User{ID: 7}
	return &fakeContext{
		update: tele.Update{ID: 1, Callback: &tele.Callback{Sender: user, Data: data}},
		store:  map[string]any{},
	}
}

func newTextContext(text string) *fakeContext {
	user := &tele.User{ID: 7}
	return &fakeContext{
		update: tele.Update{ID: 2, Message: &tele.Message{Sender: user, Chat: &tele.Chat{ID: 7}, Text: text}},
		store:  map[string]any{},
	}
}

func (f *fakeContext) Update() tele.Update { return f.update }
func (f *fakeContext) Callback() *tele.Callback {
	return f.update.Callback
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
	if f.update.Message != nil {
		return f.update.Message.Chat
	}
	return nil
}
func (f *fakeContext) Get(key string) any    { return f.store[key] }
func (f *fakeContext) Set(key string, v any) { f.store[key] = v }
func (f *fakeContext) Respond(...*tele.CallbackResponse) error {
	f.responded++
	return nil
}

type stubConversation struct {
	consume bool
	err     error
	seen    []string
}

func (s *stubConversation) HandleText(c tele.Context) (bool, error) {
	s.seen = append(s.seen, c.Text())
	return s.consume, s.err
}

func TestCallbackRouteDispatchesRawKeys(t *testing.T) {
	var got []string
	reg := tg.NewRegistry()
	require.NoError(t, reg.RegisterCallback("menu", func(tele.Context) error {
		got = append(got, "menu")
		return nil
	}))
	require.NoError(t, reg.RegisterCallbackPrefix("cat_", func(c tele.Context) error {
		got = append(got, c.Callback().Data)
		return nil
	}))
	route := CallbackRoute(reg)
	assert.Equal(t, tele.OnCallback, route.Endpoint)

	for _, data := range []string{"menu", "cat_Напитки", "nope"} {
		c := newCallbackContext(data)
		require.NoError(t, route.Handler(c))
		assert.Equal(t, 1, c.responded, "callback %q must be acknowledged", data)
	}
	assert.Equal(t, []string{"menu", "cat_Напитки"}, got)
}

func TestCallbackRouteUsesNotFoundHandler(t *testing.T) {
	reg := tg.NewRegistry()
	var fallback int
	reg.SetCallbackNotFound(func(tele.Context) error {
		fallback++
		return nil
	})
	require.NoError(t, CallbackRoute(reg).Handler(newCallbackContext("stale")))
	assert.Equal(t, 1, fallback)
}

func TestTextRouteConversationFirst(t *testing.T) {
	conv := &stubConversation{consume: true}
	reg := tg.NewRegistry()
	var fb int
	reg.SetTextFallback(func(tele.Context) error {
		fb++
		return nil
	})
	route := TextRoute(conv, reg)

	require.NoError(t, route.Handler(newTextContext("Alice")))
	assert.Equal(t, []string{"Alice"}, conv.seen)
	assert.Zero(t, fb)

	conv.consume = false
	require.NoError(t, route.Handler(newTextContext("hello")))
	assert.Equal(t, 1, fb)
}

func TestTextRouteFallsBackToCommands(t *testing.T) {
	reg := tg.NewRegistry()
	var started int
	reg.RegisterCommand("/start", commands.Command{Description: "menu", Handler: func(tele.Context) error {
		started++
		return nil
	}})
	route := TextRoute(&stubConversation{}, reg)

	require.NoError(t, route.Handler(newTextContext("/START@cafe_bot")))
	assert.Zero(t, started, "lookup is case sensitive")
	require.NoError(t, route.Handler(newTextContext("/start@cafe_bot")))
	assert.Equal(t, 1, started)
	require.NoError(t, route.Handler(newTextContext("start")))
	assert.Equal(t, 1, started, "plain words are not commands")
}

func TestTextRouteReturnsConversationError(t *testing.T) {
	boom := errors.New("store down")
	route := TextRoute(&stubConversation{err: boom}, nil)
	assert.ErrorIs(t, route.Handler(newTextContext("Alice")), boom)
}

func TestTextRouteIgnoresUnknownText(t *testing.T) {
	route := TextRoute(nil, nil)
	assert.NoError(t, route.Handler(newTextContext("anything")))
}

func TestHandlerName(t *testing.T) {
	assert.Equal(t, "command.start", handlerName("command", "/Start"))
	assert.Equal(t, "callback.unknown", handlerName("callback", " "))
	assert.Equal(t, "cat_", routeLabel("cat_Напитки"))
	assert.Equal(t, "menu", routeLabel("menu"))
}
