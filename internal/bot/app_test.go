package bot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/cafebot/core/bootstrap"
	coreconfig "github.com/m3rciful/cafebot/core/config"
	"github.com/m3rciful/cafebot/core/session"
	tg "github.com/m3rciful/cafebot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testContent), 0o600))
	return &Config{
		Config: coreconfig.Config{
			Telegram: coreconfig.TelegramConfig{Token: "test", AdminID: 1, OperatorChatID: -100, RunMode: coreconfig.RunModeLongpoll},
			Session:  coreconfig.SessionConfig{Backend: coreconfig.SessionBackendMemory},
		},
		Content: ContentConfig{Path: path},
	}
}

func testDeps() deps {
	return deps{
		bootstrap: func(bootstrap.Options) (*bootstrap.Result, error) {
			return &bootstrap.Result{Sessions: session.NewMemoryStore()}, nil
		},
		newBot: func(*Config) (*tele.Bot, error) {
			return tele.NewBot(tele.Settings{Token: "test", Offline: true})
		},
	}
}

func TestBuildWiresApp(t *testing.T) {
	app, err := build(testConfig(t), testDeps())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	opts, err := app.TelegramRunOptions()
	require.NoError(t, err)
	assert.Same(t, app.bot, opts.Bot)
	assert.Same(t, app.dispatcher, opts.Dispatcher)
	assert.Same(t, app.registry, opts.Registry)
	assert.NotEmpty(t, opts.Middlewares)

	// three commands, the /help alias, callbacks and text
	require.Len(t, opts.Routes, 6)
	endpoints := map[any]bool{}
	for _, r := range opts.Routes {
		endpoints[r.Endpoint] = true
	}
	for _, e := range []any{"/start", "/help", "/cancel", "/version", tele.OnCallback, tele.OnText} {
		assert.True(t, endpoints[e], "missing route %v", e)
	}

	// no metrics listener configured
	require.NoError(t, opts.OnStart(context.Background(), tg.Runtime{}))
	require.NoError(t, opts.OnStop(context.Background(), tg.Runtime{}))
}

func TestBuildFailsOnMissingContent(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content.Path = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := build(cfg, testDeps())
	require.Error(t, err)
}

func TestBuildPropagatesBootstrapError(t *testing.T) {
	d := testDeps()
	d.bootstrap = func(bootstrap.Options) (*bootstrap.Result, error) {
		return nil, errors.New("redis down")
	}
	_, err := build(testConfig(t), d)
	require.EqualError(t, err, "redis down")
}

func TestBuildRejectsNilConfig(t *testing.T) {
	_, err := build(nil, testDeps())
	require.Error(t, err)
}

func TestMetricsServerLifecycle(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics.Listen = "127.0.0.1:0"
	app, err := build(cfg, testDeps())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	require.NotNil(t, app.server)

	opts, err := app.TelegramRunOptions()
	require.NoError(t, err)

	require.NoError(t, opts.OnStart(context.Background(), tg.Runtime{}))

	rec := httptest.NewRecorder()
	app.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")

	rec = httptest.NewRecorder()
	app.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, opts.OnStop(context.Background(), tg.Runtime{}))
}
