// Package bot assembles the cafe bot: configuration, storage, content,
// conversation engine, notifier, metrics and Telegram routes.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/m3rciful/cafebot/core/bootstrap"
	"github.com/m3rciful/cafebot/core/logger"
	tg "github.com/m3rciful/cafebot/core/telegram"
	"github.com/m3rciful/cafebot/core/telegram/router"
	"github.com/m3rciful/cafebot/core/telegram/sender"
	"github.com/m3rciful/cafebot/internal/content"
	"github.com/m3rciful/cafebot/internal/conversation"
	"github.com/m3rciful/cafebot/internal/metrics"
	"github.com/m3rciful/cafebot/internal/notify"
	"github.com/m3rciful/cafebot/internal/render"

	tele "gopkg.in/telebot.v4"
)

// App is a fully wired cafe bot ready to run.
type App struct {
	cfg        *Config
	infra      *bootstrap.Result
	bot        *tele.Bot
	dispatcher *sender.Dispatcher
	registry   *tg.Registry
	handlers   *handlers
	metrics    *metrics.Metrics
	server     *metrics.Server
}

// deps are the seams used by tests.
type deps struct {
	bootstrap func(bootstrap.Options) (*bootstrap.Result, error)
	newBot    func(cfg *Config) (*tele.Bot, error)
}

// New wires the application from cfg.
func New(cfg *Config) (*App, error) {
	return build(cfg, deps{
		bootstrap: bootstrap.Run,
		newBot:    func(cfg *Config) (*tele.Bot, error) { return tg.NewBot(&cfg.Config) },
	})
}

func build(cfg *Config, d deps) (*App, error) {
	if cfg == nil {
		return nil, errors.New("bot: nil config")
	}
	infra, err := d.bootstrap(bootstrap.Options{Config: &cfg.Config, Database: cfg.Database})
	if err != nil {
		return nil, err
	}
	app, err := assemble(cfg, infra, d)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}
	return app, nil
}

func assemble(cfg *Config, infra *bootstrap.Result, d deps) (*App, error) {
	ctx := context.Background()
	store, err := content.Load(ctx, cfg.Content.Path)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	bot, err := d.newBot(cfg)
	if err != nil {
		return nil, err
	}
	dispatcher := sender.NewDispatcher(sender.Options{
		Workers:      cfg.Sender.Workers,
		QueueSize:    cfg.Sender.QueueSize,
		MaxRetries:   cfg.Sender.MaxRetries,
		RetryBackoff: time.Duration(cfg.Sender.RetryBackoffMS) * time.Millisecond,
		OnResult:     m.SendResult,
	})

	notifier, err := notify.New(notify.Options{
		ChatID:     cfg.Telegram.OperatorChatID,
		Sender:     bot,
		Dispatcher: dispatcher,
	})
	if err != nil {
		dispatcher.Close()
		return nil, err
	}
	presenter := render.NewPresenter(store)
	engine, err := conversation.NewEngine(conversation.Options{
		Store:     infra.Sessions,
		Notifier:  notifier,
		Presenter: presenter,
		Observer:  m,
	})
	if err != nil {
		dispatcher.Close()
		return nil, err
	}

	h := &handlers{
		presenter: presenter,
		engine:    engine,
		status:    statusText(cfg.Session.Backend, dispatcher.ErrorCount),
	}
	registry := tg.NewRegistry()
	if err := h.register(registry); err != nil {
		dispatcher.Close()
		return nil, fmt.Errorf("bot: register routes: %w", err)
	}

	app := &App{
		cfg:        cfg,
		infra:      infra,
		bot:        bot,
		dispatcher: dispatcher,
		registry:   registry,
		handlers:   h,
		metrics:    m,
	}
	if cfg.Metrics.Listen != "" {
		app.server = metrics.NewServer(cfg.Metrics.Listen, reg, infra.Ping)
	}
	logger.Info(ctx, "app", "app.wired",
		slog.String("backend", cfg.Session.Backend),
		slog.Int("categories", len(store.CategoryNames())),
		slog.Bool("metrics", app.server != nil),
	)
	return app, nil
}

// Routes returns every Telegram route of the bot.
func (a *App) Routes() []tg.Route {
	routes := router.CommandRoutes(a.registry, router.CommandRouteOptions{AdminID: a.cfg.Telegram.AdminID})
	return append(routes,
		router.CallbackRoute(a.registry),
		router.TextRoute(a.handlers, a.registry),
	)
}

// TelegramRunOptions describes how core/telegram runs this bot.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	return tg.RunOptions{
		Config:      &a.cfg.Config,
		Registry:    a.registry,
		Bot:         a.bot,
		Dispatcher:  a.dispatcher,
		Middlewares: tg.DefaultMiddlewares(&a.cfg.Config, tg.ChainOptions{Observer: a.metrics}),
		Routes:      a.Routes(),
		OnStart: func(context.Context, tg.Runtime) error {
			if a.server == nil {
				return nil
			}
			return a.server.Start()
		},
		OnStop: func(ctx context.Context, _ tg.Runtime) error {
			if a.server == nil {
				return nil
			}
			ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return a.server.Shutdown(ctx)
		},
	}, nil
}

// Close drains the sender and releases storage connections.
func (a *App) Close() error {
	a.dispatcher.Close()
	return a.infra.Close()
}
