package telegram

import (
	"strings"
	"time"

	coreconfig "github.com/m3rciful/cafebot/core/config"
	"github.com/m3rciful/cafebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// ChainOptions adjusts DefaultMiddlewares.
type ChainOptions struct {
	// OnLimited replies to throttled updates; nil drops them silently.
	OnLimited func(tele.Context) error
	// Observer receives per-update counts in addition to the in-process counters.
	Observer middleware.UpdateObserver
}

// DefaultMiddlewares builds the shared middleware chain:
// recover, optional rate limit, logger, update metrics.
func DefaultMiddlewares(cfg *coreconfig.Config, opts ChainOptions) []Middleware {
	mws := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}

	if cfg != nil {
		if interval := time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond; interval > 0 {
			ex := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
			for _, t := range cfg.RateLimit.ExcludeUpdates {
				ex[strings.ToLower(t)] = struct{}{}
			}
			mws = append(mws, Middleware{
				Name: "rate_limit",
				Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
					Interval:  interval,
					Exclude:   ex,
					OnLimited: opts.OnLimited,
				}),
			})
		}
	}

	return append(mws,
		Middleware{Name: "logger", Use: middleware.LoggerMiddleware},
		Middleware{Name: "metrics", Use: middleware.UpdateMetricsMiddleware(opts.Observer)},
	)
}
