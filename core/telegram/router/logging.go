package router

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/m3rciful/cafebot/core/logger"
	tghelpers "github.com/m3rciful/cafebot/core/telegram/helpers"
	"github.com/m3rciful/cafebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

const (
	statusOK   = "ok"
	statusFail = "fail"
	statusSkip = "skip"

	outcomeIgnored = "ignored"
)

// summary describes one routed update for the handler.handled log line.
type summary struct {
	name    string
	start   time.Time
	status  string
	outcome string
	extras  []slog.Attr
}

func newSummary(name string, extras ...slog.Attr) *summary {
	return &summary{name: name, start: time.Now(), extras: extras}
}

// run executes fn under the summary's handler name and logs the result.
func (s *summary) run(c tele.Context, fn func() error) error {
	tghelpers.WithHandler(c, s.name)
	err := fn()
	s.log(c, err)
	return err
}

// skip logs an update that no handler consumed.
func (s *summary) skip(c tele.Context, reason string) {
	s.status = statusSkip
	s.outcome = outcomeIgnored
	s.extras = append(s.extras, slog.String("reason", reason))
	s.log(c, nil)
}

func (s *summary) log(c tele.Context, err error) {
	ctx := tghelpers.WithHandler(c, s.name)
	msgs, kb := middleware.GetCounters(c)

	status, outcome := s.status, s.outcome
	if status == "" {
		status = statusOK
		if err != nil {
			status = statusFail
		}
	}
	if outcome == "" {
		outcome = status
	}

	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("outcome", outcome),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Duration("duration", time.Since(s.start)),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", errorCode(err)),
		)
	}
	attrs = append(attrs, s.extras...)

	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelError
	}
	logger.LogEvent(ctx, logger.TG, level, "handler.handled", attrs...)
}

func handlerName(kind, key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.TrimPrefix(key, "/")
	key = strings.ReplaceAll(key, " ", "_")
	if key == "" {
		key = "unknown"
	}
	return kind + "." + key
}

// errorCode names the innermost error type, e.g. "ERROR" for *tele.Error.
func errorCode(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return "UNKNOWN_ERROR"
	}
	return strings.ToUpper(t.Name())
}
