package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	coreconfig "github.com/m3rciful/cafebot/core/config"
	coredatabase "github.com/m3rciful/cafebot/core/database"
	"github.com/m3rciful/cafebot/core/logger"
	"github.com/m3rciful/cafebot/core/session"
)

// Options control the generic bootstrap pipeline.
type Options struct {
	Config   *coreconfig.Config
	Database coredatabase.Config

	LoggerInit func(*coreconfig.Config) error
	Connect    func(coredatabase.Config) (*sqlx.DB, error)
	Migrate    func(coredatabase.Config) error
	DialRedis  func(context.Context, session.RedisConfig) (*redis.Client, error)
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	DB       *sqlx.DB
	Redis    *redis.Client
	Sessions session.Store
}

// Close releases whatever connections the selected session backend opened.
func (r *Result) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.Redis != nil {
		errs = append(errs, r.Redis.Close())
	}
	if r.DB != nil {
		errs = append(errs, r.DB.Close())
	}
	return errors.Join(errs...)
}

// Ping checks the connection of the selected session backend.
func (r *Result) Ping(ctx context.Context) error {
	switch {
	case r == nil:
		return nil
	case r.Redis != nil:
		return r.Redis.Ping(ctx).Err()
	case r.DB != nil:
		return r.DB.PingContext(ctx)
	}
	return nil
}

// Run initializes the logger and the session store selected by session.backend.
// Postgres is connected and migrated only when it backs the sessions.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}
	cfg := opts.Config

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(cfg); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	switch cfg.Session.Backend {
	case coreconfig.SessionBackendRedis:
		dial := opts.DialRedis
		if dial == nil {
			dial = session.NewRedisClient
		}
		client, err := dial(context.Background(), session.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return nil, fmt.Errorf("bootstrap: redis initialization failed: %w", err)
		}
		store := session.NewRedisStore(client, session.RedisOptions{
			TTL: time.Duration(cfg.Session.TTLSeconds) * time.Second,
		})
		return &Result{Redis: client, Sessions: store}, nil

	case coreconfig.SessionBackendPostgres:
		connect := opts.Connect
		if connect == nil {
			connect = coredatabase.Connect
		}
		db, err := connect(opts.Database)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
		}
		migrate := opts.Migrate
		if migrate == nil {
			migrate = coredatabase.RunMigrations
		}
		if err := migrate(opts.Database); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
		}
		return &Result{DB: db, Sessions: session.NewPostgresStore(db)}, nil

	default:
		return &Result{Sessions: session.NewMemoryStore()}, nil
	}
}
