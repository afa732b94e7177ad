package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/m3rciful/cafebot/core/logger"
	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "cafebot:session:"

// RedisOptions configures RedisStore.
type RedisOptions struct {
	// Prefix is prepended to the user id to build the key.
	Prefix string
	// TTL expires untouched sessions; zero keeps them until cleared.
	TTL time.Duration
}

// RedisStore keeps sessions as JSON documents in redis, one key per user.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps an existing redis client.
func NewRedisStore(client redis.UniversalClient, opts RedisOptions) *RedisStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: opts.TTL}
}

func (r *RedisStore) key(userID int64) string {
	return r.prefix + strconv.FormatInt(userID, 10)
}

// Load fetches the session; a missing key yields an idle session.
func (r *RedisStore) Load(ctx context.Context, userID int64) (Session, error) {
	raw, err := r.client.Get(ctx, r.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Idle(userID), nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("session: redis get: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		logger.Session.Warn("corrupt session dropped",
			slog.String("event", "session.decode"),
			slog.String("backend", "redis"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return Idle(userID), nil
	}
	s.UserID = userID
	return s, nil
}

// Save writes the session, or deletes it when it is idle.
func (r *RedisStore) Save(ctx context.Context, s Session) error {
	if !s.Active() {
		return r.Clear(ctx, s.UserID)
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := r.client.Set(ctx, r.key(s.UserID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}

// Clear deletes the session key.
func (r *RedisStore) Clear(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}

// RedisConfig mirrors the connection fields of the core configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// NewRedisClient dials redis and verifies the connection with PING.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	start := time.Now()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		logger.Session.Error("redis ping failed",
			slog.String("event", "session.redis.connect"),
			slog.String("host", cfg.Addr),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("session: redis ping: %w", err)
	}
	logger.Session.Info("redis connected",
		slog.String("event", "session.redis.connect"),
		slog.String("host", cfg.Addr),
		slog.Int("db", cfg.DB),
		slog.Duration("duration", logger.Took(start)),
	)
	return client, nil
}
