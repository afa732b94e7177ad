package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresStore keeps sessions in the conversation_sessions table created by
// the migrations shipped with the bot.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type sessionRow struct {
	UserID int64  `db:"user_id"`
	State  string `db:"state"`
	Fields []byte `db:"fields"`
}

const (
	selectSessionSQL = `SELECT user_id, state, fields FROM conversation_sessions WHERE user_id = $1`
	upsertSessionSQL = `INSERT INTO conversation_sessions (user_id, state, fields, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (user_id) DO UPDATE SET state = EXCLUDED.state, fields = EXCLUDED.fields, updated_at = now()`
	deleteSessionSQL = `DELETE FROM conversation_sessions WHERE user_id = $1`
)

// Load reads the session row; no row yields an idle session.
func (p *PostgresStore) Load(ctx context.Context, userID int64) (Session, error) {
	var row sessionRow
	err := p.db.GetContext(ctx, &row, selectSessionSQL, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Idle(userID), nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("session: select: %w", err)
	}
	s := Session{UserID: row.UserID, State: State(row.State)}
	if len(row.Fields) > 0 {
		if err := json.Unmarshal(row.Fields, &s.Fields); err != nil {
			return Session{}, fmt.Errorf("session: decode fields: %w", err)
		}
	}
	return s, nil
}

// Save upserts the session, or deletes it when it is idle.
func (p *PostgresStore) Save(ctx context.Context, s Session) error {
	if !s.Active() {
		return p.Clear(ctx, s.UserID)
	}
	fields := s.Fields
	if fields == nil {
		fields = []Field{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("session: encode fields: %w", err)
	}
	if _, err := p.db.ExecContext(ctx, upsertSessionSQL, s.UserID, string(s.State), raw); err != nil {
		return fmt.Errorf("session: upsert: %w", err)
	}
	return nil
}

// Clear deletes the session row.
func (p *PostgresStore) Clear(ctx context.Context, userID int64) error {
	if _, err := p.db.ExecContext(ctx, deleteSessionSQL, userID); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}
