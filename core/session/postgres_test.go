package session

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresStore(sqlx.NewDb(db, "postgres")), mock
}

func TestPostgresStoreLoad(t *testing.T) {
	store, mock := newMockStore(t)
	rows := sqlmock.NewRows([]string{"user_id", "state", "fields"}).
		AddRow(int64(42), "booking.date", []byte(`[{"name":"name","value":"Alice"}]`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, state, fields FROM conversation_sessions")).
		WithArgs(int64(42)).
		WillReturnRows(rows)

	s, err := store.Load(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, State("booking.date"), s.State)
	assert.Equal(t, []Field{{Name: "name", Value: "Alice"}}, s.Fields)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoadMissing(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM conversation_sessions")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "state", "fields"}))

	s, err := store.Load(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, Idle(5), s)
}

func TestPostgresStoreSaveAndClear(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO conversation_sessions")).
		WithArgs(int64(9), "feedback.text", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM conversation_sessions")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, Session{UserID: 9, State: "feedback.text"}))
	require.NoError(t, store.Save(ctx, Idle(9)))
	require.NoError(t, mock.ExpectationsWereMet())
}
