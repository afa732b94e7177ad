package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLoadUnknownIsIdle(t *testing.T) {
	store := NewMemoryStore()
	s, err := store.Load(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), s.UserID)
	assert.False(t, s.Active())
	assert.Empty(t, s.Fields)
}

func TestMemoryStoreSaveClonesFields(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s := Session{UserID: 1, State: "booking.date"}
	s.Set("name", "Alice")
	require.NoError(t, store.Save(ctx, s))

	s.Set("name", "Mallory")
	loaded, err := store.Load(ctx, 1)
	require.NoError(t, err)
	v, ok := loaded.Value("name")
	require.True(t, ok)
	assert.Equal(t, "Alice", v)

	loaded.Fields[0].Value = "Eve"
	again, _ := store.Load(ctx, 1)
	v, _ = again.Value("name")
	assert.Equal(t, "Alice", v)
}

func TestMemoryStoreSaveIdleRemoves(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, Session{UserID: 3, State: "feedback.text"}))
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Save(ctx, Idle(3)))
	assert.Equal(t, 0, store.Len())
}

func TestSessionSetKeepsOrder(t *testing.T) {
	var s Session
	s.Set("name", "Alice")
	s.Set("date", "20.02.2026")
	s.Set("name", "Bob")
	assert.Equal(t, []Field{{"name", "Bob"}, {"date", "20.02.2026"}}, s.Fields)
}

func TestMemoryStoreConcurrentUsers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	var wg sync.WaitGroup
	for u := int64(1); u <= 20; u++ {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			s := Session{UserID: uid, State: "booking.name"}
			s.Set("owner", string(rune('a'+uid)))
			_ = store.Save(ctx, s)
		}(u)
	}
	wg.Wait()
	for u := int64(1); u <= 20; u++ {
		s, err := store.Load(ctx, u)
		require.NoError(t, err)
		v, _ := s.Value("owner")
		assert.Equal(t, string(rune('a'+u)), v)
	}
}
