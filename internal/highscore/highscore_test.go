package highscore

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/playperu/mapguess/internal/database"
	"github.com/playperu/mapguess/internal/migrations"
)

func newSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	db, d, err := database.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db, d))
	return NewSQLStore(db, d)
}

func newCache(t *testing.T) (*miniredis.Miniredis, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, NewCache(rdb, time.Minute)
}

func TestSQLStoreTop(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, r := range []Record{
		{Name: "old", Score: 990, CreatedAt: now.Add(-40 * 24 * time.Hour)},
		{Name: "anna", Score: 640, CreatedAt: now.Add(-2 * time.Hour)},
		{Name: "bram", Score: 820, CreatedAt: now.Add(-1 * time.Hour)},
		{Name: "cees", Score: 640, CreatedAt: now.Add(-3 * time.Hour)},
		{Name: "dirk", Score: 120, CreatedAt: now},
	} {
		require.NoError(t, s.Submit(ctx, r))
	}

	top, err := s.Top(ctx, 3, now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, top, 3)

	names := []string{top[0].Name, top[1].Name, top[2].Name}
	require.Equal(t, []string{"bram", "cees", "anna"}, names)
	require.True(t, top[0].CreatedAt.Equal(now.Add(-1*time.Hour)))
}

func TestSQLStoreTopEmpty(t *testing.T) {
	top, err := newSQLStore(t).Top(context.Background(), 5, time.Time{})
	require.NoError(t, err)
	require.Empty(t, top)
}

func TestRebind(t *testing.T) {
	pg := &SQLStore{dialect: database.Postgres}
	require.Equal(t, "a = $1 AND b = $2", pg.rebind("a = ? AND b = ?"))

	lite := &SQLStore{dialect: database.SQLite}
	require.Equal(t, "a = ? AND b = ?", lite.rebind("a = ? AND b = ?"))
}

func TestQualifies(t *testing.T) {
	full := []Record{{Score: 500}, {Score: 400}, {Score: 300}}

	require.True(t, Qualifies(0, nil, 5), "empty board")
	require.True(t, Qualifies(100, full, 5), "board not full")
	require.True(t, Qualifies(301, full, 3), "beats the lowest")
	require.False(t, Qualifies(300, full, 3), "ties the lowest")
}

func TestValidateName(t *testing.T) {
	name, err := ValidateName("  Anna   de  Vries ")
	require.NoError(t, err)
	require.Equal(t, "Anna de Vries", name)

	_, err = ValidateName("   ")
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = ValidateName(strings.Repeat("x", MaxNameLength+1))
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestBoardSubmitAndTop(t *testing.T) {
	ctx := context.Background()
	b := NewBoard(newSQLStore(t), nil, 2, 30*24*time.Hour, slog.Default())

	_, err := b.Submit(ctx, "anna", 450)
	require.NoError(t, err)
	_, err = b.Submit(ctx, "bram", 700)
	require.NoError(t, err)

	top, err := b.Top(ctx)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, "bram", top[0].Name)

	ok, err := b.Qualifies(ctx, 450)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = b.Qualifies(ctx, 451)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = b.Submit(ctx, "", 10)
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestBoardWindow(t *testing.T) {
	ctx := context.Background()
	b := NewBoard(newSQLStore(t), nil, 5, 24*time.Hour, slog.Default())

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now.Add(-48 * time.Hour) }
	_, err := b.Submit(ctx, "stale", 900)
	require.NoError(t, err)

	b.now = func() time.Time { return now }
	_, err = b.Submit(ctx, "fresh", 100)
	require.NoError(t, err)

	top, err := b.Top(ctx)
	require.NoError(t, err)
	require.Len(t, top, 1)
	require.Equal(t, "fresh", top[0].Name)
}

func TestBoardCache(t *testing.T) {
	ctx := context.Background()
	mr, cache := newCache(t)
	b := NewBoard(newSQLStore(t), cache, 5, 24*time.Hour, slog.Default())

	_, err := b.Submit(ctx, "anna", 300)
	require.NoError(t, err)

	top, err := b.Top(ctx)
	require.NoError(t, err)
	require.Len(t, top, 1)
	require.True(t, mr.Exists(cacheKey), "top list cached")

	_, err = b.Submit(ctx, "bram", 500)
	require.NoError(t, err)
	require.False(t, mr.Exists(cacheKey), "cache invalidated on submit")

	top, err = b.Top(ctx)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, "bram", top[0].Name)
}

func TestBoardCacheDownFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	mr, cache := newCache(t)
	b := NewBoard(newSQLStore(t), cache, 5, 24*time.Hour, slog.Default())

	mr.Close()

	_, err := b.Submit(ctx, "anna", 300)
	require.NoError(t, err)

	top, err := b.Top(ctx)
	require.NoError(t, err)
	require.Len(t, top, 1)
}

func TestCacheServesStoredList(t *testing.T) {
	ctx := context.Background()
	_, cache := newCache(t)

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	want := []Record{{Name: "anna", Score: 300, CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}}
	require.NoError(t, cache.Set(ctx, want))

	got, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)
}
