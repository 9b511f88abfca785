// Package highscore keeps the leaderboard of finished games. It sits outside
// the round engine, which only hands it a final score.
package highscore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxNameLength = 32

var ErrInvalidName = errors.New("invalid player name")

type Record struct {
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

type Store interface {
	Submit(ctx context.Context, r Record) error
	// Top returns at most limit records created at or after since, best first.
	Top(ctx context.Context, limit int, since time.Time) ([]Record, error)
}

// Board is the leaderboard shown after a game: the best Limit scores of the
// trailing Window, optionally cached.
type Board struct {
	store  Store
	cache  *Cache
	limit  int
	window time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewBoard creates a board over store. cache may be nil.
func NewBoard(store Store, cache *Cache, limit int, window time.Duration, logger *slog.Logger) *Board {
	return &Board{
		store:  store,
		cache:  cache,
		limit:  limit,
		window: window,
		logger: logger,
		now:    time.Now,
	}
}

func (b *Board) Limit() int { return b.limit }

func (b *Board) Top(ctx context.Context) ([]Record, error) {
	if b.cache != nil {
		top, ok, err := b.cache.Get(ctx)
		if err != nil {
			b.logger.Warn("reading highscore cache", "error", err)
		} else if ok {
			return top, nil
		}
	}

	top, err := b.store.Top(ctx, b.limit, b.now().Add(-b.window))
	if err != nil {
		return nil, fmt.Errorf("listing highscores: %w", err)
	}
	if top == nil {
		top = []Record{}
	}

	if b.cache != nil {
		if err := b.cache.Set(ctx, top); err != nil {
			b.logger.Warn("writing highscore cache", "error", err)
		}
	}
	return top, nil
}

func (b *Board) Submit(ctx context.Context, name string, score int) (Record, error) {
	name, err := ValidateName(name)
	if err != nil {
		return Record{}, err
	}
	if score < 0 {
		return Record{}, fmt.Errorf("negative score %d", score)
	}

	r := Record{Name: name, Score: score, CreatedAt: b.now().UTC()}
	if err := b.store.Submit(ctx, r); err != nil {
		return Record{}, fmt.Errorf("submitting highscore: %w", err)
	}

	if b.cache != nil {
		if err := b.cache.Invalidate(ctx); err != nil {
			b.logger.Warn("invalidating highscore cache", "error", err)
		}
	}
	b.logger.Info("highscore submitted", "name", r.Name, "score", r.Score)
	return r, nil
}

// Qualifies reports whether score would appear on the current board.
func (b *Board) Qualifies(ctx context.Context, score int) (bool, error) {
	top, err := b.Top(ctx)
	if err != nil {
		return false, err
	}
	return Qualifies(score, top, b.limit), nil
}

// Qualifies reports whether score earns a place among top, a board holding at
// most capacity records.
func Qualifies(score int, top []Record, capacity int) bool {
	if len(top) < capacity {
		return true
	}
	for _, r := range top {
		if score > r.Score {
			return true
		}
	}
	return false
}

func ValidateName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidName, MaxNameLength)
	}
	return name, nil
}
