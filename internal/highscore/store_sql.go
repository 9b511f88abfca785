package highscore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/playperu/mapguess/internal/database"
)

// SQLite keeps timestamps as fixed-width UTC text so that they sort and
// compare lexically.
const sqliteTime = "2006-01-02T15:04:05.000000000Z"

// SQLStore implements Store on the highscores table created by migrations.
type SQLStore struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewSQLStore(db *sql.DB, dialect database.Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

func (s *SQLStore) Submit(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO highscores (name, score, created_at) VALUES (?, ?, ?)
	`), r.Name, r.Score, s.timeArg(r.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting highscore: %w", err)
	}
	return nil
}

func (s *SQLStore) Top(ctx context.Context, limit int, since time.Time) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT name, score, created_at
		FROM highscores
		WHERE created_at >= ?
		ORDER BY score DESC, created_at ASC
		LIMIT ?
	`), s.timeArg(since), limit)
	if err != nil {
		return nil, fmt.Errorf("querying highscores: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var ts timestamp
		if err := rows.Scan(&r.Name, &r.Score, &ts); err != nil {
			return nil, fmt.Errorf("scanning highscore: %w", err)
		}
		r.CreatedAt = time.Time(ts)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating highscores: %w", err)
	}
	return out, nil
}

func (s *SQLStore) timeArg(t time.Time) any {
	if s.dialect == database.Postgres {
		return t.UTC()
	}
	return t.UTC().Format(sqliteTime)
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *SQLStore) rebind(q string) string {
	if s.dialect != database.Postgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, c := range q {
		if c == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// timestamp scans both SQLite text and native PostgreSQL timestamps.
type timestamp time.Time

func (t *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*t = timestamp(v.UTC())
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	}
	return fmt.Errorf("unsupported timestamp type %T", src)
}

func (t *timestamp) parse(s string) error {
	v, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	*t = timestamp(v)
	return nil
}
