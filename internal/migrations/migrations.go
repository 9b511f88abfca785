package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/playperu/mapguess/internal/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var fs embed.FS

// Run applies all pending migrations for dialect against db.
func Run(db *sql.DB, dialect database.Dialect) error {
	goose.SetBaseFS(fs)

	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}
	if err := goose.Up(db, dir(dialect)); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

func dir(d database.Dialect) string {
	if d == database.Postgres {
		return "postgres"
	}
	return "sqlite"
}
