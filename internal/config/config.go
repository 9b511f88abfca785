package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/playperu/mapguess/internal/mapguess"
)

type Config struct {
	HTTPAddr    string     `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseURL string     `env:"DATABASE_URL" envDefault:"file:data/mapguess.db"`
	RedisURL    string     `env:"REDIS_URL"`
	LogLevel    slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir      string     `env:"SPA_DIR" envDefault:"../web/dist"`

	Dataset        string        `env:"DATASET" envDefault:"data/locations.json"`
	DatasetTimeout time.Duration `env:"DATASET_TIMEOUT" envDefault:"15s"`

	RoundsTotal  int     `env:"ROUNDS_TOTAL" envDefault:"10"`
	RoundSeconds int     `env:"ROUND_SECONDS" envDefault:"20"`
	TimeWeight   float64 `env:"TIME_WEIGHT" envDefault:"2"`

	HighscoreLimit  int           `env:"HIGHSCORE_LIMIT" envDefault:"5"`
	HighscoreWindow time.Duration `env:"HIGHSCORE_WINDOW" envDefault:"720h"`
	HighscoreTTL    time.Duration `env:"HIGHSCORE_CACHE_TTL" envDefault:"1m"`

	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
}

// Load reads a .env file when one exists, then parses the environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

func (c *Config) GameSettings() mapguess.Settings {
	return mapguess.Settings{
		RoundsTotal:  c.RoundsTotal,
		RoundSeconds: c.RoundSeconds,
		TimeWeight:   c.TimeWeight,
	}
}
