package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/mapguess/internal/config"
	"github.com/playperu/mapguess/internal/database"
	"github.com/playperu/mapguess/internal/dataset"
	"github.com/playperu/mapguess/internal/handler/health"
	"github.com/playperu/mapguess/internal/highscore"
	"github.com/playperu/mapguess/internal/migrations"
	"github.com/playperu/mapguess/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Locations ---
	catalog, err := dataset.NewLoader(logger, cfg.DatasetTimeout).Load(ctx, cfg.Dataset)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	// --- Database ---
	db, dialect, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db, dialect); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to database", "dialect", dialect)

	checks := map[string]health.Checker{"database": health.DB(db)}

	// --- Redis ---
	var cache *highscore.Cache
	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		logger.Info("connected to redis")

		cache = highscore.NewCache(rdb, cfg.HighscoreTTL)
		checks["redis"] = health.Redis(rdb)
	}

	board := highscore.NewBoard(highscore.NewSQLStore(db, dialect), cache,
		cfg.HighscoreLimit, cfg.HighscoreWindow, logger)

	// --- Sessions ---
	broker := server.NewBroker()
	sessions := server.NewRegistry(server.RegistryConfig{
		Catalog:  catalog,
		Settings: cfg.GameSettings(),
		IdleTTL:  cfg.SessionIdleTTL,
	}, broker, logger)
	defer sessions.Close()

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Sessions: sessions,
		Broker:   broker,
		Board:    board,
		Checks:   checks,
		SPADir:   cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	g.Go(func() error {
		return sessions.Run(gctx, time.Minute)
	})

	return g.Wait()
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
