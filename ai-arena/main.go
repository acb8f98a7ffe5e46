package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime})
	if level, err := zerolog.ParseLevel(getenv("ARENA_LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	cfg := loadArenaConfig()
	a := newArena(cfg, newBackendClient(cfg.BaseURL, 10*time.Second))
	log.Info().
		Str("backend", cfg.BaseURL).
		Str("challenger", cfg.Challenger).
		Str("champion", cfg.Champion).
		Int("matches", cfg.Matches).
		Msg("arena: starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{Addr: cfg.APIAddr, Handler: statusRouter(a)}
	seriesDone := make(chan struct{})
	g.Go(func() error {
		defer close(seriesDone)
		return a.run(gctx)
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("status api: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-seriesDone:
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("arena: stopped with error")
		os.Exit(1)
	}
}

func statusRouter(a *arena) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/api/arena/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "running": a.getStatus().Running})
	})
	r.Get("/api/arena/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, a.getStatus())
	})
	return r
}

func loadArenaConfig() arenaConfig {
	cfg := arenaConfig{
		BaseURL:      getenv("BACKEND_URL", "http://backend:8080"),
		APIAddr:      getenv("ARENA_API_ADDR", ":8090"),
		Challenger:   getenv("ARENA_CHALLENGER", "greedy"),
		Champion:     getenv("ARENA_CHAMPION", "alphabeta"),
		Matches:      getenvInt("ARENA_MATCHES", 10),
		OpeningPlies: getenvInt("ARENA_OPENING_PLIES", 2),
		BoardSize:    getenvInt("ARENA_BOARD_SIZE", 15),
		PollInterval: time.Duration(getenvInt("POLL_INTERVAL_MS", 500)) * time.Millisecond,
		GameTimeout:  time.Duration(getenvInt("ARENA_GAME_TIMEOUT_SEC", 600)) * time.Second,
		EloK:         getenvFloat("ARENA_ELO_K", 20),
		Seed:         int64(getenvInt("ARENA_SEED", 1)),
	}
	if cfg.EloK <= 0 {
		cfg.EloK = 20
	}
	return cfg
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getenvInt returns fallback for missing, malformed or non-positive values.
func getenvInt(key string, fallback int) int {
	parsed, err := strconv.Atoi(os.Getenv(key))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getenvFloat(key string, fallback float64) float64 {
	parsed, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return parsed
}
