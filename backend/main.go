package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	setupLogging()
	if path := os.Getenv("GOMOKU_CONFIG"); path != "" {
		if err := configStore.LoadFile(path); err != nil {
			log.Fatal().Err(err).Msg("backend: config")
		}
	}
	cfg := GetConfig()

	archive := NewGameArchive(cfg.ArchiveMaxGames)
	loadArchive(cfg, archive)

	controller := NewGameController(DefaultGameSettings(), archive)
	hub := NewHub("game", 64)
	ghostHub := NewHub("ghost", 16)
	controller.SetGhostPublisher(
		func() bool { return ghostHub.HasClients() && GetConfig().GhostMode },
		func(payload ghostPayload) { ghostHub.Publish("ghost", payload) },
	)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: newRouter(controller, hub, ghostHub, archive),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error { return ghostHub.Run(gctx) })
	g.Go(func() error {
		return runGameLoop(gctx, controller, hub, time.Duration(cfg.TickIntervalMs)*time.Millisecond)
	})
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("backend listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve %s: %w", srv.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			if closeErr := srv.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
				log.Error().Err(closeErr).Msg("backend: forced close failed")
			}
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	persistArchive(GetConfig(), archive)
	if err != nil {
		log.Error().Err(err).Msg("backend: stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("backend: stopped")
}

// runGameLoop ticks the controller and pushes progress to the hub until ctx
// is cancelled.
func runGameLoop(ctx context.Context, controller *GameController, hub *Hub, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !controller.Tick() {
				continue
			}
			if entry, ok := controller.LatestHistoryEntry(); ok {
				hub.Publish("history", historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}})
			}
			hub.Publish("status", controllerStatus(controller))
		}
	}
}
