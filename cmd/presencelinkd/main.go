package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ArifEmreBahar/PresenceLink/internal/adapters/bridge"
	router "github.com/ArifEmreBahar/PresenceLink/internal/adapters/http"
	"github.com/ArifEmreBahar/PresenceLink/internal/app"
	"github.com/ArifEmreBahar/PresenceLink/internal/config"
	"github.com/ArifEmreBahar/PresenceLink/internal/domain"
	"github.com/ArifEmreBahar/PresenceLink/internal/presence"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	client, err := bridge.Dial(ctx, cfg.BridgeAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.BridgeAddr).Msg("failed to dial host bridge")
	}
	defer func() { _ = client.Close() }()

	identity := app.StaticIdentity{ID: domain.PlayerID(cfg.OwnerID)}

	factory := app.ServiceFactory{
		Platform: cfg.Platform,
		Deps: app.PlatformDeps{
			Steam:     client,
			Overlay:   client,
			Oculus:    client,
			Publisher: client,
		},
		Presence: presence.Config{
			MaxAttempts: cfg.PublishMaxAttempts,
			Backoff:     cfg.PublishBackoff,
			LocalOnly:   cfg.LocalPresence,
		},
	}

	mgr := app.NewManager(identity, factory)
	if err := mgr.Initialize(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize invitation manager")
	}
	defer func() { _ = mgr.Terminate() }()

	orch := &app.Orchestrator{
		Manager: mgr,
		Rooms:   client,
		Cfg: app.OrchestratorConfig{
			PollAttempts: cfg.RoomPollAttempts,
			PollInterval: cfg.RoomPollInterval,
		},
	}
	orch.Start(ctx)
	defer orch.Stop()

	r := router.SetupRouter(cfg, mgr, orch)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Str("platform", cfg.Platform).Msg("PresenceLink started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
