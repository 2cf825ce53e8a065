package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v7"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/solivane/vcmeet/internal/adapters/http"
	"github.com/solivane/vcmeet/internal/adapters/rtc"
	"github.com/solivane/vcmeet/internal/adapters/rts"
	"github.com/solivane/vcmeet/internal/adapters/store"
	"github.com/solivane/vcmeet/internal/app"
	"github.com/solivane/vcmeet/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping().Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable")
	}

	rooms := store.NewRedis(rdb, cfg.RedisPrefix)
	coord := app.NewCoordinator(rooms)

	client := rtc.NewClient(cfg.RTCHost, cfg.RTCAppKey, cfg.RTCTimeout)
	tokens := rtc.NewTokenIssuer(cfg.RTCAppID, cfg.RTCAppKey, cfg.TokenExpire)

	informer := rts.NewInformer(client, cfg.InformWorkers)
	dispatcher := rts.NewDispatcher(coord, informer, client, tokens, cfg.RTCAppID, cfg.ServerSignature)
	callbacks := rts.NewCallbackHandler(coord, informer, client, cfg.RTCAppID)
	drift := router.NewDriftAPI(client, tokens, cfg.RTCAppID, cfg.RTMPHost, cfg.RTMPPort, cfg.RTSPPort)

	r := router.SetupRouter(cfg.Mode, coord, dispatcher, callbacks, drift)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("vcmeet server started")
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
	informer.Stop()
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	log.Info().Msg("Server exited gracefully")
}
