// The vouch bot server: receives Discord interaction webhooks, tracks
// vouches per target user, and grants the vouched role once enough distinct
// vouches accumulate.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/discord"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/platform/config"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/platform/httpserver"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/platform/logger"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/platform/postgres"
	redisplatform "github.com/nelsonjchen/vouch-or-out-discord-bot/internal/platform/redis"
	httptransport "github.com/nelsonjchen/vouch-or-out-discord-bot/internal/transport/http"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/vouch"
	vouchmetrics "github.com/nelsonjchen/vouch-or-out-discord-bot/internal/vouch/metrics"
	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/vouch/store"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in internal/vouch.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	vouchStore, health, cleanup, err := buildStore(ctx, cfg)
	cancel()
	if err != nil {
		log.Error("store setup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	roleClient := discord.NewClient(cfg.DiscordToken)

	service, err := vouch.New(vouchStore, roleClient, cfg.VouchedRoleID, cfg.PromotionThreshold, log,
		vouch.WithMetrics(vouchmetrics.New()))
	if err != nil {
		log.Error("service setup failed", "error", err)
		os.Exit(1)
	}

	var verifier *discord.Verifier
	if !cfg.SkipDiscordValidation {
		verifier, err = discord.NewVerifier(cfg.DiscordPublicKey)
		if err != nil {
			log.Error("invalid discord public key", "error", err)
			os.Exit(1)
		}
	} else {
		log.Warn("discord signature validation is DISABLED")
	}

	handler := httptransport.NewWebhookHandler(service, verifier, cfg.DiscordApplicationID, health, log)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler))

	log.Info("starting vouch bot",
		"addr", cfg.Addr,
		"promotion_threshold", cfg.PromotionThreshold,
		"vouched_role_id", cfg.VouchedRoleID,
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// buildStore selects the vouch store backend: Postgres when DATABASE_URL is
// set, Redis when REDIS_URL is set, otherwise process-local memory. The
// returned health func probes the chosen backend for /healthz; it is nil for
// the in-memory store.
func buildStore(ctx context.Context, cfg config.Config) (store.Store, httptransport.HealthFunc, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		st := store.NewPostgres(db)
		if err := st.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		return st, db.PingContext, func() { _ = db.Close() }, nil

	case cfg.RedisURL != "":
		client, err := redisplatform.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		return store.NewRedis(client.Client), client.Health, func() { _ = client.Close() }, nil

	default:
		return store.NewInMemory(), nil, func() {}, nil
	}
}
