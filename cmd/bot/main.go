package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/KirkDiggler/steamwatch/internal/clients/steam"
	"github.com/KirkDiggler/steamwatch/internal/common/clock"
	"github.com/KirkDiggler/steamwatch/internal/common/uuid"
	"github.com/KirkDiggler/steamwatch/internal/config"
	"github.com/KirkDiggler/steamwatch/internal/handlers/discord"
	"github.com/KirkDiggler/steamwatch/internal/metrics"
	"github.com/KirkDiggler/steamwatch/internal/render"
	avatarRepo "github.com/KirkDiggler/steamwatch/internal/repositories/avatar"
	bindingRepo "github.com/KirkDiggler/steamwatch/internal/repositories/binding"
	groupRepo "github.com/KirkDiggler/steamwatch/internal/repositories/group"
	muteRepo "github.com/KirkDiggler/steamwatch/internal/repositories/mute"
	snapshotRepo "github.com/KirkDiggler/steamwatch/internal/repositories/snapshot"
	"github.com/KirkDiggler/steamwatch/internal/services/avatar"
	"github.com/KirkDiggler/steamwatch/internal/services/binding"
	"github.com/KirkDiggler/steamwatch/internal/services/broadcast"
	"github.com/KirkDiggler/steamwatch/internal/services/messaging"
	"github.com/KirkDiggler/steamwatch/internal/services/mute"
	"github.com/KirkDiggler/steamwatch/internal/services/poller"
	"github.com/KirkDiggler/steamwatch/internal/services/snapshot"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	schedule, err := mute.ParseSchedule(cfg.BroadcastOpenTime, cfg.BroadcastCloseTime)
	if err != nil {
		log.Fatalf("Invalid broadcast window: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	// Test Redis connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize repositories
	snapshots, err := snapshotRepo.NewRedis(&snapshotRepo.Config{RedisClient: redisClient})
	if err != nil {
		log.Fatalf("Failed to create snapshot repository: %v", err)
	}

	bindingsRepo, err := bindingRepo.NewRedis(&bindingRepo.Config{RedisClient: redisClient})
	if err != nil {
		log.Fatalf("Failed to create binding repository: %v", err)
	}

	groups, err := groupRepo.NewRedis(&groupRepo.Config{RedisClient: redisClient})
	if err != nil {
		log.Fatalf("Failed to create group repository: %v", err)
	}

	mutes, err := muteRepo.NewRedis(&muteRepo.Config{RedisClient: redisClient})
	if err != nil {
		log.Fatalf("Failed to create mute repository: %v", err)
	}

	avatars, err := avatarRepo.NewRedis(&avatarRepo.Config{RedisClient: redisClient})
	if err != nil {
		log.Fatalf("Failed to create avatar repository: %v", err)
	}

	// Load in-memory stores
	snapshotStore, err := snapshot.New(&snapshot.Config{Repository: snapshots, Logger: logger})
	if err != nil {
		log.Fatalf("Failed to create snapshot store: %v", err)
	}
	if err := snapshotStore.Load(ctx); err != nil {
		log.Fatalf("Failed to load snapshots: %v", err)
	}

	registry, err := binding.New(&binding.Config{Repository: bindingsRepo, Logger: logger})
	if err != nil {
		log.Fatalf("Failed to create binding registry: %v", err)
	}
	if err := registry.Load(ctx); err != nil {
		log.Fatalf("Failed to load bindings: %v", err)
	}

	muteState, err := mute.New(&mute.Config{Repository: mutes, Logger: logger})
	if err != nil {
		log.Fatalf("Failed to create mute state: %v", err)
	}
	if err := muteState.Load(ctx); err != nil {
		log.Fatalf("Failed to load mute state: %v", err)
	}

	// Steam Web API client
	proxy, err := cfg.ProxyURL()
	if err != nil {
		log.Fatalf("Invalid proxy: %v", err)
	}

	steamClient, err := steam.New(cfg.SteamAPIKeys,
		steam.WithProxy(proxy),
		steam.WithLimiter(rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)),
		steam.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("Failed to create Steam client: %v", err)
	}

	avatarResolver, err := avatar.New(&avatar.Config{
		Repository: avatars,
		Fetcher:    steamClient,
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("Failed to create avatar resolver: %v", err)
	}

	policy, err := broadcast.New(&broadcast.Config{
		Mute:           muteState,
		Bindings:       registry,
		Avatars:        avatarResolver,
		Messaging:      messaging.NewService(),
		Renderer:       render.New(),
		Groups:         groups,
		Clock:          &clock.DefaultClock{},
		Logger:         logger,
		Mode:           cfg.Mode(),
		BlockedGameIDs: cfg.BlockedGameIDs,
	})
	if err != nil {
		log.Fatalf("Failed to create broadcast policy: %v", err)
	}

	// Metrics
	var recorder *metrics.Metrics
	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		recorder, err = metrics.New(reg)
		if err != nil {
			log.Fatalf("Failed to register metrics: %v", err)
		}

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		metricsServer = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("serving metrics", "addr", cfg.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
	}

	// Initialize Discord bot
	steamCmd, err := discord.NewSteamCommand(&discord.SteamCommandConfig{
		Bindings:  registry,
		Mute:      muteState,
		Snapshots: snapshotStore,
		Groups:    groups,
		Fetcher:   steamClient,
		Roster:    policy,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create steam command: %v", err)
	}

	bot, err := discord.New(&discord.Config{
		Token:         cfg.DiscordToken,
		ApplicationID: cfg.ApplicationID,
		GuildID:       cfg.GuildID,
		SteamCommand:  steamCmd,
		Bindings:      registry,
		Logger:        logger,
	})
	if err != nil {
		log.Fatalf("Failed to create Discord bot: %v", err)
	}

	// Start the bot
	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to start Discord bot: %v", err)
	}

	// Poll loop
	poll, err := poller.New(&poller.Config{
		Fetcher:   steamClient,
		Sender:    bot,
		Snapshots: snapshotStore,
		Bindings:  registry,
		Policy:    policy,
		Clock:     &clock.DefaultClock{},
		UUID:      uuid.New(),
		Metrics:   recorder,
		Logger:    logger,
		Interval:  cfg.RequestInterval,
	})
	if err != nil {
		log.Fatalf("Failed to create poller: %v", err)
	}

	if err := poll.Prime(ctx); err != nil {
		logger.Warn("initial snapshot failed, first cycle will not broadcast changes", "err", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		poll.Start(ctx)
	}()

	if schedule != nil {
		scheduler, err := mute.NewScheduler(&mute.SchedulerConfig{
			Schedule: schedule,
			State:    muteState,
			Groups:   registry,
			Clock:    &clock.DefaultClock{},
			Logger:   logger,
		})
		if err != nil {
			log.Fatalf("Failed to create broadcast scheduler: %v", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			scheduler.Run(ctx)
		}()
		logger.Info("broadcast window enabled", "open", schedule.Open, "close", schedule.Close)
	}

	// Wait for interrupt signal to gracefully shutdown
	<-ctx.Done()
	logger.Info("shutting down")

	wg.Wait()

	// Shutdown the bot
	if err := bot.Stop(); err != nil {
		logger.Error("error stopping bot", "err", err)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("error stopping metrics server", "err", err)
		}
	}

	if err := registry.Save(shutdownCtx); err != nil {
		logger.Error("failed to save bindings", "err", err)
	}
	if err := muteState.Save(shutdownCtx); err != nil {
		logger.Error("failed to save mute state", "err", err)
	}
	if err := snapshotStore.Save(shutdownCtx); err != nil {
		logger.Error("failed to save snapshots", "err", err)
	}

	logger.Info("bot has been shut down")
}
