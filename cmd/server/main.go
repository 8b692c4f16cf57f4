package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/iftar/internal/aladhan"
	"github.com/Nixie-Tech-LLC/iftar/internal/anchor"
	"github.com/Nixie-Tech-LLC/iftar/internal/config"
	"github.com/Nixie-Tech-LLC/iftar/internal/db"
	"github.com/Nixie-Tech-LLC/iftar/internal/kv"
	"github.com/Nixie-Tech-LLC/iftar/internal/notify"
	"github.com/Nixie-Tech-LLC/iftar/internal/redis"
	"github.com/Nixie-Tech-LLC/iftar/internal/schedule"
	"github.com/Nixie-Tech-LLC/iftar/internal/secure"
)

// anchorTTL bounds how long a cached timetable lives in Redis.
const anchorTTL = 30 * 24 * time.Hour

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(cfg)

	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}
	if err := db.RunMigrations(cfg.MigrationsPath, cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	documents := db.NewKV(db.DB)

	// anchors share the document table unless a Redis tier is configured
	var anchorTier kv.Store = documents
	if cfg.RedisAddress != "" {
		if err := redis.InitRedis(ctx, cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword); err != nil {
			log.Warn().Err(err).Msg("continuing without redis")
		} else {
			anchorTier = redis.NewStore(redis.Rdb, anchorTTL)
		}
	}

	cipher, err := secure.NewXChaChaFromBase64(cfg.EncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid ENCRYPTION_KEY")
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.MQTTBrokerURL != "" {
		client, err := notify.Connect(cfg.MQTTBrokerURL, "iftar-server")
		if err != nil {
			log.Warn().Err(err).Msg("continuing without mqtt")
		} else {
			publisher := notify.NewMQTT(client)
			defer publisher.Close()
			notifier = publisher
		}
	}

	provider := anchor.NewProvider(
		aladhan.NewClient(cfg.AladhanBaseURL, &http.Client{Timeout: cfg.AnchorFetchTimeout}),
		anchor.NewCache(),
		anchorTier,
		anchor.Options{
			Timeout:  cfg.AnchorFetchTimeout,
			Backoff:  cfg.AnchorRetryBackoff,
			Location: cfg.Location,
		},
	)

	store := schedule.NewStore(documents, cipher)
	defer store.Close()

	svc := schedule.NewService(store, provider, notifier, InitStorage(cfg), schedule.Options{
		GenerateOptions: schedule.GenerateOptions{
			SuhoorOffset: &cfg.SuhoorOffsetMinutes,
			Location:     cfg.Location,
		},
	})

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	tmpl, err := LoadTemplates(cfg.TemplatesDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load templates")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r, cfg, db.NewStore(db.DB), svc, tmpl)

	srv := &http.Server{Addr: cfg.ServerAddress, Handler: r}
	go func() {
		log.Info().Str("address", cfg.ServerAddress).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := svc.Flush(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("pending writes not flushed")
	}
}
