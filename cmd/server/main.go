package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jrose1022/SubTrack/internal/config"
	kafkaevents "github.com/jrose1022/SubTrack/internal/events/kafka"
	"github.com/jrose1022/SubTrack/internal/events/logpub"
	"github.com/jrose1022/SubTrack/internal/httpapi"
	interfaces "github.com/jrose1022/SubTrack/internal/interfaces"
	"github.com/jrose1022/SubTrack/internal/ledger"
	"github.com/jrose1022/SubTrack/internal/notify"
	"github.com/jrose1022/SubTrack/internal/notify/telegram"
	"github.com/jrose1022/SubTrack/internal/reminder"
	"github.com/jrose1022/SubTrack/internal/session"
	"github.com/jrose1022/SubTrack/internal/storage/memory"
	"github.com/jrose1022/SubTrack/internal/storage/postgres"
	"github.com/jrose1022/SubTrack/internal/users"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, foundEnv, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg)
	defer logger.Sync()
	if !foundEnv {
		logger.Warn("no .env file found, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Development() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	ledgerStore, userStore, closeStores, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	cache, closeCache := openCache(ctx, cfg, logger)
	defer closeCache()

	publisher, closePublisher := openPublisher(cfg, logger)
	defer closePublisher()

	ledgerService := ledger.NewLedger(ledgerStore, userStore, publisher, logger.Named("ledger"),
		ledger.WithLocation(cfg.Location),
		ledger.WithMaxAttempts(cfg.PaymentMaxAttempts),
	)
	userService := users.NewService(userStore, cache, logger.Named("users"))
	verifier := session.NewVerifier(cfg.JWTSecret)
	resolver := session.NewResolver(userStore, cache, logger.Named("session"))

	notifier := newNotifier(cfg, logger)
	worker := reminder.NewWorker(ledgerService, userStore, notifier, logger.Named("reminder"))
	go worker.Run(ctx, cfg.ReminderInterval)

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	api := httpapi.NewServer(ledgerService, userService, verifier, resolver, logger.Named("http"))
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (interfaces.LedgerStore, interfaces.UserStore, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory stores")
		return memory.NewMemoryLedgerStore(), memory.NewMemoryUserStore(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	if err := postgres.Migrate(ctx, db, logger.Named("migrate")); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	return postgres.NewPostgresLedgerStore(db), postgres.NewPostgresUserStore(db), func() { db.Close() }, nil
}

func openCache(ctx context.Context, cfg config.Config, logger *zap.Logger) (interfaces.ProfileCache, func()) {
	if cfg.RedisAddr == "" {
		return session.NewMemoryProfileCache(cfg.ProfileCacheTTL), func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, profile cache reads will fall back to the database", zap.Error(err))
	}
	return session.NewRedisProfileCache(client, cfg.ProfileCacheTTL), func() { client.Close() }
}

func openPublisher(cfg config.Config, logger *zap.Logger) (interfaces.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		return logpub.NewPublisher(logger), func() {}
	}
	p := kafkaevents.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix)
	return p, func() {
		if err := p.Close(); err != nil {
			logger.Warn("closing kafka writer", zap.Error(err))
		}
	}
}

func newNotifier(cfg config.Config, logger *zap.Logger) interfaces.Notifier {
	if !cfg.RemindersEnabled() {
		return notify.NewLogNotifier(logger.Named("reminder"))
	}
	n, err := telegram.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		logger.Warn("telegram bot unavailable, reminders go to the log", zap.Error(err))
		return notify.NewLogNotifier(logger.Named("reminder"))
	}
	return n
}
