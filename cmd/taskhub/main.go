package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/taskhub/internal/config"
	"github.com/Skotchmaster/taskhub/internal/db"
	"github.com/Skotchmaster/taskhub/internal/hash"
	"github.com/Skotchmaster/taskhub/internal/logging"
	"github.com/Skotchmaster/taskhub/internal/mailqueue"
	loggingmw "github.com/Skotchmaster/taskhub/internal/middleware/logging"
	"github.com/Skotchmaster/taskhub/internal/repo"
	"github.com/Skotchmaster/taskhub/internal/service"
	"github.com/Skotchmaster/taskhub/internal/tokens"
	httpserver "github.com/Skotchmaster/taskhub/internal/transport/http"
)

func newPublisher(ctx context.Context, cfg config.MailConfig, l *slog.Logger) (mailqueue.Publisher, error) {
	switch cfg.Transport {
	case "kafka":
		if cfg.KafkaCreateTopics {
			if err := mailqueue.EnsureTopics(ctx, cfg.KafkaBrokers[0], cfg.KafkaTopic); err != nil {
				return nil, err
			}
		}
		return mailqueue.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	case "rabbitmq":
		return mailqueue.NewRabbitPublisher(cfg.RabbitURL, cfg.RabbitQueue), nil
	case "log", "":
		return &mailqueue.LogPublisher{Logger: l}, nil
	default:
		return nil, fmt.Errorf("unsupported MAIL_TRANSPORT %q", cfg.Transport)
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not loaded: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx := context.Background()

	gdb, err := db.Open(ctx, db.Options{Driver: cfg.DBDriver, DSN: cfg.DatabaseURL})
	if err != nil {
		logger.Error("db_open_failed", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(ctx, gdb); err != nil {
		logger.Error("db_migrate_failed", "error", err)
		os.Exit(1)
	}

	ts, err := tokens.NewService(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		logger.Error("token_service_failed", "error", err)
		os.Exit(1)
	}

	pub, err := newPublisher(ctx, cfg.Mail, logger)
	if err != nil {
		logger.Error("mail_publisher_failed", "transport", cfg.Mail.Transport, "error", err)
		os.Exit(1)
	}
	dispatcher := mailqueue.NewDispatcher(pub, cfg.Mail.MaxAttempts, cfg.Mail.Backoff, logger.With("component", "mail"))

	var rdb *redis.Client
	if cfg.RateLimit.Enabled {
		rdb = config.NewRedisClient(ctx, cfg.Redis)
		if rdb == nil {
			logger.Warn("redis_unavailable", "addr", cfg.Redis.Addr, "rate_limit", "disabled")
		}
	}

	svc := service.New(service.Deps{
		Repo:          repo.New(gdb),
		Hasher:        hash.NewHasher(cfg.BcryptCost),
		Tokens:        ts,
		Mailer:        dispatcher,
		RefreshTTL:    cfg.RefreshTokenTTL,
		InvitationTTL: cfg.InvitationTTL,
		BaseURL:       cfg.AppBaseURL,
	})

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		DB:              gdb,
		Services:        svc,
		Verifier:        ts,
		Redis:           rdb,
		RateLimit:       cfg.RateLimit,
		CSRFEnabled:     cfg.CSRFEnabled,
		AccessCookieTTL: cfg.AccessCookieTTL,
		CookieSecure:    cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		logger.Warn("force_exit")
		os.Exit(1)
	}()

	logger.Info("shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if err := dispatcher.Close(); err != nil {
		logger.Error("mail_close_failed", "error", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_failed", "error", err)
	}
	logger.Info("shutdown_complete")
}
