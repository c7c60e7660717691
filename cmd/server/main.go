package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/husbandvitamins/bookaconsult/internal/config"
	activityinfra "github.com/husbandvitamins/bookaconsult/internal/modules/activity/infrastructure"
	activitytransport "github.com/husbandvitamins/bookaconsult/internal/modules/activity/interface"
	"github.com/husbandvitamins/bookaconsult/internal/modules/booking/application/port"
	"github.com/husbandvitamins/bookaconsult/internal/modules/booking/application/usecase"
	"github.com/husbandvitamins/bookaconsult/internal/modules/booking/infrastructure"
	transport "github.com/husbandvitamins/bookaconsult/internal/modules/booking/interface"
	"github.com/husbandvitamins/bookaconsult/internal/platform/broker"
	"github.com/husbandvitamins/bookaconsult/internal/shared/auth"
	"github.com/husbandvitamins/bookaconsult/internal/shared/logging"
	"github.com/husbandvitamins/bookaconsult/internal/shared/validation"
)

func main() {
	// Attempt to load variables from .env so local runs honour configuration tweaks.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, err := setupLogging(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))
	slog.Info("store config resolved", slog.String("domain", cfg.Shopify.StoreDomain), slog.String("apiVersion", cfg.Shopify.APIVersion))

	storeCfg := port.StoreConfig{
		AccessToken: cfg.Shopify.AccessToken,
		StoreDomain: cfg.Shopify.StoreDomain,
	}
	store := infrastructure.NewCustomerAPIClient(
		infrastructure.ShopifyBaseURL(cfg.Shopify.StoreDomain, cfg.Shopify.APIVersion),
		cfg.Shopify.AccessToken,
		cfg.Shopify.Timeout,
		nil,
	)
	reconciler := usecase.NewReconcileTagsUseCase(storeCfg, store)

	hub := activityinfra.NewHub()
	sinks := []port.EventSink{hub}
	var publisher *broker.KafkaPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = broker.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic)
		sinks = append(sinks, publisher)
		slog.Info("kafka publishing enabled", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("topic", cfg.Kafka.EventsTopic))
	}
	events := infrastructure.NewFanOutSink(sinks...)

	webhook := transport.NewWebhookHandler(reconciler, events)

	// Echo server
	e := echo.New()
	e.Logger.SetOutput(log.Writer())
	e.Validator = validation.NewRequestValidator()
	e.Use(transport.CORS(cfg.Webhook.AllowedOrigin))

	webhookMiddleware := []echo.MiddlewareFunc{}
	if cfg.Webhook.JWTSecret != "" {
		webhookMiddleware = append(webhookMiddleware, transport.RequireToken(auth.NewJWTValidator(cfg.Webhook.JWTSecret)))
		slog.Info("webhook token verification enabled")
	}
	e.Any("/webhooks/appointment-booked", webhook.Handle, webhookMiddleware...)
	e.GET("/ws/activity", activitytransport.NewActivityHandler(hub))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")
	e.Close()
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			slog.Warn("kafka publisher close error", slog.Any("error", err))
		}
	}
}

func setupLogging(cfg config.LoggingConfig) (*os.File, *slog.Logger, error) {
	dir := cfg.Directory
	if dir == "" {
		dir = "./logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	fileName := filepath.Join(dir, time.Now().UTC().Format("2006-01-02")+".log")
	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	writer := io.MultiWriter(os.Stdout, file)
	logger := logging.New(writer, logging.Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		AddSource: true,
	})
	log.SetOutput(writer)
	log.SetFlags(0)
	log.SetPrefix("")

	return file, logger, nil
}
