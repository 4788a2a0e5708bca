package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Eursukkul/eventhub/config"
	"github.com/Eursukkul/eventhub/internal/auth"
	"github.com/Eursukkul/eventhub/internal/consumer"
	"github.com/Eursukkul/eventhub/internal/handler"
	"github.com/Eursukkul/eventhub/internal/logging"
	"github.com/Eursukkul/eventhub/internal/media"
	"github.com/Eursukkul/eventhub/internal/middleware"
	"github.com/Eursukkul/eventhub/internal/repository"
	"github.com/Eursukkul/eventhub/internal/seed"
	"github.com/Eursukkul/eventhub/internal/service"
	"github.com/Eursukkul/eventhub/internal/storage"
	"github.com/Eursukkul/eventhub/pkg/database"
	"github.com/Eursukkul/eventhub/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "eventhub stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logging.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Accounts, the active session and the remembered email
	if dir := filepath.Dir(cfg.StoragePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	store, err := storage.OpenSQLite(ctx, cfg.StoragePath)
	if err != nil {
		return err
	}
	defer store.Close()

	// Change notifications are optional
	var notifier service.Notifier
	if cfg.RabbitURL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, log.With("component", "publisher"))
		if err != nil {
			return err
		}
		defer publisher.Close()
		notifier = publisher
	} else {
		log.Info(ctx, "RABBIT_URL not set, change notifications disabled")
	}

	// Catalog
	eventRepo, bookingRepo, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	if n, err := seed.Load(ctx, eventRepo, service.BootstrapAdminID); err != nil {
		return err
	} else if n > 0 {
		log.Info(ctx, "sample catalog loaded", "events", n, "store", cfg.CatalogStore)
	}

	sessions := service.NewSessionService(
		store,
		auth.NewPasswordHasher(cfg.BcryptCost),
		service.AdminAccount{Email: cfg.AdminEmail, Name: cfg.AdminName, Password: cfg.AdminPassword},
		notifier,
	)
	catalog := service.NewCatalogService(eventRepo, bookingRepo, notifier)

	if sess, err := sessions.Restore(ctx); err != nil {
		return err
	} else if sess != nil {
		log.Info(ctx, "session restored", "account_id", sess.ID, "role", sess.Role)
	}

	// Catalog feed consumer
	if cfg.RabbitURL != "" {
		mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
		if err != nil {
			return err
		}
		defer mqConsumer.Close()

		msgs, err := mqConsumer.Consume()
		if err != nil {
			return err
		}
		consumer.NewCatalogConsumer(catalog, log).Start(ctx, msgs)
		log.Info(ctx, "consuming catalog feed", "queue", rabbitmq.QueueName, "binding", rabbitmq.BindingKey)
	}

	var images media.ImageUploader
	if cfg.S3Bucket != "" {
		uploader, err := media.NewS3Uploader(ctx, media.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return err
		}
		images = uploader
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL)
	guard := middleware.NewAuth(tokens, sessions)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = middleware.NewErrorHandler(log)
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Info(c.Request().Context(), "request",
				"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "eventhub"})
	})

	handler.NewAuthHandler(sessions, tokens, log.With("component", "auth")).RegisterRoutes(e.Group("/api/v1/auth"), guard)
	events := handler.NewEventHandler(catalog, images)
	events.RegisterRoutes(e.Group("/api/v1/events"), guard)
	events.RegisterTagRoutes(e.Group("/api/v1/tags"))
	events.RegisterAdminRoutes(e.Group("/api/v1/admin"), guard)
	handler.NewBookingHandler(catalog).RegisterRoutes(e, guard)

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "eventhub starting", "port", cfg.ServerPort, "catalog_store", cfg.CatalogStore)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info(shutdownCtx, "shutting down")
	return e.Shutdown(shutdownCtx)
}

func openCatalog(cfg *config.Config) (repository.EventRepository, repository.BookingRepository, error) {
	switch cfg.CatalogStore {
	case config.CatalogStorePostgres:
		db, err := database.NewPostgresDB(cfg.DSN())
		if err != nil {
			return nil, nil, err
		}
		return repository.NewEventRepository(db), repository.NewBookingRepository(db), nil
	case config.CatalogStoreSQLite:
		db, err := database.NewSQLiteDB(cfg.CatalogSQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewEventRepository(db), repository.NewBookingRepository(db), nil
	default:
		return repository.NewMemoryEventRepository(), repository.NewMemoryBookingRepository(), nil
	}
}
