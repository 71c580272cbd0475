// Package app собирает сервис целиком: подключения к postgres, redis и rabbitmq,
// миграции схемы, бизнес-сервисы и HTTP-сервер с graceful shutdown.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/udara-chinthaka/ems/internal/cache"
	"github.com/udara-chinthaka/ems/internal/config"
	"github.com/udara-chinthaka/ems/internal/lib/jwt"
	"github.com/udara-chinthaka/ems/internal/lib/rabbitmq"
	"github.com/udara-chinthaka/ems/internal/lib/sl"
	"github.com/udara-chinthaka/ems/internal/migrations"
	authservice "github.com/udara-chinthaka/ems/internal/services/auth"
	catalogservice "github.com/udara-chinthaka/ems/internal/services/catalog"
	organizerservice "github.com/udara-chinthaka/ems/internal/services/organizer"
	requestservice "github.com/udara-chinthaka/ems/internal/services/request"
	"github.com/udara-chinthaka/ems/internal/storage/repository"
)

// App хранит собранный HTTP-сервер и внешние подключения.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage
	publisher *rabbitmq.Publisher
}

// New инициализирует все зависимости приложения по конфигурации.
// Очередь уведомлений опциональна: при disable_queue сервис работает без неё.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var publisher *rabbitmq.Publisher
	if !cfg.RabbitMQ.DisableQueue {
		conn, err := rabbitmq.Connect(cfg.RabbitMQ.AmqpURL, 5, 2*time.Second)
		if err != nil {
			return nil, err
		}
		publisher, err = rabbitmq.NewPublisher(conn, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue, cfg.RabbitMQ.RoutingKey)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("notification queue disabled")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker)
	catalogService := catalogservice.NewCatalogService(db, cacheRedis, logger)
	organizerService := organizerservice.NewOrganizerService(db, cacheRedis, logger)

	var notifier requestservice.Notifier
	if publisher != nil {
		notifier = publisher
	}
	requestService := requestservice.NewRequestService(
		db, catalogService, cacheRedis, notifier, cfg.RabbitMQ.RoutingKey, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker,
		authService, catalogService, requestService, organizerService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:    srv,
		logger:    logger,
		db:        db,
		publisher: publisher,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до остановки контекста или ошибки.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.publisher != nil {
			if cerr := a.publisher.Close(); cerr != nil {
				a.logger.Error("failed to close publisher", sl.Err(cerr))
			}
		}
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Error("failed to close database", sl.Err(cerr))
		}
		return err
	}
}
