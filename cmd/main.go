package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/afero"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"tallykeeper/internal/config"
	"tallykeeper/internal/handler"
	"tallykeeper/internal/logging"
	"tallykeeper/internal/repository"
	"tallykeeper/internal/service"
	"tallykeeper/internal/service/s3"
)

// retry вызывает fn до maxAttempts раз с паузой delay между попытками.
// Отмена ctx прерывает ожидание и возвращает ctx.Err().
func retry(ctx context.Context, logger logging.Logger, what string, maxAttempts int, delay time.Duration, fn func() error) error {
	var err error

	for i := 0; i < maxAttempts; i++ {
		if err = fn(); err == nil {
			return nil
		}

		logger.Warn(ctx, "attempt failed", "operation", what, "attempt", i+1, "max_attempts", maxAttempts, "error", err)
		if i == maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("failed to %s after %d attempts: %w", what, maxAttempts, err)
}

func connectWithRetry(ctx context.Context, logger logging.Logger, dsn string, maxAttempts int, delay time.Duration) (*sqlx.DB, error) {
	var db *sqlx.DB

	err := retry(ctx, logger, "connect to database", maxAttempts, delay, func() error {
		var err error
		db, err = sqlx.ConnectContext(ctx, "postgres", dsn)
		return err
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func runMigrations(ctx context.Context, logger logging.Logger, cfg *config.Config) error {
	return retry(ctx, logger, "run migrations", 5, time.Second*5, func() error {
		return repository.RunMigrations(cfg.Database.GetURL())
	})
}

// openRepository создает хранилище документа для выбранного бэкенда.
// Возвращаемая функция освобождает ресурсы хранилища.
func openRepository(ctx context.Context, logger logging.Logger, cfg *config.Config) (repository.DocumentRepository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := connectWithRetry(ctx, logger, cfg.Database.GetDSN(), 5, time.Second*5)
		if err != nil {
			return nil, nil, err
		}
		if err := runMigrations(ctx, logger, cfg); err != nil {
			db.Close()
			return nil, nil, err
		}

		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)

		return repository.NewPostgresDocumentRepository(db), db.Close, nil

	case config.BackendS3:
		client, err := s3.NewClient(ctx, &cfg.S3)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewS3DocumentRepository(client, cfg.S3.Prefix), noop, nil

	default:
		repo, err := repository.NewFileDocumentRepository(ctx, afero.NewOsFs(), cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return repo, noop, nil
	}
}

func main() {
	configPath := flag.String("config", ".app.env", "path to env config file")
	flag.Parse()

	bootLogger := logging.New(os.Stderr, "info")

	// Загружаем конфигурацию
	appConfig, err := config.NewConfig(*configPath)
	if err != nil {
		bootLogger.Error(context.Background(), "failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, appConfig.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openRepository(ctx, logger, appConfig)
	if err != nil {
		logger.Error(ctx, "failed to open document store", "backend", appConfig.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeRepo(); err != nil {
			logger.Error(context.Background(), "failed to close document store", "error", err)
		}
	}()

	// Инициализация сервисов и хендлеров
	documentService := service.NewDocumentService(repo, logger.With("component", "document_service"))

	healthServer := health.NewServer()
	handlerLogger := logger.With("component", "http")
	counterHandler := handler.NewCounterHandler(documentService, handlerLogger)
	historyHandler := handler.NewHistoryHandler(documentService, handlerLogger)
	resetHandler := handler.NewResetHandler(documentService, handlerLogger)
	healthHandler := handler.NewHealthHandler(documentService, healthServer, logger.With("component", "health"))

	router := handler.NewRouter(handler.RouterConfig{
		AllowedOrigins: appConfig.CORS.AllowedOrigins,
		AccessLog:      slog.NewLogLogger(logger.Slog().Handler(), slog.LevelInfo),
	}, counterHandler, historyHandler, resetHandler, healthHandler)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", appConfig.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// Запускаем gRPC сервер
	go func() {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%s", appConfig.Server.GRPCPort))
		if err != nil {
			logger.Error(ctx, "failed to listen for gRPC", "error", err)
			stop()
			return
		}
		logger.Info(ctx, "starting gRPC server", "port", appConfig.Server.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error(ctx, "failed to serve gRPC", "error", err)
			stop()
		}
	}()

	// Запускаем HTTP сервер
	go func() {
		logger.Info(ctx, "starting HTTP server", "port", appConfig.Server.Port, "backend", appConfig.Store.Backend)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "failed to start HTTP server", "error", err)
			stop()
		}
	}()

	// Периодически проверяем доступность хранилища
	go healthHandler.RunProbes(ctx, appConfig.Store.ProbeInterval)

	// Ожидаем сигнал завершения
	<-ctx.Done()
	logger.Info(context.Background(), "shutting down servers")

	healthHandler.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "HTTP server forced to shutdown", "error", err)
	}

	grpcServer.GracefulStop()

	logger.Info(context.Background(), "server exited properly")
}
