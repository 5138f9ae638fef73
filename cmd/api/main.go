package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/worldatlas/worldatlas-go/internal/config"
	"github.com/worldatlas/worldatlas-go/internal/countries"
	"github.com/worldatlas/worldatlas-go/internal/crypto"
	"github.com/worldatlas/worldatlas-go/internal/handler"
	"github.com/worldatlas/worldatlas-go/internal/repository"
	"github.com/worldatlas/worldatlas-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	hasher, err := crypto.NewHasher(cfg.HashAlgorithm)
	if err != nil {
		logger.Error("invalid hash algorithm", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	users, closeStore, err := openStore(ctx, cfg, hasher)
	cancel()
	if err != nil {
		logger.Error("credential store unavailable", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}

	tokens := crypto.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	authService := service.NewAuthService(users, tokens, hasher, logger)
	countryService := service.NewCountryService(countries.NewClient(cfg.CountriesBaseURL, nil), logger)

	devMode := !cfg.IsProduction()
	router := handler.NewRouter(handler.RouterConfig{
		Auth:        handler.NewAuthHandler(authService, devMode),
		Countries:   handler.NewCountryHandler(countryService, devMode),
		Verifier:    tokens,
		Users:       users,
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
		DevMode:     devMode,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced shutdown", "error", err)
	}
	if err := closeStore(shutdownCtx); err != nil {
		logger.Error("closing credential store", "error", err)
	}

	logger.Info("server stopped")
}

func newLogger(cfg config.Config) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// openStore connects the configured backend and returns it with its closer.
func openStore(ctx context.Context, cfg config.Config, hasher repository.PasswordHasher) (service.UserStore, func(context.Context) error, error) {
	switch cfg.StoreDriver {
	case config.DriverMySQL:
		db, err := repository.NewDB(cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := repository.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		closeFn := func(context.Context) error { return db.Close() }
		return repository.NewMySQLUserRepository(db, hasher), closeFn, nil

	default:
		client, err := repository.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		coll := client.Database(cfg.MongoDatabase).Collection(repository.DefaultUsersCollectionName)
		repo := repository.NewMongoUserRepository(coll, hasher)
		if err := repo.EnsureIndexes(ctx); err != nil {
			client.Disconnect(ctx)
			return nil, nil, err
		}
		return repo, client.Disconnect, nil
	}
}
