package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/battleship-backend/internal/config"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
	"github.com/rocketscienceinc/battleship-backend/internal/repository"
	"github.com/rocketscienceinc/battleship-backend/internal/repository/lock"
	"github.com/rocketscienceinc/battleship-backend/internal/repository/storage"
	"github.com/rocketscienceinc/battleship-backend/internal/repository/storage/sqlite"
	"github.com/rocketscienceinc/battleship-backend/internal/service"
	"github.com/rocketscienceinc/battleship-backend/internal/usecase"
	"github.com/rocketscienceinc/battleship-backend/transport/rest"
)

const shutdownTimeout = 5 * time.Second

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	backend, locker, err := initStorage(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := backend.Close(); closeErr != nil {
			log.Error("could not close storage", "error", closeErr)
		}
	}()

	log.Info("Storage ready", "backend", conf.Storage.Backend)

	gameRepo := repository.NewGameRepository(logger, backend, locker)
	gameManager := usecase.NewGameManager(logger, gameRepo, service.NewTokenAuthority(), entity.DefaultRand)

	server := rest.NewServer(logger, conf.HTTPPort, gameManager)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		if httpErr := server.Start(); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err = server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}

	return nil
}

// initStorage - opens the configured backend with the locker that fits it.
// Redis locks are shared between processes, the others only within this one.
func initStorage(ctx context.Context, conf *config.Config) (storage.Backend, lock.Locker, error) {
	switch conf.Storage.Backend {
	case config.BackendRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, &redis.Options{
			Addr:     redisAddrString,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		locker := lock.NewRedis(redisStorage.Connection, conf.Lock.Wait, conf.Lock.TTL, conf.Lock.Retry)

		return redisStorage, locker, nil

	case config.BackendFile:
		fileStorage, err := storage.NewFileStorage(conf.Storage.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open file storage: %w", err)
		}

		return fileStorage, lock.NewLocal(conf.Lock.Wait), nil

	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(conf.Storage.SQLitePath), 0o750); err != nil {
			return nil, nil, fmt.Errorf("could not create sqlite dir: %w", err)
		}

		sqliteStorage, err := sqlite.New(conf.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}

		if err = sqliteStorage.Init(ctx); err != nil {
			_ = sqliteStorage.Close()
			return nil, nil, fmt.Errorf("could not init sqlite storage: %w", err)
		}

		return sqliteStorage, lock.NewLocal(conf.Lock.Wait), nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", conf.Storage.Backend)
	}
}
