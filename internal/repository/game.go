package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
	"github.com/rocketscienceinc/battleship-backend/internal/repository/lock"
	"github.com/rocketscienceinc/battleship-backend/internal/repository/storage"
)

type GameRepository interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	Save(ctx context.Context, game *entity.Game) error
	DeleteByID(ctx context.Context, id string) error
	WithLock(ctx context.Context, id string, fn func(game *entity.Game) error) (*entity.Game, error)
	Remove(ctx context.Context, id string, check func(game *entity.Game) error) error
}

type dbGame struct {
	logger  *slog.Logger
	backend storage.Backend
	locker  lock.Locker
}

func NewGameRepository(logger *slog.Logger, backend storage.Backend, locker lock.Locker) GameRepository {
	return &dbGame{
		logger:  logger.With("component", "game repository"),
		backend: backend,
		locker:  locker,
	}
}

// Create - stores a new game; ErrGameAlreadyExists when the id is taken.
func (that *dbGame) Create(ctx context.Context, game *entity.Game) error {
	release, err := that.locker.Acquire(ctx, game.ID)
	if err != nil {
		return fmt.Errorf("failed to lock game: %w", err)
	}
	defer that.release(game.ID, release)

	_, err = that.backend.Get(ctx, game.ID)
	if err == nil {
		return fmt.Errorf("%w: game id %s", apperror.ErrGameAlreadyExists, game.ID)
	}

	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to check game id: %w", err)
	}

	game.Version = 1

	return that.Save(ctx, game)
}

// GetByID - loads a game without taking its lock. Records that do not decode
// or break the game invariants are reported as missing.
func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	response, err := that.backend.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrGameNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	var game entity.Game
	if err = json.Unmarshal(response, &game); err != nil {
		return nil, that.corrupt(id, err)
	}

	if game.ID != id {
		return nil, that.corrupt(id, fmt.Errorf("record holds game %q", game.ID))
	}

	if err = game.Validate(); err != nil {
		return nil, that.corrupt(id, err)
	}

	return &game, nil
}

func (that *dbGame) Save(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	if err = that.backend.Put(ctx, game.ID, gameJSON); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	return nil
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	return that.Remove(ctx, id, nil)
}

// WithLock - runs fn on the freshly loaded game while holding its lock and
// saves the result. Nothing is written when fn fails.
func (that *dbGame) WithLock(ctx context.Context, id string, fn func(game *entity.Game) error) (*entity.Game, error) {
	release, err := that.locker.Acquire(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock game: %w", err)
	}
	defer that.release(id, release)

	game, err := that.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = fn(game); err != nil {
		return nil, err
	}

	game.Version++
	game.UpdatedAt = time.Now().UTC()

	if err = that.Save(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

// Remove - deletes a game under its lock once check accepts it.
func (that *dbGame) Remove(ctx context.Context, id string, check func(game *entity.Game) error) error {
	release, err := that.locker.Acquire(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to lock game: %w", err)
	}
	defer that.release(id, release)

	if check != nil {
		game, err := that.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err = check(game); err != nil {
			return err
		}
	}

	err = that.backend.Delete(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: game id %s", apperror.ErrGameNotFound, id)
	}

	if err != nil {
		return fmt.Errorf("failed to delete game by ID: %w", err)
	}

	return nil
}

func (that *dbGame) release(id string, release lock.Release) {
	if err := release(); err != nil {
		that.logger.Warn("could not release game lock", "game_id", id, "error", err)
	}
}

func (that *dbGame) corrupt(id string, cause error) error {
	that.logger.Error("corrupt game record", "game_id", id, "error", cause)

	return fmt.Errorf("%w: %w: game id %s: %w", apperror.ErrGameNotFound, apperror.ErrCorruptGame, id, cause)
}
