package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
	"github.com/rocketscienceinc/battleship-backend/internal/pkg"
)

// maxIDAttempts bounds the retries when a freshly generated id is taken.
const maxIDAttempts = 5

type gameRepo interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	WithLock(ctx context.Context, id string, fn func(game *entity.Game) error) (*entity.Game, error)
	Remove(ctx context.Context, id string, check func(game *entity.Game) error) error
}

type tokenAuthority interface {
	Issue(game *entity.Game, slot int) (string, error)
	Resolve(game *entity.Game, token string) (int, error)
}

// Seat is what a player gets on creating or joining a game.
type Seat struct {
	GameID string `json:"game_id"`
	Token  string `json:"token"`
	Slot   int    `json:"slot"`
}

type FireResult struct {
	Result entity.ShotResult `json:"result"`
	State  *entity.View      `json:"state"`
}

type GameManager struct {
	logger *slog.Logger

	gameRepo gameRepo
	tokens   tokenAuthority

	rnd   entity.Rand
	fleet []entity.ShipClass
	newID func() (string, error)
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, tokens tokenAuthority, rnd entity.Rand) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game manager"),

		gameRepo: gameRepo,
		tokens:   tokens,

		rnd:   rnd,
		fleet: entity.StandardFleet,
		newID: pkg.GenerateGameID,
	}
}

// StartGame - creates a game with a random fleet for its creator, who gets slot 1.
func (that *GameManager) StartGame(ctx context.Context) (*Seat, error) {
	log := that.logger.With("method", "StartGame")

	board, err := entity.PlaceFleet(that.rnd, that.fleet)
	if err != nil {
		return nil, fmt.Errorf("failed to place fleet: %w", err)
	}

	for range maxIDAttempts {
		id, err := that.newID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate game id: %w", err)
		}

		game := entity.NewGame(id, board)

		token, err := that.tokens.Issue(game, entity.SlotOne)
		if err != nil {
			return nil, fmt.Errorf("failed to issue token: %w", err)
		}

		err = that.gameRepo.Create(ctx, game)
		if errors.Is(err, apperror.ErrGameAlreadyExists) {
			log.Debug("game id taken, retrying", "game_id", id)
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to create game: %w", err)
		}

		log.Info("game created", "game_id", id)

		return &Seat{GameID: id, Token: token, Slot: entity.SlotOne}, nil
	}

	return nil, fmt.Errorf("%w: no free id after %d attempts", apperror.ErrGameAlreadyExists, maxIDAttempts)
}

// JoinGame - seats a second player with their own random fleet.
func (that *GameManager) JoinGame(ctx context.Context, gameID string) (*Seat, error) {
	board, err := entity.PlaceFleet(that.rnd, that.fleet)
	if err != nil {
		return nil, fmt.Errorf("failed to place fleet: %w", err)
	}

	seat := &Seat{GameID: gameID}

	_, err = that.gameRepo.WithLock(ctx, gameID, func(game *entity.Game) error {
		player, err := game.Join(board)
		if err != nil {
			return err
		}

		seat.Slot = player.Slot
		seat.Token, err = that.tokens.Issue(game, player.Slot)
		if err != nil {
			return fmt.Errorf("failed to issue token: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to join game: %w", err)
	}

	that.logger.Info("player joined", "method", "JoinGame", "game_id", gameID, "slot", seat.Slot)

	return seat, nil
}

// GetState - the game as seen by the token holder. A missing or unknown
// token gets the anonymous view.
func (that *GameManager) GetState(ctx context.Context, gameID, token string) (*entity.View, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	viewer := entity.SlotNone
	if token != "" {
		slot, err := that.tokens.Resolve(game, token)
		if err != nil {
			that.logger.Debug("unknown token, serving anonymous view", "method", "GetState", "game_id", gameID)
		} else {
			viewer = slot
		}
	}

	return game.View(viewer), nil
}

// Fire - shoots at the opponent of the token holder and returns the outcome
// with the shooter's view of the game after the shot.
func (that *GameManager) Fire(ctx context.Context, gameID, token, coordText string) (*FireResult, error) {
	log := that.logger.With("method", "Fire", "game_id", gameID)

	coord, err := entity.ParseCoord(coordText)
	if err != nil {
		return nil, err
	}

	var (
		slot   int
		result entity.ShotResult
	)

	game, err := that.gameRepo.WithLock(ctx, gameID, func(game *entity.Game) error {
		var fireErr error

		if slot, fireErr = that.tokens.Resolve(game, token); fireErr != nil {
			return fireErr
		}

		result, fireErr = game.Fire(slot, coord)
		return fireErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fire: %w", err)
	}

	log.Debug("shot fired", "slot", slot, "coord", result.Coord, "result", result.Outcome)

	if game.IsFinished() {
		log.Info("game finished", "winner", game.Winner)
	}

	return &FireResult{Result: result, State: game.View(slot)}, nil
}

// DeleteGame - removes a game and with it every token bound to it. Only a
// seated player may do so.
func (that *GameManager) DeleteGame(ctx context.Context, gameID, token string) error {
	err := that.gameRepo.Remove(ctx, gameID, func(game *entity.Game) error {
		_, err := that.tokens.Resolve(game, token)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "method", "DeleteGame", "game_id", gameID)

	return nil
}
