package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
)

const (
	StatusWaiting    = "waiting"
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"
)

const (
	SlotNone = 0
	SlotOne  = 1
	SlotTwo  = 2
)

var ErrUnknownGameStatus = errors.New("unknown game status")

type Game struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Players   []*Player `json:"players"`
	Turn      int       `json:"turn"`
	Winner    int       `json:"winner"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGame - creates a game waiting for an opponent, with the creator in slot 1.
func NewGame(id string, board *Board) *Game {
	now := time.Now().UTC()

	return &Game{
		ID:     id,
		Status: StatusWaiting,
		Players: []*Player{
			{Slot: SlotOne, Board: board},
		},
		Turn:      SlotNone,
		Winner:    SlotNone,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Join - seats the second player; slot 1 always moves first.
func (that *Game) Join(board *Board) (*Player, error) {
	if that.IsFinished() {
		return nil, apperror.ErrAlreadyFinished
	}

	if len(that.Players) >= 2 {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrGameFull, that.ID)
	}

	player := &Player{Slot: SlotTwo, Board: board}
	that.Players = append(that.Players, player)
	that.Status = StatusInProgress
	that.Turn = SlotOne

	return player, nil
}

// Fire - shoots at the opponent of slot. Re-firing at a shot cell is reported
// as already shot and still hands the turn over.
func (that *Game) Fire(slot int, coord Coord) (ShotResult, error) {
	if err := that.ConfirmInProgress(); err != nil {
		return ShotResult{}, err
	}

	if that.Player(slot) == nil {
		return ShotResult{}, fmt.Errorf("%w: slot %d", apperror.ErrInvalidToken, slot)
	}

	if that.Turn != slot {
		return ShotResult{}, fmt.Errorf("%w: slot %d to move", apperror.ErrNotYourTurn, that.Turn)
	}

	target := that.Player(Opponent(slot))
	if target == nil {
		return ShotResult{}, fmt.Errorf("%w: no opponent", apperror.ErrGameNotInProgress)
	}

	result, err := target.Board.ApplyShot(coord)
	if err != nil {
		return ShotResult{}, fmt.Errorf("failed to apply shot: %w", err)
	}

	if target.Board.IsDefeated() {
		that.Status = StatusFinished
		that.Winner = slot
		that.Turn = SlotNone
		return result, nil
	}

	that.Turn = Opponent(slot)

	return result, nil
}

func (that *Game) Player(slot int) *Player {
	for _, player := range that.Players {
		if player.Slot == slot {
			return player
		}
	}
	return nil
}

func Opponent(slot int) int {
	if slot == SlotOne {
		return SlotTwo
	}
	return SlotOne
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsInProgress() bool {
	return that.Status == StatusInProgress
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmInProgress() error {
	switch {
	case that.IsInProgress():
		return nil
	case that.IsWaiting(), that.IsFinished():
		return fmt.Errorf("%w: game is %s", apperror.ErrGameNotInProgress, that.Status)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// Validate - checks a game read back from storage against the game invariants.
func (that *Game) Validate() error {
	if that.ID == "" {
		return errors.New("missing id")
	}

	if len(that.Players) == 0 || len(that.Players) > 2 {
		return fmt.Errorf("%d players", len(that.Players))
	}

	for i, player := range that.Players {
		if player == nil || player.Board == nil {
			return fmt.Errorf("slot %d is empty", i+1)
		}
		if player.Slot != i+1 {
			return fmt.Errorf("slot %d recorded as %d", i+1, player.Slot)
		}
		if err := player.Board.Validate(); err != nil {
			return fmt.Errorf("board of slot %d: %w", player.Slot, err)
		}
	}

	switch that.Status {
	case StatusWaiting:
		if len(that.Players) != 1 || that.Turn != SlotNone || that.Winner != SlotNone {
			return errors.New("waiting game with opponent, turn or winner")
		}
	case StatusInProgress:
		if len(that.Players) != 2 || (that.Turn != SlotOne && that.Turn != SlotTwo) || that.Winner != SlotNone {
			return errors.New("game in progress without both players or a turn")
		}
	case StatusFinished:
		if len(that.Players) != 2 || that.Turn != SlotNone {
			return errors.New("finished game without both players or with a turn")
		}
		if that.Winner != SlotOne && that.Winner != SlotTwo {
			return errors.New("finished game without a winner")
		}
		if !that.Player(Opponent(that.Winner)).Board.IsDefeated() {
			return fmt.Errorf("slot %d lost with ships afloat", Opponent(that.Winner))
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}

	return nil
}
