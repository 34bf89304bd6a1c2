package apperror

import "errors"

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrCorruptGame       = errors.New("game record is corrupt")
	ErrGameAlreadyExists = errors.New("game already exists")
	ErrGameBusy          = errors.New("game is busy, try again")

	ErrGameFull          = errors.New("game already has two players")
	ErrAlreadyFinished   = errors.New("game is already finished")
	ErrGameNotInProgress = errors.New("game is not in progress")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrInvalidToken      = errors.New("invalid token for this game")
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrPlacement means the configured fleet does not fit the grid.
	ErrPlacement = errors.New("fleet cannot be placed")
)
