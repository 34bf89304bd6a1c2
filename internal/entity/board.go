package entity

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
)

const (
	CellUnshot = ""
	CellMiss   = "miss"
	CellHit    = "hit"
)

const (
	OutcomeHit         = "hit"
	OutcomeMiss        = "miss"
	OutcomeSunk        = "sunk"
	OutcomeAlreadyShot = "already_shot"
)

const maxPlacementAttempts = 1000

// Rand is the randomness a fleet placement needs; *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) } //nolint: gosec // placement is not a secret

// DefaultRand draws from the process-wide math/rand source.
var DefaultRand Rand = globalRand{}

type Ship struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Cells []Coord `json:"cells"`
	Hits  []bool  `json:"hits"`
}

func (that *Ship) IsSunk() bool {
	for _, hit := range that.Hits {
		if !hit {
			return false
		}
	}
	return true
}

func (that *Ship) indexOf(coord Coord) int {
	for i, cell := range that.Cells {
		if cell == coord {
			return i
		}
	}
	return -1
}

// Board is one player's grid: where their ships are and what the opponent has fired at it.
type Board struct {
	Ships []*Ship                      `json:"ships"`
	Shots [BoardSize][BoardSize]string `json:"shots"`
}

// ShotResult is the outcome of one shot at a board.
type ShotResult struct {
	Coord    string `json:"coord"`
	Outcome  string `json:"result"`
	Hit      bool   `json:"hit"`
	ShipID   string `json:"sunk,omitempty"`
	ShipName string `json:"sunk_name,omitempty"`
}

func NewBoard() *Board {
	return &Board{Ships: []*Ship{}}
}

// PlaceFleet - builds a board with every ship of the fleet placed at random.
func PlaceFleet(rnd Rand, fleet []ShipClass) (*Board, error) {
	board := NewBoard()

	for _, class := range fleet {
		if class.Size < 1 || class.Size > BoardSize {
			return nil, fmt.Errorf("%w: ship %s of size %d", apperror.ErrPlacement, class.ID, class.Size)
		}

		placed := false
		for range maxPlacementAttempts {
			horizontal := rnd.IntN(2) == 0

			origin := Coord{Row: rnd.IntN(BoardSize), Col: rnd.IntN(BoardSize - class.Size + 1)}
			if !horizontal {
				origin = Coord{Row: rnd.IntN(BoardSize - class.Size + 1), Col: rnd.IntN(BoardSize)}
			}

			if err := board.PlaceShip(class, origin, horizontal); err == nil {
				placed = true
				break
			}
		}

		if !placed {
			return nil, fmt.Errorf("%w: no room for ship %s", apperror.ErrPlacement, class.ID)
		}
	}

	return board, nil
}

// PlaceShip - puts a ship on the board starting at origin and running right or down.
func (that *Board) PlaceShip(class ShipClass, origin Coord, horizontal bool) error {
	if class.Size < 1 {
		return fmt.Errorf("%w: ship %s of size %d", apperror.ErrPlacement, class.ID, class.Size)
	}

	cells := make([]Coord, 0, class.Size)
	for i := range class.Size {
		cell := Coord{Row: origin.Row + i, Col: origin.Col}
		if horizontal {
			cell = Coord{Row: origin.Row, Col: origin.Col + i}
		}

		if !cell.InBounds() {
			return fmt.Errorf("%w: ship %s leaves the grid at %s", apperror.ErrPlacement, class.ID, cell)
		}

		if that.shipAt(cell) != nil {
			return fmt.Errorf("%w: ship %s overlaps at %s", apperror.ErrPlacement, class.ID, cell)
		}

		cells = append(cells, cell)
	}

	that.Ships = append(that.Ships, &Ship{
		ID:    class.ID,
		Name:  class.Name,
		Cells: cells,
		Hits:  make([]bool, len(cells)),
	})

	return nil
}

// ApplyShot - marks the cell and reports hit, miss or sunk; a repeated cell changes nothing.
func (that *Board) ApplyShot(coord Coord) (ShotResult, error) {
	if !coord.InBounds() {
		return ShotResult{}, fmt.Errorf("%w: row %d col %d", apperror.ErrInvalidCoordinate, coord.Row, coord.Col)
	}

	result := ShotResult{Coord: coord.String()}

	if previous := that.Shots[coord.Row][coord.Col]; previous != CellUnshot {
		result.Outcome = OutcomeAlreadyShot
		result.Hit = previous == CellHit
		return result, nil
	}

	ship := that.shipAt(coord)
	if ship == nil {
		that.Shots[coord.Row][coord.Col] = CellMiss
		result.Outcome = OutcomeMiss
		return result, nil
	}

	that.Shots[coord.Row][coord.Col] = CellHit
	ship.Hits[ship.indexOf(coord)] = true

	result.Hit = true
	result.Outcome = OutcomeHit
	if ship.IsSunk() {
		result.Outcome = OutcomeSunk
		result.ShipID = ship.ID
		result.ShipName = ship.Name
	}

	return result, nil
}

func (that *Board) IsDefeated() bool {
	for _, ship := range that.Ships {
		if !ship.IsSunk() {
			return false
		}
	}
	return len(that.Ships) > 0
}

func (that *Board) shipAt(coord Coord) *Ship {
	for _, ship := range that.Ships {
		if ship.indexOf(coord) >= 0 {
			return ship
		}
	}
	return nil
}

// Validate - checks a board read back from storage against the board invariants.
func (that *Board) Validate() error {
	var occupied [BoardSize][BoardSize]bool

	for _, ship := range that.Ships {
		if ship == nil || len(ship.Cells) == 0 || len(ship.Hits) != len(ship.Cells) {
			return errors.New("malformed ship")
		}

		for i, cell := range ship.Cells {
			if !cell.InBounds() {
				return fmt.Errorf("ship %s off the grid at %v", ship.ID, cell)
			}
			if occupied[cell.Row][cell.Col] {
				return fmt.Errorf("ships overlap at %s", cell)
			}
			occupied[cell.Row][cell.Col] = true

			if ship.Hits[i] != (that.Shots[cell.Row][cell.Col] == CellHit) {
				return fmt.Errorf("ship %s hit flag disagrees with shots at %s", ship.ID, cell)
			}
		}
	}

	for row := range BoardSize {
		for col := range BoardSize {
			switch that.Shots[row][col] {
			case CellUnshot:
			case CellMiss:
				if occupied[row][col] {
					return fmt.Errorf("miss recorded on a ship at %s", Coord{Row: row, Col: col})
				}
			case CellHit:
				if !occupied[row][col] {
					return fmt.Errorf("hit recorded on open water at %s", Coord{Row: row, Col: col})
				}
			default:
				return fmt.Errorf("unknown cell state %q", that.Shots[row][col])
			}
		}
	}

	return nil
}
