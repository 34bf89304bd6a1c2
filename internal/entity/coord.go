package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
)

const (
	BoardSize = 10

	firstColumn = 'A'
)

// Coord is a zero-based grid position.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// ParseCoord - parses "B5" style text: one column letter A-J followed by a row number 1-10.
func ParseCoord(text string) (Coord, error) {
	text = strings.ToUpper(strings.TrimSpace(text))
	if len(text) < 2 {
		return Coord{}, fmt.Errorf("%w: %q", apperror.ErrInvalidCoordinate, text)
	}

	digits := text[1:]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return Coord{}, fmt.Errorf("%w: %q", apperror.ErrInvalidCoordinate, text)
		}
	}

	row, err := strconv.Atoi(digits)
	if err != nil {
		return Coord{}, fmt.Errorf("%w: %q", apperror.ErrInvalidCoordinate, text)
	}

	coord := Coord{Row: row - 1, Col: int(text[0]) - firstColumn}
	if !coord.InBounds() {
		return Coord{}, fmt.Errorf("%w: %q is off the board", apperror.ErrInvalidCoordinate, text)
	}

	return coord, nil
}

func (that Coord) InBounds() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

func (that Coord) String() string {
	return fmt.Sprintf("%c%d", rune(firstColumn+that.Col), that.Row+1)
}
