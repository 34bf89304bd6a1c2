package entity

// BoardView is what anyone may see of a board: the shots it has received.
type BoardView struct {
	Slot   int      `json:"slot"`
	Hits   []string `json:"hits"`
	Misses []string `json:"misses"`
	Sunk   []string `json:"sunk"`
}

// ShipView is a ship as its owner sees it.
type ShipView struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Cells []string `json:"cells"`
	Hits  []string `json:"hits"`
	Sunk  bool     `json:"sunk"`
}

// View is the state of a game safe to show a given viewer.
type View struct {
	ID      string      `json:"id"`
	Status  string      `json:"status"`
	Turn    int         `json:"turn,omitempty"`
	Winner  int         `json:"winner,omitempty"`
	Players int         `json:"players"`
	Boards  []BoardView `json:"boards"`
	Viewer  int         `json:"viewer,omitempty"`
	Fleet   []ShipView  `json:"fleet,omitempty"`
}

// PublicView - hits, misses and sunk ships; never where unshot ships are.
func (that *Board) PublicView(slot int) BoardView {
	view := BoardView{
		Slot:   slot,
		Hits:   []string{},
		Misses: []string{},
		Sunk:   []string{},
	}

	for row := range BoardSize {
		for col := range BoardSize {
			switch that.Shots[row][col] {
			case CellHit:
				view.Hits = append(view.Hits, Coord{Row: row, Col: col}.String())
			case CellMiss:
				view.Misses = append(view.Misses, Coord{Row: row, Col: col}.String())
			}
		}
	}

	for _, ship := range that.Ships {
		if ship.IsSunk() {
			view.Sunk = append(view.Sunk, ship.ID)
		}
	}

	return view
}

// FleetView - the full layout, for the board's owner only.
func (that *Board) FleetView() []ShipView {
	fleet := make([]ShipView, 0, len(that.Ships))

	for _, ship := range that.Ships {
		view := ShipView{
			ID:    ship.ID,
			Name:  ship.Name,
			Cells: make([]string, 0, len(ship.Cells)),
			Hits:  []string{},
			Sunk:  ship.IsSunk(),
		}

		for i, cell := range ship.Cells {
			view.Cells = append(view.Cells, cell.String())
			if ship.Hits[i] {
				view.Hits = append(view.Hits, cell.String())
			}
		}

		fleet = append(fleet, view)
	}

	return fleet
}

// View - builds the viewer's picture of the game; viewer is SlotNone for anonymous readers.
func (that *Game) View(viewer int) *View {
	view := &View{
		ID:      that.ID,
		Status:  that.Status,
		Turn:    that.Turn,
		Winner:  that.Winner,
		Players: len(that.Players),
		Boards:  make([]BoardView, 0, len(that.Players)),
	}

	for _, player := range that.Players {
		view.Boards = append(view.Boards, player.Board.PublicView(player.Slot))
	}

	if owner := that.Player(viewer); owner != nil {
		view.Viewer = viewer
		view.Fleet = owner.Board.FleetView()
	}

	return view
}
