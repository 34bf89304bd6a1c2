package entity

// ShipClass describes one kind of ship in a fleet.
type ShipClass struct {
	ID   string
	Name string
	Size int
}

// StandardFleet is the classic five ship set.
var StandardFleet = []ShipClass{
	{ID: "A", Name: "Aircraft Carrier", Size: 5},
	{ID: "B", Name: "Battleship", Size: 4},
	{ID: "S", Name: "Submarine", Size: 3},
	{ID: "D", Name: "Destroyer", Size: 3},
	{ID: "P", Name: "Patrol Boat", Size: 2},
}
