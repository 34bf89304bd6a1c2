package entity

// Player is one occupied slot of a game. Only the hash of the slot token is kept.
type Player struct {
	Slot      int    `json:"slot"`
	TokenHash string `json:"token_hash,omitempty"`
	Board     *Board `json:"board"`
}

func (that *Player) HasToken() bool {
	return that.TokenHash != ""
}
