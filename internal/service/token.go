package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
	"github.com/rocketscienceinc/battleship-backend/internal/pkg"
)

type TokenAuthority interface {
	Issue(game *entity.Game, slot int) (string, error)
	Resolve(game *entity.Game, token string) (int, error)
}

type tokenAuthority struct {
	generate func() (string, error)
}

func NewTokenAuthority() TokenAuthority {
	return &tokenAuthority{
		generate: pkg.GenerateToken,
	}
}

// Issue - creates a fresh token for slot and binds its hash to the slot.
func (that *tokenAuthority) Issue(game *entity.Game, slot int) (string, error) {
	player := game.Player(slot)
	if player == nil {
		return "", fmt.Errorf("%w: slot %d is empty", apperror.ErrInvalidToken, slot)
	}

	token, err := that.generate()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	player.TokenHash = hashToken(token)

	return token, nil
}

// Resolve - finds the slot a token is bound to.
func (that *tokenAuthority) Resolve(game *entity.Game, token string) (int, error) {
	if token == "" {
		return entity.SlotNone, apperror.ErrInvalidToken
	}

	presented := []byte(hashToken(token))

	slot := entity.SlotNone
	for _, player := range game.Players {
		if !player.HasToken() {
			continue
		}
		// every slot is compared so timing does not reveal which one matched
		if subtle.ConstantTimeCompare(presented, []byte(player.TokenHash)) == 1 {
			slot = player.Slot
		}
	}

	if slot == entity.SlotNone {
		return entity.SlotNone, apperror.ErrInvalidToken
	}

	return slot, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
