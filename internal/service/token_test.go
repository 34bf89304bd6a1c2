package service

import (
	"testing"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTwoPlayerGame(t *testing.T) *entity.Game {
	t.Helper()

	game := entity.NewGame("abcdef", entity.NewBoard())
	_, err := game.Join(entity.NewBoard())
	require.NoError(t, err)

	return game
}

func TestTokenAuthority_Issue(t *testing.T) {
	t.Run("Stores only the hash of the token", func(t *testing.T) {
		// Given: a game with two players
		game := newTwoPlayerGame(t)
		authority := NewTokenAuthority()

		// When: a token is issued for slot 2
		token, err := authority.Issue(game, entity.SlotTwo)

		// Then: the slot keeps a hash that is not the token itself
		require.NoError(t, err)
		assert.Len(t, token, 32)
		assert.Equal(t, hashToken(token), game.Player(entity.SlotTwo).TokenHash)
		assert.NotContains(t, game.Player(entity.SlotTwo).TokenHash, token)
		assert.False(t, game.Player(entity.SlotOne).HasToken())
	})

	t.Run("Refuses an empty slot", func(t *testing.T) {
		// Given: a game waiting for an opponent
		game := entity.NewGame("abcdef", entity.NewBoard())

		// When: a token is issued for slot 2
		_, err := NewTokenAuthority().Issue(game, entity.SlotTwo)

		// Then: ErrInvalidToken is returned
		require.ErrorIs(t, err, apperror.ErrInvalidToken)
	})
}

func TestTokenAuthority_Resolve(t *testing.T) {
	t.Run("Each token resolves to its own slot", func(t *testing.T) {
		// Given: tokens issued for both slots
		game := newTwoPlayerGame(t)
		authority := NewTokenAuthority()
		first, err := authority.Issue(game, entity.SlotOne)
		require.NoError(t, err)
		second, err := authority.Issue(game, entity.SlotTwo)
		require.NoError(t, err)

		// When: the tokens are resolved
		firstSlot, err := authority.Resolve(game, first)
		require.NoError(t, err)
		secondSlot, err := authority.Resolve(game, second)
		require.NoError(t, err)

		// Then: they map to their slots
		assert.Equal(t, entity.SlotOne, firstSlot)
		assert.Equal(t, entity.SlotTwo, secondSlot)
	})

	t.Run("Unknown, empty and foreign tokens are rejected", func(t *testing.T) {
		// Given: a game with an issued token and another game with its own
		game := newTwoPlayerGame(t)
		other := newTwoPlayerGame(t)
		authority := NewTokenAuthority()
		_, err := authority.Issue(game, entity.SlotOne)
		require.NoError(t, err)
		foreign, err := authority.Issue(other, entity.SlotOne)
		require.NoError(t, err)

		for _, token := range []string{"", "deadbeef", foreign} {
			// When: the token is resolved against the first game
			slot, err := authority.Resolve(game, token)

			// Then: ErrInvalidToken is returned
			require.ErrorIs(t, err, apperror.ErrInvalidToken)
			assert.Equal(t, entity.SlotNone, slot)
		}
	})

	t.Run("Slots without a token never match", func(t *testing.T) {
		// Given: a game where no token was issued
		game := newTwoPlayerGame(t)

		// When: the hash of an empty string is presented
		_, err := NewTokenAuthority().Resolve(game, " ")

		// Then: ErrInvalidToken is returned
		require.ErrorIs(t, err, apperror.ErrInvalidToken)
	})
}
