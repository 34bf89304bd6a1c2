package pkg

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	gameIDLength  = 6
	gameIDLetters = "abcdefghijklmnopqrstuvwxyz"
	tokenBytes    = 16
)

// GenerateGameID - generates a short id of lower-case letters.
func GenerateGameID() (string, error) {
	id := make([]byte, gameIDLength)
	limit := big.NewInt(int64(len(gameIDLetters)))

	for i := range id {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to read random letter: %w", err)
		}
		id[i] = gameIDLetters[n.Int64()]
	}

	return string(id), nil
}

// GenerateToken - generates 128 random bits, hex encoded.
func GenerateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return hex.EncodeToString(b), nil
}
