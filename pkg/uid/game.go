package uid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateGameID returns a random 128-bit hex identifier for a game.
func GenerateGameID() (string, error) {
	return randomHex(16)
}

// GenerateSpectatorID identifies one websocket subscriber.
func GenerateSpectatorID() (string, error) {
	return randomHex(8)
}

func randomHex(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate id: %v", err)
	}
	return hex.EncodeToString(bytes), nil
}
