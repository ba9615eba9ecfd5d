package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

func NewRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
