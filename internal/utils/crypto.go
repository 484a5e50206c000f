package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns n random bytes hex-encoded.
func GenerateSecureToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// MustGenerateSecureToken is GenerateSecureToken for callers that cannot
// recover from an entropy failure anyway.
func MustGenerateSecureToken(n int) string {
	token, err := GenerateSecureToken(n)
	if err != nil {
		panic(err)
	}
	return token
}
