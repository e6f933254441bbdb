package tokens

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const refreshTokenBytes = 32

// NewRefreshToken returns an opaque value with no embedded claims.
func NewRefreshToken() (string, error) {
	return randomHex(refreshTokenBytes)
}

// NewInvitationToken uses the same generator as refresh tokens.
func NewInvitationToken() (string, error) {
	return randomHex(refreshTokenBytes)
}

func Sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(b), nil
}
