package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewPurchaseToken returns the opaque random identifier handed out when an
// order is paid. It is deliberately not a JWT: purchase tokens are looked up
// server-side and expire by stored timestamp, not by embedded claim.
func NewPurchaseToken() (string, error) {
	return randomHex(16) // 16 bytes -> 32 hex chars
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
