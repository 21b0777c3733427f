// Package digest implements the one-way password digest used for per-post
// deletion passwords and the shared login secret.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of s. Deterministic and
// unsalted: the same input always yields the same digest, so stored digests
// can be compared directly.
func Sum(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// Match reports whether plaintext hashes to the stored digest.
func Match(stored, plaintext string) bool {
	return stored == Sum(plaintext)
}
