package redis

import (
	"crypto/sha256"
	"encoding/hex"
)

const (
	// KeyPrefixSubject is the prefix for cached identity lookups
	KeyPrefixSubject = "ablemap:subject:"
)

// SubjectKey returns the Redis key for a credential. Only a SHA-256 digest
// of the credential is ever written to Redis.
func SubjectKey(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return KeyPrefixSubject + hex.EncodeToString(sum[:])
}
