package token

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the sha256 hex digest of a credential. Revocation
// state and audit entries are keyed by fingerprint so that raw bearer
// strings never reach disk or logs.
func Fingerprint(credential string) string {
	hash := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(hash[:])
}
