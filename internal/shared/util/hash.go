package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// OwnerPrefix maps a user id to the directory used for that user's stored
// resumes and exports, so raw ids never appear in object keys.
func OwnerPrefix(userID string) string {
	sum := sha256.Sum256([]byte("owner:" + userID))
	return hex.EncodeToString(sum[:16])
}
