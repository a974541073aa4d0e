package services

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashContent returns the lower-case hex SHA-256 digest of content.
// It is the identity key of a document within its case.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
