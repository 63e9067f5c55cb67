package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// resumeIDFor derives a stable résumé identity from the upload name, so
// re-uploading the same file replaces its entries instead of duplicating
// them.
func resumeIDFor(fileName string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(fileName))))
	return hex.EncodeToString(hash[:])[:16]
}

func contentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
