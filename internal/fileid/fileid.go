// Package fileid provides deterministic keys for ingested files and their contents.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const prefix = "file:"

// FileKey returns a stable key for the given absolute path.
// Same path always yields the same key, regardless of trailing slashes or "." segments.
func FileKey(absolutePath string) string {
	normalized := filepath.Clean(absolutePath)
	hash := sha256.Sum256([]byte(normalized))
	return prefix + hex.EncodeToString(hash[:])
}

// ContentDigest returns the hex SHA-256 of content. Used to skip files whose bytes
// have not changed since they were last ingested.
func ContentDigest(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
