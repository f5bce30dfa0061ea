package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Key kinds. A key's kind is everything before its first colon; the file
// cache stores each kind in its own directory.
const (
	KindLayout   = "layout"
	KindArtifact = "artifact"
)

// Hash returns the hex SHA-256 of data (64 characters).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds "<kind>:<hash of parts>". Parts are hashed through their
// JSON encoding, so struct field tags decide what identifies an entry.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}

// KindOf returns the kind of key, or "" for keys without one.
func KindOf(key string) string {
	kind, _, ok := strings.Cut(key, ":")
	if !ok {
		return ""
	}
	return kind
}
