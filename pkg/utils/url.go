package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashURL creates a SHA256 hash of a URL string.
// This is useful for creating consistent, safe keys for Redis.
func HashURL(rawURL string) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	return hex.EncodeToString(h.Sum(nil))
}

// JoinLink places link under base with a single "/" separator. Neither side
// is cleaned or validated.
func JoinLink(base, link string) string {
	return base + "/" + link
}

// LastSegment returns the part of rawURL after its final "/", or the whole
// string when it has none.
func LastSegment(rawURL string) string {
	return rawURL[strings.LastIndex(rawURL, "/")+1:]
}
