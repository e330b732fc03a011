package utils

import (
	"crypto/sha256"
	"fmt"
)

// ContentHasher fingerprints artifacts and secrets for logs and manifests.
type ContentHasher struct{}

func NewContentHasher() *ContentHasher {
	return &ContentHasher{}
}

// Hash returns the hex SHA-256 of content, or "" for empty content.
func (h *ContentHasher) Hash(content string) string {
	if content == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x", sum)
}

// HashShort returns the first 8 hex characters of Hash.
func (h *ContentHasher) HashShort(content string) string {
	full := h.Hash(content)
	if len(full) >= 8 {
		return full[:8]
	}
	return full
}

var globalHasher = NewContentHasher()

// Hash uses the package hasher.
func Hash(content string) string {
	return globalHasher.Hash(content)
}

// HashShort uses the package hasher.
func HashShort(content string) string {
	return globalHasher.HashShort(content)
}
