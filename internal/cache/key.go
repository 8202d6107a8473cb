package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/studyquest/studyquest-api/internal/domain"
)

// Key derives the deterministic cache key for a generation request. The
// topic is normalized (trimmed, lowercased, whitespace collapsed) before
// hashing, so topics differing only in casing or spacing share a key.
// Parameters enter the digest in canonical sorted order, so equal inputs
// always produce the equal key.
func Key(topic string, contentType domain.ContentType, params domain.Params) string {
	parts := []string{domain.NormalizeTopic(topic), string(contentType)}
	parts = append(parts, params.Canonical()...)

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
