// Package cache holds the two derived-data caches: embedding vectors keyed
// by text, and title standardization results keyed by raw title. Entries
// never expire on their own; only an explicit reset removes them, which is
// how a one-time full re-embed is forced.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"matching-backend/internal/matching"
)

// EmbeddingCache stores text-to-vector results.
type EmbeddingCache interface {
	Get(ctx context.Context, text string) ([]float32, bool, error)
	Put(ctx context.Context, text string, vector []float32) error
	Reset(ctx context.Context) error
}

// TitleCache stores raw-title-to-canonical-title results.
type TitleCache interface {
	Get(ctx context.Context, rawTitle string) (matching.TitleMapping, bool, error)
	Put(ctx context.Context, rawTitle string, mapping matching.TitleMapping) error
	Reset(ctx context.Context) error
}

// NormalizeKey lowercases and collapses whitespace so trivially different
// spellings of the same text share one cache entry.
func NormalizeKey(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}

// TextHash is the embedding-cache storage key: sha256 of the normalized text.
func TextHash(text string) string {
	sum := sha256.Sum256([]byte(NormalizeKey(text)))
	return hex.EncodeToString(sum[:])
}
