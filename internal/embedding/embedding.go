// Package embedding defines the boundary to the external embedding provider.
// The rest of the system treats an Embedder as pure, cacheable, and fallible.
package embedding

import "context"

// Dims is the fixed dimension of every vector the provider returns.
const Dims = 1536

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch embeds several texts in one provider call, preserving order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
