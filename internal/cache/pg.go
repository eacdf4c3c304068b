package cache

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"matching-backend/internal/matching"
)

// PGEmbeddingCache persists embeddings in Postgres, vectors as packed
// little-endian float32 bytes.
type PGEmbeddingCache struct {
	DB    *sql.DB
	Model string
}

func (c *PGEmbeddingCache) Get(ctx context.Context, text string) ([]float32, bool, error) {
	const query = `
SELECT vector
FROM embedding_cache
WHERE text_hash = $1 AND model = $2
LIMIT 1`
	var raw []byte
	err := c.DB.QueryRowContext(ctx, query, TextHash(text), c.Model).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	vec, err := decodeVector(raw)
	if err != nil {
		return nil, false, err
	}
	return vec, true, nil
}

func (c *PGEmbeddingCache) Put(ctx context.Context, text string, vector []float32) error {
	const query = `
INSERT INTO embedding_cache (text_hash, model, vector, created_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (text_hash, model) DO UPDATE SET
  vector = EXCLUDED.vector`
	_, err := c.DB.ExecContext(ctx, query, TextHash(text), c.Model, encodeVector(vector))
	return err
}

func (c *PGEmbeddingCache) Reset(ctx context.Context) error {
	_, err := c.DB.ExecContext(ctx, `DELETE FROM embedding_cache`)
	return err
}

// PGTitleCache persists title standardization results in Postgres.
type PGTitleCache struct {
	DB *sql.DB
}

func (c *PGTitleCache) Get(ctx context.Context, rawTitle string) (matching.TitleMapping, bool, error) {
	const query = `
SELECT canonical, similarity
FROM title_mappings
WHERE raw_title = $1
LIMIT 1`
	var mapping matching.TitleMapping
	err := c.DB.QueryRowContext(ctx, query, NormalizeKey(rawTitle)).Scan(&mapping.Canonical, &mapping.Similarity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return matching.TitleMapping{}, false, nil
		}
		return matching.TitleMapping{}, false, err
	}
	return mapping, true, nil
}

func (c *PGTitleCache) Put(ctx context.Context, rawTitle string, mapping matching.TitleMapping) error {
	const query = `
INSERT INTO title_mappings (raw_title, canonical, similarity, created_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (raw_title) DO UPDATE SET
  canonical = EXCLUDED.canonical,
  similarity = EXCLUDED.similarity`
	_, err := c.DB.ExecContext(ctx, query, NormalizeKey(rawTitle), mapping.Canonical, mapping.Similarity)
	return err
}

func (c *PGTitleCache) Reset(ctx context.Context) error {
	_, err := c.DB.ExecContext(ctx, `DELETE FROM title_mappings`)
	return err
}

func encodeVector(vec []float32) []byte {
	out := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func decodeVector(raw []byte) ([]float32, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("vector blob length %d not a multiple of 4", len(raw))
	}
	vec := make([]float32, len(raw)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return vec, nil
}
