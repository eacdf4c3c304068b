package syncer

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGStateStore keeps one row per entity in sync_state.
type PGStateStore struct {
	DB *sql.DB
}

func (s *PGStateStore) Watermark(ctx context.Context, entity Entity) (time.Time, error) {
	const query = `
SELECT last_synced
FROM sync_state
WHERE entity = $1
LIMIT 1`
	var t time.Time
	err := s.DB.QueryRowContext(ctx, query, string(entity)).Scan(&t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func (s *PGStateStore) SetWatermark(ctx context.Context, entity Entity, t time.Time) error {
	const query = `
INSERT INTO sync_state (entity, last_synced, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (entity) DO UPDATE SET
  last_synced = EXCLUDED.last_synced,
  updated_at = now()`
	_, err := s.DB.ExecContext(ctx, query, string(entity), t)
	return err
}
