package scoringconfig

import (
	"context"

	"matching-backend/internal/matching"
)

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "scoring config not found" }

// Repo persists the single scoring weights record. Save must round-trip
// exactly: a Load after Save returns the identical values.
type Repo interface {
	Load(ctx context.Context) (matching.ScoringWeights, error)
	Save(ctx context.Context, w matching.ScoringWeights) error
}
