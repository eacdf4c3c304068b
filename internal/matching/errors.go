package matching

import "fmt"

// ErrEmbeddingUnavailable indicates the embedding provider call failed or
// timed out. Callers may retry or skip the record for the current cycle.
var ErrEmbeddingUnavailable = errEmbeddingUnavailable{}

type errEmbeddingUnavailable struct{}

func (errEmbeddingUnavailable) Error() string { return "embedding provider unavailable" }

// ErrSourceUnavailable indicates the source-of-truth store or the search
// index could not be reached. A sync run aborts without advancing the
// watermark when it sees this error.
var ErrSourceUnavailable = errSourceUnavailable{}

type errSourceUnavailable struct{}

func (errSourceUnavailable) Error() string { return "source store unavailable" }

// InvalidConfigError indicates persisted or submitted scoring weights violate
// the sum-to-100 invariant or the threshold range. A match request with
// invalid persisted config fails as a whole.
type InvalidConfigError struct {
	Reason string
}

func (e InvalidConfigError) Error() string {
	return "invalid scoring config: " + e.Reason
}

// RecordError captures a single candidate or job that failed processing
// during a sync batch. It is collected into the run summary, never fatal to
// the run.
type RecordError struct {
	RecordID string
	Err      error
}

func (e RecordError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("record %s failed", e.RecordID)
	}
	return fmt.Sprintf("record %s: %v", e.RecordID, e.Err)
}

func (e RecordError) Unwrap() error { return e.Err }
