package syncer

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"matching-backend/internal/cache"
	"matching-backend/internal/index"
	"matching-backend/internal/matching"
	"matching-backend/internal/shared/metrics"
	"matching-backend/internal/shared/telemetry"
	"matching-backend/internal/source"
)

// Phase is where a sync run currently is. Observable through Phase() so a
// status endpoint can report in-flight runs.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseComputingDelta Phase = "computing_delta"
	PhaseProcessing     Phase = "processing"
	PhaseCommitting     Phase = "committing"
)

// TitleStandardizer is the slice of the titles package the orchestrator
// needs; tests substitute a fixture implementation.
type TitleStandardizer interface {
	Standardize(ctx context.Context, rawTitle string) (matching.TitleMapping, error)
	CanonicalEmbedding(canonical string) ([]float32, bool)
}

// Summary reports one finished sync run. Failed records are excluded from
// the commit and listed by id so an operator can chase them.
type Summary struct {
	RunID     string    `json:"runId"`
	Entity    Entity    `json:"entity"`
	FullLoad  bool      `json:"fullLoad"`
	Processed int       `json:"processed"`
	Indexed   int       `json:"indexed"`
	Failed    int       `json:"failed"`
	FailedIDs []string  `json:"failedIds,omitempty"`
	Watermark time.Time `json:"watermark"`
	Started   time.Time `json:"started"`
	Finished  time.Time `json:"finished"`
}

const defaultWorkers = 4

// Orchestrator drives sync runs. Runs for the same entity are serialized by
// a per-entity lock; candidates and jobs may sync in parallel. Records
// inside a batch are processed by a bounded worker group.
type Orchestrator struct {
	Source     source.Reader
	Index      index.Store
	Titles     TitleStandardizer
	States     StateStore
	Embeddings cache.EmbeddingCache
	TitleCache cache.TitleCache
	Workers    int

	mu       sync.Mutex
	runLocks map[Entity]*sync.Mutex
	phases   map[Entity]Phase
}

func NewOrchestrator(src source.Reader, idx index.Store, titles TitleStandardizer, states StateStore, embeddings cache.EmbeddingCache, titleCache cache.TitleCache) *Orchestrator {
	return &Orchestrator{
		Source:     src,
		Index:      idx,
		Titles:     titles,
		States:     states,
		Embeddings: embeddings,
		TitleCache: titleCache,
		Workers:    defaultWorkers,
		runLocks: map[Entity]*sync.Mutex{
			EntityCandidates: {},
			EntityJobs:       {},
		},
		phases: map[Entity]Phase{
			EntityCandidates: PhaseIdle,
			EntityJobs:       PhaseIdle,
		},
	}
}

// Phase reports the current phase for an entity.
func (o *Orchestrator) Phase(entity Entity) Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	if p, ok := o.phases[entity]; ok {
		return p
	}
	return PhaseIdle
}

func (o *Orchestrator) setPhase(entity Entity, p Phase) {
	o.mu.Lock()
	o.phases[entity] = p
	o.mu.Unlock()
}

func (o *Orchestrator) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return defaultWorkers
}

// SyncCandidates pulls changed candidates, rebuilds their derived fields and
// commits the batch to the index. The watermark advances to the newest
// last-modified among successfully processed records, and only when at least
// one succeeded.
func (o *Orchestrator) SyncCandidates(ctx context.Context, fullLoad bool) (_ Summary, err error) {
	lock := o.runLocks[EntityCandidates]
	lock.Lock()
	defer lock.Unlock()
	defer o.setPhase(EntityCandidates, PhaseIdle)
	metrics.IncSyncRun()
	defer func() {
		if err != nil {
			metrics.IncSyncRunFailed()
		}
	}()

	summary := Summary{
		RunID:    uuid.NewString(),
		Entity:   EntityCandidates,
		FullLoad: fullLoad,
		Started:  time.Now().UTC(),
	}

	o.setPhase(EntityCandidates, PhaseComputingDelta)
	since, err := o.since(ctx, EntityCandidates, fullLoad)
	if err != nil {
		return summary, err
	}
	records, err := o.Source.CandidatesModifiedSince(ctx, since)
	if err != nil {
		return summary, err
	}
	summary.Processed = len(records)

	o.setPhase(EntityCandidates, PhaseProcessing)
	processed := make([]*matching.CandidateProfile, len(records))
	var failMu sync.Mutex
	var failures []matching.RecordError

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers())
	for i, rec := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := o.processCandidate(gctx, rec)
			if err != nil {
				failMu.Lock()
				failures = append(failures, matching.RecordError{RecordID: rec.ID, Err: err})
				failMu.Unlock()
				return nil
			}
			processed[i] = &p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	var commit []matching.CandidateProfile
	var watermark time.Time
	for _, p := range processed {
		if p == nil {
			continue
		}
		commit = append(commit, *p)
		if p.LastModified.After(watermark) {
			watermark = p.LastModified
		}
	}

	o.setPhase(EntityCandidates, PhaseCommitting)
	if len(commit) > 0 {
		if err := o.Index.UpsertCandidates(ctx, commit); err != nil {
			return summary, err
		}
		if err := o.States.SetWatermark(ctx, EntityCandidates, watermark); err != nil {
			return summary, err
		}
		summary.Watermark = watermark
	} else {
		summary.Watermark = since
	}

	o.finish(&summary, failures)
	return summary, nil
}

// SyncJobs is the job-posting counterpart of SyncCandidates.
func (o *Orchestrator) SyncJobs(ctx context.Context, fullLoad bool) (_ Summary, err error) {
	lock := o.runLocks[EntityJobs]
	lock.Lock()
	defer lock.Unlock()
	defer o.setPhase(EntityJobs, PhaseIdle)
	metrics.IncSyncRun()
	defer func() {
		if err != nil {
			metrics.IncSyncRunFailed()
		}
	}()

	summary := Summary{
		RunID:    uuid.NewString(),
		Entity:   EntityJobs,
		FullLoad: fullLoad,
		Started:  time.Now().UTC(),
	}

	o.setPhase(EntityJobs, PhaseComputingDelta)
	since, err := o.since(ctx, EntityJobs, fullLoad)
	if err != nil {
		return summary, err
	}
	records, err := o.Source.JobsModifiedSince(ctx, since)
	if err != nil {
		return summary, err
	}
	summary.Processed = len(records)

	o.setPhase(EntityJobs, PhaseProcessing)
	processed := make([]*matching.JobRequest, len(records))
	var failMu sync.Mutex
	var failures []matching.RecordError

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers())
	for i, rec := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			job, err := o.processJob(gctx, rec)
			if err != nil {
				failMu.Lock()
				failures = append(failures, matching.RecordError{RecordID: rec.Job.PostID, Err: err})
				failMu.Unlock()
				return nil
			}
			processed[i] = &job
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	o.setPhase(EntityJobs, PhaseCommitting)
	var committed int
	var watermark time.Time
	for i, job := range processed {
		if job == nil {
			continue
		}
		if err := o.Index.UpsertJob(ctx, *job); err != nil {
			return summary, err
		}
		committed++
		if records[i].LastModified.After(watermark) {
			watermark = records[i].LastModified
		}
	}
	if committed > 0 {
		if err := o.States.SetWatermark(ctx, EntityJobs, watermark); err != nil {
			return summary, err
		}
		summary.Watermark = watermark
	} else {
		summary.Watermark = since
	}

	o.finish(&summary, failures)
	return summary, nil
}

// Reset clears both derived-data caches and the index content. It takes
// both run locks so no sync is in flight while state is wiped.
func (o *Orchestrator) Reset(ctx context.Context) error {
	o.runLocks[EntityCandidates].Lock()
	defer o.runLocks[EntityCandidates].Unlock()
	o.runLocks[EntityJobs].Lock()
	defer o.runLocks[EntityJobs].Unlock()

	if err := o.Embeddings.Reset(ctx); err != nil {
		return err
	}
	if err := o.TitleCache.Reset(ctx); err != nil {
		return err
	}
	if err := o.Index.Reset(ctx); err != nil {
		return err
	}
	if err := o.States.SetWatermark(ctx, EntityCandidates, time.Time{}); err != nil {
		return err
	}
	if err := o.States.SetWatermark(ctx, EntityJobs, time.Time{}); err != nil {
		return err
	}
	telemetry.Info("sync.reset", map[string]any{"caches": "cleared", "index": "cleared"})
	return nil
}

func (o *Orchestrator) since(ctx context.Context, entity Entity, fullLoad bool) (time.Time, error) {
	if fullLoad {
		return time.Time{}, nil
	}
	return o.States.Watermark(ctx, entity)
}

// processCandidate rebuilds the derived fields of one profile: standardized
// titles for every role, the profile-level title mapping and embedding from
// the most recent role, and the inferred seniority level. The input record
// is untouched on failure, nothing half-derived is ever committed.
func (o *Orchestrator) processCandidate(ctx context.Context, rec matching.CandidateProfile) (matching.CandidateProfile, error) {
	p := rec
	p.Experiences = append([]matching.WorkExperience(nil), rec.Experiences...)

	var recent *matching.TitleMapping
	for i := range p.Experiences {
		m, err := o.Titles.Standardize(ctx, p.Experiences[i].RawTitle)
		if err != nil {
			return matching.CandidateProfile{}, err
		}
		p.Experiences[i].StandardizedTitle = m.Canonical
		if i == 0 {
			mapping := m
			recent = &mapping
		}
	}
	p.Seniority = matching.InferSeniority(p.Experiences)
	p.StandardizedTitle = recent
	if recent != nil && recent.Canonical != matching.UnspecifiedTitle {
		if emb, ok := o.Titles.CanonicalEmbedding(recent.Canonical); ok {
			p.TitleEmbedding = emb
		}
	}
	return p, nil
}

// processJob standardizes the posting title and derives the level from it;
// source postings carry no reliable seniority field of their own.
func (o *Orchestrator) processJob(ctx context.Context, rec source.JobRecord) (matching.JobRequest, error) {
	job := rec.Job
	if job.PostID == "" {
		return matching.JobRequest{}, errors.New("job record without post id")
	}
	m, err := o.Titles.Standardize(ctx, job.Title)
	if err != nil {
		return matching.JobRequest{}, err
	}
	job.StandardizedTitle = m.Canonical
	if m.Canonical != matching.UnspecifiedTitle {
		if emb, ok := o.Titles.CanonicalEmbedding(m.Canonical); ok {
			job.TitleEmbedding = emb
		}
	}
	job.Seniority = matching.InferJobSeniority(job.Title)
	return job, nil
}

func (o *Orchestrator) finish(summary *Summary, failures []matching.RecordError) {
	summary.Failed = len(failures)
	summary.Indexed = summary.Processed - summary.Failed
	for _, f := range failures {
		summary.FailedIDs = append(summary.FailedIDs, f.RecordID)
	}
	sort.Strings(summary.FailedIDs)
	summary.Finished = time.Now().UTC()

	metrics.AddSyncRecordsFailed(uint64(summary.Failed))
	metrics.ObserveSyncDurationMs(float64(summary.Finished.Sub(summary.Started)) / float64(time.Millisecond))

	telemetry.Info("sync.completed", map[string]any{
		"run_id":    summary.RunID,
		"entity":    string(summary.Entity),
		"full_load": summary.FullLoad,
		"processed": summary.Processed,
		"indexed":   summary.Indexed,
		"failed":    summary.Failed,
		"watermark": summary.Watermark,
	})
}
