package main

// Run a sync cycle from the command line:
//   go run ./cmd/sync                    incremental sync of both entities
//   go run ./cmd/sync -entity candidates incremental sync of one entity
//   go run ./cmd/sync -full              full load, ignoring watermarks
//   go run ./cmd/sync -reset -full       clear caches and index, then reload

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"matching-backend/internal/bootstrap"
	"matching-backend/internal/shared/config"
	"matching-backend/internal/syncer"
)

func main() {
	entity := flag.String("entity", "all", "entity to sync: candidates, jobs or all")
	full := flag.Bool("full", false, "ignore watermarks and reload everything")
	reset := flag.Bool("reset", false, "clear caches and index content before syncing")
	flag.Parse()

	switch *entity {
	case "all", string(syncer.EntityCandidates), string(syncer.EntityJobs):
	default:
		log.Fatalf("unknown entity %q", *entity)
	}

	cfg := config.Load()
	ctx := context.Background()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	if *reset {
		if !*full {
			log.Fatalf("-reset requires -full: a wiped index must be rebuilt completely")
		}
		if err := app.Orchestrator.Reset(ctx); err != nil {
			log.Fatalf("reset: %v", err)
		}
	}

	exitCode := 0
	if *entity == "all" || *entity == string(syncer.EntityCandidates) {
		if !run(ctx, app, syncer.EntityCandidates, *full) {
			exitCode = 1
		}
	}
	if *entity == "all" || *entity == string(syncer.EntityJobs) {
		if !run(ctx, app, syncer.EntityJobs, *full) {
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func run(ctx context.Context, app *bootstrap.App, entity syncer.Entity, full bool) bool {
	var summary syncer.Summary
	var err error
	switch entity {
	case syncer.EntityCandidates:
		summary, err = app.Orchestrator.SyncCandidates(ctx, full)
	case syncer.EntityJobs:
		summary, err = app.Orchestrator.SyncJobs(ctx, full)
	}
	if err != nil {
		log.Printf("sync %s failed: %v", entity, err)
		return false
	}
	out, _ := json.Marshal(summary)
	log.Printf("sync %s done: %s", entity, out)
	return summary.Failed == 0
}
