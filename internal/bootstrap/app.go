package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"matching-backend/internal/cache"
	"matching-backend/internal/embedding"
	openai "matching-backend/internal/embedding/openai"
	"matching-backend/internal/index"
	"matching-backend/internal/matches"
	"matching-backend/internal/matching"
	"matching-backend/internal/scoringconfig"
	"matching-backend/internal/shared/config"
	"matching-backend/internal/shared/server"
	"matching-backend/internal/shared/storage/db"
	"matching-backend/internal/source"
	"matching-backend/internal/syncer"
	"matching-backend/internal/titles"
)

// App holds shared dependencies for the API server and the sync CLI.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	EmbeddingCache cache.EmbeddingCache
	TitleCache     cache.TitleCache
	Embedder       embedding.Embedder
	Standardizer   *titles.Standardizer
	Index          index.Store
	Source         source.Reader
	ConfigService  *scoringconfig.Service
	MatchService   *matches.Service
	Orchestrator   *syncer.Orchestrator

	MatchHandler  *matches.Handler
	ConfigHandler *scoringconfig.Handler
	SyncHandler   *syncer.Handler
}

// Build prepares shared dependencies and wires the router. Without a
// database the stores run in memory, which is only acceptable for dev.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB}

	if sqlDB != nil {
		app.EmbeddingCache = &cache.PGEmbeddingCache{DB: sqlDB, Model: cfg.EmbeddingModel}
		app.TitleCache = &cache.PGTitleCache{DB: sqlDB}
		app.Index = &index.PGStore{DB: sqlDB}
	} else {
		app.EmbeddingCache = cache.NewMemoryEmbeddingCache()
		app.TitleCache = cache.NewMemoryTitleCache()
		app.Index = index.NewMemoryStore()
	}

	provider, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	app.Embedder = embedding.NewCachedEmbedder(provider, app.EmbeddingCache)

	vocabulary, err := titles.LoadVocabulary(cfg.VocabularyPath)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	app.Standardizer, err = titles.NewStandardizer(ctx, app.Embedder, app.TitleCache, vocabulary)
	if err != nil {
		return nil, fmt.Errorf("build standardizer: %w", err)
	}

	var configRepo scoringconfig.Repo
	var states syncer.StateStore
	if sqlDB != nil {
		configRepo = &scoringconfig.PGRepo{DB: sqlDB}
		states = &syncer.PGStateStore{DB: sqlDB}
		app.Source = &source.SQLReader{DB: sqlDB}
	} else {
		configRepo = scoringconfig.NewMemoryRepo()
		states = syncer.NewMemoryStateStore()
		app.Source = source.NewMemoryReader()
	}
	app.ConfigService, err = scoringconfig.NewService(ctx, configRepo)
	if err != nil {
		return nil, fmt.Errorf("scoring config: %w", err)
	}

	engine := matching.NewEngine(matching.DefaultScorerParams())
	app.MatchService = matches.NewService(app.Standardizer, app.Index, app.ConfigService, engine)
	if cfg.MatchMaxResults > 0 {
		app.MatchService.MaxResults = cfg.MatchMaxResults
	}

	app.Orchestrator = syncer.NewOrchestrator(app.Source, app.Index, app.Standardizer, states, app.EmbeddingCache, app.TitleCache)
	if cfg.SyncWorkers > 0 {
		app.Orchestrator.Workers = cfg.SyncWorkers
	}

	app.MatchHandler = matches.NewHandler(app.MatchService)
	app.ConfigHandler = scoringconfig.NewHandler(app.ConfigService)
	app.SyncHandler = syncer.NewHandler(app.Orchestrator)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		MatchHandler:  app.MatchHandler,
		ConfigHandler: app.ConfigHandler,
		SyncHandler:   app.SyncHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory stores")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory stores: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch env {
	case "dev", "local":
		return true
	default:
		return false
	}
}
