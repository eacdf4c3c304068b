package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"matching-backend/internal/matches"
	"matching-backend/internal/scoringconfig"
	"matching-backend/internal/shared/config"
	"matching-backend/internal/shared/metrics"
	"matching-backend/internal/shared/server/middleware"
	"matching-backend/internal/shared/server/respond"
	"matching-backend/internal/syncer"
)

// RouterDeps carries the handlers the router mounts. Construction of the
// underlying services lives in bootstrap.
type RouterDeps struct {
	Config        config.Config
	MatchHandler  *matches.Handler
	ConfigHandler *scoringconfig.Handler
	SyncHandler   *syncer.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: syncGroupFor,
			Rules: map[string]middleware.RateLimitRule{
				"DEFAULT": {Rate: 10, Burst: 30},
				"SYNC":    {Rate: 0.2, Burst: 2},
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.MatchHandler != nil {
		deps.MatchHandler.RegisterRoutes(api)
	}
	if deps.ConfigHandler != nil {
		deps.ConfigHandler.RegisterRoutes(api)
	}
	if deps.SyncHandler != nil {
		deps.SyncHandler.RegisterRoutes(api)
	}

	return r
}

// syncGroupFor throttles sync triggers harder than read traffic; a full
// load is expensive and one in flight per entity is plenty.
func syncGroupFor(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/sync/:entity" {
		return "SYNC"
	}
	return "DEFAULT"
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
