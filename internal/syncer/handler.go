package syncer

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"matching-backend/internal/matching"
	"matching-backend/internal/shared/server/respond"
)

type Handler struct {
	Orc *Orchestrator
}

func NewHandler(orc *Orchestrator) *Handler {
	return &Handler{Orc: orc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sync/:entity", h.run)
	rg.POST("/sync/reset", h.reset)
	rg.GET("/sync/status", h.status)
}

// run triggers a sync for one entity and blocks until it finishes. Batch
// sizes are bounded by the delta, so a trigger returning the summary beats
// a fire-and-forget endpoint the operator then has to poll.
func (h *Handler) run(c *gin.Context) {
	full := c.Query("full") == "true"

	var summary Summary
	var err error
	switch Entity(c.Param("entity")) {
	case EntityCandidates:
		summary, err = h.Orc.SyncCandidates(c.Request.Context(), full)
	case EntityJobs:
		summary, err = h.Orc.SyncJobs(c.Request.Context(), full)
	default:
		respond.Error(c, http.StatusBadRequest, "invalid_request", "entity must be candidates or jobs", nil)
		return
	}
	if err != nil {
		if errors.Is(err, matching.ErrSourceUnavailable) {
			respond.Error(c, http.StatusServiceUnavailable, "source_unavailable", "source of record unavailable, run aborted", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "sync_failed", "sync run failed", err.Error())
		return
	}
	respond.JSON(c, http.StatusOK, summary)
}

func (h *Handler) reset(c *gin.Context) {
	if err := h.Orc.Reset(c.Request.Context()); err != nil {
		respond.Error(c, http.StatusInternalServerError, "reset_failed", "reset failed", err.Error())
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"status": "reset"})
}

func (h *Handler) status(c *gin.Context) {
	respond.JSON(c, http.StatusOK, gin.H{
		"candidates": h.Orc.Phase(EntityCandidates),
		"jobs":       h.Orc.Phase(EntityJobs),
	})
}
