package matches

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"matching-backend/internal/index"
	"matching-backend/internal/matching"
	"matching-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/match", h.match)
	rg.GET("/jobs/:id/matches", h.jobMatches)
}

func (h *Handler) match(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "malformed match request", err.Error())
		return
	}
	resp, err := h.Svc.Match(c.Request.Context(), req.toJob(), req.MaxResults)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) jobMatches(c *gin.Context) {
	maxResults := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respond.Error(c, http.StatusBadRequest, "invalid_request", "limit must be a positive integer", nil)
			return
		}
		maxResults = n
	}
	resp, err := h.Svc.MatchJob(c.Request.Context(), c.Param("id"), maxResults)
	if err != nil {
		if errors.Is(err, index.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "job is not indexed", nil)
			return
		}
		h.writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var invalid matching.InvalidConfigError
	switch {
	case errors.Is(err, matching.ErrEmbeddingUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "embedding_unavailable", "embedding provider unavailable, retry later", nil)
	case errors.Is(err, matching.ErrSourceUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "index_unavailable", "search index unavailable, retry later", nil)
	case errors.As(err, &invalid):
		respond.Error(c, http.StatusInternalServerError, "invalid_config", invalid.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "match request failed", nil)
	}
}
