package scoringconfig

import (
	"net/http"

	"github.com/gin-gonic/gin"

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
	rg.GET("/config", h.get)
	rg.PUT("/config", h.put)
}

func (h *Handler) get(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "config service unavailable", nil)
		return
	}
	respond.JSON(c, http.StatusOK, h.Svc.Current())
}

// put accepts a full or partial weights/threshold update. The merged result
// must satisfy the sum-to-100 invariant before anything is persisted.
func (h *Handler) put(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "config service unavailable", nil)
		return
	}
	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "malformed config payload", err.Error())
		return
	}
	updated, err := h.Svc.ApplyPatch(c.Request.Context(), patch)
	if err != nil {
		if _, ok := err.(matching.InvalidConfigError); ok {
			respond.Error(c, http.StatusUnprocessableEntity, "invalid_config", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to persist config", nil)
		return
	}
	respond.JSON(c, http.StatusOK, updated)
}
