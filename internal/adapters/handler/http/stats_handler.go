package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitaburn/vitaburn-engine/internal/adapters/handler/http/middleware"
	"github.com/vitaburn/vitaburn-engine/internal/core/services"
	"github.com/vitaburn/vitaburn-engine/internal/core/workers"
)

type StatsHandler struct {
	svc    *services.StatsService
	warmer *workers.StatsWarmer
}

func NewStatsHandler(svc *services.StatsService, warmer *workers.StatsWarmer) *StatsHandler {
	return &StatsHandler{
		svc:    svc,
		warmer: warmer,
	}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats/dashboard", h.GetDashboard)
}

// GetDashboard serves the warm snapshot when one exists and recomputes
// from history otherwise. Both paths return the same shape.
func (h *StatsHandler) GetDashboard(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if h.warmer != nil {
		if stats, hit := h.warmer.Cached(c.Request.Context(), userID); hit {
			c.JSON(http.StatusOK, stats)
			return
		}
	}

	stats, err := h.svc.Dashboard(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve statistics"})
		return
	}

	if h.warmer != nil {
		h.warmer.Enqueue(userID)
	}

	c.JSON(http.StatusOK, stats)
}
