package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/turtacn/credscore/internal/application/service"
	"github.com/turtacn/credscore/pkg/logger"
)

// StatsHandler serves aggregate decision statistics.
type StatsHandler struct {
	stats service.StatsAppService
	log   logger.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(stats service.StatsAppService, log logger.Logger) *StatsHandler {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &StatsHandler{stats: stats, log: log.WithComponent("stats_handler")}
}

// GetStats godoc
// @Summary      Aggregate decision statistics
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.StatsResponse
// @Failure      401  {object}  errors.ErrorResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	resp, err := h.stats.GetStats(c.Request.Context())
	if err != nil {
		h.log.Error(c.Request.Context(), "Failed to load stats", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
