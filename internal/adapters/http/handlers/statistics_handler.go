package handlers

import (
	"errors"

	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/services"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// StatisticsHandler handles the HR overview endpoint
type StatisticsHandler struct {
	statisticsService *services.StatisticsService
}

// NewStatisticsHandler creates a new statistics handler
func NewStatisticsHandler(statisticsService *services.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

// Overview returns the HR dashboard figures
// @Summary Statistics overview
// @Description Application counts by status and the WFH headcount for the coming week (HR only)
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /statistics/overview [get]
func (h *StatisticsHandler) Overview(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	overview, err := h.statisticsService.Overview(c.Context(), actor)
	if err != nil {
		if errors.Is(err, domain.ErrAuthorization) {
			return response.Forbidden(c, "Only HR can view the statistics overview")
		}
		return response.InternalServerError(c, "Failed to retrieve statistics")
	}

	return response.Success(c, "Statistics retrieved successfully", overview)
}
