package handlers

import (
	"errors"

	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/services"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ScheduleHandler handles confirmed WFH schedule endpoints
type ScheduleHandler struct {
	scheduleService *services.ScheduleService
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(scheduleService *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// RetrieveSchedules lists confirmed WFH days
// @Summary List schedules
// @Description List the employee's confirmed WFH days; scope=team lists direct reports (approvers only)
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param scope query string false "own (default) or team"
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /schedule/retrieveSchedules [get]
func (h *ScheduleHandler) RetrieveSchedules(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	from := c.Query("from")
	to := c.Query("to")

	var err error
	var schedules interface{}
	if c.Query("scope") == "team" {
		schedules, err = h.scheduleService.ListTeam(c.Context(), actor, from, to)
	} else {
		schedules, err = h.scheduleService.ListOwn(c.Context(), actor, from, to)
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAuthorization):
			return response.Forbidden(c, "Only managers and HR can view team schedules")
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to retrieve schedules")
		}
	}

	return response.Success(c, "Schedules retrieved successfully", fiber.Map{
		"schedules": schedules,
	})
}
