package handlers

import (
	"errors"
	"strconv"

	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/services"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BlacklistHandler handles blocked-window endpoints
type BlacklistHandler struct {
	blacklistService *services.BlacklistService
}

// NewBlacklistHandler creates a new blacklist handler
func NewBlacklistHandler(blacklistService *services.BlacklistService) *BlacklistHandler {
	return &BlacklistHandler{blacklistService: blacklistService}
}

// CreateBlacklistDate creates a blocked window
// @Summary Create blacklist window
// @Description Block a date range company-wide, optionally recurring, with attachments
// @Tags Blacklist
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /blacklist/createBlacklistDate [post]
func (h *BlacklistHandler) CreateBlacklistDate(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	uploads, err := collectUploads(c)
	if err != nil {
		return response.BadRequest(c, "Invalid file upload")
	}

	input := &services.CreateBlacklistInput{
		StartDate:     c.FormValue("start_date"),
		EndDate:       c.FormValue("end_date"),
		Remarks:       c.FormValue("remarks"),
		Recurrence:    c.FormValue("recurrence"),
		RecurrenceEnd: c.FormValue("recurrence_end"),
		Files:         uploads,
	}
	if input.StartDate == "" {
		if err := c.BodyParser(input); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	windows, err := h.blacklistService.Create(c.Context(), actor, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAuthorization):
			return response.Forbidden(c, "Only managers and HR can manage blacklist dates")
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to create blacklist window")
		}
	}

	return response.Created(c, "Blacklist window created successfully", fiber.Map{
		"blacklists": windows,
	})
}

// UpdateBlacklistDate edits a blocked window
// @Summary Update blacklist window
// @Description Edit the dates or remarks of a blocked window
// @Tags Blacklist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Blacklist ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /blacklist/updateBlacklistDate/{id} [patch]
func (h *BlacklistHandler) UpdateBlacklistDate(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid blacklist ID")
	}

	var input services.UpdateBlacklistInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	window, err := h.blacklistService.Update(c.Context(), actor, uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAuthorization):
			return response.Forbidden(c, "Only managers and HR can manage blacklist dates")
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Blacklist window not found")
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to update blacklist window")
		}
	}

	return response.Success(c, "Blacklist window updated successfully", fiber.Map{
		"blacklist": window,
	})
}

// DeleteBlacklist removes a blocked window
// @Summary Delete blacklist window
// @Description Delete a blocked window and its attachments
// @Tags Blacklist
// @Produce json
// @Security BearerAuth
// @Param id path int true "Blacklist ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /blacklist/deleteBlacklist/{id} [delete]
func (h *BlacklistHandler) DeleteBlacklist(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid blacklist ID")
	}

	if err := h.blacklistService.Delete(c.Context(), actor, uint(id)); err != nil {
		switch {
		case errors.Is(err, domain.ErrAuthorization):
			return response.Forbidden(c, "Only managers and HR can manage blacklist dates")
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Blacklist window not found")
		default:
			return response.InternalServerError(c, "Failed to delete blacklist window")
		}
	}

	return response.Success(c, "Blacklist window deleted successfully", nil)
}

// GetBlacklistDates lists blocked windows
// @Summary List blacklist windows
// @Description List blocked windows intersecting the optional date range
// @Tags Blacklist
// @Produce json
// @Security BearerAuth
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Router /blacklist/getBlacklistDates [get]
func (h *BlacklistHandler) GetBlacklistDates(c *fiber.Ctx) error {
	windows, err := h.blacklistService.List(c.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to retrieve blacklist windows")
	}

	return response.Success(c, "Blacklist windows retrieved successfully", fiber.Map{
		"blacklists": windows,
	})
}
