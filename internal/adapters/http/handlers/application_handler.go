package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/models"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/services"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/pagination"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles WFH application endpoints
type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// DecisionRequest represents an approve/reject/withdraw request body
type DecisionRequest struct {
	Remarks string `json:"remarks"`
}

// toResponses maps a slice of applications to DTOs
func toResponses(apps []*models.Application) []*models.ApplicationResponse {
	out := make([]*models.ApplicationResponse, len(apps))
	for i, app := range apps {
		out[i] = app.ToResponse()
	}
	return out
}

// CreateNewApplication creates a WFH application
// @Summary Create new WFH application
// @Description Submit a WFH application, optionally recurring, with attachments
// @Tags Application
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /application/createNewApplication [post]
func (h *ApplicationHandler) CreateNewApplication(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	uploads, err := collectUploads(c)
	if err != nil {
		return response.BadRequest(c, "Invalid file upload")
	}

	input := &services.CreateApplicationInput{
		StartDate:        c.FormValue("start_date"),
		TimeSlot:         c.FormValue("time_slot"),
		ApplicationType:  c.FormValue("application_type"),
		Recurrence:       c.FormValue("recurrence"),
		RecurrenceEnd:    c.FormValue("recurrence_end"),
		RequestorRemarks: c.FormValue("requestor_remarks"),
		Files:            uploads,
	}
	if input.StartDate == "" {
		// plain JSON body without attachments
		if err := c.BodyParser(input); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	chain, err := h.applicationService.Create(c.Context(), actor, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, domain.ErrConflict):
			return response.Conflict(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to create application")
		}
	}

	return response.Created(c, "Application created successfully", fiber.Map{
		"applications": toResponses(chain),
	})
}

// RetrieveApplications lists the employee's own applications
// @Summary List own applications
// @Description List the authenticated employee's applications with optional filters
// @Tags Application
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Router /application/retrieveApplications [get]
func (h *ApplicationHandler) RetrieveApplications(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	filter := &services.ListFilter{
		Status: c.Query("status"),
		From:   c.Query("from"),
		To:     c.Query("to"),
	}

	apps, meta, err := h.applicationService.List(c.Context(), actor, filter, params)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to retrieve applications")
	}

	return response.Success(c, "Applications retrieved successfully", fiber.Map{
		"applications": toResponses(apps),
		"meta":         meta,
	})
}

// RetrieveApplication returns one application
// @Summary Get application
// @Description Get one application with its attachments
// @Tags Application
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /application/retrieveApplication/{id} [get]
func (h *ApplicationHandler) RetrieveApplication(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.applicationService.Get(c.Context(), actor, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, domain.ErrAuthorization):
			return response.Forbidden(c, "You cannot view this application")
		default:
			return response.InternalServerError(c, "Failed to retrieve application")
		}
	}

	return response.Success(c, "Application retrieved successfully", fiber.Map{
		"application": app.ToResponse(),
	})
}

// RetrievePendingApplications lists applications awaiting the actor's decision
// @Summary List pending applications
// @Description List Pending applications awaiting the approver's decision
// @Tags Application
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /application/retrievePendingApplications [get]
func (h *ApplicationHandler) RetrievePendingApplications(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	apps, meta, err := h.applicationService.ListPending(c.Context(), actor, params)
	if err != nil {
		if errors.Is(err, domain.ErrAuthorization) {
			return response.Forbidden(c, "Only approvers can list pending applications")
		}
		return response.InternalServerError(c, "Failed to retrieve pending applications")
	}

	return response.Success(c, "Pending applications retrieved successfully", fiber.Map{
		"applications": toResponses(apps),
		"meta":         meta,
	})
}

// UpdatePendingApplication edits a Pending application
// @Summary Update pending application
// @Description Edit the date, slot or remarks of a Pending application
// @Tags Application
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /application/updatePendingApplication/{id} [patch]
func (h *ApplicationHandler) UpdatePendingApplication(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var input services.UpdateApplicationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.applicationService.UpdatePending(c.Context(), actor, uint(id), &input)
	if err != nil {
		return h.mapLifecycleError(c, err, "Failed to update application")
	}

	return response.Success(c, "Application updated successfully", fiber.Map{
		"application": app.ToResponse(),
	})
}

// ApproveApplication approves a Pending application or chain
// @Summary Approve application
// @Description Approve a Pending application; applyToAll=true approves the whole chain
// @Tags Application
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param applyToAll query bool false "Apply to the whole chain"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /application/approveApplication/{id} [put]
func (h *ApplicationHandler) ApproveApplication(c *fiber.Ctx) error {
	return h.decide(c, h.applicationService.Approve, "Application approved successfully", "Failed to approve application")
}

// RejectApplication rejects a Pending application or chain
// @Summary Reject application
// @Description Reject a Pending application; applyToAll=true rejects the whole chain
// @Tags Application
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param applyToAll query bool false "Apply to the whole chain"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /application/rejectApplication/{id} [put]
func (h *ApplicationHandler) RejectApplication(c *fiber.Ctx) error {
	return h.decide(c, h.applicationService.Reject, "Application rejected successfully", "Failed to reject application")
}

// WithdrawPending withdraws a Pending application or chain
// @Summary Withdraw pending application
// @Description Withdraw a Pending application; applyToAll=true withdraws the whole chain
// @Tags Application
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param applyToAll query bool false "Apply to the whole chain"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /application/withdrawPending/{id} [put]
func (h *ApplicationHandler) WithdrawPending(c *fiber.Ctx) error {
	return h.decide(c, h.applicationService.WithdrawPending, "Application withdrawn successfully", "Failed to withdraw application")
}

// WithdrawApproved withdraws an Approved application or chain
// @Summary Withdraw approved application
// @Description Withdraw an Approved application and retract its schedules
// @Tags Application
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param applyToAll query bool false "Apply to the whole chain"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /application/withdrawApproved/{id} [put]
func (h *ApplicationHandler) WithdrawApproved(c *fiber.Ctx) error {
	return h.decide(c, h.applicationService.WithdrawApproved, "Application withdrawn successfully", "Failed to withdraw application")
}

// decide runs one lifecycle transition endpoint: parse id, remarks and the
// applyToAll flag, call the service, map domain errors to status codes.
func (h *ApplicationHandler) decide(
	c *fiber.Ctx,
	fn func(ctx context.Context, actor services.Actor, id uint, remarks string, applyToAll bool) ([]*models.Application, error),
	successMsg, failMsg string,
) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req DecisionRequest
	// body is optional for transitions
	_ = c.BodyParser(&req)

	applyToAll := c.QueryBool("applyToAll", false)

	updated, err := fn(c.Context(), actor, uint(id), req.Remarks, applyToAll)
	if err != nil {
		return h.mapLifecycleError(c, err, failMsg)
	}

	return response.Success(c, successMsg, fiber.Map{
		"applications": toResponses(updated),
	})
}

// mapLifecycleError maps lifecycle domain errors onto HTTP status codes
func (h *ApplicationHandler) mapLifecycleError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrAuthorization):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Application not found")
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrStaleState):
		return response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		return response.UnprocessableEntity(c, err.Error())
	default:
		return response.InternalServerError(c, fallback)
	}
}
