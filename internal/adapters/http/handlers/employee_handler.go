package handlers

import (
	"errors"
	"strconv"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/models"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/services"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EmployeeHandler handles employee directory endpoints
type EmployeeHandler struct {
	employeeService *services.EmployeeService
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeService *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// employeeResponses maps employees to DTOs
func employeeResponses(employees []*models.Employee) []*models.EmployeeResponse {
	out := make([]*models.EmployeeResponse, len(employees))
	for i, e := range employees {
		out[i] = e.ToResponse()
	}
	return out
}

// MyDetails returns the authenticated employee's profile
// @Summary Get own details
// @Description Get the authenticated employee's profile
// @Tags Employee
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /employee/myDetails [get]
func (h *EmployeeHandler) MyDetails(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	employee, err := h.employeeService.GetByID(c.Context(), actor.ID)
	if err != nil {
		return response.NotFound(c, "Employee not found")
	}

	return response.Success(c, "Employee retrieved successfully", fiber.Map{
		"employee": employee.ToResponse(),
	})
}

// MySubordinates lists the employees reporting to the actor
// @Summary List subordinates
// @Description List the employees reporting directly to the authenticated manager
// @Tags Employee
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /employee/mySubordinates [get]
func (h *EmployeeHandler) MySubordinates(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	subordinates, err := h.employeeService.ListSubordinates(c.Context(), actor)
	if err != nil {
		if errors.Is(err, domain.ErrAuthorization) {
			return response.Forbidden(c, "Only managers and HR have subordinates")
		}
		return response.InternalServerError(c, "Failed to retrieve subordinates")
	}

	return response.Success(c, "Subordinates retrieved successfully", fiber.Map{
		"employees": employeeResponses(subordinates),
	})
}

// Colleagues lists the actor's peers
// @Summary List colleagues
// @Description List employees sharing the actor's reporting manager
// @Tags Employee
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /employee/colleagues [get]
func (h *EmployeeHandler) Colleagues(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	colleagues, err := h.employeeService.ListColleagues(c.Context(), actor)
	if err != nil {
		return response.InternalServerError(c, "Failed to retrieve colleagues")
	}

	return response.Success(c, "Colleagues retrieved successfully", fiber.Map{
		"employees": employeeResponses(colleagues),
	})
}

// CreateEmployee registers a new employee account
// @Summary Create employee
// @Description Register a new employee account (HR only)
// @Tags Employee
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /employee/createEmployee [post]
func (h *EmployeeHandler) CreateEmployee(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateEmployeeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	employee, err := h.employeeService.Create(c.Context(), actor, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAuthorization):
			return response.Forbidden(c, "Only HR can create employees")
		case errors.Is(err, domain.ErrConflict):
			return response.Conflict(c, err.Error())
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to create employee")
		}
	}

	return response.Created(c, "Employee created successfully", fiber.Map{
		"employee": employee.ToResponse(),
	})
}

// DeleteEmployee removes an employee account
// @Summary Delete employee
// @Description Delete an employee account (HR only); direct reports are detached
// @Tags Employee
// @Produce json
// @Security BearerAuth
// @Param id path int true "Employee ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /employee/deleteEmployee/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid employee ID")
	}

	if err := h.employeeService.Delete(c.Context(), actor, uint(id)); err != nil {
		switch {
		case errors.Is(err, domain.ErrAuthorization):
			return response.Forbidden(c, "Only HR can delete employees")
		case errors.Is(err, domain.ErrEmployeeNotFound):
			return response.NotFound(c, "Employee not found")
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to delete employee")
		}
	}

	return response.Success(c, "Employee deleted successfully", nil)
}
