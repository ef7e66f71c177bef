package handlers

import (
	"errors"
	"strconv"

	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/services"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/pagination"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// RetrieveNotifications lists the employee's notifications
// @Summary List notifications
// @Description List the authenticated employee's notifications, unread first
// @Tags Notification
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notification/retrieveNotifications [get]
func (h *NotificationHandler) RetrieveNotifications(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	result, err := h.notificationService.List(c.Context(), actor.ID, params)
	if err != nil {
		return response.InternalServerError(c, "Failed to retrieve notifications")
	}

	return response.Success(c, "Notifications retrieved successfully", result)
}

// MarkAsRead marks one notification as read
// @Summary Mark notification as read
// @Description Flip one notification to read
// @Tags Notification
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /notification/markAsRead/{id} [patch]
func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid notification ID")
	}

	if err := h.notificationService.MarkRead(c.Context(), actor.ID, uint(id)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Notification not found")
		}
		return response.InternalServerError(c, "Failed to mark notification as read")
	}

	return response.Success(c, "Notification marked as read", nil)
}

// MarkAllAsRead marks all the employee's notifications as read
// @Summary Mark all notifications as read
// @Description Flip every unread notification to read
// @Tags Notification
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notification/markAllAsRead [patch]
func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	updated, err := h.notificationService.MarkAllRead(c.Context(), actor.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to mark notifications as read")
	}

	return response.Success(c, "Notifications marked as read", fiber.Map{
		"updated": updated,
	})
}
