package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/linkup-backend/src/middleware"
	"github.com/theleywin/linkup-backend/src/services"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

// List returns a page of the caller's notifications, newest first, together
// with the total unread count.
func (ctrl *NotificationController) List(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	limit := c.QueryInt("limit", 0)
	skip := c.QueryInt("skip", 0)

	notifications, unreadCount, err := ctrl.notifications.List(c.Context(), user.Id, limit, skip)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"count":       len(notifications),
		"unreadCount": unreadCount,
		"data":        notifications,
	})
}

// MarkRead marks one notification as read.
func (ctrl *NotificationController) MarkRead(c *fiber.Ctx) error {
	notificationID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid notification ID format")
	}

	user := middleware.CurrentUser(c)
	notification, err := ctrl.notifications.MarkRead(c.Context(), notificationID, user.Id)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"data": notification,
	})
}

// MarkAllRead marks all of the caller's notifications as read.
func (ctrl *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := ctrl.notifications.MarkAllRead(c.Context(), user.Id); err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"message": "All notifications marked as read",
	})
}

// Delete removes one of the caller's notifications.
func (ctrl *NotificationController) Delete(c *fiber.Ctx) error {
	notificationID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid notification ID format")
	}

	user := middleware.CurrentUser(c)
	if err := ctrl.notifications.Delete(c.Context(), notificationID, user.Id); err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"message": "Notification deleted",
	})
}
