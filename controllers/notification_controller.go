package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"taskpilot/middleware"
	"taskpilot/store"
)

type NotificationController struct {
	Store  store.Store
	Logger *log.Logger
}

func NewNotificationController(s store.Store, logger *log.Logger) *NotificationController {
	return &NotificationController{Store: s, Logger: logger}
}

func (nc *NotificationController) GetNotifications(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	limit := int64(c.QueryInt("limit", 50))
	unreadOnly := c.QueryBool("unread_only", false)

	notifications, err := nc.Store.NotificationsByUser(c.Context(), user.ID, limit, unreadOnly)
	if err != nil {
		nc.Logger.Printf("failed to list notifications: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch notifications",
		})
	}
	return c.JSON(notifications)
}

func (nc *NotificationController) MarkRead(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	notification, err := nc.Store.NotificationByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Notification not found",
		})
	}
	if notification.UserID != user.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Permission denied to modify this notification",
		})
	}

	if err := nc.Store.MarkNotificationRead(c.Context(), notification.ID); err != nil {
		nc.Logger.Printf("failed to mark notification %s read: %v", notification.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update notification",
		})
	}

	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

func (nc *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	if err := nc.Store.MarkAllNotificationsRead(c.Context(), user.ID); err != nil {
		nc.Logger.Printf("failed to mark notifications read: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update notifications",
		})
	}

	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}

func (nc *NotificationController) UnreadCount(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	count, err := nc.Store.CountUnreadNotifications(c.Context(), user.ID)
	if err != nil {
		nc.Logger.Printf("failed to count unread notifications: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to count notifications",
		})
	}

	return c.JSON(fiber.Map{"unread_count": count})
}
