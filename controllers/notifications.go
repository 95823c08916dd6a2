package controllers

import (
	"oficinadoaluno_go/database"
	"oficinadoaluno_go/middleware"
	"oficinadoaluno_go/models"
	"oficinadoaluno_go/services/notifications"
	"oficinadoaluno_go/utils"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

type NotificationController struct{}

// GetNotifications returns notifications for the current collaborator
func (nc *NotificationController) GetNotifications(c *fiber.Ctx) error {
	collab, err := middleware.GetCurrentCollaborator(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": utils.MsgCredenciais})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset := (page - 1) * limit

	var notifs []models.Notification
	var total int64

	query := database.DB.Model(&models.Notification{}).Where("collaborator_id = ?", collab.ID)

	if read := c.Query("read"); read == "true" {
		query = query.Where("`read` = ?", true)
	} else if read == "false" {
		query = query.Where("`read` = ?", false)
	}

	query.Count(&total)

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&notifs).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"notifications": notifs,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetUnreadCount returns how many unread notifications the collaborator has
func (nc *NotificationController) GetUnreadCount(c *fiber.Ctx) error {
	collab, err := middleware.GetCurrentCollaborator(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": utils.MsgCredenciais})
	}

	var count int64
	if err := database.DB.Model(&models.Notification{}).
		Where("collaborator_id = ? AND `read` = ?", collab.ID, false).
		Count(&count).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"unread": count})
}

// CreateNotification sends a notification to one or more collaborators (admin)
func (nc *NotificationController) CreateNotification(c *fiber.Ctx) error {
	var req struct {
		CollaboratorIDs []uint `json:"collaborator_ids"`
		Title           string `json:"title"`
		Message         string `json:"message"`
		Type            string `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}
	if len(req.CollaboratorIDs) == 0 || req.Title == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}
	if req.Type == "" {
		req.Type = "info"
	}

	svc := notifications.NewService()
	if err := svc.EnqueueOrCreate(req.CollaboratorIDs, notifications.Queued(req.Title, req.Message, req.Type)); err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "CREATE", "notifications", 0, fiber.Map{"recipients": len(req.CollaboratorIDs)})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Notificação enviada"})
}

// MarkAsRead marks one notification as read
func (nc *NotificationController) MarkAsRead(c *fiber.Ctx) error {
	collab, err := middleware.GetCurrentCollaborator(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": utils.MsgCredenciais})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var notif models.Notification
	if err := database.DB.Where("id = ? AND collaborator_id = ?", uint(id), collab.ID).First(&notif).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	now := time.Now()
	if err := database.DB.Model(&notif).Updates(map[string]interface{}{
		"read":    true,
		"read_at": &now,
	}).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"message": "Notificação lida", "notification": notif})
}

// MarkAllAsRead marks every unread notification of the collaborator as read
func (nc *NotificationController) MarkAllAsRead(c *fiber.Ctx) error {
	collab, err := middleware.GetCurrentCollaborator(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": utils.MsgCredenciais})
	}

	now := time.Now()
	result := database.DB.Model(&models.Notification{}).
		Where("collaborator_id = ? AND `read` = ?", collab.ID, false).
		Updates(map[string]interface{}{"read": true, "read_at": &now})
	if result.Error != nil {
		return utils.DBErrorResponse(c, result.Error)
	}

	return c.JSON(fiber.Map{"message": "Notificações lidas", "updated": result.RowsAffected})
}
