package controllers

import (
	"oficinadoaluno_go/database"
	"oficinadoaluno_go/middleware"
	"oficinadoaluno_go/models"
	"oficinadoaluno_go/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type ContinuityController struct{}

// ContinuityRequest represents the create continuity item body
type ContinuityRequest struct {
	StudentID   uint   `json:"student_id" validate:"required"`
	Description string `json:"description" validate:"required"`
	Discipline  string `json:"discipline" validate:"max=100"`
}

// GetContinuityItems lists follow-up items, optionally per student or status
func (cc *ContinuityController) GetContinuityItems(c *fiber.Ctx) error {
	var items []models.ContinuityItem

	query := database.DB.Model(&models.ContinuityItem{}).Preload("Student")

	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	if status := c.Query("status"); status != "" {
		if !utils.IsValidContinuityStatus(status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
		}
		query = query.Where("status = ?", status)
	}

	if err := query.Order("created_at DESC").Find(&items).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"items": items})
}

// CreateContinuityItem registers a follow-up item directly, outside a report
func (cc *ContinuityController) CreateContinuityItem(c *fiber.Ctx) error {
	var req ContinuityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	if msgs := utils.ValidateStruct(req); msgs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": msgs})
	}

	var student models.Student
	if err := database.DB.First(&student, req.StudentID).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	item := models.ContinuityItem{
		StudentID:   student.ID,
		Description: req.Description,
		Discipline:  req.Discipline,
		Status:      "nao_iniciado",
	}

	if err := database.DB.Create(&item).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "CREATE", "continuity", item.ID, fiber.Map{"student_id": student.ID})
	broadcastChange("continuity", "created", item.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Item de continuidade criado", "item": item})
}

// UpdateContinuityStatus advances an item through its lifecycle
func (cc *ContinuityController) UpdateContinuityStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil || !utils.IsValidContinuityStatus(body.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var item models.ContinuityItem
	if err := database.DB.First(&item, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	if err := database.DB.Model(&item).Update("status", body.Status).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "continuity", item.ID, fiber.Map{"status": body.Status})
	broadcastChange("continuity", "updated", item.ID)

	return c.JSON(fiber.Map{"message": "Status atualizado", "item": item})
}

// DeleteContinuityItem removes a follow-up item
func (cc *ContinuityController) DeleteContinuityItem(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var item models.ContinuityItem
	if err := database.DB.First(&item, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	if err := database.DB.Delete(&item).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "DELETE", "continuity", item.ID, nil)
	broadcastChange("continuity", "deleted", item.ID)

	return c.JSON(fiber.Map{"message": "Item removido"})
}
