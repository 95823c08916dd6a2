package controllers

import (
	"oficinadoaluno_go/database"
	"oficinadoaluno_go/models"
	"oficinadoaluno_go/services"
	"oficinadoaluno_go/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type LogController struct{}

// GetActivityLogs lists recent activity logs (admin only)
func (lc *LogController) GetActivityLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset := (page - 1) * limit

	var logs []models.ActivityLog
	var total int64

	query := database.DB.Model(&models.ActivityLog{}).Preload("Collaborator")

	if collaboratorID := c.Query("collaborator_id"); collaboratorID != "" {
		query = query.Where("collaborator_id = ?", collaboratorID)
	}
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}

	query.Count(&total)

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"logs": logs,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetLogArchives lists the S3 archive metadata records
func (lc *LogController) GetLogArchives(c *fiber.Ctx) error {
	archives, err := services.NewLogArchiveService().GetArchivedLogs()
	if err != nil {
		return utils.DBErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"archives": archives})
}

// DownloadLogArchive streams an archived log bundle from S3
func (lc *LogController) DownloadLogArchive(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	reader, fileName, err := services.NewLogArchiveService().DownloadArchivedLogs(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": utils.MsgNaoEncontrado})
	}
	defer reader.Close()

	c.Set("Content-Type", "application/zip")
	c.Set("Content-Disposition", "attachment; filename=\""+fileName+"\"")

	return c.SendStream(reader)
}
