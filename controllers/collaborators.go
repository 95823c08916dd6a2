package controllers

import (
	"oficinadoaluno_go/config"
	"oficinadoaluno_go/database"
	"oficinadoaluno_go/middleware"
	"oficinadoaluno_go/models"
	"oficinadoaluno_go/utils"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CollaboratorController struct{}

// CollaboratorRequest represents the create collaborator body
type CollaboratorRequest struct {
	Login            string          `json:"login" validate:"required,min=3,max=100"`
	Password         string          `json:"password" validate:"required,min=6"`
	Name             string          `json:"name" validate:"required,min=2,max=255"`
	Phone            string          `json:"phone" validate:"max=20"`
	SystemAccess     []string        `json:"system_access" validate:"required,min=1"`
	AdminPermissions map[string]bool `json:"admin_permissions"`
	ProfessionalID   *uint           `json:"professional_id"`
	RemunerationType string          `json:"remuneration_type" validate:"omitempty,oneof=hourly fixed percentage"`
	RemunerationRate float64         `json:"remuneration_rate" validate:"gte=0"`
}

// CollaboratorUpdateRequest represents the update body (password handled separately)
type CollaboratorUpdateRequest struct {
	Name             string          `json:"name" validate:"required,min=2,max=255"`
	Phone            string          `json:"phone" validate:"max=20"`
	SystemAccess     []string        `json:"system_access" validate:"required,min=1"`
	AdminPermissions map[string]bool `json:"admin_permissions"`
	ProfessionalID   *uint           `json:"professional_id"`
	RemunerationType string          `json:"remuneration_type" validate:"omitempty,oneof=hourly fixed percentage"`
	RemunerationRate float64         `json:"remuneration_rate" validate:"gte=0"`
	Active           *bool           `json:"active"`
}

// GetCollaborators returns all collaborators
func (cc *CollaboratorController) GetCollaborators(c *fiber.Ctx) error {
	var collaborators []models.Collaborator

	query := database.DB.Model(&models.Collaborator{}).Preload("Professional")

	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	if err := query.Order("name ASC").Find(&collaborators).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"collaborators": collaborators})
}

// GetCollaborator returns a specific collaborator by ID
func (cc *CollaboratorController) GetCollaborator(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var collab models.Collaborator
	if err := database.DB.Preload("Professional").First(&collab, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"collaborator": collab})
}

// CreateCollaborator creates a staff account. The login doubles as the auth
// identity: logins without '@' get the configured email domain appended.
func (cc *CollaboratorController) CreateCollaborator(c *fiber.Ctx) error {
	var req CollaboratorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	if msgs := utils.ValidateStruct(req); msgs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": msgs})
	}

	login := strings.TrimSpace(strings.ToLower(req.Login))
	email := utils.LoginToEmail(login, config.AppConfig.AuthEmailDomain)

	var existing models.Collaborator
	if err := database.DB.Where("login = ? OR email = ?", login, email).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": utils.MsgLoginEmUso})
	}

	if req.ProfessionalID != nil {
		var professional models.Professional
		if err := database.DB.First(&professional, *req.ProfessionalID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Profissional não encontrado."})
		}
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": utils.MsgErroGenerico})
	}

	collab := models.Collaborator{
		Login:            login,
		Email:            email,
		PasswordHash:     hashed,
		Name:             utils.SanitizeString(req.Name),
		Phone:            req.Phone,
		SystemAccess:     models.AccessList(req.SystemAccess),
		AdminPermissions: req.AdminPermissions,
		ProfessionalID:   req.ProfessionalID,
		RemunerationType: req.RemunerationType,
		RemunerationRate: req.RemunerationRate,
		Active:           true,
	}

	if len(collab.SystemAccess) == 0 || !collab.SystemAccess.Has("admin") && !collab.SystemAccess.Has("teacher") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Acesso ao sistema inválido."})
	}

	if err := database.DB.Create(&collab).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "CREATE", "collaborators", collab.ID, fiber.Map{"login": collab.Login})
	broadcastChange("collaborators", "created", collab.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Colaborador criado com sucesso",
		"collaborator": collab,
	})
}

// UpdateCollaborator updates profile, roles and permissions
func (cc *CollaboratorController) UpdateCollaborator(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var collab models.Collaborator
	if err := database.DB.First(&collab, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	var req CollaboratorUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	if msgs := utils.ValidateStruct(req); msgs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": msgs})
	}

	access := models.AccessList(req.SystemAccess)
	if !access.Has("admin") && !access.Has("teacher") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Acesso ao sistema inválido."})
	}

	collab.Name = utils.SanitizeString(req.Name)
	collab.Phone = req.Phone
	collab.SystemAccess = access
	collab.AdminPermissions = req.AdminPermissions
	collab.ProfessionalID = req.ProfessionalID
	collab.RemunerationType = req.RemunerationType
	collab.RemunerationRate = req.RemunerationRate
	if req.Active != nil {
		collab.Active = *req.Active
	}

	if err := database.DB.Save(&collab).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "collaborators", collab.ID, fiber.Map{"login": collab.Login})
	broadcastChange("collaborators", "updated", collab.ID)

	return c.JSON(fiber.Map{"message": "Colaborador atualizado", "collaborator": collab})
}

// DeactivateCollaborator disables a login without deleting its history
func (cc *CollaboratorController) DeactivateCollaborator(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	current, err := middleware.GetCurrentCollaborator(c)
	if err == nil && current.ID == uint(id) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Você não pode desativar a própria conta."})
	}

	var collab models.Collaborator
	if err := database.DB.First(&collab, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	if err := database.DB.Model(&collab).Update("active", false).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "collaborators", collab.ID, fiber.Map{"active": false})
	broadcastChange("collaborators", "updated", collab.ID)

	return c.JSON(fiber.Map{"message": "Colaborador desativado"})
}
