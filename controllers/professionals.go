package controllers

import (
	"oficinadoaluno_go/config"
	"oficinadoaluno_go/database"
	"oficinadoaluno_go/middleware"
	"oficinadoaluno_go/models"
	"oficinadoaluno_go/services/agenda"
	"oficinadoaluno_go/storage"
	"oficinadoaluno_go/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type ProfessionalController struct{}

// ProfessionalRequest represents the create/update professional body
type ProfessionalRequest struct {
	Name                 string              `json:"name" validate:"required,min=2,max=255"`
	Email                string              `json:"email" validate:"omitempty,email"`
	Phone                string              `json:"phone" validate:"max=20"`
	Disciplines          []string            `json:"disciplines"`
	Status               string              `json:"status" validate:"omitempty,oneof=ativo inativo"`
	HourlyRateIndividual float64             `json:"hourly_rate_individual" validate:"gte=0"`
	HourlyRateGroup      float64             `json:"hourly_rate_group" validate:"gte=0"`
	Availability         map[string][]string `json:"availability"`
}

// GetProfessionals returns all professionals with pagination
func (pc *ProfessionalController) GetProfessionals(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset := (page - 1) * limit

	var professionals []models.Professional
	var total int64

	query := database.DB.Model(&models.Professional{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if discipline := c.Query("discipline"); discipline != "" {
		query = query.Where("JSON_CONTAINS(disciplines, JSON_QUOTE(?))", discipline)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+utils.SanitizeString(search)+"%")
	}

	query.Count(&total)

	if err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&professionals).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"professionals": professionals,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetProfessional returns a specific professional by ID
func (pc *ProfessionalController) GetProfessional(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var professional models.Professional
	if err := database.DB.First(&professional, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"professional": professional})
}

// CreateProfessional creates a new professional
func (pc *ProfessionalController) CreateProfessional(c *fiber.Ctx) error {
	var req ProfessionalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	if msgs := utils.ValidateStruct(req); msgs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": msgs})
	}

	availability, ok := normalizeAvailability(req.Availability)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Dia da semana inválido na disponibilidade."})
	}

	status := req.Status
	if status == "" {
		status = "ativo"
	}

	professional := models.Professional{
		Name:                 utils.SanitizeString(req.Name),
		Email:                req.Email,
		Phone:                req.Phone,
		Disciplines:          req.Disciplines,
		Status:               status,
		HourlyRateIndividual: req.HourlyRateIndividual,
		HourlyRateGroup:      req.HourlyRateGroup,
		Availability:         availability,
	}

	if err := database.DB.Create(&professional).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "CREATE", "professionals", professional.ID, fiber.Map{"name": professional.Name})
	broadcastChange("professionals", "created", professional.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Profissional cadastrado com sucesso",
		"professional": professional,
	})
}

// UpdateProfessional updates an existing professional
func (pc *ProfessionalController) UpdateProfessional(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var professional models.Professional
	if err := database.DB.First(&professional, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	var req ProfessionalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	if msgs := utils.ValidateStruct(req); msgs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": msgs})
	}

	availability, ok := normalizeAvailability(req.Availability)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Dia da semana inválido na disponibilidade."})
	}

	professional.Name = utils.SanitizeString(req.Name)
	professional.Email = req.Email
	professional.Phone = req.Phone
	professional.Disciplines = req.Disciplines
	professional.HourlyRateIndividual = req.HourlyRateIndividual
	professional.HourlyRateGroup = req.HourlyRateGroup
	professional.Availability = availability
	if req.Status != "" {
		professional.Status = req.Status
	}

	if err := database.DB.Save(&professional).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "professionals", professional.ID, fiber.Map{"name": professional.Name})
	broadcastChange("professionals", "updated", professional.ID)

	return c.JSON(fiber.Map{
		"message":      "Profissional atualizado com sucesso",
		"professional": professional,
	})
}

// UpdateProfessionalAvailability replaces only the weekly availability grid
func (pc *ProfessionalController) UpdateProfessionalAvailability(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var professional models.Professional
	if err := database.DB.First(&professional, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	var body struct {
		Availability map[string][]string `json:"availability"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	availability, ok := normalizeAvailability(body.Availability)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Dia da semana inválido na disponibilidade."})
	}

	if err := database.DB.Model(&professional).Update("availability", availability).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "professionals", professional.ID, fiber.Map{"availability": availability})
	broadcastChange("professionals", "updated", professional.ID)

	return c.JSON(fiber.Map{"message": "Disponibilidade atualizada", "professional": professional})
}

// UpdateProfessionalStatus toggles ativo/inativo
func (pc *ProfessionalController) UpdateProfessionalStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil || !utils.IsValidProfessionalStatus(body.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var professional models.Professional
	if err := database.DB.First(&professional, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	if err := database.DB.Model(&professional).Update("status", body.Status).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "professionals", professional.ID, fiber.Map{"status": body.Status})
	broadcastChange("professionals", "updated", professional.ID)

	return c.JSON(fiber.Map{"message": "Status atualizado", "professional": professional})
}

// DeleteProfessional soft-deletes a professional
func (pc *ProfessionalController) DeleteProfessional(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var professional models.Professional
	if err := database.DB.First(&professional, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	if err := database.DB.Delete(&professional).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "DELETE", "professionals", professional.ID, fiber.Map{"name": professional.Name})
	broadcastChange("professionals", "deleted", professional.ID)

	return c.JSON(fiber.Map{"message": "Profissional removido"})
}

// UploadProfessionalAvatar stores an avatar image in S3 and saves its URL
func (pc *ProfessionalController) UploadProfessionalAvatar(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var professional models.Professional
	if err := database.DB.First(&professional, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	if !utils.IsValidFileExtension(file.Filename, config.AppConfig.AllowedExtensions) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato de arquivo não permitido."})
	}

	storageService, err := storage.NewStorageService()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": utils.MsgErroConfig})
	}

	url, err := storageService.UploadFile(file, "avatars/professionals", professional.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": utils.MsgErroGenerico})
	}

	if err := database.DB.Model(&professional).Update("avatar", url).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "professionals", professional.ID, fiber.Map{"avatar": url})

	return c.JSON(fiber.Map{"message": "Avatar atualizado", "avatar": url})
}

// normalizeAvailability validates weekday keys and drops empty slot lists.
func normalizeAvailability(in map[string][]string) (models.WeekdaySlots, bool) {
	if len(in) == 0 {
		return nil, true
	}
	out := make(models.WeekdaySlots, len(in))
	for day, slots := range in {
		if agenda.WeekdayIndex(day) < 0 {
			return nil, false
		}
		if len(slots) == 0 {
			continue
		}
		out[day] = slots
	}
	return out, true
}
