package controllers

import (
	"errors"
	"oficinadoaluno_go/database"
	"oficinadoaluno_go/middleware"
	"oficinadoaluno_go/models"
	"oficinadoaluno_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SettingsController struct{}

// GetFinancialSettings returns the singleton category configuration, creating
// it with defaults on first access.
func (sc *SettingsController) GetFinancialSettings(c *fiber.Ctx) error {
	settings, err := loadOrCreateFinancialSettings()
	if err != nil {
		return utils.DBErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"settings": settings})
}

// UpdateFinancialSettings replaces the income/expense category lists
func (sc *SettingsController) UpdateFinancialSettings(c *fiber.Ctx) error {
	var body struct {
		IncomeCategories    []string `json:"income_categories"`
		ExpenseCategories   []string `json:"expense_categories"`
		CreditsPerClassHour float64  `json:"credits_per_class_hour"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}
	if body.CreditsPerClassHour < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	settings, err := loadOrCreateFinancialSettings()
	if err != nil {
		return utils.DBErrorResponse(c, err)
	}

	settings.IncomeCategories = body.IncomeCategories
	settings.ExpenseCategories = body.ExpenseCategories
	if body.CreditsPerClassHour > 0 {
		settings.CreditsPerClassHour = body.CreditsPerClassHour
	}

	if err := database.DB.Save(settings).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "settings", settings.ID, nil)
	broadcastChange("settings", "updated", settings.ID)

	return c.JSON(fiber.Map{"message": "Configurações atualizadas", "settings": settings})
}

// loadOrCreateFinancialSettings fetches the singleton row, seeding defaults
// when it does not exist yet.
func loadOrCreateFinancialSettings() (*models.FinancialSettings, error) {
	var settings models.FinancialSettings
	err := database.DB.First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = models.FinancialSettings{
		IncomeCategories:    models.StringList{"Créditos", "Mensalidade", "Material", "Outros"},
		ExpenseCategories:   models.StringList{"Remuneração", "Aluguel", "Material", "Impostos", "Outros"},
		CreditsPerClassHour: 1,
	}
	if err := database.DB.Create(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}
