package controllers

import (
	"oficinadoaluno_go/database"
	"oficinadoaluno_go/middleware"
	"oficinadoaluno_go/models"
	"oficinadoaluno_go/services/agenda"
	"oficinadoaluno_go/services/finance"
	"oficinadoaluno_go/utils"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

type RemunerationController struct{}

// GetRemuneration projects one professional's earnings for a month from their
// scheduled classes and group timetables.
func (rc *RemunerationController) GetRemuneration(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	year, month, ok := monthQuery(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Informe ano e mês (year/month)."})
	}

	var professional models.Professional
	if err := database.DB.First(&professional, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	// Teachers can only see their own projection
	if collab, err := middleware.GetCurrentCollaborator(c); err == nil {
		if !collab.SystemAccess.Has("admin") {
			if collab.ProfessionalID == nil || *collab.ProfessionalID != professional.ID {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": utils.MsgSemPermissao})
			}
		}
	}

	classes, groups, err := loadRemunerationInputs(professional.ID, year, month)
	if err != nil {
		return utils.DBErrorResponse(c, err)
	}

	projection := finance.Project(professional, classes, groups, year, month)

	return c.JSON(fiber.Map{
		"year":         year,
		"month":        int(month),
		"remuneration": projection,
	})
}

// GetAllRemunerations projects every active professional's earnings (admin)
func (rc *RemunerationController) GetAllRemunerations(c *fiber.Ctx) error {
	year, month, ok := monthQuery(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Informe ano e mês (year/month)."})
	}

	var professionals []models.Professional
	if err := database.DB.Where("status = ?", "ativo").Order("name ASC").Find(&professionals).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	from, to := agenda.MonthWindow(year, month)

	var classes []models.ScheduledClass
	if err := database.DB.Where("date >= ? AND date <= ?", from, to).Find(&classes).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	var groups []models.ClassGroup
	if err := database.DB.Where("status = ?", "active").Find(&groups).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	projections := make([]finance.Remuneration, 0, len(professionals))
	hoursByProfessional := make(map[uint]float64, len(professionals))
	var total float64
	for _, p := range professionals {
		projection := finance.Project(p, classes, groups, year, month)
		projections = append(projections, projection)
		hoursByProfessional[p.ID] = projection.IndividualHours + projection.GroupHours
		total += projection.Total
	}

	// Collaborator contracts settle against the same month: hourly ones bill
	// their linked professional's projected hours, percentage ones take a cut
	// of the ledger's gross income.
	var transactions []models.Transaction
	if err := database.DB.Where("date >= ? AND date <= ?", from, to).Find(&transactions).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}
	income := finance.Summarize(transactions, year, month).TotalIncome

	var collaborators []models.Collaborator
	if err := database.DB.
		Where("active = ? AND remuneration_rate > 0", true).
		Order("name ASC").Find(&collaborators).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	payroll := make([]fiber.Map, 0, len(collaborators))
	var payrollTotal float64
	for _, collab := range collaborators {
		var hours float64
		if collab.ProfessionalID != nil {
			hours = hoursByProfessional[*collab.ProfessionalID]
		}
		pay := finance.CollaboratorPay(collab.RemunerationType, collab.RemunerationRate, hours, income)
		payroll = append(payroll, fiber.Map{
			"collaborator_id":   collab.ID,
			"name":              collab.Name,
			"remuneration_type": collab.RemunerationType,
			"hours":             hours,
			"pay":               pay,
		})
		payrollTotal += pay
	}

	return c.JSON(fiber.Map{
		"year":          year,
		"month":         int(month),
		"remunerations": projections,
		"total":         total,
		"payroll":       payroll,
		"payroll_total": payrollTotal,
	})
}

// loadRemunerationInputs fetches one professional's classes in the month and
// their active groups.
func loadRemunerationInputs(professionalID uint, year int, month time.Month) ([]models.ScheduledClass, []models.ClassGroup, error) {
	from, to := agenda.MonthWindow(year, month)

	var classes []models.ScheduledClass
	if err := database.DB.
		Where("professional_id = ? AND date >= ? AND date <= ?", professionalID, from, to).
		Find(&classes).Error; err != nil {
		return nil, nil, err
	}

	var groups []models.ClassGroup
	if err := database.DB.
		Where("professional_id = ? AND status = ?", professionalID, "active").
		Find(&groups).Error; err != nil {
		return nil, nil, err
	}

	return classes, groups, nil
}
