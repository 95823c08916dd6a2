package controllers

import (
	"oficinadoaluno_go/database"
	"oficinadoaluno_go/middleware"
	"oficinadoaluno_go/models"
	"oficinadoaluno_go/services/agenda"
	"oficinadoaluno_go/utils"

	"github.com/gofiber/fiber/v2"
)

type AgendaController struct{}

// GetDay returns the day view: every class instance for the date, the hourly
// grid per professional and the advisory conflict list. Double-bookings are
// surfaced, never blocked.
func (ac *AgendaController) GetDay(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Informe a data (date)."})
	}
	if _, err := agenda.ParseDate(date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Data inválida."})
	}

	classes, groups, reports, err := ac.loadAgendaData(c, date, date)
	if err != nil {
		return utils.DBErrorResponse(c, err)
	}

	instances := agenda.ForDay(classes, groups, reports, date)
	grid := agenda.DayGrid(instances)
	conflicts := agenda.Conflicts(instances)

	return c.JSON(fiber.Map{
		"date":      date,
		"instances": instances,
		"grid":      grid,
		"conflicts": conflicts,
		"slots":     agenda.GridSlots(),
	})
}

// GetMonth returns every class instance inside a month, sorted by date and time
func (ac *AgendaController) GetMonth(c *fiber.Ctx) error {
	year, month, ok := monthQuery(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Informe ano e mês (year/month)."})
	}

	from, to := agenda.MonthWindow(year, month)

	classes, groups, reports, err := ac.loadAgendaData(c, from, to)
	if err != nil {
		return utils.DBErrorResponse(c, err)
	}

	instances := agenda.ForMonth(classes, groups, reports, year, month)

	return c.JSON(fiber.Map{
		"year":      year,
		"month":     int(month),
		"instances": instances,
	})
}

// loadAgendaData fetches the classes, active groups and group reports that
// feed the aggregator, scoped to the teacher's own agenda for non-admins.
func (ac *AgendaController) loadAgendaData(c *fiber.Ctx, from, to string) ([]models.ScheduledClass, []models.ClassGroup, agenda.ReportIndex, error) {
	classQuery := database.DB.Preload("Student").Preload("Professional").
		Where("date >= ? AND date <= ? AND status <> ?", from, to, "cancelada")
	groupQuery := database.DB.Preload("Professional").Where("status = ?", "active")

	if collab, err := middleware.GetCurrentCollaborator(c); err == nil {
		if !collab.SystemAccess.Has("admin") && collab.ProfessionalID != nil {
			classQuery = classQuery.Where("professional_id = ?", *collab.ProfessionalID)
			groupQuery = groupQuery.Where("professional_id = ?", *collab.ProfessionalID)
		}
	}

	var classes []models.ScheduledClass
	if err := classQuery.Find(&classes).Error; err != nil {
		return nil, nil, agenda.ReportIndex{}, err
	}

	var groups []models.ClassGroup
	if err := groupQuery.Find(&groups).Error; err != nil {
		return nil, nil, agenda.ReportIndex{}, err
	}

	var reports []models.GroupClassReport
	if err := database.DB.Where("date >= ? AND date <= ?", from, to).Find(&reports).Error; err != nil {
		return nil, nil, agenda.ReportIndex{}, err
	}

	return classes, groups, agenda.NewReportIndex(reports), nil
}
