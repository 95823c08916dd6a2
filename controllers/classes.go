package controllers

import (
	"oficinadoaluno_go/database"
	"oficinadoaluno_go/middleware"
	"oficinadoaluno_go/models"
	"oficinadoaluno_go/services/agenda"
	"oficinadoaluno_go/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ClassController struct{}

// ClassRequest represents the create class body
type ClassRequest struct {
	Date            string `json:"date" validate:"required,len=10"`
	Time            string `json:"time" validate:"required,len=5"`
	StudentID       uint   `json:"student_id" validate:"required"`
	ProfessionalID  uint   `json:"professional_id" validate:"required"`
	Discipline      string `json:"discipline" validate:"max=100"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
}

// ClassReportRequest represents the report registration body
type ClassReportRequest struct {
	Report           string `json:"report" validate:"required"`
	DiagnosticReport string `json:"diagnostic_report"`
	Continuity       string `json:"continuity"`
}

// creditsPerHourFrom resolves the credit cost of one class-hour. Credits are
// prepaid class-hours, never money: a professional's hourly rate only enters
// remuneration, not the student balance. An unset setting means 1.
func creditsPerHourFrom(settings models.FinancialSettings) float64 {
	if settings.CreditsPerClassHour > 0 {
		return settings.CreditsPerClassHour
	}
	return 1
}

func classCreditsPerHour() float64 {
	var settings models.FinancialSettings
	if err := database.DB.First(&settings).Error; err != nil {
		return 1
	}
	return creditsPerHourFrom(settings)
}

// GetClasses returns classes filtered by date range, student or professional
func (cc *ClassController) GetClasses(c *fiber.Ctx) error {
	var classes []models.ScheduledClass

	query := database.DB.Model(&models.ScheduledClass{}).
		Preload("Student").Preload("Professional")

	if from := c.Query("from"); from != "" {
		query = query.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("date <= ?", to)
	}
	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	if professionalID := c.Query("professional_id"); professionalID != "" {
		query = query.Where("professional_id = ?", professionalID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	// Teachers only see their own classes
	if collab, err := middleware.GetCurrentCollaborator(c); err == nil {
		if !collab.SystemAccess.Has("admin") && collab.ProfessionalID != nil {
			query = query.Where("professional_id = ?", *collab.ProfessionalID)
		}
	}

	if err := query.Order("date ASC, time ASC").Find(&classes).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"classes": classes})
}

// GetClass returns a specific class by ID
func (cc *ClassController) GetClass(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var class models.ScheduledClass
	if err := database.DB.Preload("Student").Preload("Professional").First(&class, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"class": class})
}

// CreateClass books an individual class. The student's credit balance and the
// professional's availability are advisory only: warnings are returned but the
// booking always goes through. The credit deduction and the class row are
// written in one transaction.
func (cc *ClassController) CreateClass(c *fiber.Ctx) error {
	var req ClassRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	if msgs := utils.ValidateStruct(req); msgs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": msgs})
	}

	if _, err := agenda.ParseDate(req.Date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Data inválida."})
	}

	var student models.Student
	if err := database.DB.First(&student, req.StudentID).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	var professional models.Professional
	if err := database.DB.First(&professional, req.ProfessionalID).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	advice := agenda.Advise(student, professional, req.Date, req.Time, req.DurationMinutes, classCreditsPerHour())

	class := models.ScheduledClass{
		Date:            req.Date,
		Time:            req.Time,
		StudentID:       student.ID,
		ProfessionalID:  professional.ID,
		Discipline:      req.Discipline,
		DurationMinutes: req.DurationMinutes,
		CreditsConsumed: advice.CreditsNeeded,
		Status:          "agendada",
	}

	// Class row and credit deduction commit or roll back together
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&class).Error; err != nil {
			return err
		}
		return tx.Model(&models.Student{}).
			Where("id = ?", student.ID).
			Update("credits", gorm.Expr("credits - ?", advice.CreditsNeeded)).Error
	})
	if err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "CREATE", "classes", class.ID, fiber.Map{
		"student_id":      student.ID,
		"professional_id": professional.ID,
		"date":            class.Date,
		"credits":         advice.CreditsNeeded,
	})
	broadcastChange("classes", "created", class.ID)

	warnings := []string{}
	if advice.CreditWarning {
		warnings = append(warnings, "O aluno não possui créditos suficientes para esta aula.")
	}
	if advice.AvailabilityWarning {
		warnings = append(warnings, "O horário está fora da disponibilidade do profissional.")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Aula agendada com sucesso",
		"class":    class,
		"warnings": warnings,
	})
}

// Advise previews credit cost and warnings without booking anything
func (cc *ClassController) Advise(c *fiber.Ctx) error {
	var req ClassRequest
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

	var professional models.Professional
	if err := database.DB.First(&professional, req.ProfessionalID).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	advice := agenda.Advise(student, professional, req.Date, req.Time, req.DurationMinutes, classCreditsPerHour())

	return c.JSON(fiber.Map{"advice": advice})
}

// UpdateClassStatus marks a class concluida or cancelada. Cancelling an
// agendada class refunds the consumed credits.
func (cc *ClassController) UpdateClassStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}
	if body.Status != "concluida" && body.Status != "cancelada" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var class models.ScheduledClass
	if err := database.DB.First(&class, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	if class.Status == body.Status {
		return c.JSON(fiber.Map{"message": "Status atualizado", "class": class})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if body.Status == "cancelada" && class.Status == "agendada" && class.CreditsConsumed > 0 {
			if err := tx.Model(&models.Student{}).
				Where("id = ?", class.StudentID).
				Update("credits", gorm.Expr("credits + ?", class.CreditsConsumed)).Error; err != nil {
				return err
			}
		}
		return tx.Model(&class).Update("status", body.Status).Error
	})
	if err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "classes", class.ID, fiber.Map{"status": body.Status})
	broadcastChange("classes", "updated", class.ID)

	return c.JSON(fiber.Map{"message": "Status atualizado", "class": class})
}

// RegisterClassReport saves the report for an individual class and optionally
// creates a continuity item for the student.
func (cc *ClassController) RegisterClassReport(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var req ClassReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}
	if msgs := utils.ValidateStruct(req); msgs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": msgs})
	}

	var class models.ScheduledClass
	if err := database.DB.First(&class, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	// Teachers can only report their own classes
	if collab, err := middleware.GetCurrentCollaborator(c); err == nil {
		if !collab.SystemAccess.Has("admin") {
			if collab.ProfessionalID == nil || *collab.ProfessionalID != class.ProfessionalID {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": utils.MsgSemPermissao})
			}
		}
	}

	classID := class.ID
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"report":            req.Report,
			"diagnostic_report": req.DiagnosticReport,
			"report_registered": true,
			"status":            "concluida",
		}
		if err := tx.Model(&class).Updates(updates).Error; err != nil {
			return err
		}

		if req.Continuity != "" {
			item := models.ContinuityItem{
				StudentID:   class.StudentID,
				Description: req.Continuity,
				Discipline:  class.Discipline,
				Status:      "nao_iniciado",
				ClassID:     &classID,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "classes", class.ID, fiber.Map{"report_registered": true})
	broadcastChange("classes", "updated", class.ID)

	return c.JSON(fiber.Map{"message": "Relatório registrado", "class": class})
}

// GetPendingReports lists concluded or past classes still missing a report
func (cc *ClassController) GetPendingReports(c *fiber.Ctx) error {
	var classes []models.ScheduledClass

	query := database.DB.Preload("Student").Preload("Professional").
		Where("report_registered = ? AND status <> ?", false, "cancelada")

	if collab, err := middleware.GetCurrentCollaborator(c); err == nil {
		if !collab.SystemAccess.Has("admin") && collab.ProfessionalID != nil {
			query = query.Where("professional_id = ?", *collab.ProfessionalID)
		}
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("date <= ?", to)
	}

	if err := query.Order("date ASC, time ASC").Find(&classes).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"classes": classes})
}

// DeleteClass removes a booking and refunds unconsumed credits
func (cc *ClassController) DeleteClass(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var class models.ScheduledClass
	if err := database.DB.First(&class, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if class.Status == "agendada" && class.CreditsConsumed > 0 {
			if err := tx.Model(&models.Student{}).
				Where("id = ?", class.StudentID).
				Update("credits", gorm.Expr("credits + ?", class.CreditsConsumed)).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&class).Error
	})
	if err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "DELETE", "classes", class.ID, nil)
	broadcastChange("classes", "deleted", class.ID)

	return c.JSON(fiber.Map{"message": "Aula removida"})
}
