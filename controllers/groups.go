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
	"gorm.io/gorm/clause"
)

type GroupController struct{}

// GroupRequest represents the create/update group body
type GroupRequest struct {
	Name            string            `json:"name" validate:"required,min=2,max=255"`
	StudentIDs      []uint            `json:"student_ids" validate:"required,min=2"`
	ProfessionalID  uint              `json:"professional_id" validate:"required"`
	Discipline      string            `json:"discipline" validate:"max=100"`
	ScheduleType    string            `json:"schedule_type" validate:"required,oneof=recurring single"`
	ScheduleDays    map[string]string `json:"schedule_days"`
	ScheduleDate    string            `json:"schedule_date"`
	ScheduleTime    string            `json:"schedule_time"`
	CreditsToDeduct float64           `json:"credits_to_deduct" validate:"gte=0"`
}

// GroupReportRequest represents one student's report for a group occurrence
type GroupReportRequest struct {
	StudentID  uint   `json:"student_id" validate:"required"`
	Date       string `json:"date" validate:"required,len=10"`
	Content    string `json:"content"`
	Attended   bool   `json:"attended"`
	Continuity string `json:"continuity"`
}

// GetGroups returns all class groups
func (gc *GroupController) GetGroups(c *fiber.Ctx) error {
	var groups []models.ClassGroup

	query := database.DB.Model(&models.ClassGroup{}).Preload("Professional")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if professionalID := c.Query("professional_id"); professionalID != "" {
		query = query.Where("professional_id = ?", professionalID)
	}

	if collab, err := middleware.GetCurrentCollaborator(c); err == nil {
		if !collab.SystemAccess.Has("admin") && collab.ProfessionalID != nil {
			query = query.Where("professional_id = ?", *collab.ProfessionalID)
		}
	}

	if err := query.Order("name ASC").Find(&groups).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"groups": groups})
}

// GetGroup returns a specific group with its students
func (gc *GroupController) GetGroup(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var group models.ClassGroup
	if err := database.DB.Preload("Professional").First(&group, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	var students []models.Student
	if len(group.StudentIDs) > 0 {
		if err := database.DB.Where("id IN ?", []uint(group.StudentIDs)).Find(&students).Error; err != nil {
			return utils.DBErrorResponse(c, err)
		}
	}

	return c.JSON(fiber.Map{"group": group, "students": students})
}

// CreateGroup creates a new class group. A group needs at least two students.
func (gc *GroupController) CreateGroup(c *fiber.Ctx) error {
	var req GroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	if msgs := utils.ValidateStruct(req); msgs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": msgs})
	}

	if len(req.StudentIDs) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Uma turma precisa de pelo menos dois alunos."})
	}

	if !validSchedule(req) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Agenda da turma inválida."})
	}

	var professional models.Professional
	if err := database.DB.First(&professional, req.ProfessionalID).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	var count int64
	database.DB.Model(&models.Student{}).Where("id IN ?", req.StudentIDs).Count(&count)
	if count != int64(len(req.StudentIDs)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Um ou mais alunos não foram encontrados."})
	}

	group := models.ClassGroup{
		Name:            utils.SanitizeString(req.Name),
		StudentIDs:      req.StudentIDs,
		ProfessionalID:  req.ProfessionalID,
		Discipline:      req.Discipline,
		ScheduleType:    req.ScheduleType,
		ScheduleDays:    req.ScheduleDays,
		ScheduleDate:    req.ScheduleDate,
		ScheduleTime:    req.ScheduleTime,
		Status:          "active",
		CreditsToDeduct: req.CreditsToDeduct,
	}

	if err := database.DB.Create(&group).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "CREATE", "groups", group.ID, fiber.Map{"name": group.Name})
	broadcastChange("groups", "created", group.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Turma criada com sucesso",
		"group":   group,
	})
}

// UpdateGroup updates an existing group
func (gc *GroupController) UpdateGroup(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var group models.ClassGroup
	if err := database.DB.First(&group, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	var req GroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	if msgs := utils.ValidateStruct(req); msgs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": msgs})
	}

	if len(req.StudentIDs) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Uma turma precisa de pelo menos dois alunos."})
	}

	if !validSchedule(req) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Agenda da turma inválida."})
	}

	group.Name = utils.SanitizeString(req.Name)
	group.StudentIDs = req.StudentIDs
	group.ProfessionalID = req.ProfessionalID
	group.Discipline = req.Discipline
	group.ScheduleType = req.ScheduleType
	group.ScheduleDays = req.ScheduleDays
	group.ScheduleDate = req.ScheduleDate
	group.ScheduleTime = req.ScheduleTime
	group.CreditsToDeduct = req.CreditsToDeduct

	if err := database.DB.Save(&group).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "groups", group.ID, fiber.Map{"name": group.Name})
	broadcastChange("groups", "updated", group.ID)

	return c.JSON(fiber.Map{"message": "Turma atualizada com sucesso", "group": group})
}

// ArchiveGroup archives or reactivates a group. Archived groups stop producing
// occurrences but keep their history.
func (gc *GroupController) ArchiveGroup(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil || (body.Status != "active" && body.Status != "archived") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var group models.ClassGroup
	if err := database.DB.First(&group, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	if err := database.DB.Model(&group).Update("status", body.Status).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "groups", group.ID, fiber.Map{"status": body.Status})
	broadcastChange("groups", "updated", group.ID)

	return c.JSON(fiber.Map{"message": "Turma atualizada", "group": group})
}

// GetGroupOccurrences expands the group's schedule into concrete dates inside
// the requested window.
func (gc *GroupController) GetGroupOccurrences(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var group models.ClassGroup
	if err := database.DB.First(&group, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	from := c.Query("from")
	to := c.Query("to")
	if group.ScheduleType == "recurring" && (from == "" || to == "") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Informe o período (from/to)."})
	}

	occurrences := agenda.Expand(group, from, to)

	return c.JSON(fiber.Map{"occurrences": occurrences})
}

// RegisterGroupReport upserts one student's report for a group occurrence.
// The (group, student, date) key makes repeat submissions idempotent.
func (gc *GroupController) RegisterGroupReport(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var req GroupReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}
	if msgs := utils.ValidateStruct(req); msgs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": msgs})
	}

	var group models.ClassGroup
	if err := database.DB.First(&group, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	// Teachers can only report their own groups
	if collab, err := middleware.GetCurrentCollaborator(c); err == nil {
		if !collab.SystemAccess.Has("admin") {
			if collab.ProfessionalID == nil || *collab.ProfessionalID != group.ProfessionalID {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": utils.MsgSemPermissao})
			}
		}
	}

	if !group.StudentIDs.Contains(req.StudentID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Este aluno não pertence à turma."})
	}

	if _, err := agenda.ParseDate(req.Date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Data inválida."})
	}

	report := models.GroupClassReport{
		GroupID:   group.ID,
		StudentID: req.StudentID,
		Date:      req.Date,
		Content:   req.Content,
		Attended:  req.Attended,
	}

	groupID := group.ID
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_id"}, {Name: "student_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "attended"}),
		}).Create(&report).Error; err != nil {
			return err
		}

		if req.Continuity != "" {
			item := models.ContinuityItem{
				StudentID:   req.StudentID,
				Description: req.Continuity,
				Discipline:  group.Discipline,
				Status:      "nao_iniciado",
				GroupID:     &groupID,
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

	middleware.LogActivity(c, "UPDATE", "groups", group.ID, fiber.Map{
		"report_student": req.StudentID,
		"report_date":    req.Date,
	})
	broadcastChange("groups", "updated", group.ID)

	return c.JSON(fiber.Map{"message": "Relatório registrado", "report": report})
}

// GetGroupReports lists the reports of a group, optionally for one date
func (gc *GroupController) GetGroupReports(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var reports []models.GroupClassReport
	query := database.DB.Preload("Student").Where("group_id = ?", uint(id))
	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}

	if err := query.Order("date DESC").Find(&reports).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"reports": reports})
}

// validSchedule checks the schedule fields against the schedule type
func validSchedule(req GroupRequest) bool {
	switch req.ScheduleType {
	case "recurring":
		if len(req.ScheduleDays) == 0 {
			return false
		}
		for day := range req.ScheduleDays {
			if agenda.WeekdayIndex(day) < 0 {
				return false
			}
		}
		return true
	case "single":
		if req.ScheduleDate == "" || req.ScheduleTime == "" {
			return false
		}
		_, err := agenda.ParseDate(req.ScheduleDate)
		return err == nil
	}
	return false
}
