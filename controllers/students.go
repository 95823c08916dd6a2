package controllers

import (
	"oficinadoaluno_go/config"
	"oficinadoaluno_go/database"
	"oficinadoaluno_go/middleware"
	"oficinadoaluno_go/models"
	"oficinadoaluno_go/storage"
	"oficinadoaluno_go/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type StudentController struct{}

// StudentRequest represents the create/update student body
type StudentRequest struct {
	Name           string  `json:"name" validate:"required,min=2,max=255"`
	Email          string  `json:"email" validate:"omitempty,email"`
	Phone          string  `json:"phone" validate:"max=20"`
	BirthDate      string  `json:"birth_date" validate:"omitempty,len=10"`
	School         string  `json:"school" validate:"max=255"`
	GradeLevel     string  `json:"grade_level" validate:"max=50"`
	GuardianName   string  `json:"guardian_name" validate:"max=255"`
	GuardianPhone  string  `json:"guardian_phone" validate:"max=20"`
	GuardianEmail  string  `json:"guardian_email" validate:"omitempty,email"`
	Status         string  `json:"status" validate:"omitempty,oneof=prospeccao matricula inativo"`
	HasMonthlyPlan bool    `json:"has_monthly_plan"`
	Observations   string  `json:"observations"`
	Credits        float64 `json:"credits"`
}

// GetStudents returns all students with pagination
func (sc *StudentController) GetStudents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset := (page - 1) * limit

	var students []models.Student
	var total int64

	query := database.DB.Model(&models.Student{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+utils.SanitizeString(search)+"%")
	}

	query.Count(&total)

	if err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&students).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"students": students,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetStudent returns a specific student by ID
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": utils.MsgCorpoInvalido,
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"student": student})
}

// CreateStudent creates a new student
func (sc *StudentController) CreateStudent(c *fiber.Ctx) error {
	var req StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": utils.MsgCorpoInvalido,
		})
	}

	if msgs := utils.ValidateStruct(req); msgs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": msgs})
	}

	status := req.Status
	if status == "" {
		status = "prospeccao"
	}

	student := models.Student{
		Name:           utils.SanitizeString(req.Name),
		Email:          req.Email,
		Phone:          req.Phone,
		BirthDate:      req.BirthDate,
		School:         req.School,
		GradeLevel:     req.GradeLevel,
		GuardianName:   req.GuardianName,
		GuardianPhone:  req.GuardianPhone,
		GuardianEmail:  req.GuardianEmail,
		Status:         status,
		HasMonthlyPlan: req.HasMonthlyPlan,
		Observations:   req.Observations,
		Credits:        req.Credits,
	}

	if err := database.DB.Create(&student).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "CREATE", "students", student.ID, fiber.Map{"name": student.Name})
	broadcastChange("students", "created", student.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Aluno cadastrado com sucesso",
		"student": student,
	})
}

// UpdateStudent updates an existing student
func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	var req StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	if msgs := utils.ValidateStruct(req); msgs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": msgs})
	}

	updates := map[string]interface{}{
		"name":             utils.SanitizeString(req.Name),
		"email":            req.Email,
		"phone":            req.Phone,
		"birth_date":       req.BirthDate,
		"school":           req.School,
		"grade_level":      req.GradeLevel,
		"guardian_name":    req.GuardianName,
		"guardian_phone":   req.GuardianPhone,
		"guardian_email":   req.GuardianEmail,
		"has_monthly_plan": req.HasMonthlyPlan,
		"observations":     req.Observations,
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	// Credits are changed only through credit transactions or class booking

	if err := database.DB.Model(&student).Updates(updates).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "students", student.ID, fiber.Map{"name": student.Name})
	broadcastChange("students", "updated", student.ID)

	return c.JSON(fiber.Map{
		"message": "Aluno atualizado com sucesso",
		"student": student,
	})
}

// UpdateStudentStatus changes only the lifecycle status
func (sc *StudentController) UpdateStudentStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil || !utils.IsValidStudentStatus(body.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	if err := database.DB.Model(&student).Update("status", body.Status).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "students", student.ID, fiber.Map{"status": body.Status})
	broadcastChange("students", "updated", student.ID)

	return c.JSON(fiber.Map{"message": "Status atualizado", "student": student})
}

// DeleteStudent soft-deletes a student
func (sc *StudentController) DeleteStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	if err := database.DB.Delete(&student).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "DELETE", "students", student.ID, fiber.Map{"name": student.Name})
	broadcastChange("students", "deleted", student.ID)

	return c.JSON(fiber.Map{"message": "Aluno removido"})
}

// UploadStudentAvatar stores an avatar image in S3 and saves its URL
func (sc *StudentController) UploadStudentAvatar(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
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

	url, err := storageService.UploadFile(file, "avatars/students", student.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": utils.MsgErroGenerico})
	}

	if err := database.DB.Model(&student).Update("avatar", url).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "students", student.ID, fiber.Map{"avatar": url})

	return c.JSON(fiber.Map{"message": "Avatar atualizado", "avatar": url})
}
