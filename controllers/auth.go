package controllers

import (
	"context"
	"oficinadoaluno_go/config"
	"oficinadoaluno_go/database"
	"oficinadoaluno_go/middleware"
	"oficinadoaluno_go/models"
	"oficinadoaluno_go/utils"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct{}

// LoginRequest represents the login request body
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a collaborator and returns a JWT token.
// The login may be either the short login or the full email.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": utils.MsgCorpoInvalido,
		})
	}

	login := strings.TrimSpace(strings.ToLower(req.Login))
	email := utils.LoginToEmail(login, config.AppConfig.AuthEmailDomain)

	var collab models.Collaborator
	if err := database.DB.Where("(login = ? OR email = ?) AND active = ?", login, email, true).First(&collab).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": utils.MsgCredenciais,
		})
	}

	if err := utils.CheckPassword(req.Password, collab.PasswordHash); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": utils.MsgCredenciais,
		})
	}

	token, err := middleware.GenerateToken(&collab)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": utils.MsgErroGenerico,
		})
	}

	middleware.LogActivity(c, "LOGIN", "auth", collab.ID, fiber.Map{
		"login": collab.Login,
		"roles": collab.SystemAccess,
	})

	return c.JSON(fiber.Map{
		"message": "Login realizado com sucesso",
		"token":   token,
		"collaborator": fiber.Map{
			"id":                collab.ID,
			"name":              collab.Name,
			"login":             collab.Login,
			"email":             collab.Email,
			"system_access":     collab.SystemAccess,
			"admin_permissions": collab.AdminPermissions,
			"professional_id":   collab.ProfessionalID,
		},
	})
}

// Logout invalidates the current JWT by storing it in Redis blacklist for 24 hours
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	// Blacklist outlives the token lifetime so a stolen token dies with logout
	rc := database.GetRedisClient()
	if rc != nil {
		ctx := context.Background()
		key := "blacklist:jwt:" + tokenString
		if err := rc.Set(ctx, key, "1", 24*time.Hour).Err(); err != nil {
			middleware.LogActivity(c, "LOGOUT", "auth", 0, fiber.Map{"error": err.Error()})
		}
	}

	if collab, err := middleware.GetCurrentCollaborator(c); err == nil {
		middleware.LogActivity(c, "LOGOUT", "auth", collab.ID, fiber.Map{"login": collab.Login})
	}

	return c.JSON(fiber.Map{"message": "Sessão encerrada"})
}

// GetProfile returns the current collaborator's profile
func (ac *AuthController) GetProfile(c *fiber.Ctx) error {
	collab, err := middleware.GetCurrentCollaborator(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": utils.MsgCredenciais})
	}

	if collab.ProfessionalID != nil {
		database.DB.Preload("Professional").First(collab, collab.ID)
	}

	return c.JSON(fiber.Map{"collaborator": collab})
}

// ChangePasswordRequest represents the change password request body
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// ChangePassword changes the current collaborator's password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	collab, err := middleware.GetCurrentCollaborator(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": utils.MsgCredenciais})
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}

	if len(req.NewPassword) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgSenhaFraca})
	}

	if err := utils.CheckPassword(req.CurrentPassword, collab.PasswordHash); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgSenhaIncorreta})
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": utils.MsgErroGenerico})
	}

	if err := database.DB.Model(collab).Update("password_hash", hashed).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "CHANGE_PASSWORD", "auth", collab.ID, nil)

	return c.JSON(fiber.Map{"message": "Senha alterada com sucesso"})
}

// ResetPasswordRequest represents the admin password reset body
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ResetPasswordByAdmin resets another collaborator's password (admin only)
func (ac *AuthController) ResetPasswordByAdmin(c *fiber.Ctx) error {
	id := c.Params("id")

	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgCorpoInvalido})
	}
	if len(req.NewPassword) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": utils.MsgSenhaFraca})
	}

	var collab models.Collaborator
	if err := database.DB.First(&collab, id).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": utils.MsgErroGenerico})
	}

	if err := database.DB.Model(&collab).Update("password_hash", hashed).Error; err != nil {
		return utils.DBErrorResponse(c, err)
	}

	middleware.LogActivity(c, "RESET_PASSWORD", "collaborators", collab.ID, fiber.Map{"login": collab.Login})

	return c.JSON(fiber.Map{"message": "Senha redefinida com sucesso"})
}
