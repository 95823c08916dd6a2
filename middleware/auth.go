package middleware

import (
	"context"
	"oficinadoaluno_go/config"
	"oficinadoaluno_go/database"
	"oficinadoaluno_go/models"
	"oficinadoaluno_go/utils"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type Claims struct {
	CollaboratorID uint     `json:"collaborator_id"`
	Login          string   `json:"login"`
	Roles          []string `json:"roles"`
	jwt.RegisteredClaims
}

// GenerateToken creates a new JWT token for a collaborator
func GenerateToken(collab *models.Collaborator) (string, error) {
	claims := &Claims{
		CollaboratorID: collab.ID,
		Login:          collab.Login,
		Roles:          []string(collab.SystemAccess),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(config.AppConfig.JWTExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// JWTMiddleware validates JWT tokens
func JWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get token from Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Sessão expirada. Faça login novamente.",
			})
		}

		// Extract token from "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Sessão inválida. Faça login novamente.",
			})
		}

		// Reject tokens invalidated by logout
		if rc := database.GetRedisClient(); rc != nil {
			if _, err := rc.Get(context.Background(), "blacklist:jwt:"+tokenString).Result(); err == nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Sessão encerrada. Faça login novamente.",
				})
			}
		}

		// Parse and validate token
		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(config.AppConfig.JWTSecret), nil
		})

		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Sessão inválida. Faça login novamente.",
			})
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Sessão inválida. Faça login novamente.",
			})
		}

		// Verify collaborator still exists and is active
		var collab models.Collaborator
		if err := database.DB.Where("id = ? AND active = ?", claims.CollaboratorID, true).First(&collab).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Usuário não encontrado ou inativo.",
			})
		}

		// Store collaborator info in context
		c.Locals("collaborator", &collab)
		c.Locals("claims", claims)

		return c.Next()
	}
}

// RequireRole middleware checks if the collaborator has one of the required roles
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		collab, ok := c.Locals("collaborator").(*models.Collaborator)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Sessão inválida. Faça login novamente.",
			})
		}

		for _, role := range roles {
			if collab.SystemAccess.Has(role) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": utils.MsgSemPermissao,
		})
	}
}

// RequireAdmin allows only collaborators with admin access
func RequireAdmin() fiber.Handler {
	return RequireRole("admin")
}

// RequireTeacherOrAdmin allows teaching professionals and admins
func RequireTeacherOrAdmin() fiber.Handler {
	return RequireRole("teacher", "admin")
}

// RequireSection checks the per-section admin permissions. A collaborator with
// no AdminPermissions map at all keeps full admin access (legacy rows).
func RequireSection(section string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		collab, ok := c.Locals("collaborator").(*models.Collaborator)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Sessão inválida. Faça login novamente.",
			})
		}

		if !collab.SystemAccess.Has("admin") {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": utils.MsgSemPermissao,
			})
		}

		if len(collab.AdminPermissions) > 0 && !collab.AdminPermissions[section] {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": utils.MsgSemPermissao,
			})
		}

		return c.Next()
	}
}

// GetCurrentCollaborator returns the current authenticated collaborator
func GetCurrentCollaborator(c *fiber.Ctx) (*models.Collaborator, error) {
	collab, ok := c.Locals("collaborator").(*models.Collaborator)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Collaborator not found in context")
	}
	return collab, nil
}

// GetCurrentClaims returns the current JWT claims
func GetCurrentClaims(c *fiber.Ctx) (*Claims, error) {
	claims, ok := c.Locals("claims").(*Claims)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Claims not found in context")
	}
	return claims, nil
}
