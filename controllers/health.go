package controllers

import (
	"context"
	"oficinadoaluno_go/database"
	"time"

	"github.com/gofiber/fiber/v2"
)

type HealthController struct{}

// GetHealthStatus reports database and Redis connectivity
func (hc *HealthController) GetHealthStatus(c *fiber.Ctx) error {
	status := fiber.StatusOK
	dbStatus := "up"
	redisStatus := "up"

	sqlDB, err := database.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
		status = fiber.StatusServiceUnavailable
	}

	if rc := database.GetRedisClient(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Ping(ctx).Err(); err != nil {
			redisStatus = "down"
		}
	} else {
		redisStatus = "disabled"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":    map[bool]string{true: "ok", false: "degraded"}[status == fiber.StatusOK],
		"database":  dbStatus,
		"redis":     redisStatus,
		"timestamp": time.Now().UTC(),
	})
}
