package routes

import (
	"oficinadoaluno_go/controllers"
	"oficinadoaluno_go/middleware"
	"oficinadoaluno_go/services/websocket"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, wsHub *websocket.Hub) {
	// Initialize controllers
	authController := &controllers.AuthController{}
	studentController := &controllers.StudentController{}
	professionalController := &controllers.ProfessionalController{}
	classController := &controllers.ClassController{}
	groupController := &controllers.GroupController{}
	continuityController := &controllers.ContinuityController{}
	transactionController := &controllers.TransactionController{}
	remunerationController := &controllers.RemunerationController{}
	agendaController := &controllers.AgendaController{}
	collaboratorController := &controllers.CollaboratorController{}
	settingsController := &controllers.SettingsController{}
	notificationController := &controllers.NotificationController{}
	logController := &controllers.LogController{}
	healthController := &controllers.HealthController{}
	wsController := controllers.NewWebSocketController(wsHub)

	// API group
	api := app.Group("/api")

	// Health check (public)
	api.Get("/health", healthController.GetHealthStatus)

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	protected.Post("/auth/logout", authController.Logout)
	protected.Get("/profile", authController.GetProfile)
	protected.Put("/profile/password", authController.ChangePassword)

	// Student management
	students := protected.Group("/students")
	students.Get("/", middleware.RequireTeacherOrAdmin(), studentController.GetStudents)
	students.Get("/:id", middleware.RequireTeacherOrAdmin(), studentController.GetStudent)
	students.Post("/", middleware.RequireSection("students"), studentController.CreateStudent)
	students.Put("/:id", middleware.RequireSection("students"), studentController.UpdateStudent)
	students.Patch("/:id/status", middleware.RequireSection("students"), studentController.UpdateStudentStatus)
	students.Delete("/:id", middleware.RequireSection("students"), studentController.DeleteStudent)
	students.Post("/:id/avatar", middleware.RequireSection("students"), studentController.UploadStudentAvatar)

	// Professional management
	professionals := protected.Group("/professionals")
	professionals.Get("/", middleware.RequireTeacherOrAdmin(), professionalController.GetProfessionals)
	professionals.Get("/:id", middleware.RequireTeacherOrAdmin(), professionalController.GetProfessional)
	professionals.Post("/", middleware.RequireSection("professionals"), professionalController.CreateProfessional)
	professionals.Put("/:id", middleware.RequireSection("professionals"), professionalController.UpdateProfessional)
	professionals.Put("/:id/availability", middleware.RequireTeacherOrAdmin(), professionalController.UpdateProfessionalAvailability)
	professionals.Patch("/:id/status", middleware.RequireSection("professionals"), professionalController.UpdateProfessionalStatus)
	professionals.Delete("/:id", middleware.RequireSection("professionals"), professionalController.DeleteProfessional)
	professionals.Post("/:id/avatar", middleware.RequireSection("professionals"), professionalController.UploadProfessionalAvatar)
	professionals.Get("/:id/remuneration", middleware.RequireTeacherOrAdmin(), remunerationController.GetRemuneration)

	// Individual classes
	classes := protected.Group("/classes")
	classes.Get("/", middleware.RequireTeacherOrAdmin(), classController.GetClasses)
	classes.Get("/pending-reports", middleware.RequireTeacherOrAdmin(), classController.GetPendingReports)
	classes.Get("/:id", middleware.RequireTeacherOrAdmin(), classController.GetClass)
	classes.Post("/", middleware.RequireSection("agenda"), classController.CreateClass)
	classes.Post("/advise", middleware.RequireTeacherOrAdmin(), classController.Advise)
	classes.Patch("/:id/status", middleware.RequireSection("agenda"), classController.UpdateClassStatus)
	classes.Post("/:id/report", middleware.RequireTeacherOrAdmin(), classController.RegisterClassReport)
	classes.Delete("/:id", middleware.RequireSection("agenda"), classController.DeleteClass)

	// Class groups
	groups := protected.Group("/groups")
	groups.Get("/", middleware.RequireTeacherOrAdmin(), groupController.GetGroups)
	groups.Get("/:id", middleware.RequireTeacherOrAdmin(), groupController.GetGroup)
	groups.Post("/", middleware.RequireSection("agenda"), groupController.CreateGroup)
	groups.Put("/:id", middleware.RequireSection("agenda"), groupController.UpdateGroup)
	groups.Patch("/:id/archive", middleware.RequireSection("agenda"), groupController.ArchiveGroup)
	groups.Get("/:id/occurrences", middleware.RequireTeacherOrAdmin(), groupController.GetGroupOccurrences)
	groups.Post("/:id/reports", middleware.RequireTeacherOrAdmin(), groupController.RegisterGroupReport)
	groups.Get("/:id/reports", middleware.RequireTeacherOrAdmin(), groupController.GetGroupReports)

	// Continuity items
	continuity := protected.Group("/continuity")
	continuity.Get("/", middleware.RequireTeacherOrAdmin(), continuityController.GetContinuityItems)
	continuity.Post("/", middleware.RequireTeacherOrAdmin(), continuityController.CreateContinuityItem)
	continuity.Patch("/:id/status", middleware.RequireTeacherOrAdmin(), continuityController.UpdateContinuityStatus)
	continuity.Delete("/:id", middleware.RequireSection("agenda"), continuityController.DeleteContinuityItem)

	// Agenda views
	agendaRoutes := protected.Group("/agenda")
	agendaRoutes.Get("/day", middleware.RequireTeacherOrAdmin(), agendaController.GetDay)
	agendaRoutes.Get("/month", middleware.RequireTeacherOrAdmin(), agendaController.GetMonth)

	// Financial ledger (admin with the financeiro section)
	transactions := protected.Group("/transactions", middleware.RequireSection("financeiro"))
	transactions.Get("/", transactionController.GetTransactions)
	transactions.Post("/", transactionController.CreateTransaction)
	transactions.Get("/summary", transactionController.GetSummary)
	transactions.Get("/export", transactionController.ExportTransactions)

	// Remuneration projections for every professional
	protected.Get("/remunerations", middleware.RequireSection("financeiro"), remunerationController.GetAllRemunerations)

	// Collaborator management (admin only)
	collaborators := protected.Group("/collaborators", middleware.RequireAdmin())
	collaborators.Get("/", collaboratorController.GetCollaborators)
	collaborators.Get("/:id", collaboratorController.GetCollaborator)
	collaborators.Post("/", collaboratorController.CreateCollaborator)
	collaborators.Put("/:id", collaboratorController.UpdateCollaborator)
	collaborators.Patch("/:id/deactivate", collaboratorController.DeactivateCollaborator)
	collaborators.Post("/:id/reset-password", authController.ResetPasswordByAdmin)

	// Financial settings (admin only)
	settings := protected.Group("/settings", middleware.RequireAdmin())
	settings.Get("/financial", settingsController.GetFinancialSettings)
	settings.Put("/financial", settingsController.UpdateFinancialSettings)

	// Notifications
	notifs := protected.Group("/notifications")
	notifs.Get("/", notificationController.GetNotifications)
	notifs.Get("/unread-count", notificationController.GetUnreadCount)
	notifs.Post("/", middleware.RequireAdmin(), notificationController.CreateNotification)
	notifs.Patch("/:id/read", notificationController.MarkAsRead)
	notifs.Patch("/read-all", notificationController.MarkAllAsRead)

	// Activity logs and archives (admin only)
	logs := protected.Group("/logs", middleware.RequireAdmin())
	logs.Get("/", logController.GetActivityLogs)
	logs.Get("/archives", logController.GetLogArchives)
	logs.Get("/archives/:id/download", logController.DownloadLogArchive)

	// WebSocket stats (admin only)
	protected.Get("/ws/stats", middleware.RequireAdmin(), wsController.GetWebSocketStats)

	// WebSocket endpoint: upgrade check then JWT-authenticated handler
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", wsController.WebSocketHandler())
}
