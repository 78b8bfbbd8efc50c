package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"

	controller "neshama/controllers"
	"neshama/engagement"
	"neshama/middleware"
)

// SetupRoutes wires the HTTP surface: public unsubscribe, admin-protected
// campaign controls, and the progress websocket.
func SetupRoutes(app *fiber.App, db *gorm.DB, orchestrator *engagement.Orchestrator,
	builder *engagement.SnapshotBuilder, dict engagement.DictionaryProvider) {

	engagementController := controller.NewEngagementController(db, orchestrator, builder, dict)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Public: linked from every engagement email
	api.Get("/engagement/unsubscribe", engagementController.Unsubscribe)

	// Admin dashboard surface
	admin := api.Group("/engagement", middleware.RequireAdminKey())
	admin.Post("/runs/daily", middleware.TriggerRateLimiter(), engagementController.TriggerDailyRun)
	admin.Post("/runs/evening", middleware.TriggerRateLimiter(), engagementController.TriggerEveningRun)
	admin.Get("/runs/reports", engagementController.GetRunReports)
	admin.Get("/users/:id/preview", engagementController.PreviewDecision)

	// Live run progress for the dashboard
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/engagement/progress", websocket.New(controller.HandleRunProgressWS(orchestrator.Hub)))
}
