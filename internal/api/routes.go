package api

import (
	"os"
	"strings"

	"wakeup/internal/ring"
	"wakeup/internal/schedule"
	"wakeup/internal/store"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App, st *store.Store, reg *schedule.Registry, mgr *ring.Manager) {
	api := app.Group("/api")

	// Check if registration is disabled
	disableRegistration := strings.ToLower(os.Getenv("DISABLE_REGISTRATION")) == "true"

	// Configuration endpoint (public)
	api.Get("/config", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"disableRegistration": disableRegistration,
		})
	})

	// Auth routes
	auth := api.Group("/auth")
	if !disableRegistration {
		auth.Post("/register", RegisterHandler(st))
	}
	auth.Post("/login", LoginHandler(st))

	// VAPID public key endpoint (public - must be before protected routes for proper routing)
	api.Get("/push/vapid-public-key", VapidPublicKeyHandler())

	// Protected routes
	protected := api.Group("/", AuthMiddleware())

	// Alarm routes
	alarms := protected.Group("/alarms")
	alarms.Post("/", CreateAlarmHandler(st, reg))
	alarms.Get("/", ListAlarmsHandler(st))
	alarms.Get("/:id", GetAlarmHandler(st))
	alarms.Put("/:id", UpdateAlarmHandler(st, reg))
	alarms.Put("/:id/toggle", ToggleAlarmHandler(st, reg))
	alarms.Delete("/:id", DeleteAlarmHandler(st, reg))

	// Wake history and analysis
	protected.Get("/history", ListHistoryHandler(st))
	protected.Delete("/history", ClearHistoryHandler(st))
	protected.Get("/analysis", AnalysisHandler(st))

	// Custom typing sentences
	sentences := protected.Group("/sentences")
	sentences.Post("/", CreateSentenceHandler(st))
	sentences.Get("/", ListSentencesHandler(st))
	sentences.Delete("/", ClearSentencesHandler(st))

	// Settings
	protected.Get("/settings", GetSettingsHandler(st))
	protected.Put("/settings", UpdateSettingsHandler(st))

	// Active wake-up episode
	ringGroup := protected.Group("/ring")
	ringGroup.Get("/", RingStatusHandler(mgr))
	ringGroup.Post("/answer", RingAnswerHandler(mgr))
	ringGroup.Post("/tap", RingTapHandler(mgr))
	ringGroup.Post("/motion", RingMotionHandler(mgr))
	ringGroup.Post("/typing", RingTypingHandler(mgr))
	ringGroup.Post("/dismiss", RingDismissHandler(mgr))
	ringGroup.Post("/snooze", RingSnoozeHandler(mgr))
	ringGroup.Post("/visibility", RingVisibilityHandler(mgr))

	// Push subscription routes
	push := protected.Group("/push")
	push.Post("/subscribe", SubscribePushHandler(st))
	push.Delete("/unsubscribe", UnsubscribePushHandler(st))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
