package main

import (
	"log"
	"os"
	"strings"
	"time"

	"wakeup/internal/api"
	"wakeup/internal/database"
	"wakeup/internal/dispatch"
	"wakeup/internal/models"
	"wakeup/internal/notify"
	"wakeup/internal/ring"
	"wakeup/internal/schedule"
	"wakeup/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	// Initialize database
	db, err := database.Initialize("./data/wakeup.db")
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	st := store.New(db)

	// The dispatcher delivers fired payloads back to the ring manager; the
	// manager is created after it, so the callback closes over a pointer.
	var mgr *ring.Manager
	dispatcher := dispatch.New(func(p models.TriggerPayload) {
		mgr.OnFire(p)
	})
	defer dispatcher.Stop()

	registry := schedule.NewRegistry(dispatcher)
	mgr = ring.NewManager(st, registry, notify.New(st))

	// Re-register every enabled alarm at boot: timer registrations are
	// in-process and do not survive a restart.
	log.Println("Registering enabled alarms...")
	registerEnabledAlarms(st, registry)

	// Periodic resync guards against lost registrations; replacing a
	// pending registration with the same instant is harmless.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			registerEnabledAlarms(st, registry)
		}
	}()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New())

	// CORS configuration: restrict to specific origins for security
	allowedOrigins := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS"))
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:80,http://localhost:5173" // Default for local dev
		log.Println("WARNING: Using default ALLOWED_ORIGINS. Set ALLOWED_ORIGINS env var for production.")
	} else if allowedOrigins != "*" {
		parts := strings.Split(allowedOrigins, ",")
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		allowedOrigins = strings.Join(parts, ",")
	}

	log.Printf("CORS allowed origins: %s", allowedOrigins)

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Setup routes
	api.SetupRoutes(app, st, registry, mgr)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(app.Listen(":" + port))
}

// registerEnabledAlarms issues timer registrations for every enabled alarm,
// each with its owner's configured difficulty. Per-alarm failures are logged
// inside the registry and never abort the sweep.
func registerEnabledAlarms(st *store.Store, registry *schedule.Registry) {
	alarms, err := st.ListEnabledAlarms()
	if err != nil {
		log.Printf("Failed to list enabled alarms: %v", err)
		return
	}

	difficulties := make(map[int]models.Difficulty)
	for _, alarm := range alarms {
		difficulty, ok := difficulties[alarm.UserID]
		if !ok {
			settings, err := st.GetSettings(alarm.UserID)
			if err != nil {
				// GetSettings already fell back to defaults.
				log.Printf("Failed to load settings for user %d: %v", alarm.UserID, err)
			}
			difficulty = settings.Difficulty
			difficulties[alarm.UserID] = difficulty
		}
		registry.Register(alarm, difficulty)
	}
}
