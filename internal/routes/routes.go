package routes

import (
	"time"

	"github.com/Sylvain-Z/signalcampus-backend/internal/config"
	"github.com/Sylvain-Z/signalcampus-backend/internal/handlers"
	"github.com/Sylvain-Z/signalcampus-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	signalementHandler *handlers.SignalementHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limit: 10 req/min per IP
	authLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	api.Post("/signup", authLimiter, authHandler.Signup)
	api.Post("/login", authLimiter, authHandler.Login)

	auth := middleware.JWTProtected(cfg)
	principal := middleware.CurrentUser(db)
	staff := middleware.StaffRequired()

	// Anonymous urgent path: no token so a distressed user can report
	// without an account. Registered before the parameterized routes.
	api.Post("/signalements/urgent", signalementHandler.CreateUrgent)

	// Signalements
	api.Post("/signalements", auth, principal, signalementHandler.Create)
	api.Get("/signalements", auth, principal, staff, signalementHandler.List)
	api.Get("/signalements/:id", auth, principal, signalementHandler.Get)
	api.Put("/signalements/:id/process", auth, principal, staff, signalementHandler.MarkProcessed)
	api.Put("/signalements/:id", auth, principal, staff, signalementHandler.Update)
	api.Delete("/signalements/:id", auth, principal, staff, signalementHandler.Delete)

	// Users
	api.Get("/users/:userId/signalements", auth, principal, signalementHandler.ListByUser)
	api.Get("/users", auth, principal, userHandler.List)
	api.Get("/users/:id", auth, principal, userHandler.Get)
	api.Put("/users/:id", auth, principal, userHandler.Update)
	api.Delete("/users/:id", auth, principal, userHandler.Delete)
}
