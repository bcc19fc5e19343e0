package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fleetrelay/support-service/internal/api/http/handlers"
	"github.com/fleetrelay/support-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Drivers        *handlers.DriversHandler
	Reports        *handlers.ReportsHandler
	Settings       *handlers.SettingsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	tickets := protected.Group("/tickets")
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/claim", cfg.Tickets.Claim)
	tickets.Post("/:id/release", cfg.Tickets.Release)
	tickets.Post("/:id/resolve", cfg.Tickets.Resolve)
	tickets.Post("/:id/dismiss", cfg.Tickets.Dismiss)
	tickets.Post("/:id/hold", cfg.Tickets.Hold)
	tickets.Post("/:id/messages", cfg.Tickets.AddMessage)

	drivers := protected.Group("/drivers")
	drivers.Get("", cfg.Drivers.ListDrivers)
	drivers.Get("/:id", cfg.Drivers.GetDriver)

	reports := protected.Group("/reports")
	reports.Get("/dashboard", cfg.Reports.Dashboard)
	reports.Get("/leaderboard", cfg.Reports.Leaderboard)

	protected.Get("/settings", cfg.Settings.ListSettings)
	protected.Put("/settings", auth.RequireAdmin(), cfg.Settings.UpdateSettings)
	protected.Get("/score-categories", cfg.Settings.ListScoreCategories)
	protected.Post("/score-categories", auth.RequireAdmin(), cfg.Settings.CreateScoreCategory)
	protected.Patch("/score-categories/:id", auth.RequireAdmin(), cfg.Settings.UpdateScoreCategory)

	users := protected.Group("/users", auth.RequireAdmin())
	users.Get("/operators", cfg.Auth.ListOperators)
	users.Patch("/:id/status", cfg.Auth.UpdateUserStatus)
}
