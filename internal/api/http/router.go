package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/newsdesk/newsroom/internal/api/http/handlers"
	"github.com/newsdesk/newsroom/internal/auth"
	"github.com/newsdesk/newsroom/internal/domain"
)

// DashboardPrefix is the path the route gate screens.
const DashboardPrefix = "/dashboard"

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Articles       *handlers.ArticlesHandler
	Comments       *handlers.CommentsHandler
	Users          *handlers.UsersHandler
	Roles          *handlers.RolesHandler
	Pages          *handlers.PagesHandler
	AuthMiddleware *auth.AuthMiddleware
	Gate           fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Gate != nil {
		app.Use(cfg.Gate)
	}

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api")
	required := cfg.AuthMiddleware.Handle
	publishers := auth.RequireRoles(domain.RoleAuthor, domain.RoleAdmin)
	admins := auth.RequireRoles(domain.RoleAdmin)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", required, cfg.Auth.Me)

	api.Get("/front-page", cfg.Articles.FrontPage)
	api.Get("/news", cfg.AuthMiddleware.Optional, cfg.Articles.List)
	api.Get("/news/:id", cfg.Articles.Get)
	api.Post("/news", required, publishers, cfg.Articles.Create)
	api.Patch("/news", required, publishers, cfg.Articles.Update)
	api.Delete("/news", required, publishers, cfg.Articles.Delete)

	api.Get("/news/:id/comments", cfg.Comments.List)
	api.Post("/news/:id/comments", required, cfg.Comments.Create)

	api.Get("/users", required, admins, cfg.Users.List)
	api.Post("/users", required, admins, cfg.Users.Create)
	api.Patch("/users", required, admins, cfg.Users.Update)
	api.Delete("/users", required, admins, cfg.Users.Delete)
	api.Get("/roles", required, admins, cfg.Roles.List)

	api.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	pages := app.Group("", cfg.AuthMiddleware.Optional)
	pages.Get("/", cfg.Pages.Home)
	pages.Get("/news/:id", cfg.Pages.Article)
	pages.Get("/login", cfg.Pages.Login)
	pages.Get("/register", cfg.Pages.Register)
	pages.Get(DashboardPrefix, cfg.Pages.Dashboard)
	pages.Get(DashboardPrefix+"/users", cfg.Pages.Users)
	pages.Use(cfg.Pages.NotFound)
}
