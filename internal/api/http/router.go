package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/catalog-service/internal/api/http/handlers"
	"github.com/spec-kit/catalog-service/internal/auth"
	"github.com/spec-kit/catalog-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Users    *handlers.UsersHandler
	Products *handlers.ProductsHandler
	Guard    *auth.Guard
}

// AccessTable declares the access requirement for every registered route.
// The guard consults this table per request; a route registered without an
// entry here is denied.
func AccessTable() auth.RouteRequirements {
	return auth.RouteRequirements{
		auth.RouteKey(fiber.MethodGet, "/health/live"):  auth.PermitAll(),
		auth.RouteKey(fiber.MethodGet, "/health/ready"): auth.PermitAll(),

		auth.RouteKey(fiber.MethodPost, "/signup"):      auth.PermitAll(),
		auth.RouteKey(fiber.MethodPost, "/users/login"): auth.PermitAll(),
		auth.RouteKey(fiber.MethodGet, "/whoAmI"):       auth.IsAuthenticated(),

		auth.RouteKey(fiber.MethodGet, "/products"):     auth.PermitAll(),
		auth.RouteKey(fiber.MethodGet, "/products/:id"): auth.PermitAll(),
		auth.RouteKey(fiber.MethodPost, "/products"): auth.HasAnyRole(
			domain.RoleAdmin, domain.RoleCatalogManager),
		auth.RouteKey(fiber.MethodPut, "/products/:id"): auth.HasAnyRole(
			domain.RoleAdmin, domain.RoleCatalogManager),
		auth.RouteKey(fiber.MethodPatch, "/products/:id"):  auth.HasAllRoles(domain.RoleAdmin),
		auth.RouteKey(fiber.MethodDelete, "/products/:id"): auth.HasAllRoles(domain.RoleAdmin),

		// Disabled bulk endpoint; kept registered so clients get a uniform 401.
		auth.RouteKey(fiber.MethodPost, "/products/import"): auth.DenyAll(),
	}
}

// RegisterRoutes wires HTTP routes. Every route passes through the guard,
// which enforces the requirement declared in AccessTable.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	guard := cfg.Guard.Handle

	app.Get("/health/live", guard, cfg.Health.Live)
	app.Get("/health/ready", guard, cfg.Health.Ready)

	app.Post("/signup", guard, cfg.Users.Signup)
	app.Post("/users/login", guard, cfg.Users.Login)
	app.Get("/whoAmI", guard, cfg.Users.WhoAmI)

	app.Get("/products", guard, cfg.Products.List)
	app.Post("/products", guard, cfg.Products.Create)
	app.Post("/products/import", guard, cfg.Products.BulkImport)
	app.Get("/products/:id", guard, cfg.Products.Get)
	app.Put("/products/:id", guard, cfg.Products.Replace)
	app.Patch("/products/:id", guard, cfg.Products.Update)
	app.Delete("/products/:id", guard, cfg.Products.Delete)
}
