package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/car-marketplace-client/internal/api/http/handlers"
	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/guard"
	"github.com/spec-kit/car-marketplace-client/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Pages     *handlers.PagesHandler
	Listings  *handlers.ListingsHandler
	Favorites *handlers.FavoritesHandler
	Reviews   *handlers.ReviewsHandler
	Purchases *handlers.PurchasesHandler
	Agency    *handlers.AgencyHandler
	Admin     *handlers.AdminHandler
	Metrics   *observability.Metrics
}

// routes registers every handler with fiber and its requirement with the
// guard table, so a path fiber serves is always one the guard knows.
type routes struct {
	app   fiber.Router
	table *guard.Table
}

func (r routes) get(path string, req guard.Requirement, handler fiber.Handler) {
	r.table.Add(path, req)
	r.app.Get(path, handler)
}

func (r routes) post(path string, req guard.Requirement, handler fiber.Handler) {
	r.table.Add(path, req)
	r.app.Post(path, handler)
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, table *guard.Table, cfg RouteConfig) {
	r := routes{app: app, table: table}
	public := guard.Public()
	buyer := guard.AnyOf(domain.RoleBuyer)
	agency := guard.AnyOf(domain.RoleAgency)
	admin := guard.AnyOf(domain.RoleAdmin)

	r.get("/health/live", public, cfg.Health.Live)
	r.get("/health/ready", public, cfg.Health.Ready)
	if cfg.Metrics != nil {
		r.get("/metrics", public, cfg.Metrics.Handler())
	}

	r.get("/", public, cfg.Pages.Home)
	r.get("/about", public, cfg.Pages.About)
	r.get(guard.ForbiddenPath, public, cfg.Pages.Forbidden)
	r.post("/theme/toggle", public, cfg.Pages.ToggleTheme)

	r.get(guard.SignInPath, public, cfg.Auth.SignInPage)
	r.post(guard.SignInPath, public, cfg.Auth.SignIn)
	r.get("/register", public, cfg.Auth.RegisterPage)
	r.post("/register", public, cfg.Auth.Register)
	r.post("/logout", public, cfg.Auth.Logout)

	r.get("/listings", public, cfg.Listings.Search)
	r.get("/listings/:id", public, cfg.Listings.Detail)

	r.get(handlers.MyFavoritesPath, buyer, cfg.Favorites.MyFavorites)
	r.post("/favorites/:id", buyer, cfg.Favorites.Add)
	r.post("/favorites/:id/remove", buyer, cfg.Favorites.Remove)

	r.get(handlers.MyReviewsPath, buyer, cfg.Reviews.MyReviews)
	r.post("/reviews", buyer, cfg.Reviews.Create)
	r.post("/reviews/:id", buyer, cfg.Reviews.Update)

	r.get(handlers.MyPurchasesPath, buyer, cfg.Purchases.MyPurchases)
	r.post("/purchases", buyer, cfg.Purchases.Create)
	r.post("/purchases/:id/cancel", buyer, cfg.Purchases.Cancel)
	r.post("/purchases/:id/reactivate", buyer, cfg.Purchases.Reactivate)

	r.get(handlers.AgencyListingsPath, agency, cfg.Agency.Listings)
	r.post(handlers.AgencyListingsPath, agency, cfg.Agency.CreateListing)
	r.get("/agency/listings/:id", agency, cfg.Agency.Listing)
	r.post("/agency/listings/:id", agency, cfg.Agency.UpdateListing)
	r.post("/agency/listings/:id/cancel", agency, cfg.Agency.CancelListing)
	r.post("/agency/listings/:id/activate", agency, cfg.Agency.ActivateListing)
	r.post("/agency/listings/:id/delete", agency, cfg.Agency.DeleteListing)
	r.get(handlers.AgencyInventoryPath, agency, cfg.Agency.Inventory)
	r.post(handlers.AgencyInventoryPath, agency, cfg.Agency.CreateInventory)
	r.get("/agency/inventory/:id", agency, cfg.Agency.InventoryItem)
	r.post("/agency/inventory/:id", agency, cfg.Agency.UpdateInventory)
	r.post("/agency/inventory/:id/delete", agency, cfg.Agency.DeleteInventory)
	r.get("/agency/sales", agency, cfg.Agency.Sales)
	r.get("/agency/customers", agency, cfg.Agency.Customers)

	r.get("/admin/reports", admin, cfg.Admin.Reports)
	r.get("/admin/favorites", admin, cfg.Admin.Favorites)
	r.get("/admin/reviews", admin, cfg.Admin.Reviews)
	r.get("/admin/purchases", admin, cfg.Admin.Purchases)
	r.get(handlers.AdminUsersPath, admin, cfg.Admin.Users)
	r.post("/admin/agencies", admin, cfg.Admin.CreateAgency)
}
