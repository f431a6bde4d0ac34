package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/guard"
	"github.com/spec-kit/car-marketplace-client/internal/service"
	"github.com/spec-kit/car-marketplace-client/internal/theme"
)

// PagesHandler serves the static views and the theme toggle.
type PagesHandler struct {
	views    *Views
	activity *service.ActivityService
	modes    *theme.Switch
}

// NewPagesHandler constructs handler. activity may be nil.
func NewPagesHandler(views *Views, activity *service.ActivityService, modes *theme.Switch) *PagesHandler {
	return &PagesHandler{views: views, activity: activity, modes: modes}
}

var homeIntros = map[domain.Role]string{
	domain.RoleAdmin:  "Review sales reports and moderate favorites and reviews.",
	domain.RoleBuyer:  "Search listings, keep favorites and track your purchases.",
	domain.RoleAgency: "Manage the listings your agency publishes.",
	domain.RoleGuest:  "Browse the catalogue. Sign in to save favorites and buy.",
}

// Home renders the landing view with an intro for the primary role.
func (h *PagesHandler) Home(c *fiber.Ctx) error {
	current := guard.SessionFromContext(c)
	data := fiber.Map{
		"title": "Home",
		"intro": homeIntros[current.PrimaryRole()],
	}
	if current.IsAuthenticated() && h.activity != nil {
		data["activity"] = h.activity.Recent()
	}
	return h.views.Render(c, fiber.StatusOK, "home", data)
}

func (h *PagesHandler) About(c *fiber.Ctx) error {
	return h.views.Render(c, fiber.StatusOK, "about", fiber.Map{"title": "About"})
}

// Forbidden is the target of role redirects.
func (h *PagesHandler) Forbidden(c *fiber.Ctx) error {
	return h.views.RenderError(c, fiber.StatusForbidden, "FORBIDDEN", "You do not have access to this page.")
}

// ToggleTheme flips light/dark and returns to the previous page.
func (h *PagesHandler) ToggleTheme(c *fiber.Ctx) error {
	h.modes.Toggle()
	return redirectBack(c, "/")
}
