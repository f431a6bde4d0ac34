package handlers

import (
	"embed"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"

	"github.com/spec-kit/car-marketplace-client/internal/guard"
	"github.com/spec-kit/car-marketplace-client/internal/session"
	"github.com/spec-kit/car-marketplace-client/internal/theme"
)

//go:embed views
var viewsFS embed.FS

const (
	flashCookie = "flash"
	layoutView  = "layout"
)

// NewViewEngine loads the embedded django templates.
func NewViewEngine() *django.Engine {
	return django.NewPathForwardingFileSystem(http.FS(viewsFS), "/views", ".html")
}

// Views renders templates with the data every page needs.
type Views struct {
	appName string
	theme   *theme.Switch
}

// NewViews creates the renderer.
func NewViews(appName string, modes *theme.Switch) *Views {
	if modes == nil {
		modes = theme.NewSwitch(theme.ModeLight)
	}
	return &Views{appName: appName, theme: modes}
}

// Theme returns the light/dark switch the views read.
func (v *Views) Theme() *theme.Switch {
	return v.theme
}

// Render writes template name with status. data may be nil.
func (v *Views) Render(c *fiber.Ctx, status int, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	current := guard.SessionFromContext(c)
	mode := v.theme.Mode()

	data["app_name"] = v.appName
	data["user"] = userView(current)
	data["palette"] = theme.For(current.PrimaryRole(), mode)
	data["mode"] = string(mode)
	data["path"] = c.Path()
	if flash, ok := popFlash(c); ok {
		data["flash"] = flash
	}
	return c.Status(status).Render(name, data, layoutView)
}

// RenderError renders the generic error page.
func (v *Views) RenderError(c *fiber.Ctx, status int, code, message string) error {
	name := "error"
	switch status {
	case fiber.StatusNotFound:
		name = "not_found"
	case fiber.StatusForbidden:
		name = "forbidden"
	}
	return v.Render(c, status, name, fiber.Map{
		"title":   http.StatusText(status),
		"status":  status,
		"code":    code,
		"message": message,
	})
}

func userView(m session.Model) fiber.Map {
	return fiber.Map{
		"authenticated": m.IsAuthenticated(),
		"subject":       m.Subject(),
		"roles":         m.Roles().Strings(),
		"primary_role":  string(m.PrimaryRole()),
		"is_admin":      m.HasRole("admin"),
		"is_buyer":      m.HasRole("buyer"),
		"is_agency":     m.HasRole("agency"),
	}
}

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

func setFlash(c *fiber.Ctx, kind, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + ":" + message),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func popFlash(c *fiber.Ctx) (Flash, bool) {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return Flash{}, false
	}
	c.ClearCookie(flashCookie)
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return Flash{}, false
	}
	kind, message, ok := strings.Cut(decoded, ":")
	if !ok || message == "" {
		return Flash{}, false
	}
	return Flash{Kind: kind, Message: message}, true
}

// redirectBack returns to the local page the request came from.
func redirectBack(c *fiber.Ctx, fallback string) error {
	return c.Redirect(guard.RefererLocation(c, fallback), fiber.StatusSeeOther)
}
