package guard

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/car-marketplace-client/internal/observability"
	"github.com/spec-kit/car-marketplace-client/internal/session"
	apperrors "github.com/spec-kit/car-marketplace-client/pkg/util/errorutil"
)

const sessionKey = "guard_session"

// Middleware resolves every request against table and applies the decision.
// The session snapshot used for the decision is stored for handlers.
func Middleware(table *Table, src Source, logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		current := src.Current()
		c.Locals(sessionKey, current)

		outcome := table.Resolve(c.Path(), current, ReturnLocation(c))
		metrics.RecordGuardDecision(string(outcome.Decision))

		switch outcome.Decision {
		case Render:
			return c.Next()
		case NotFound:
			return apperrors.NewNotFound("page", map[string]any{"path": c.Path()})
		default:
			logger.Debug("navigation redirected",
				zap.String("path", c.Path()),
				zap.String("decision", string(outcome.Decision)),
				zap.String("subject", current.Subject()))
			return c.Redirect(outcome.Redirect, fiber.StatusSeeOther)
		}
	}
}

// SessionFromContext returns the snapshot the guard decided with, or the
// anonymous model outside guarded routes.
func SessionFromContext(c *fiber.Ctx) session.Model {
	m, ok := c.Locals(sessionKey).(session.Model)
	if !ok {
		return session.Anonymous()
	}
	return m
}

// ReturnLocation is where a sign-in should send the user back to. Only a
// GET can be replayed; a form post returns to the page that submitted it.
func ReturnLocation(c *fiber.Ctx) string {
	if c.Method() == fiber.MethodGet || c.Method() == fiber.MethodHead {
		return c.OriginalURL()
	}
	return RefererLocation(c, "/")
}

// RefererLocation is the local page named by the Referer header, or fallback.
func RefererLocation(c *fiber.Ctx, fallback string) string {
	if ref := c.Get(fiber.HeaderReferer); ref != "" {
		if u, err := url.Parse(ref); err == nil && (u.Host == "" || u.Host == c.Hostname()) {
			local := u.RequestURI()
			if IsLocalPath(local) {
				return local
			}
		}
	}
	return fallback
}
