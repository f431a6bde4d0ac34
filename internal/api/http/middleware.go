package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/car-marketplace-client/internal/api/http/handlers"
	"github.com/spec-kit/car-marketplace-client/internal/gateway"
	"github.com/spec-kit/car-marketplace-client/internal/guard"
	"github.com/spec-kit/car-marketplace-client/internal/observability"
	apperrors "github.com/spec-kit/car-marketplace-client/pkg/util/errorutil"
)

// MiddlewareConfig bundles what the global middlewares need.
type MiddlewareConfig struct {
	Views   *handlers.Views
	Table   *guard.Table
	Session guard.Source
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Timeout time.Duration
}

// RegisterMiddlewares attaches request logging, error rendering and the
// route guard, in that order.
func RegisterMiddlewares(app *fiber.App, cfg MiddlewareConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	app.Use(observability.RequestLogger(logger, cfg.Metrics))
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
	app.Use(errorHandlingMiddleware(cfg.Views, logger))
	app.Use(guard.Middleware(cfg.Table, cfg.Session, logger, cfg.Metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(views *handlers.Views, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				err = renderError(c, views, logger, err)
			}
		}()
		return c.Next()
	}
}

func renderError(c *fiber.Ctx, views *handlers.Views, logger *zap.Logger, err error) error {
	if apperrors.IsCredentialInvalidated(err) && c.Path() != guard.SignInPath {
		logger.Info("credential invalidated, redirecting to sign-in", zap.String("path", c.Path()))
		return c.Redirect(guard.SignInRedirect(guard.ReturnLocation(c)), fiber.StatusSeeOther)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return views.RenderError(c, fiberErr.Code, "", fiberErr.Message)
	}

	domainErr := apperrors.ToDomainError(err)
	status := domainErr.HTTPStatus
	if status < 400 {
		status = fiber.StatusInternalServerError
	}
	switch {
	case gateway.IsUnreachable(err):
		logger.Warn("backend unreachable",
			zap.String("request_id", observability.RequestID(c)),
			zap.String("path", c.Path()),
			zap.Error(domainErr))
	case status >= 500:
		logger.Error("request failed",
			zap.String("request_id", observability.RequestID(c)),
			zap.String("path", c.Path()),
			zap.Error(domainErr))
	}
	if renderErr := views.RenderError(c, status, domainErr.Code, domainErr.Message); renderErr != nil {
		logger.Error("render error view", zap.Error(renderErr))
		return c.Status(status).SendString(domainErr.Message)
	}
	return nil
}
