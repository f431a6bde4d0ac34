package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/car-marketplace-client/internal/api/dto"
	"github.com/spec-kit/car-marketplace-client/internal/guard"
	"github.com/spec-kit/car-marketplace-client/internal/repository"
	"github.com/spec-kit/car-marketplace-client/internal/session"
	apperrors "github.com/spec-kit/car-marketplace-client/pkg/util/errorutil"
)

// AuthHandler serves sign-in, registration and logout.
type AuthHandler struct {
	views    *Views
	sessions *session.Provider
	accounts repository.AuthRepository
	logger   *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(views *Views, sessions *session.Provider, accounts repository.AuthRepository, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{views: views, sessions: sessions, accounts: accounts, logger: logger}
}

// SignInPage renders the sign-in form. A signed-in visitor is sent on.
func (h *AuthHandler) SignInPage(c *fiber.Ctx) error {
	from := c.Query(guard.ReturnParam)
	if h.sessions.Current().IsAuthenticated() {
		return c.Redirect(returnTarget(from), fiber.StatusSeeOther)
	}
	return h.renderSignIn(c, fiber.StatusOK, dto.SignInForm{From: from}, nil)
}

// SignIn posts the credentials to the backend through the session provider.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var form dto.SignInForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid form", nil)
	}
	form.Normalize()
	if err := form.Validate(); err != nil {
		return h.renderSignIn(c, fiber.StatusUnprocessableEntity, form, dto.FieldErrors(err))
	}

	if _, err := h.sessions.Login(c.UserContext(), form.Email, form.Password); err != nil {
		if apperrors.IsAuthentication(err) {
			domainErr := apperrors.ToDomainError(err)
			return h.renderSignIn(c, domainErr.HTTPStatus, form, map[string]string{"form": domainErr.Message})
		}
		return err
	}
	return c.Redirect(returnTarget(form.From), fiber.StatusSeeOther)
}

func (h *AuthHandler) renderSignIn(c *fiber.Ctx, status int, form dto.SignInForm, errs map[string]string) error {
	return h.views.Render(c, status, "login", fiber.Map{
		"title":  "Sign in",
		"form":   form,
		"errors": errs,
	})
}

// RegisterPage renders the registration form.
func (h *AuthHandler) RegisterPage(c *fiber.Ctx) error {
	return h.renderRegister(c, fiber.StatusOK, dto.RegisterForm{}, nil)
}

// Register creates a buyer account and signs it in.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var form dto.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid form", nil)
	}
	form.Normalize()
	if err := form.Validate(); err != nil {
		return h.renderRegister(c, fiber.StatusUnprocessableEntity, form, dto.FieldErrors(err))
	}

	account, err := h.accounts.Register(c.UserContext(), form.Email, form.Password)
	if err != nil {
		if domainErr := apperrors.ToDomainError(err); domainErr.HTTPStatus >= 400 && domainErr.HTTPStatus < 500 {
			return h.renderRegister(c, domainErr.HTTPStatus, form, map[string]string{"form": domainErr.Message})
		}
		return err
	}
	h.logger.Info("account registered", zap.String("account_id", string(account.ID)))

	if _, err := h.sessions.Login(c.UserContext(), form.Email, form.Password); err != nil {
		setFlash(c, "info", "Account created, please sign in.")
		return c.Redirect(guard.SignInPath, fiber.StatusSeeOther)
	}
	setFlash(c, "success", "Welcome aboard.")
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *AuthHandler) renderRegister(c *fiber.Ctx, status int, form dto.RegisterForm, errs map[string]string) error {
	form.Password, form.ConfirmPassword = "", ""
	return h.views.Render(c, status, "register", fiber.Map{
		"title":  "Create account",
		"form":   form,
		"errors": errs,
	})
}

// Logout clears the session and returns to the sign-in view.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c.UserContext()); err != nil {
		h.logger.Warn("logout: clear credential", zap.Error(err))
	}
	return c.Redirect(guard.SignInPath, fiber.StatusSeeOther)
}

// returnTarget accepts only local paths, falling back to the home view.
func returnTarget(from string) string {
	if from == "" || !guard.IsLocalPath(from) || strings.HasPrefix(from, guard.SignInPath) {
		return "/"
	}
	return from
}
