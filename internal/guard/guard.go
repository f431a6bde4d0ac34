// Package guard decides, before a view renders, whether the current session
// may see it.
package guard

import (
	"net/url"
	"strings"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/session"
)

// Well-known navigation targets.
const (
	SignInPath    = "/login"
	ForbiddenPath = "/403"
	ReturnParam   = "from"
)

// Decision is the terminal state of one navigation attempt.
type Decision string

const (
	Render              Decision = "render"
	RedirectToSignIn    Decision = "redirect_sign_in"
	RedirectToForbidden Decision = "redirect_forbidden"
	NotFound            Decision = "not_found"
)

// Requirement describes who may see a view. A protected requirement with no
// roles only needs an authenticated session.
type Requirement struct {
	Public bool
	Roles  domain.RoleSet
}

// Public is the requirement of views anyone may see.
func Public() Requirement {
	return Requirement{Public: true}
}

// Authenticated requires a session and nothing more.
func Authenticated() Requirement {
	return Requirement{}
}

// AnyOf requires a session holding at least one of roles.
func AnyOf(roles ...domain.Role) Requirement {
	return Requirement{Roles: domain.RolesOf(roles...)}
}

// Outcome is the result of Evaluate. Redirect is set for the two redirect
// decisions.
type Outcome struct {
	Decision Decision
	Location string
	Redirect string
}

// Evaluate applies req to the session for a navigation to location. It is
// pure: no I/O, no clock.
func Evaluate(req Requirement, s session.Model, location string) Outcome {
	out := Outcome{Decision: Render, Location: location}
	switch {
	case req.Public:
	case !s.IsAuthenticated():
		out.Decision = RedirectToSignIn
		out.Redirect = SignInRedirect(location)
	case !req.Roles.IsEmpty() && !req.Roles.Intersects(s.Roles()):
		out.Decision = RedirectToForbidden
		out.Redirect = ForbiddenPath
	}
	return out
}

// SignInRedirect builds the sign-in URL that returns to location afterwards.
func SignInRedirect(location string) string {
	if !IsLocalPath(location) || location == SignInPath || strings.HasPrefix(location, SignInPath+"?") {
		return SignInPath
	}
	return SignInPath + "?" + ReturnParam + "=" + url.QueryEscape(location)
}

// IsLocalPath accepts absolute paths on this host only, so a crafted "from"
// cannot send the user elsewhere.
func IsLocalPath(location string) bool {
	if !strings.HasPrefix(location, "/") || strings.HasPrefix(location, "//") || strings.HasPrefix(location, "/\\") {
		return false
	}
	u, err := url.Parse(location)
	return err == nil && u.Scheme == "" && u.Host == ""
}
