package session

import (
	"time"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/identity"
)

// Model is an immutable snapshot of the current authentication state.
// A Model is replaced wholesale, never edited.
type Model struct {
	subject   string
	roles     domain.RoleSet
	expiresAt *time.Time
	agencyID  string
	version   uint64
}

// Anonymous returns the absent session.
func Anonymous() Model {
	return Model{}
}

// newModel builds an authenticated snapshot from a decoded identity and the
// optional hints of a login response. A subject without any role is given
// the guest role so that "has subject" and "has roles" never disagree.
func newModel(id identity.Identity, hints loginHints) Model {
	if id.Subject == "" {
		return Anonymous()
	}
	roles := id.Roles.Union(hints.roles)
	if roles.IsEmpty() {
		roles = domain.RolesOf(domain.RoleGuest)
	}
	m := Model{
		subject:  id.Subject,
		roles:    roles,
		agencyID: hints.agencyID,
	}
	if id.ExpiresAt != nil {
		exp := *id.ExpiresAt
		m.expiresAt = &exp
	}
	return m
}

// Subject returns the authenticated subject, "" when anonymous.
func (m Model) Subject() string {
	return m.subject
}

// Roles returns the granted roles.
func (m Model) Roles() domain.RoleSet {
	return m.roles
}

// ExpiresAt returns a copy of the credential expiry, nil when unknown.
func (m Model) ExpiresAt() *time.Time {
	if m.expiresAt == nil {
		return nil
	}
	exp := *m.expiresAt
	return &exp
}

// AgencyID returns the agency hinted by the login response, if any.
func (m Model) AgencyID() string {
	return m.agencyID
}

// Version increases with every snapshot the provider publishes.
func (m Model) Version() uint64 {
	return m.version
}

func (m Model) IsAuthenticated() bool {
	return m.subject != ""
}

// HasRole checks the full role set, ignoring case.
func (m Model) HasRole(role string) bool {
	return m.roles.Has(role)
}

// PrimaryRole is the presentation role; guest when anonymous.
func (m Model) PrimaryRole() domain.Role {
	if !m.IsAuthenticated() {
		return domain.RoleGuest
	}
	return domain.PrimaryRole(m.roles)
}

// Expired reports whether the credential expiry has passed. Expiry is
// informational; it does not make the model anonymous.
func (m Model) Expired(now time.Time) bool {
	return m.expiresAt != nil && !now.Before(*m.expiresAt)
}

func (m Model) withVersion(v uint64) Model {
	m.version = v
	return m
}
