// Package identity extracts subject, roles and expiry from a bearer credential.
//
// Decoding is structural only: signatures are not verified (the client holds
// no key) and expiry is reported, not enforced.
package identity

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
)

// Identity is the decoded content of a credential. The zero value is never
// returned alongside ok == true.
type Identity struct {
	Subject   string
	Roles     domain.RoleSet
	ExpiresAt *time.Time
}

// Expired reports whether the credential carried an expiry that has passed.
func (i Identity) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && !now.Before(*i.ExpiresAt)
}

var parser = jwt.NewParser(jwt.WithPaddingAllowed(), jwt.WithJSONNumber())

// Decode parses credential into an Identity. Any malformed, empty or
// incomplete input yields ok == false; it never panics.
func Decode(credential string) (id Identity, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			id, ok = Identity{}, false
		}
	}()

	credential = strings.TrimSpace(credential)
	if credential == "" {
		return Identity{}, false
	}

	token, _, err := parser.ParseUnverified(credential, jwt.MapClaims{})
	if err != nil && (token == nil || !errors.Is(err, jwt.ErrTokenUnverifiable)) {
		return Identity{}, false
	}
	claims, isMap := token.Claims.(jwt.MapClaims)
	if !isMap {
		return Identity{}, false
	}

	subject, ok := scalarString(claims["sub"])
	if !ok || subject == "" {
		return Identity{}, false
	}

	expiresAt, ok := expiry(claims)
	if !ok {
		return Identity{}, false
	}

	rawRoles, present := claims["roles"]
	if !present || rawRoles == nil {
		rawRoles = claims["role"]
	}

	return Identity{
		Subject:   subject,
		Roles:     domain.NewRoleSet(roleValues(rawRoles)...),
		ExpiresAt: expiresAt,
	}, true
}

// expiry returns nil for a missing exp and ok == false for an exp of the wrong shape.
func expiry(claims jwt.MapClaims) (*time.Time, bool) {
	if raw, present := claims["exp"]; !present || raw == nil {
		return nil, true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, false
	}
	t := exp.Time
	return &t, true
}

// roleValues accepts a single role, a list of roles or nothing.
func roleValues(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	default:
		return nil
	}
}

func scalarString(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v), true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}
