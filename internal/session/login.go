package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
)

// LoginResponse is the body of POST auth/login. Only the credential is
// required; role, roles and agency_id are optional hints.
type LoginResponse struct {
	AccessToken string     `json:"access_token"`
	Token       string     `json:"token"`
	Credential  string     `json:"credential"`
	Role        RoleHint   `json:"role"`
	Roles       RoleHint   `json:"roles"`
	AgencyID    FlexibleID `json:"agency_id"`
}

// CredentialValue returns the first credential field present.
func (r LoginResponse) CredentialValue() string {
	for _, v := range []string{r.AccessToken, r.Token, r.Credential} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

type loginHints struct {
	roles    domain.RoleSet
	agencyID string
}

func (r LoginResponse) hints() loginHints {
	raw := append(append([]string{}, r.Role...), r.Roles...)
	return loginHints{
		roles:    domain.NewRoleSet(raw...),
		agencyID: string(r.AgencyID),
	}
}

// RoleHint accepts a single role string, a list of roles, or null.
type RoleHint []string

func (h *RoleHint) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*h = nil
		return nil
	}
	if data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*h = RoleHint{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("role hint must be a string or a list of strings: %w", err)
	}
	*h = many
	return nil
}

// FlexibleID accepts a JSON string or number, stored as its decimal text.
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*f = FlexibleID(n.String())
	return nil
}
