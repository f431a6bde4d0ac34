package domain

import (
	"sort"
	"strings"
)

// Role names a marketplace audience.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleBuyer  Role = "buyer"
	RoleAgency Role = "agency"
	RoleGuest  Role = "guest"
)

// rolePrecedence orders roles for presentation only.
var rolePrecedence = []Role{RoleAdmin, RoleBuyer, RoleAgency}

// NormalizeRole lower-cases and trims a raw role value.
func NormalizeRole(raw string) Role {
	return Role(strings.ToLower(strings.TrimSpace(raw)))
}

// RoleSet is an immutable, case-insensitive set of roles.
type RoleSet struct {
	members map[Role]struct{}
}

// NewRoleSet builds a set from raw values, dropping blanks and duplicates.
func NewRoleSet(raw ...string) RoleSet {
	members := make(map[Role]struct{}, len(raw))
	for _, r := range raw {
		role := NormalizeRole(r)
		if role == "" {
			continue
		}
		members[role] = struct{}{}
	}
	return RoleSet{members: members}
}

// RolesOf builds a set from typed roles.
func RolesOf(roles ...Role) RoleSet {
	raw := make([]string, 0, len(roles))
	for _, r := range roles {
		raw = append(raw, string(r))
	}
	return NewRoleSet(raw...)
}

// Len returns the number of distinct roles.
func (s RoleSet) Len() int {
	return len(s.members)
}

// IsEmpty reports whether the set holds no role.
func (s RoleSet) IsEmpty() bool {
	return len(s.members) == 0
}

// Has reports membership, ignoring case.
func (s RoleSet) Has(role string) bool {
	_, ok := s.members[NormalizeRole(role)]
	return ok
}

// Intersects reports whether the two sets share at least one role.
func (s RoleSet) Intersects(other RoleSet) bool {
	small, large := s, other
	if small.Len() > large.Len() {
		small, large = large, small
	}
	for role := range small.members {
		if _, ok := large.members[role]; ok {
			return true
		}
	}
	return false
}

// Contains reports whether every role of other is in s.
func (s RoleSet) Contains(other RoleSet) bool {
	for role := range other.members {
		if _, ok := s.members[role]; !ok {
			return false
		}
	}
	return true
}

// Union returns a new set with the roles of both sets.
func (s RoleSet) Union(other RoleSet) RoleSet {
	members := make(map[Role]struct{}, s.Len()+other.Len())
	for role := range s.members {
		members[role] = struct{}{}
	}
	for role := range other.members {
		members[role] = struct{}{}
	}
	return RoleSet{members: members}
}

// Slice returns the roles sorted alphabetically.
func (s RoleSet) Slice() []Role {
	out := make([]Role, 0, len(s.members))
	for role := range s.members {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the sorted roles as plain strings.
func (s RoleSet) Strings() []string {
	roles := s.Slice()
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func (s RoleSet) String() string {
	return "[" + strings.Join(s.Strings(), " ") + "]"
}

// PrimaryRole picks the presentation role by fixed precedence
// admin > buyer > agency > guest. It must not drive access decisions.
func PrimaryRole(roles RoleSet) Role {
	for _, candidate := range rolePrecedence {
		if roles.Has(string(candidate)) {
			return candidate
		}
	}
	return RoleGuest
}
