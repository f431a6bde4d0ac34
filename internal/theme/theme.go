// Package theme picks the presentation palette for a role and tracks the
// light/dark mode of the running client.
package theme

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
)

// Mode is the light/dark preference.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// ParseMode accepts "light" or "dark" in any case.
func ParseMode(raw string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(raw))); m {
	case ModeLight, ModeDark:
		return m, nil
	default:
		return "", fmt.Errorf("unknown theme mode %q", raw)
	}
}

// Palette is the set of colors a page is rendered with.
type Palette struct {
	Primary    string
	Secondary  string
	Background string
	Paper      string
	Text       string
	// Pill rounds buttons fully.
	Pill bool
}

type roleTokens struct {
	primary   string
	secondary string
	pill      bool
}

var guestTokens = roleTokens{primary: "#607d8b", secondary: "#90a4ae"}

var tokens = map[string]roleTokens{
	string(domain.RoleAdmin):  {primary: "#7b1fa2", secondary: "#ff7043", pill: true},
	string(domain.RoleBuyer):  {primary: "#2e7d32", secondary: "#0288d1"},
	string(domain.RoleAgency): {primary: "#1976d2", secondary: "#9c27b0"},
	string(domain.RoleGuest):  guestTokens,
	"viewer":                  guestTokens,
}

// For builds the palette of role in mode. Unknown roles get the guest colors.
// The role is presentation only; pass the session's primary role.
func For(role domain.Role, mode Mode) Palette {
	t, ok := tokens[strings.ToLower(string(role))]
	if !ok {
		t = guestTokens
	}
	p := Palette{Primary: t.primary, Secondary: t.secondary, Pill: t.pill}
	if mode == ModeDark {
		p.Background, p.Paper, p.Text = "#121212", "#1e1e1e", "#f5f5f5"
	} else {
		p.Background, p.Paper, p.Text = "#fafafb", "#ffffff", "#212121"
	}
	return p
}

// Switch holds the current mode. It is process memory only.
type Switch struct {
	mu   sync.RWMutex
	mode Mode
}

// NewSwitch starts in initial, falling back to light.
func NewSwitch(initial Mode) *Switch {
	if initial != ModeDark {
		initial = ModeLight
	}
	return &Switch{mode: initial}
}

func (s *Switch) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Toggle flips the mode and returns the new one.
func (s *Switch) Toggle() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeLight {
		s.mode = ModeDark
	} else {
		s.mode = ModeLight
	}
	return s.mode
}
