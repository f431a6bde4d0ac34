package guard

import (
	"strings"

	"github.com/spec-kit/car-marketplace-client/internal/session"
)

// Route maps a fiber-style pattern ("/listings/:id") to a requirement.
type Route struct {
	Pattern     string
	Requirement Requirement
	segments    []string
}

// Table is the ordered set of known views. Build it at startup; it is
// read-only while serving.
type Table struct {
	routes []Route
}

func NewTable() *Table {
	return &Table{}
}

// Add appends a route. Registering the same pattern twice keeps the first
// requirement, so GET and POST handlers on one path share it.
func (t *Table) Add(pattern string, req Requirement) {
	pattern = cleanPath(pattern)
	for _, r := range t.routes {
		if r.Pattern == pattern {
			return
		}
	}
	t.routes = append(t.routes, Route{Pattern: pattern, Requirement: req, segments: split(pattern)})
}

// Routes returns a copy of the registered routes.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Match finds the first route whose pattern matches path.
func (t *Table) Match(path string) (Route, bool) {
	segments := split(cleanPath(path))
	for _, r := range t.routes {
		if matches(r.segments, segments) {
			return r, true
		}
	}
	return Route{}, false
}

// Resolve evaluates a navigation. An unknown path is NotFound for everyone,
// checked before any session policy.
func (t *Table) Resolve(path string, s session.Model, location string) Outcome {
	route, ok := t.Match(path)
	if !ok {
		return Outcome{Decision: NotFound, Location: location}
	}
	return Evaluate(route.Requirement, s, location)
}

func matches(pattern, path []string) bool {
	for i, seg := range pattern {
		if seg == "*" {
			return true
		}
		if i >= len(path) {
			return false
		}
		if strings.HasPrefix(seg, ":") {
			if path[i] == "" {
				return false
			}
			continue
		}
		if seg != path[i] {
			return false
		}
	}
	return len(pattern) == len(path)
}

func cleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}

func split(p string) []string {
	if p == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}
