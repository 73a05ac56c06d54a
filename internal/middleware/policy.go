package middleware

import (
	"fmt"
	"os"
	"strings"

	"github.com/EmpoweredVote/civic-requests/internal/auth"
	"github.com/goccy/go-yaml"
)

// Authorizer is the slice of the session gate the middleware depends on.
type Authorizer interface {
	Authorize(token string, roles ...auth.Role) (auth.Identity, error)
}

// Area is a role-scoped page tree. A token with another role is sent to
// Fallback instead.
type Area struct {
	Prefix   string    `yaml:"prefix"`
	Role     auth.Role `yaml:"role"`
	Fallback string    `yaml:"fallback"`
}

// DefaultAreas is the admin/citizen split of the web UI.
var DefaultAreas = []Area{
	{Prefix: "/admin", Role: auth.RoleAdmin, Fallback: "/citizen"},
	{Prefix: "/citizen", Role: auth.RoleCitizen, Fallback: "/admin"},
}

// DefaultPublicPrefixes never require a session.
var DefaultPublicPrefixes = []string{"/api", "/static/", "/favicon.ico", "/health"}

// Decision is the outcome of evaluating one request path.
type Decision struct {
	Allow       bool
	RedirectTo  string
	ClearCookie bool
}

// RoutePolicy classifies request paths as public or protected and decides
// what to do with a protected path given the session token.
type RoutePolicy struct {
	LoginPath      string
	PublicPrefixes []string
	Areas          []Area
	authz          Authorizer
}

func NewRoutePolicy(authz Authorizer, areas []Area) *RoutePolicy {
	if len(areas) == 0 {
		areas = DefaultAreas
	}
	return &RoutePolicy{
		LoginPath:      "/",
		PublicPrefixes: DefaultPublicPrefixes,
		Areas:          areas,
		authz:          authz,
	}
}

// Decide is a pure function of path and token.
func (p *RoutePolicy) Decide(path, token string) Decision {
	if p.isPublic(path) {
		return Decision{Allow: true}
	}

	if token == "" {
		return Decision{RedirectTo: p.LoginPath}
	}

	identity, err := p.authz.Authorize(token)
	if err != nil {
		return Decision{RedirectTo: p.LoginPath, ClearCookie: true}
	}

	for _, area := range p.Areas {
		if strings.HasPrefix(path, area.Prefix) && identity.Role != area.Role {
			return Decision{RedirectTo: area.Fallback}
		}
	}
	return Decision{Allow: true}
}

func (p *RoutePolicy) isPublic(path string) bool {
	if path == p.LoginPath {
		return true
	}
	for _, prefix := range p.PublicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

type policyFile struct {
	Areas []Area `yaml:"areas"`
}

// LoadAreas reads role areas from a YAML file of the form
//
//	areas:
//	  - prefix: /admin
//	    role: ADMIN
//	    fallback: /citizen
func LoadAreas(path string) ([]Area, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read route policy %s: %w", path, err)
	}

	var pf policyFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("parse route policy %s: %w", path, err)
	}

	for i, a := range pf.Areas {
		if !strings.HasPrefix(a.Prefix, "/") || !strings.HasPrefix(a.Fallback, "/") {
			return nil, fmt.Errorf("route policy area %d: prefix and fallback must be absolute paths", i)
		}
		if !a.Role.Valid() {
			return nil, fmt.Errorf("route policy area %d: unknown role %q", i, a.Role)
		}
	}
	return pf.Areas, nil
}
