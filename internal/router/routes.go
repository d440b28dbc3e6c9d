// Package router resolves view paths, gates them behind the navigation
// guard and keeps a navigation history.
package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// HomePath is where an authenticated user is sent away from the login view
	HomePath = "/"
	// AuthPath is the login view
	AuthPath = "/auth"
)

// Route names
const (
	RouteHome   = "Home"
	RouteRecent = "Recent"
	RouteAlbums = "Albums"
	RouteAlbum  = "AlbumDetail"
	RouteTrash  = "Trash"
	RouteAuth   = "Auth"
)

var (
	// ErrRouteNotFound is returned for a path no route matches
	ErrRouteNotFound = errors.New("route not found")
	// ErrInvalidRoute is returned by NewTable for a badly declared route
	ErrInvalidRoute = errors.New("invalid route")
)

// Meta is the per-route metadata. RequiresAuth is a pointer so that a route
// that forgets to declare it is rejected instead of silently defaulting.
type Meta struct {
	RequiresAuth *bool `validate:"required"`
}

// Route declares one view
type Route struct {
	Name string `validate:"required"`
	Path string `validate:"required,routepath"`
	Meta Meta
}

// NeedsAuth reports the route's declared RequiresAuth
func (r Route) NeedsAuth() bool {
	return r.Meta.RequiresAuth != nil && *r.Meta.RequiresAuth
}

// Match is a resolved path
type Match struct {
	Route  Route
	Path   string
	Params map[string]string
}

// Param returns a path parameter, or "" if the route has none by that name
func (m Match) Param(name string) string {
	return m.Params[name]
}

// Table is a validated, ordered set of routes
type Table struct {
	routes   []Route
	segments [][]string
}

func requires(auth bool) Meta {
	return Meta{RequiresAuth: &auth}
}

// DefaultRoutes is the application's view table
func DefaultRoutes() []Route {
	return []Route{
		{Name: RouteHome, Path: "/", Meta: requires(true)},
		{Name: RouteRecent, Path: "/recent", Meta: requires(true)},
		{Name: RouteAlbums, Path: "/albums", Meta: requires(true)},
		{Name: RouteAlbum, Path: "/album/:albumId", Meta: requires(true)},
		{Name: RouteTrash, Path: "/trash", Meta: requires(true)},
		{Name: RouteAuth, Path: AuthPath, Meta: requires(false)},
	}
}

// NewTable validates routes and compiles their path patterns
func NewTable(routes []Route) (*Table, error) {
	validate := validator.New()

	validate.RegisterValidation("routepath", func(fl validator.FieldLevel) bool {
		// Absolute, no query or fragment, non-empty parameter names
		value := fl.Field().String()
		if !strings.HasPrefix(value, "/") || strings.ContainsAny(value, "?#") {
			return false
		}
		for _, seg := range splitPath(value) {
			if seg == ":" {
				return false
			}
		}
		return true
	})

	t := &Table{}
	names := make(map[string]bool, len(routes))
	for _, r := range routes {
		if err := validate.Struct(r); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				return nil, fmt.Errorf("%w %q: %s failed %q", ErrInvalidRoute, r.Path, verrs[0].Namespace(), verrs[0].Tag())
			}
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidRoute, r.Path, err)
		}
		if names[r.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidRoute, r.Name)
		}
		names[r.Name] = true

		t.routes = append(t.routes, r)
		t.segments = append(t.segments, splitPath(r.Path))
	}

	return t, nil
}

// Routes returns the declared routes in order
func (t *Table) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// Resolve matches path against the table. Query strings and a trailing slash
// are ignored. The first declared route that matches wins.
func (t *Table) Resolve(path string) (Match, error) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		path = "/"
	}
	parts := splitPath(path)

	for i, pattern := range t.segments {
		params, ok := matchSegments(pattern, parts)
		if !ok {
			continue
		}
		return Match{Route: t.routes[i], Path: "/" + strings.Join(parts, "/"), Params: params}, nil
	}

	return Match{}, fmt.Errorf("%w: %s", ErrRouteNotFound, path)
}

func matchSegments(pattern, parts []string) (map[string]string, bool) {
	if len(pattern) != len(parts) {
		return nil, false
	}

	params := map[string]string{}
	for i, seg := range pattern {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			params[name] = parts[i]
			continue
		}
		if seg != parts[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(path string) []string {
	var parts []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return parts
}
