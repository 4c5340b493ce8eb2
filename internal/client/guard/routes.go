package guard

import (
	"errors"
	"fmt"
	"strings"
)

var ErrRouteNotFound = errors.New("route not found")

// Routes is an exact-match route table.
type Routes []Route

// DefaultRoutes is the application's navigation map.
func DefaultRoutes() Routes {
	return Routes{
		{Name: "login", Path: "/login", Access: Public},
		{Name: "register", Path: "/register", Access: Public},
		{Name: "evaluation", Path: "/", Access: RoleUser},
		{Name: "accounts", Path: "/accounts", Access: Authenticated},
		{Name: "admin", Path: "/admin", Access: RoleAdmin},
		{Name: "admin-users", Path: "/admin/users", Access: RoleAdmin},
	}
}

// Match finds the route for path. The query string and a trailing slash are
// ignored.
func (rs Routes) Match(path string) (Route, bool) {
	p, _, _ := strings.Cut(path, "?")
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		p = "/"
	}
	for _, r := range rs {
		if r.Path == p {
			return r, true
		}
	}
	return Route{}, false
}

// Navigate matches path against the guard's routes and decides on it.
func (g *Guard) Navigate(path string) (Route, Decision, error) {
	r, ok := g.routes.Match(path)
	if !ok {
		return Route{}, Decision{}, fmt.Errorf("%w: %s", ErrRouteNotFound, path)
	}
	return r, g.Decide(r, path), nil
}
