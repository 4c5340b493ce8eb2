// Package guard decides whether a navigation may proceed, based on the
// target route's access level and the current session.
package guard

import (
	"net/url"

	"github.com/dmitrijs2005/multisession/internal/client/models"
)

// Access is the requirement a route places on the session.
type Access int

const (
	Public Access = iota
	Authenticated
	RoleUser
	RoleAdmin
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case RoleUser:
		return "user"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

type Route struct {
	Name   string
	Path   string
	Access Access
}

type Action int

const (
	Allow Action = iota
	Redirect
)

// Decision is the outcome of one guard step. Target is set for Redirect.
type Decision struct {
	Action Action
	Target string
}

type Config struct {
	LoginPath string
	UserHome  string
	AdminHome string
	// RedirectParam names the query parameter that carries the originally
	// requested path to the login page.
	RedirectParam string
}

// DefaultConfig matches the application's route table.
func DefaultConfig() Config {
	return Config{
		LoginPath:     "/login",
		UserHome:      "/",
		AdminHome:     "/admin",
		RedirectParam: "redirect",
	}
}

// Session is what the guard needs to know about the current user.
type Session interface {
	IsLoggedIn() bool
	Profile() (models.Profile, bool)
}

type Guard struct {
	cfg     Config
	routes  Routes
	session Session
}

func New(cfg Config, routes Routes, s Session) *Guard {
	return &Guard{cfg: cfg, routes: routes, session: s}
}

func (g *Guard) Config() Config { return g.cfg }

func (g *Guard) Routes() Routes { return g.routes }

// Decide evaluates navigation to route `to`, requested as fullPath.
// It reads the session once and has no side effects.
func (g *Guard) Decide(to Route, fullPath string) Decision {
	loggedIn := g.session.IsLoggedIn()
	var role models.Role
	if p, ok := g.session.Profile(); ok {
		role = p.Role
	}

	if to.Access == Public {
		if to.Path == g.cfg.LoginPath && loggedIn {
			return redirect(g.home(role))
		}
		return allow()
	}

	if !loggedIn {
		q := url.Values{}
		q.Set(g.cfg.RedirectParam, fullPath)
		return redirect(g.cfg.LoginPath + "?" + q.Encode())
	}

	switch {
	case to.Access == RoleAdmin && role != models.RoleAdmin:
		return redirect(g.cfg.UserHome)
	case to.Access == RoleUser && role == models.RoleAdmin:
		return redirect(g.cfg.AdminHome)
	}
	return allow()
}

func (g *Guard) home(role models.Role) string {
	if role.IsAdmin() {
		return g.cfg.AdminHome
	}
	return g.cfg.UserHome
}

func allow() Decision { return Decision{Action: Allow} }

func redirect(target string) Decision { return Decision{Action: Redirect, Target: target} }
