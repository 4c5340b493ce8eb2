package client

import (
	"context"

	"github.com/dmitrijs2005/multisession/internal/client/models"
)

// LoginResult is what a successful login yields.
type LoginResult struct {
	AccessToken string
	TokenType   string
	Profile     models.Profile
}

// RegisterRequest carries the fields of a new account. An empty Role is sent
// as "user".
type RegisterRequest struct {
	Username string
	Email    string
	Password string
	Role     models.Role
}

type Client interface {
	Close() error
	Login(ctx context.Context, username, password string) (LoginResult, error)
	Register(ctx context.Context, req RegisterRequest) error
	FetchCurrentProfile(ctx context.Context, token string) (models.Profile, error)
}

func (r RegisterRequest) role() string {
	if r.Role == models.RoleUnset {
		return string(models.RoleUser)
	}
	return string(r.Role)
}
