package users

import (
	"errors"

	"github.com/dmitrijs2005/multisession/internal/common"
)

var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already registered")
	ErrInvalidEmail  = errors.New("value is not a valid email address")
	ErrMissingField  = errors.New("field required")
)

// Detail returns the client-facing explanation for a service error, in the
// wording the auth API has always used.
func Detail(err error) string {
	switch {
	case errors.Is(err, ErrUsernameTaken):
		return "Username already exists"
	case errors.Is(err, ErrEmailTaken):
		return "Email already registered"
	case errors.Is(err, common.ErrorInvalidRole):
		return "Role must be 'admin' or 'user'"
	case errors.Is(err, ErrInvalidEmail):
		return "value is not a valid email address"
	case errors.Is(err, ErrMissingField):
		return "username, email and password are required"
	case errors.Is(err, common.ErrorUnauthorized):
		return "Incorrect username or password"
	case errors.Is(err, common.ErrTokenExpired), errors.Is(err, common.ErrInvalidToken):
		return "Could not validate credentials"
	default:
		return "Internal server error"
	}
}
