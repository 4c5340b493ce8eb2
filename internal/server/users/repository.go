package users

import (
	"context"
)

type Repository interface {
	// Create stores user and returns it with ID and CreatedAt set. A taken
	// username or email yields ErrUsernameTaken or ErrEmailTaken.
	Create(ctx context.Context, user *User) (*User, error)
	// GetUserByLogin finds a user by username or email, or returns
	// common.ErrorNotFound.
	GetUserByLogin(ctx context.Context, login string) (*User, error)
}
