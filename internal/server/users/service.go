// Package users implements account registration and login for the
// development auth server.
package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/multisession/internal/common"
	"github.com/dmitrijs2005/multisession/internal/server/auth"
)

// Service provides the auth operations exposed by both server transports.
type Service struct {
	repo                        Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	hashCost                    int
}

func NewService(repo Repository, secretKey string, accessTokenValidityDuration time.Duration) *Service {
	return &Service{
		repo:                        repo,
		jwtSecret:                   []byte(secretKey),
		accessTokenValidityDuration: accessTokenValidityDuration,
		hashCost:                    bcrypt.DefaultCost,
	}
}

// WithHashCost sets the bcrypt cost, mostly so tests run fast.
func (s *Service) WithHashCost(cost int) *Service {
	s.hashCost = cost
	return s
}

// Register validates input and creates a user. An empty role means RoleUser.
func (s *Service) Register(ctx context.Context, username, email, password, role string) (*User, error) {
	if username == "" || email == "" || password == "" {
		return nil, ErrMissingField
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, ErrInvalidEmail
	}

	switch role {
	case "":
		role = RoleUser
	case RoleUser, RoleAdmin:
	default:
		return nil, common.ErrorInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.repo.Create(ctx, &User{
		UserName:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login checks the password of the user known by login (username or email)
// and issues an access token.
func (s *Service) Login(ctx context.Context, login, password string) (string, *User, error) {
	user, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return "", nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.UserName, user.Role, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	return token, user, nil
}

// Me resolves the user a token was issued to.
func (s *Service) Me(ctx context.Context, token string) (*User, error) {
	username, err := auth.GetUsernameFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}
