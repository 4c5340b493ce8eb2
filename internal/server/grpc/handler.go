package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/multisession/internal/common"
	"github.com/dmitrijs2005/multisession/internal/server/users"
)

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	s.logger.Info(ctx, "Registration request")

	f := req.GetFields()
	username := f["username"].GetStringValue()
	_, err := s.users.Register(ctx,
		username,
		f["email"].GetStringValue(),
		f["password"].GetStringValue(),
		f["role"].GetStringValue(),
	)

	if err != nil {
		s.logger.Warn(ctx, "registration rejected", "username", username, "err", err)
		return nil, statusFromError(err)
	}

	s.logger.Info(ctx, "Registered", "username", username)
	return structpb.NewStruct(map[string]any{"message": "Registration successful", "username": username})

}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	f := req.GetFields()
	token, user, err := s.users.Login(ctx, f["username"].GetStringValue(), f["password"].GetStringValue())

	if err != nil {
		return nil, statusFromError(err)
	}

	return structpb.NewStruct(map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"user":         userFields(user),
	})

}

func (s *GRPCServer) Me(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	user, err := s.users.Me(ctx, accessTokenFromContext(ctx))

	if err != nil {
		return nil, statusFromError(err)
	}

	return structpb.NewStruct(userFields(user))

}

func userFields(u *users.User) map[string]any {
	return map[string]any{
		"id":       u.ID,
		"username": u.UserName,
		"email":    u.Email,
		"role":     u.Role,
	}
}

func statusFromError(err error) error {
	detail := users.Detail(err)
	switch {
	case errors.Is(err, users.ErrUsernameTaken), errors.Is(err, users.ErrEmailTaken):
		return status.Error(codes.AlreadyExists, detail)
	case errors.Is(err, common.ErrorInvalidRole), errors.Is(err, users.ErrInvalidEmail), errors.Is(err, users.ErrMissingField):
		return status.Error(codes.InvalidArgument, detail)
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, detail)
	default:
		return status.Error(codes.Internal, detail)
	}
}
