package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/multisession/internal/authrpc"
	"github.com/dmitrijs2005/multisession/internal/client/models"
	"github.com/dmitrijs2005/multisession/internal/common"
)

// GRPCClient implements Client over the authrpc service.
type GRPCClient struct {
	endpoint string
	timeout  time.Duration
	conn     *grpc.ClientConn
}

// NewGRPCClient connects lazily to endpoint. Extra dial options are appended
// after the default insecure transport credentials.
func NewGRPCClient(endpoint string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	dialOpts := append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(endpoint, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &GRPCClient{endpoint: endpoint, timeout: timeout, conn: conn}, nil
}

func (c *GRPCClient) Login(ctx context.Context, username, password string) (LoginResult, error) {
	resp, err := c.invoke(ctx, authrpc.MethodLogin, map[string]any{
		"username": username,
		"password": password,
	})
	if err != nil {
		return LoginResult{}, err
	}

	token := resp.GetFields()["access_token"].GetStringValue()
	if token == "" {
		return LoginResult{}, fmt.Errorf("login: %w", common.ErrInvalidToken)
	}
	return LoginResult{
		AccessToken: token,
		TokenType:   resp.GetFields()["token_type"].GetStringValue(),
		Profile:     profileFromStruct(resp.GetFields()["user"].GetStructValue()),
	}, nil
}

func (c *GRPCClient) Register(ctx context.Context, r RegisterRequest) error {
	_, err := c.invoke(ctx, authrpc.MethodRegister, map[string]any{
		"username": r.Username,
		"email":    r.Email,
		"password": r.Password,
		"role":     r.role(),
	})
	return err
}

func (c *GRPCClient) FetchCurrentProfile(ctx context.Context, token string) (models.Profile, error) {
	ctx = metadata.AppendToOutgoingContext(ctx, common.AuthorizationHeaderName, common.BearerPrefix+token)
	resp, err := c.invoke(ctx, authrpc.MethodMe, nil)
	if err != nil {
		return models.Profile{}, err
	}
	return profileFromStruct(resp), nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) invoke(ctx context.Context, method string, fields map[string]any) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, req, resp); err != nil {
		return nil, c.mapError(err)
	}
	return resp, nil
}

func (c *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.Unauthenticated:
		return &APIError{StatusCode: http.StatusUnauthorized, Detail: st.Message()}
	case codes.PermissionDenied:
		return &APIError{StatusCode: http.StatusForbidden, Detail: st.Message()}
	case codes.AlreadyExists:
		return &APIError{StatusCode: http.StatusConflict, Detail: st.Message()}
	case codes.InvalidArgument:
		return &APIError{StatusCode: http.StatusBadRequest, Detail: st.Message()}
	case codes.NotFound:
		return &APIError{StatusCode: http.StatusNotFound, Detail: st.Message()}
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func profileFromStruct(s *structpb.Struct) models.Profile {
	f := s.GetFields()
	role, _ := models.ParseRole(f["role"].GetStringValue())
	return models.Profile{
		Username: f["username"].GetStringValue(),
		Email:    f["email"].GetStringValue(),
		Role:     role,
	}
}
