package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/multisession/internal/authrpc"
	"github.com/dmitrijs2005/multisession/internal/common"
	"github.com/dmitrijs2005/multisession/internal/logging"
	"github.com/dmitrijs2005/multisession/internal/server/users"
)

func newTestConn(t *testing.T) *grpc.ClientConn {
	t.Helper()

	svc := users.NewService(users.NewMemoryRepository(), "secret", time.Hour).WithHashCost(bcrypt.MinCost)
	srv := NewGRPCServer("bufnet", logging.Discard(), svc)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})
	return conn
}

func call(ctx context.Context, conn *grpc.ClientConn, method string, fields map[string]any) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	resp := new(structpb.Struct)
	return resp, conn.Invoke(ctx, method, req, resp)
}

func TestServer_RegisterLoginMe(t *testing.T) {
	ctx := context.Background()
	conn := newTestConn(t)

	_, err := call(ctx, conn, authrpc.MethodRegister, map[string]any{
		"username": "alice", "email": "alice@example.com", "password": "pw", "role": "admin",
	})
	require.NoError(t, err)

	resp, err := call(ctx, conn, authrpc.MethodLogin, map[string]any{"username": "alice", "password": "pw"})
	require.NoError(t, err)
	token := resp.GetFields()["access_token"].GetStringValue()
	require.NotEmpty(t, token)
	assert.Equal(t, "bearer", resp.GetFields()["token_type"].GetStringValue())
	user := resp.GetFields()["user"].GetStructValue().GetFields()
	assert.Equal(t, "alice", user["username"].GetStringValue())
	assert.Equal(t, "admin", user["role"].GetStringValue())

	meCtx := metadata.AppendToOutgoingContext(ctx, common.AuthorizationHeaderName, common.BearerPrefix+token)
	me, err := call(meCtx, conn, authrpc.MethodMe, nil)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", me.GetFields()["email"].GetStringValue())
}

func TestServer_ErrorCodes(t *testing.T) {
	ctx := context.Background()
	conn := newTestConn(t)

	_, err := call(ctx, conn, authrpc.MethodRegister, map[string]any{
		"username": "bob", "email": "bob@example.com", "password": "pw",
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		ctx    context.Context
		method string
		fields map[string]any
		code   codes.Code
		msg    string
	}{
		{"duplicate username", ctx, authrpc.MethodRegister,
			map[string]any{"username": "bob", "email": "x@example.com", "password": "pw"},
			codes.AlreadyExists, "Username already exists"},
		{"duplicate email", ctx, authrpc.MethodRegister,
			map[string]any{"username": "bob2", "email": "bob@example.com", "password": "pw"},
			codes.AlreadyExists, "Email already registered"},
		{"invalid role", ctx, authrpc.MethodRegister,
			map[string]any{"username": "c", "email": "c@example.com", "password": "pw", "role": "root"},
			codes.InvalidArgument, "Role must be 'admin' or 'user'"},
		{"wrong password", ctx, authrpc.MethodLogin,
			map[string]any{"username": "bob", "password": "nope"},
			codes.Unauthenticated, "Incorrect username or password"},
		{"me without token", ctx, authrpc.MethodMe, nil,
			codes.Unauthenticated, "Not authenticated"},
		{"me with bad token", metadata.AppendToOutgoingContext(ctx, common.AuthorizationHeaderName, "Bearer junk"),
			authrpc.MethodMe, nil, codes.Unauthenticated, "Could not validate credentials"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := call(tt.ctx, conn, tt.method, tt.fields)
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
			assert.Equal(t, tt.msg, st.Message())
		})
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	svc := users.NewService(users.NewMemoryRepository(), "secret", time.Hour)
	srv := NewGRPCServer("127.0.0.1:99999", logging.Discard(), svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Error(t, srv.Run(ctx))
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	svc := users.NewService(users.NewMemoryRepository(), "secret", time.Hour)
	srv := NewGRPCServer("127.0.0.1:0", logging.Discard(), svc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}
