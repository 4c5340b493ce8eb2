package authrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "multisession.auth.v1.AuthService"

// Full method names, as used by grpc.ClientConn.Invoke.
const (
	MethodLogin    = "/" + ServiceName + "/Login"
	MethodRegister = "/" + ServiceName + "/Register"
	MethodMe       = "/" + ServiceName + "/Me"
)

// Server is implemented by auth service handlers.
type Server interface {
	Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Me(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// RegisterServer attaches srv to a gRPC server.
func RegisterServer(s grpc.ServiceRegistrar, srv Server) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Login", Handler: unaryHandler(MethodLogin, Server.Login)},
		{MethodName: "Register", Handler: unaryHandler(MethodRegister, Server.Register)},
		{MethodName: "Me", Handler: unaryHandler(MethodMe, Server.Me)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "multisession/auth/v1/auth.proto",
}

type method func(Server, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unaryHandler adapts a Server method to grpc's handler signature, the same
// way protoc-gen-go-grpc output does.
func unaryHandler(fullMethod string, call method) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(Server), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(Server), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
