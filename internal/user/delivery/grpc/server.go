package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "github.com/tair/eco-catalog/api/proto/user"
	"github.com/tair/eco-catalog/internal/user/domain"
	"github.com/tair/eco-catalog/internal/user/usecase/query"
	"github.com/tair/eco-catalog/pkg/apperror"
	"github.com/tair/eco-catalog/pkg/middleware"
)

// UserServer implements the gRPC UserService
type UserServer struct {
	pb.UnimplementedUserServiceServer

	getUserHandler *query.GetUserHandler
}

// NewUserServer creates a new gRPC user server
func NewUserServer(getUserHandler *query.GetUserHandler) *UserServer {
	return &UserServer{getUserHandler: getUserHandler}
}

// NewServer builds the gRPC server with logging and authentication on every
// unary call. Extra options, such as a stats handler, are appended.
func NewServer(tokens middleware.TokenValidator, userServer *UserServer, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor,
			AuthInterceptor(tokens),
		),
	}, opts...)

	server := grpc.NewServer(opts...)
	pb.RegisterUserServiceServer(server, userServer)
	return server
}

// GetUser returns the caller's own profile. Other users' profiles are not
// readable over this API.
func (s *UserServer) GetUser(ctx context.Context, req *pb.GetUserRequest) (*pb.GetUserResponse, error) {
	callerID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "caller identity missing")
	}
	if req.GetId() != uint64(callerID) {
		return nil, status.Error(codes.PermissionDenied, "profiles are readable by their owner only")
	}

	user, err := s.getUserHandler.Handle(ctx, query.GetUserQuery{ID: uint(req.GetId())})
	if err != nil {
		return nil, toStatus(err)
	}

	return &pb.GetUserResponse{
		User: domainUserToProto(user),
	}, nil
}

// toStatus maps application errors onto gRPC codes. Storage failures keep
// their cause out of the message.
func toStatus(err error) error {
	appErr := apperror.As(err)
	switch appErr.Code {
	case apperror.CodeInvalidArgument:
		return status.Error(codes.InvalidArgument, appErr.Message)
	case apperror.CodeNotFound:
		return status.Error(codes.NotFound, appErr.Message)
	case apperror.CodeUnauthorized:
		return status.Error(codes.Unauthenticated, appErr.Message)
	case apperror.CodeConflict:
		return status.Error(codes.AlreadyExists, appErr.Message)
	default:
		return status.Error(codes.Unavailable, appErr.Message)
	}
}

func domainUserToProto(user *domain.User) *pb.User {
	return &pb.User{
		Id:     uint64(user.ID),
		Name:   user.Name,
		Email:  user.Email,
		Age:    int32(user.Age),
		Gender: user.Gender,
	}
}
