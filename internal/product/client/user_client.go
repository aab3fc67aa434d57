// Package client reaches the user service over gRPC.
package client

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	pb "github.com/tair/eco-catalog/api/proto/user"
	userdomain "github.com/tair/eco-catalog/internal/user/domain"
	"github.com/tair/eco-catalog/pkg/apperror"
	"github.com/tair/eco-catalog/pkg/logger"
	"github.com/tair/eco-catalog/pkg/middleware"
)

const DefaultTimeout = 3 * time.Second

// UserServiceClient reads user profiles from the user service. It satisfies
// the recommendation layer's ProfileReader.
type UserServiceClient struct {
	client  pb.UserServiceClient
	conn    *grpc.ClientConn
	timeout time.Duration
}

// NewUserServiceClient creates a client for the user service at address.
// The connection is established lazily on the first call.
func NewUserServiceClient(address string, timeout time.Duration) (*UserServiceClient, error) {
	conn, err := grpc.NewClient(address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service client: %w", err)
	}

	logger.Logger.Info().
		Str("address", address).
		Msg("User Service gRPC client configured")

	return NewUserServiceClientFromConn(conn, timeout), nil
}

// NewUserServiceClientFromConn wraps an existing connection. Close closes it.
func NewUserServiceClientFromConn(conn *grpc.ClientConn, timeout time.Duration) *UserServiceClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &UserServiceClient{
		client:  pb.NewUserServiceClient(conn),
		conn:    conn,
		timeout: timeout,
	}
}

// Close closes the gRPC connection
func (c *UserServiceClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// FindByID fetches the profile of user id, forwarding the caller's bearer
// token from ctx.
func (c *UserServiceClient) FindByID(ctx context.Context, id uint) (*userdomain.User, error) {
	token, ok := middleware.TokenFromContext(ctx)
	if !ok {
		return nil, apperror.Unauthorized("authentication required")
	}
	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.GetUser(ctx, &pb.GetUserRequest{Id: uint64(id)})
	if err != nil {
		return nil, fromStatus(err)
	}
	return protoToDomainUser(resp.GetUser()), nil
}

func fromStatus(err error) error {
	st := status.Convert(err)
	switch st.Code() {
	case codes.NotFound:
		return apperror.NotFound(st.Message())
	case codes.Unauthenticated, codes.PermissionDenied:
		return apperror.Unauthorized(st.Message())
	case codes.InvalidArgument:
		return apperror.InvalidArgument("user_id", st.Message())
	default:
		return apperror.StorageUnavailable(fmt.Errorf("user service: %w", err))
	}
}

func protoToDomainUser(u *pb.User) *userdomain.User {
	return &userdomain.User{
		ID:     uint(u.GetId()),
		Name:   u.GetName(),
		Email:  u.GetEmail(),
		Age:    int(u.GetAge()),
		Gender: u.GetGender(),
	}
}
