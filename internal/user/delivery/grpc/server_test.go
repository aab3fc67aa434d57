package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	pb "github.com/tair/eco-catalog/api/proto/user"
	"github.com/tair/eco-catalog/internal/user/domain"
	"github.com/tair/eco-catalog/internal/user/usecase/query"
	"github.com/tair/eco-catalog/pkg/apperror"
	"github.com/tair/eco-catalog/pkg/auth"
)

type usersByID map[uint]domain.User

func (u usersByID) Create(context.Context, *domain.User) error { return nil }

func (u usersByID) FindByID(_ context.Context, id uint) (*domain.User, error) {
	user, ok := u[id]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	return &user, nil
}

func (u usersByID) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, apperror.NotFound("user not found")
}

func startServer(t *testing.T, tokens *auth.TokenManager, users usersByID) pb.UserServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	server := NewServer(tokens, NewUserServer(query.NewGetUserHandler(users)))
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return pb.NewUserServiceClient(conn)
}

func withBearer(token string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)
}

func TestGetUser(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	client := startServer(t, tokens, usersByID{
		1: {ID: 1, Name: "Ada", Email: "ada@example.com", Password: "hash", Age: 36, Gender: "Female"},
		2: {ID: 2, Name: "Alan", Email: "alan@example.com", Age: 41, Gender: "Male"},
	})
	adaToken, err := tokens.GenerateToken(1, "ada@example.com")
	require.NoError(t, err)

	t.Run("own profile", func(t *testing.T) {
		resp, err := client.GetUser(withBearer(adaToken), &pb.GetUserRequest{Id: 1})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), resp.GetUser().GetId())
		assert.Equal(t, "Ada", resp.GetUser().GetName())
		assert.Equal(t, "ada@example.com", resp.GetUser().GetEmail())
		assert.Equal(t, int32(36), resp.GetUser().GetAge())
		assert.Equal(t, "Female", resp.GetUser().GetGender())
	})

	t.Run("someone else's profile", func(t *testing.T) {
		_, err := client.GetUser(withBearer(adaToken), &pb.GetUserRequest{Id: 2})
		assert.Equal(t, codes.PermissionDenied, status.Code(err))
	})

	t.Run("deleted account", func(t *testing.T) {
		goneToken, err := tokens.GenerateToken(9, "gone@example.com")
		require.NoError(t, err)
		_, err = client.GetUser(withBearer(goneToken), &pb.GetUserRequest{Id: 9})
		assert.Equal(t, codes.NotFound, status.Code(err))
	})
}

func TestGetUserRequiresValidToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	client := startServer(t, tokens, usersByID{1: {ID: 1, Name: "Ada"}})

	foreign, err := auth.NewTokenManager("other-secret", time.Hour).GenerateToken(1, "ada@example.com")
	require.NoError(t, err)

	tests := []struct {
		name string
		ctx  context.Context
	}{
		{"no metadata", context.Background()},
		{"not a bearer", metadata.AppendToOutgoingContext(context.Background(), "authorization", "Basic abc")},
		{"empty bearer", withBearer("")},
		{"foreign signature", withBearer(foreign)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.GetUser(tt.ctx, &pb.GetUserRequest{Id: 1})
			assert.Equal(t, codes.Unauthenticated, status.Code(err))
		})
	}
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{apperror.InvalidArgument("id", "invalid user id"), codes.InvalidArgument},
		{apperror.NotFound("user not found"), codes.NotFound},
		{apperror.Unauthorized("nope"), codes.Unauthenticated},
		{apperror.Conflict("taken"), codes.AlreadyExists},
		{assert.AnError, codes.Unavailable},
	}
	for _, tt := range tests {
		st := status.Convert(toStatus(tt.err))
		assert.Equal(t, tt.code, st.Code(), tt.err.Error())
	}

	st := status.Convert(toStatus(assert.AnError))
	assert.NotContains(t, st.Message(), assert.AnError.Error())
}
