package client

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	grpcdelivery "github.com/tair/eco-catalog/internal/user/delivery/grpc"
	userdomain "github.com/tair/eco-catalog/internal/user/domain"
	"github.com/tair/eco-catalog/internal/user/usecase/query"
	"github.com/tair/eco-catalog/pkg/apperror"
	"github.com/tair/eco-catalog/pkg/auth"
	"github.com/tair/eco-catalog/pkg/middleware"
)

type usersByID map[uint]userdomain.User

func (u usersByID) Create(context.Context, *userdomain.User) error { return nil }

func (u usersByID) FindByID(_ context.Context, id uint) (*userdomain.User, error) {
	user, ok := u[id]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	return &user, nil
}

func (u usersByID) FindByEmail(context.Context, string) (*userdomain.User, error) {
	return nil, apperror.NotFound("user not found")
}

func newClient(t *testing.T, lis *bufconn.Listener) *UserServiceClient {
	t.Helper()
	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	c := NewUserServiceClientFromConn(conn, time.Second)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func startUserService(t *testing.T, tokens *auth.TokenManager, users usersByID) *UserServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	server := grpcdelivery.NewServer(tokens, grpcdelivery.NewUserServer(query.NewGetUserHandler(users)))
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)
	return newClient(t, lis)
}

func TestFindByIDForwardsCallerToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	c := startUserService(t, tokens, usersByID{
		7: {ID: 7, Name: "Grace", Email: "grace@example.com", Age: 22, Gender: "Female"},
	})
	token, err := tokens.GenerateToken(7, "grace@example.com")
	require.NoError(t, err)

	user, err := c.FindByID(middleware.ContextWithToken(context.Background(), token), 7)
	require.NoError(t, err)
	assert.Equal(t, userdomain.User{ID: 7, Name: "Grace", Email: "grace@example.com", Age: 22, Gender: "Female"}, *user)
}

func TestFindByIDErrors(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	c := startUserService(t, tokens, usersByID{7: {ID: 7, Age: 22, Gender: "Female"}})

	goneToken, err := tokens.GenerateToken(9, "gone@example.com")
	require.NoError(t, err)
	graceToken, err := tokens.GenerateToken(7, "grace@example.com")
	require.NoError(t, err)

	t.Run("no token in context", func(t *testing.T) {
		_, err := c.FindByID(context.Background(), 7)
		assert.True(t, apperror.Is(err, apperror.CodeUnauthorized))
	})

	t.Run("deleted account", func(t *testing.T) {
		_, err := c.FindByID(middleware.ContextWithToken(context.Background(), goneToken), 9)
		assert.True(t, apperror.Is(err, apperror.CodeNotFound))
	})

	t.Run("another user's profile", func(t *testing.T) {
		_, err := c.FindByID(middleware.ContextWithToken(context.Background(), graceToken), 8)
		assert.True(t, apperror.Is(err, apperror.CodeUnauthorized))
	})
}

func TestFindByIDWhenUserServiceIsDown(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	require.NoError(t, lis.Close())
	c := newClient(t, lis)

	_, err := c.FindByID(middleware.ContextWithToken(context.Background(), "token"), 7)
	assert.True(t, apperror.Is(err, apperror.CodeStorageUnavailable))
}
