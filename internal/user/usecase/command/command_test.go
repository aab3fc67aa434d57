package command

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tair/eco-catalog/internal/user/domain"
	"github.com/tair/eco-catalog/pkg/apperror"
	"github.com/tair/eco-catalog/pkg/auth"
)

type memoryRepo struct {
	mu    sync.Mutex
	users []domain.User
}

func (m *memoryRepo) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return apperror.Conflict("email already registered")
		}
	}
	u.ID = uint(len(m.users) + 1)
	m.users = append(m.users, *u)
	return nil
}

func (m *memoryRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user not found")
}

func (m *memoryRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user not found")
}

func validSignup() RegisterUserCommand {
	return RegisterUserCommand{
		Name:     "Ada Lovelace",
		Email:    " Ada@Example.com ",
		Password: "analytical",
		Age:      36,
		Gender:   "Female",
	}
}

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepo{}
	h := NewRegisterUserHandler(repo)

	user, err := h.Handle(ctx, validSignup())
	require.NoError(t, err)

	assert.Equal(t, uint(1), user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "analytical", user.Password)
	assert.True(t, auth.CheckPassword("analytical", user.Password))

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := h.Handle(ctx, validSignup())
		assert.True(t, apperror.Is(err, apperror.CodeConflict))
	})
}

func TestRegisterUserValidation(t *testing.T) {
	h := NewRegisterUserHandler(&memoryRepo{})

	tests := []struct {
		name   string
		mutate func(*RegisterUserCommand)
		field  string
	}{
		{"missing name", func(c *RegisterUserCommand) { c.Name = " " }, "name"},
		{"bad email", func(c *RegisterUserCommand) { c.Email = "not-an-email" }, "email"},
		{"empty password", func(c *RegisterUserCommand) { c.Password = "" }, "password"},
		{"password past bcrypt limit", func(c *RegisterUserCommand) { c.Password = strings.Repeat("x", 73) }, "password"},
		{"zero age", func(c *RegisterUserCommand) { c.Age = 0 }, "age"},
		{"blank gender", func(c *RegisterUserCommand) { c.Gender = "" }, "gender"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := validSignup()
			tt.mutate(&cmd)

			_, err := h.Handle(context.Background(), cmd)
			appErr := apperror.As(err)
			assert.Equal(t, apperror.CodeInvalidArgument, appErr.Code)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
}

func TestLoginUser(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepo{}
	_, err := NewRegisterUserHandler(repo).Handle(ctx, validSignup())
	require.NoError(t, err)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	h := NewLoginUserHandler(repo, tokens)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := h.Handle(ctx, LoginUserCommand{Email: "ADA@example.com", Password: "analytical"})
		require.NoError(t, err)

		claims, err := tokens.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, claims.UserID)
		assert.Equal(t, "ada@example.com", resp.User.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := h.Handle(ctx, LoginUserCommand{Email: "ada@example.com", Password: "nope"})
		assert.True(t, apperror.Is(err, apperror.CodeUnauthorized))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := h.Handle(ctx, LoginUserCommand{Email: "bob@example.com", Password: "analytical"})
		assert.True(t, apperror.Is(err, apperror.CodeUnauthorized))
	})

	t.Run("missing password", func(t *testing.T) {
		_, err := h.Handle(ctx, LoginUserCommand{Email: "ada@example.com"})
		assert.True(t, apperror.Is(err, apperror.CodeInvalidArgument))
	})
}

func TestSingleCharacterPasswordRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepo{}
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	user, err := NewRegisterUserHandler(repo).Handle(ctx, RegisterUserCommand{
		Name: "A", Email: "a@x.com", Password: "p", Age: 30, Gender: "Female",
	})
	require.NoError(t, err)

	resp, err := NewLoginUserHandler(repo, tokens).Handle(ctx, LoginUserCommand{Email: "a@x.com", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	_, err = NewLoginUserHandler(repo, tokens).Handle(ctx, LoginUserCommand{Email: "a@x.com", Password: "q"})
	assert.True(t, apperror.Is(err, apperror.CodeUnauthorized))
}
