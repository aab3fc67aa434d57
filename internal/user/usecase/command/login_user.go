package command

import (
	"context"
	"fmt"

	"github.com/tair/eco-catalog/internal/user/domain"
	"github.com/tair/eco-catalog/pkg/apperror"
	"github.com/tair/eco-catalog/pkg/auth"
	"github.com/tair/eco-catalog/pkg/validation"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	GenerateToken(userID uint, email string) (string, error)
}

// LoginUserCommand represents the command to login a user
type LoginUserCommand struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// LoginUserHandler handles user login command
type LoginUserHandler struct {
	repo   domain.UserRepository
	tokens TokenIssuer
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(repo domain.UserRepository, tokens TokenIssuer) *LoginUserHandler {
	return &LoginUserHandler{repo: repo, tokens: tokens}
}

// Handle executes the login user command. Unknown email and wrong password
// are indistinguishable to the caller.
func (h *LoginUserHandler) Handle(ctx context.Context, cmd LoginUserCommand) (*LoginResponse, error) {
	cmd.Email = normalizeEmail(cmd.Email)
	if err := validation.ValidateStruct(&cmd); err != nil {
		return nil, err
	}

	user, err := h.repo.FindByEmail(ctx, cmd.Email)
	if err != nil {
		if apperror.Is(err, apperror.CodeNotFound) {
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, err
	}

	if !auth.CheckPassword(cmd.Password, user.Password) {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, apperror.StorageUnavailable(fmt.Errorf("failed to generate token: %w", err))
	}

	return &LoginResponse{
		Token: token,
		User:  user,
	}, nil
}
