package command

import (
	"context"
	"strings"

	"github.com/tair/eco-catalog/internal/user/domain"
	"github.com/tair/eco-catalog/pkg/apperror"
	"github.com/tair/eco-catalog/pkg/auth"
	"github.com/tair/eco-catalog/pkg/validation"
)

// RegisterUserCommand represents the command to register a new user
type RegisterUserCommand struct {
	Name     string `json:"name" validate:"notblank,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
	Age      int    `json:"age" validate:"min=1,max=150"`
	Gender   string `json:"gender" validate:"notblank,max=50"`
}

// RegisterUserHandler handles user registration command
type RegisterUserHandler struct {
	repo domain.UserRepository
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.UserRepository) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

// Handle executes the register user command
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*domain.User, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.Email = normalizeEmail(cmd.Email)
	cmd.Gender = strings.TrimSpace(cmd.Gender)

	if err := validation.ValidateStruct(&cmd); err != nil {
		return nil, err
	}

	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, apperror.StorageUnavailable(err)
	}

	user := &domain.User{
		Name:     cmd.Name,
		Email:    cmd.Email,
		Password: hashedPassword,
		Age:      cmd.Age,
		Gender:   cmd.Gender,
	}

	if err := h.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
