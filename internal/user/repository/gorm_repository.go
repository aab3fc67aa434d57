package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/eco-catalog/internal/user/domain"
	"github.com/tair/eco-catalog/pkg/apperror"
	"github.com/tair/eco-catalog/pkg/database"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository interface using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a new user. A taken email yields a Conflict error.
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	err := database.TranslateError(r.db.WithContext(ctx).Create(user).Error)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrDuplicateKey):
		return apperror.Conflict("email already registered")
	default:
		return apperror.StorageUnavailable(fmt.Errorf("failed to create user: %w", err))
	}
}

// FindByID retrieves a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "failed to find user")
	}
	return &user, nil
}

// FindByEmail retrieves a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "failed to find user by email")
	}
	return &user, nil
}

// AutoMigrate runs database migrations
func (r *GormUserRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.User{})
}

func notFoundOr(err error, msg string) error {
	err = database.TranslateError(err)
	if errors.Is(err, database.ErrNotFound) {
		return apperror.NotFound("user not found")
	}
	return apperror.StorageUnavailable(fmt.Errorf("%s: %w", msg, err))
}
