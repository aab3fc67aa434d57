package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/eco-catalog/internal/activity/domain"
	"github.com/tair/eco-catalog/pkg/apperror"
	"github.com/tair/eco-catalog/pkg/database"
)

const (
	insertionOrder = "id ASC"
	recencyOrder   = "viewed_at DESC, id DESC"
)

// gorm names relation constraints fk_<table>_<field>.
const userConstraintSuffix = "_user"

var userProductColumns = []clause.Column{{Name: "user_id"}, {Name: "product_id"}}

// GormActivityRepository implements ActivityRepository on Postgres
type GormActivityRepository struct {
	db *gorm.DB
}

func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

func (r *GormActivityRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.CartEntry{}, &domain.WishlistEntry{}, &domain.ViewEvent{})
}

// UpsertView inserts the view or moves an existing one to at.
func (r *GormActivityRepository) UpsertView(ctx context.Context, userID, productID uint, at time.Time) (*domain.ViewEvent, error) {
	view := domain.ViewEvent{UserID: userID, ProductID: productID, ViewedAt: at}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(
			clause.OnConflict{
				Columns:   userProductColumns,
				DoUpdates: clause.AssignmentColumns([]string{"viewed_at"}),
			},
			clause.Returning{},
		).
		Create(&view).Error
	if err != nil {
		return nil, writeError(err, "failed to record view")
	}
	return &view, nil
}

func (r *GormActivityRepository) ListViews(ctx context.Context, userID uint, limit, offset int) ([]domain.Entry[domain.ViewEvent], error) {
	return listEntries[domain.ViewEvent](ctx, r.db, userID, recencyOrder, limit, offset)
}

// IncrementCart adds quantity to the pair's row, creating it when absent.
func (r *GormActivityRepository) IncrementCart(ctx context.Context, userID, productID uint, quantity int) (*domain.CartEntry, error) {
	entry := domain.CartEntry{UserID: userID, ProductID: productID, Quantity: quantity}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(
			clause.OnConflict{
				Columns: userProductColumns,
				DoUpdates: clause.Assignments(map[string]interface{}{
					"quantity":   gorm.Expr("cart_entries.quantity + EXCLUDED.quantity"),
					"updated_at": gorm.Expr("EXCLUDED.updated_at"),
				}),
			},
			clause.Returning{},
		).
		Create(&entry).Error
	if err != nil {
		return nil, writeError(err, "failed to add to cart")
	}
	return &entry, nil
}

// SetCartQuantity overwrites the quantity of an existing row.
func (r *GormActivityRepository) SetCartQuantity(ctx context.Context, userID, productID uint, quantity int) (*domain.CartEntry, error) {
	var entry domain.CartEntry
	res := r.db.WithContext(ctx).
		Model(&entry).
		Clauses(clause.Returning{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return nil, writeError(res.Error, "failed to update cart quantity")
	}
	if res.RowsAffected == 0 {
		return nil, apperror.NotFound("cart item not found")
	}
	return &entry, nil
}

// DeleteCartEntry reports whether a row was removed.
func (r *GormActivityRepository) DeleteCartEntry(ctx context.Context, userID, productID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&domain.CartEntry{})
	if res.Error != nil {
		return false, apperror.StorageUnavailable(fmt.Errorf("failed to remove from cart: %w", res.Error))
	}
	return res.RowsAffected > 0, nil
}

func (r *GormActivityRepository) ListCart(ctx context.Context, userID uint) ([]domain.Entry[domain.CartEntry], error) {
	return listEntries[domain.CartEntry](ctx, r.db, userID, insertionOrder, 0, 0)
}

// InsertWishlist stores the pair once and returns the stored row on every call.
func (r *GormActivityRepository) InsertWishlist(ctx context.Context, userID, productID uint) (*domain.WishlistEntry, error) {
	entry := domain.WishlistEntry{UserID: userID, ProductID: productID}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: userProductColumns, DoNothing: true}).
		Create(&entry).Error
	if err != nil {
		return nil, writeError(err, "failed to add to wishlist")
	}

	var stored domain.WishlistEntry
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&stored).Error
	if err != nil {
		return nil, writeError(err, "failed to load wishlist entry")
	}
	return &stored, nil
}

func (r *GormActivityRepository) DeleteWishlistEntry(ctx context.Context, userID, productID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&domain.WishlistEntry{})
	if res.Error != nil {
		return false, apperror.StorageUnavailable(fmt.Errorf("failed to remove from wishlist: %w", res.Error))
	}
	return res.RowsAffected > 0, nil
}

func (r *GormActivityRepository) ListWishlist(ctx context.Context, userID uint) ([]domain.Entry[domain.WishlistEntry], error) {
	return listEntries[domain.WishlistEntry](ctx, r.db, userID, insertionOrder, 0, 0)
}

// listEntries loads a user's rows of one ledger with their products.
// A limit of zero means no limit.
func listEntries[T domain.Record](ctx context.Context, db *gorm.DB, userID uint, order string, limit, offset int) ([]domain.Entry[T], error) {
	var rows []T
	q := db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order(order)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, apperror.StorageUnavailable(fmt.Errorf("failed to list activity: %w", err))
	}

	entries := make([]domain.Entry[T], 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.NewEntry(row))
	}
	return entries, nil
}

// writeError maps a failed ledger write. A user foreign key fails when the
// account was deleted while its token is still valid.
func writeError(err error, msg string) error {
	err = database.TranslateError(err)
	switch {
	case errors.Is(err, database.ErrForeignKeyViolation):
		if strings.HasSuffix(database.ConstraintName(err), userConstraintSuffix) {
			return apperror.Unauthorized("user no longer exists")
		}
		return apperror.NotFound("product not found")
	case errors.Is(err, database.ErrNotFound):
		return apperror.NotFound("activity entry not found")
	default:
		return apperror.StorageUnavailable(fmt.Errorf("%s: %w", msg, err))
	}
}
