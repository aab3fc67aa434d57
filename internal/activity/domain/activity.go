package domain

import (
	"context"
	"time"

	productdomain "github.com/tair/eco-catalog/internal/product/domain"
	userdomain "github.com/tair/eco-catalog/internal/user/domain"
)

// CartEntry is one product in a user's cart
type CartEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1;check:chk_cart_entries_quantity,quantity >= 1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User    userdomain.User       `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Product productdomain.Product `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (CartEntry) TableName() string { return "cart_entries" }

// WishlistEntry marks a product a user saved for later
type WishlistEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_wishlist_user_product"`
	ProductID uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_wishlist_user_product"`
	CreatedAt time.Time `json:"created_at"`

	User    userdomain.User       `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Product productdomain.Product `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (WishlistEntry) TableName() string { return "wishlist_entries" }

// ViewEvent is the latest time a user looked at a product. Repeat views move
// the row to the front of the history instead of adding rows.
type ViewEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_view_user_product"`
	ProductID uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_view_user_product"`
	ViewedAt  time.Time `json:"viewed_at" gorm:"not null;index"`

	User    userdomain.User       `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Product productdomain.Product `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (ViewEvent) TableName() string { return "view_events" }

// Kind names the ledger an entry came from
type Kind string

const (
	KindCart     Kind = "cart"
	KindWishlist Kind = "wishlist"
	KindView     Kind = "view"
)

func (CartEntry) Kind() Kind     { return KindCart }
func (WishlistEntry) Kind() Kind { return KindWishlist }
func (ViewEvent) Kind() Kind     { return KindView }

func (c CartEntry) LinkedProduct() productdomain.Product     { return c.Product }
func (w WishlistEntry) LinkedProduct() productdomain.Product { return w.Product }
func (v ViewEvent) LinkedProduct() productdomain.Product     { return v.Product }

// Record is any ledger row joined to its product
type Record interface {
	CartEntry | WishlistEntry | ViewEvent
	Kind() Kind
	LinkedProduct() productdomain.Product
}

// Entry pairs a ledger row with the product it points at
type Entry[T Record] struct {
	Kind    Kind                  `json:"kind"`
	Item    T                     `json:"item"`
	Product productdomain.Product `json:"product"`
}

// NewEntry builds the entry for a row whose Product is loaded
func NewEntry[T Record](row T) Entry[T] {
	return Entry[T]{Kind: row.Kind(), Item: row, Product: row.LinkedProduct()}
}

// ActivityRepository defines the per-user activity ledger. Every write is a
// single statement; concurrent calls for the same pair never create duplicates.
type ActivityRepository interface {
	UpsertView(ctx context.Context, userID, productID uint, at time.Time) (*ViewEvent, error)
	ListViews(ctx context.Context, userID uint, limit, offset int) ([]Entry[ViewEvent], error)

	IncrementCart(ctx context.Context, userID, productID uint, quantity int) (*CartEntry, error)
	SetCartQuantity(ctx context.Context, userID, productID uint, quantity int) (*CartEntry, error)
	DeleteCartEntry(ctx context.Context, userID, productID uint) (bool, error)
	ListCart(ctx context.Context, userID uint) ([]Entry[CartEntry], error)

	InsertWishlist(ctx context.Context, userID, productID uint) (*WishlistEntry, error)
	DeleteWishlistEntry(ctx context.Context, userID, productID uint) (bool, error)
	ListWishlist(ctx context.Context, userID uint) ([]Entry[WishlistEntry], error)
}
