package domain

import (
	"context"
	"time"
)

// Product is a catalog item. Rows come from an external bulk import and are
// read-only here. Nil targets mean the product is not targeted on that dimension.
type Product struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"not null"`
	Text         *string   `json:"text"`
	EcoScore     *float64  `json:"eco_score" gorm:"type:numeric;index"`
	AgeTarget    *string   `json:"age_target"`
	GenderTarget *string   `json:"gender_target"`
	Category     *string   `json:"category" gorm:"index"`
	Price        *float64  `json:"price" gorm:"type:numeric(10,2)"`
	ImageURL     *string   `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// ProductRepository defines the read contract over the catalog
type ProductRepository interface {
	List(ctx context.Context, filter ListFilter) ([]Product, error)
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindByDemographic(ctx context.Context, filter DemographicFilter, limit int) ([]Product, error)
	Categories(ctx context.Context) ([]string, error)
}
