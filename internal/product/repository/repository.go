package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tair/eco-catalog/internal/product/domain"
	"github.com/tair/eco-catalog/pkg/apperror"
	"github.com/tair/eco-catalog/pkg/database"
	"gorm.io/gorm"
)

// ecoScoreOrder puts unscored products last. id breaks ties so pages are stable.
const ecoScoreOrder = "eco_score DESC NULLS LAST, id ASC"

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Product{})
}

// List returns products ordered by eco score, optionally narrowed by category and search text.
func (r *GormProductRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).
		Scopes(listScope(filter), byEcoScore).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&products).Error
	if err != nil {
		return nil, apperror.StorageUnavailable(fmt.Errorf("failed to list products: %w", err))
	}
	return products, nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	err := database.TranslateError(r.db.WithContext(ctx).First(&product, id).Error)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperror.NotFound("product not found")
		}
		return nil, apperror.StorageUnavailable(fmt.Errorf("failed to find product: %w", err))
	}
	return &product, nil
}

// FindByDemographic returns products whose age and gender targets both accept filter.
func (r *GormProductRepository) FindByDemographic(ctx context.Context, filter domain.DemographicFilter, limit int) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).
		Scopes(demographicScope(filter), byEcoScore).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, apperror.StorageUnavailable(fmt.Errorf("failed to find products by demographic: %w", err))
	}
	return products, nil
}

// Categories returns distinct non-blank categories in lexicographic order.
func (r *GormProductRepository) Categories(ctx context.Context) ([]string, error) {
	categories := make([]string, 0)
	err := categoriesQuery(r.db.WithContext(ctx)).
		Pluck("category", &categories).Error
	if err != nil {
		return nil, apperror.StorageUnavailable(fmt.Errorf("failed to list categories: %w", err))
	}
	return categories, nil
}

func byEcoScore(db *gorm.DB) *gorm.DB {
	return db.Order(ecoScoreOrder)
}

func listScope(filter domain.ListFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if category, ok := filter.CategoryValue(); ok {
			db = db.Where("category = ?", category)
		}
		if term, ok := filter.SearchTerm(); ok {
			pattern := containsPattern(term)
			db = db.Where("title ILIKE ? OR text ILIKE ?", pattern, pattern)
		}
		return db
	}
}

func demographicScope(filter domain.DemographicFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("age_target IS NULL OR age_target = ? OR age_target LIKE ?",
				filter.AgeBucket, containsPattern(filter.AgeBucket)).
			Where("gender_target IS NULL OR gender_target = ? OR gender_target LIKE ?",
				filter.Gender, containsPattern(filter.Gender))
	}
}

// categoriesQuery is applied directly rather than as a scope so DISTINCT is
// set before Pluck builds its SELECT clause.
func categoriesQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&domain.Product{}).
		Distinct("category").
		Where("category IS NOT NULL AND btrim(category) <> ''").
		Order("category ASC")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s anywhere, with wildcards in s escaped.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
