package query

import (
	"context"
	"strings"

	"github.com/tair/eco-catalog/internal/product/domain"
	userdomain "github.com/tair/eco-catalog/internal/user/domain"
	"github.com/tair/eco-catalog/pkg/apperror"
	"github.com/tair/eco-catalog/pkg/validation"
)

// RecommendByDemographicQuery asks for products targeted at an age and gender.
type RecommendByDemographicQuery struct {
	Age    int    `json:"age" validate:"required,min=1,max=150"`
	Gender string `json:"gender" validate:"notblank,max=50"`
	Limit  int    `json:"limit" validate:"min=1,max=100"`
}

// RecommendByDemographicHandler handles demographic recommendation queries
type RecommendByDemographicHandler struct {
	repo domain.ProductRepository
}

func NewRecommendByDemographicHandler(repo domain.ProductRepository) *RecommendByDemographicHandler {
	return &RecommendByDemographicHandler{repo: repo}
}

func (h *RecommendByDemographicHandler) Handle(ctx context.Context, query RecommendByDemographicQuery) ([]domain.Product, error) {
	query.Gender = strings.TrimSpace(query.Gender)
	if err := validation.ValidateStruct(&query); err != nil {
		return nil, err
	}

	filter := domain.NewDemographicFilter(query.Age, query.Gender)
	return h.repo.FindByDemographic(ctx, filter, query.Limit)
}

// ProfileReader loads the stored profile of a user.
type ProfileReader interface {
	FindByID(ctx context.Context, id uint) (*userdomain.User, error)
}

// RecommendPersonalizedQuery asks for recommendations for a signed-in user.
type RecommendPersonalizedQuery struct {
	UserID uint `json:"user_id" validate:"required"`
	Limit  int  `json:"limit" validate:"min=1,max=100"`
}

// RecommendPersonalizedHandler runs the demographic recommendation with the
// caller's stored age and gender. Activity history does not weigh in yet.
type RecommendPersonalizedHandler struct {
	profiles    ProfileReader
	demographic *RecommendByDemographicHandler
}

func NewRecommendPersonalizedHandler(profiles ProfileReader, demographic *RecommendByDemographicHandler) *RecommendPersonalizedHandler {
	return &RecommendPersonalizedHandler{profiles: profiles, demographic: demographic}
}

func (h *RecommendPersonalizedHandler) Handle(ctx context.Context, query RecommendPersonalizedQuery) ([]domain.Product, error) {
	if err := validation.ValidateStruct(&query); err != nil {
		return nil, err
	}

	user, err := h.profiles.FindByID(ctx, query.UserID)
	if err != nil {
		if apperror.Is(err, apperror.CodeNotFound) {
			return nil, apperror.Unauthorized("user no longer exists")
		}
		return nil, err
	}

	return h.demographic.Handle(ctx, RecommendByDemographicQuery{
		Age:    user.Age,
		Gender: user.Gender,
		Limit:  query.Limit,
	})
}
