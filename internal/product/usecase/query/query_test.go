package query

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/eco-catalog/internal/product/domain"
	userdomain "github.com/tair/eco-catalog/internal/user/domain"
	"github.com/tair/eco-catalog/pkg/apperror"
)

type fakeCatalog struct {
	products   map[uint]domain.Product
	categories []string
	err        error

	calls      int
	lastList   domain.ListFilter
	lastDemo   domain.DemographicFilter
	lastLimit  int
}

func (f *fakeCatalog) List(_ context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	f.calls++
	f.lastList = filter
	return nil, f.err
}

func (f *fakeCatalog) FindByID(_ context.Context, id uint) (*domain.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, apperror.NotFound("product not found")
	}
	return &p, nil
}

func (f *fakeCatalog) FindByDemographic(_ context.Context, filter domain.DemographicFilter, limit int) ([]domain.Product, error) {
	f.calls++
	f.lastDemo = filter
	f.lastLimit = limit
	return []domain.Product{{ID: 1, Title: "Bamboo Toothbrush"}}, f.err
}

func (f *fakeCatalog) Categories(context.Context) ([]string, error) {
	f.calls++
	return f.categories, f.err
}

type fakeViews struct {
	err   error
	views [][2]uint
}

func (f *fakeViews) RecordView(_ context.Context, userID, productID uint) error {
	f.views = append(f.views, [2]uint{userID, productID})
	return f.err
}

type fakeProfiles map[uint]userdomain.User

func (f fakeProfiles) FindByID(_ context.Context, id uint) (*userdomain.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	return &u, nil
}

func assertInvalid(t *testing.T, err error, field string) {
	t.Helper()
	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr), "expected *apperror.Error, got %v", err)
	assert.Equal(t, apperror.CodeInvalidArgument, appErr.Code)
	assert.Equal(t, field, appErr.Field)
}

func TestListProductsValidation(t *testing.T) {
	tests := []struct {
		name  string
		query ListProductsQuery
		field string
	}{
		{"zero limit", ListProductsQuery{Limit: 0}, "limit"},
		{"limit too large", ListProductsQuery{Limit: 101}, "limit"},
		{"negative offset", ListProductsQuery{Limit: 20, Offset: -1}, "offset"},
		{"search too long", ListProductsQuery{Limit: 20, Search: strings.Repeat("a", 201)}, "search"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeCatalog{}
			_, err := NewListProductsHandler(repo).Handle(context.Background(), tt.query)
			assertInvalid(t, err, tt.field)
			assert.Zero(t, repo.calls, "storage must not be touched")
		})
	}
}

func TestListProductsPassesFilter(t *testing.T) {
	repo := &fakeCatalog{}
	_, err := NewListProductsHandler(repo).Handle(context.Background(), ListProductsQuery{
		Category: "Home", Search: "bamboo", Limit: 100, Offset: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ListFilter{Category: "Home", Search: "bamboo", Limit: 100, Offset: 5}, repo.lastList)
}

func TestGetProductRecordsViewForSignedInCaller(t *testing.T) {
	repo := &fakeCatalog{products: map[uint]domain.Product{7: {ID: 7, Title: "Steel Bottle"}}}
	views := &fakeViews{}
	h := NewGetProductHandler(repo, views)

	p, err := h.Handle(context.Background(), GetProductQuery{ID: 7, ViewerID: 3})
	require.NoError(t, err)
	assert.Equal(t, "Steel Bottle", p.Title)
	assert.Equal(t, [][2]uint{{3, 7}}, views.views)

	_, err = h.Handle(context.Background(), GetProductQuery{ID: 7})
	require.NoError(t, err)
	assert.Len(t, views.views, 1, "anonymous reads record nothing")
}

func TestGetProductIgnoresViewFailure(t *testing.T) {
	repo := &fakeCatalog{products: map[uint]domain.Product{7: {ID: 7}}}
	h := NewGetProductHandler(repo, &fakeViews{err: errors.New("db down")})

	p, err := h.Handle(context.Background(), GetProductQuery{ID: 7, ViewerID: 3})
	require.NoError(t, err)
	assert.Equal(t, uint(7), p.ID)
}

func TestGetProductNotFound(t *testing.T) {
	views := &fakeViews{}
	h := NewGetProductHandler(&fakeCatalog{}, views)

	_, err := h.Handle(context.Background(), GetProductQuery{ID: 42, ViewerID: 3})
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))
	assert.Empty(t, views.views)

	_, err = h.Handle(context.Background(), GetProductQuery{})
	assertInvalid(t, err, "id")
}

func TestRecommendByDemographic(t *testing.T) {
	repo := &fakeCatalog{}
	h := NewRecommendByDemographicHandler(repo)

	products, err := h.Handle(context.Background(), RecommendByDemographicQuery{Age: 30, Gender: " Female ", Limit: 20})
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, domain.DemographicFilter{AgeBucket: "25-34", Gender: "Female"}, repo.lastDemo)
	assert.Equal(t, 20, repo.lastLimit)
}

func TestRecommendByDemographicValidation(t *testing.T) {
	tests := []struct {
		name  string
		query RecommendByDemographicQuery
		field string
	}{
		{"missing age", RecommendByDemographicQuery{Gender: "Male", Limit: 20}, "age"},
		{"age too large", RecommendByDemographicQuery{Age: 151, Gender: "Male", Limit: 20}, "age"},
		{"negative age", RecommendByDemographicQuery{Age: -4, Gender: "Male", Limit: 20}, "age"},
		{"blank gender", RecommendByDemographicQuery{Age: 22, Gender: "  ", Limit: 20}, "gender"},
		{"limit too large", RecommendByDemographicQuery{Age: 22, Gender: "Male", Limit: 500}, "limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeCatalog{}
			_, err := NewRecommendByDemographicHandler(repo).Handle(context.Background(), tt.query)
			assertInvalid(t, err, tt.field)
			assert.Zero(t, repo.calls)
		})
	}
}

func TestRecommendPersonalizedUsesStoredProfile(t *testing.T) {
	repo := &fakeCatalog{}
	profiles := fakeProfiles{5: {ID: 5, Age: 58, Gender: "Male"}}
	h := NewRecommendPersonalizedHandler(profiles, NewRecommendByDemographicHandler(repo))

	_, err := h.Handle(context.Background(), RecommendPersonalizedQuery{UserID: 5, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, domain.DemographicFilter{AgeBucket: "55+", Gender: "Male"}, repo.lastDemo)
	assert.Equal(t, 10, repo.lastLimit)
}

func TestRecommendPersonalizedUnknownUser(t *testing.T) {
	h := NewRecommendPersonalizedHandler(fakeProfiles{}, NewRecommendByDemographicHandler(&fakeCatalog{}))

	_, err := h.Handle(context.Background(), RecommendPersonalizedQuery{UserID: 9, Limit: 10})
	assert.True(t, apperror.Is(err, apperror.CodeUnauthorized))
}

func TestListCategoriesPassesThroughStorageErrors(t *testing.T) {
	repo := &fakeCatalog{err: apperror.StorageUnavailable(errors.New("conn refused"))}
	_, err := NewListCategoriesHandler(repo).Handle(context.Background())
	assert.True(t, apperror.Is(err, apperror.CodeStorageUnavailable))

	repo = &fakeCatalog{categories: []string{"Bath", "Home"}}
	categories, err := NewListCategoriesHandler(repo).Handle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bath", "Home"}, categories)
}
