package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/eco-catalog/internal/product/domain"
	"github.com/tair/eco-catalog/internal/product/usecase/query"
	"github.com/tair/eco-catalog/pkg/apperror"
	"github.com/tair/eco-catalog/pkg/middleware"
	"github.com/tair/eco-catalog/pkg/params"
	"github.com/tair/eco-catalog/pkg/respond"
)

// ProductHandler handles HTTP requests for the catalog using CQRS pattern
type ProductHandler struct {
	listHandler         *query.ListProductsHandler
	getProductHandler   *query.GetProductHandler
	categoriesHandler   *query.ListCategoriesHandler
	demographicHandler  *query.RecommendByDemographicHandler
	personalizedHandler *query.RecommendPersonalizedHandler

	auth    *middleware.Authenticator
	metrics *middleware.HTTPMetrics
}

// NewProductHandler creates a new product handler
func NewProductHandler(
	listHandler *query.ListProductsHandler,
	getProductHandler *query.GetProductHandler,
	categoriesHandler *query.ListCategoriesHandler,
	demographicHandler *query.RecommendByDemographicHandler,
	personalizedHandler *query.RecommendPersonalizedHandler,
	auth *middleware.Authenticator,
	metrics *middleware.HTTPMetrics,
) *ProductHandler {
	return &ProductHandler{
		listHandler:         listHandler,
		getProductHandler:   getProductHandler,
		categoriesHandler:   categoriesHandler,
		demographicHandler:  demographicHandler,
		personalizedHandler: personalizedHandler,
		auth:                auth,
		metrics:             metrics,
	}
}

// RegisterRoutes mounts the catalog endpoints. Fixed paths go before /{id}.
func (h *ProductHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/products", h.metrics.Wrap("/api/products", h.ListProducts)).Methods(http.MethodGet)
	router.HandleFunc("/api/products/categories", h.metrics.Wrap("/api/products/categories", h.ListCategories)).Methods(http.MethodGet)
	router.HandleFunc("/api/products/demographic", h.metrics.Wrap("/api/products/demographic", h.RecommendByDemographic)).Methods(http.MethodGet)
	router.HandleFunc("/api/products/recommended", h.metrics.Wrap("/api/products/recommended", h.auth.Require(h.RecommendPersonalized))).Methods(http.MethodGet)
	router.HandleFunc("/api/products/{id}", h.metrics.Wrap("/api/products/{id}", h.auth.Optional(h.GetProduct))).Methods(http.MethodGet)
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := params.QueryInt(r, "limit", domain.DefaultLimit)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	offset, err := params.QueryInt(r, "offset", 0)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	q := r.URL.Query()
	products, err := h.listHandler.Handle(r.Context(), query.ListProductsQuery{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, map[string]interface{}{"products": nonNil(products)})
}

// ListCategories handles GET /api/products/categories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoriesHandler.Handle(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}

	respond.OK(w, map[string]interface{}{"categories": categories})
}

// RecommendByDemographic handles GET /api/products/demographic
func (h *ProductHandler) RecommendByDemographic(w http.ResponseWriter, r *http.Request) {
	age, err := params.QueryInt(r, "age", 0)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	limit, err := params.QueryInt(r, "limit", domain.DefaultLimit)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	products, err := h.demographicHandler.Handle(r.Context(), query.RecommendByDemographicQuery{
		Age:    age,
		Gender: r.URL.Query().Get("gender"),
		Limit:  limit,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, map[string]interface{}{"products": nonNil(products)})
}

// RecommendPersonalized handles GET /api/products/recommended
func (h *ProductHandler) RecommendPersonalized(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, r, apperror.Unauthorized("Authentication required"))
		return
	}
	limit, err := params.QueryInt(r, "limit", domain.DefaultLimit)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	products, err := h.personalizedHandler.Handle(r.Context(), query.RecommendPersonalizedQuery{
		UserID: userID,
		Limit:  limit,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, map[string]interface{}{"products": nonNil(products)})
}

// GetProduct handles GET /api/products/{id}. Signed-in reads are recorded as views.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := params.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	viewerID, _ := middleware.UserIDFromContext(r.Context())
	product, err := h.getProductHandler.Handle(r.Context(), query.GetProductQuery{ID: id, ViewerID: viewerID})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, map[string]interface{}{"product": product})
}

func nonNil(products []domain.Product) []domain.Product {
	if products == nil {
		return []domain.Product{}
	}
	return products
}
