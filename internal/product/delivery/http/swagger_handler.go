package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// ListProducts godoc
// @Summary List or search products
// @Description Products ordered by eco score (unscored last). A search term matches title or text, case-insensitively.
// @Tags Products
// @Produce json
// @Param limit query int false "Page size (1-100)" default(20)
// @Param offset query int false "Rows to skip" default(0)
// @Param search query string false "Text to look for in title or text (max 200 characters)"
// @Param category query string false "Category, or all"
// @Success 200 {object} object{success=bool,data=object{products=[]object}}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/products [get]
func (h *ProductHandler) ListProductsDoc() {}

// ListCategories godoc
// @Summary List categories
// @Description Distinct non-blank categories in alphabetical order
// @Tags Products
// @Produce json
// @Success 200 {object} object{success=bool,data=object{categories=[]string}}
// @Router /api/products/categories [get]
func (h *ProductHandler) ListCategoriesDoc() {}

// RecommendByDemographic godoc
// @Summary Recommend products for an age and gender
// @Tags Recommendations
// @Produce json
// @Param age query int true "Age (1-150)"
// @Param gender query string true "Gender"
// @Param limit query int false "Page size (1-100)" default(20)
// @Success 200 {object} object{success=bool,data=object{products=[]object}}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/products/demographic [get]
func (h *ProductHandler) RecommendByDemographicDoc() {}

// RecommendPersonalized godoc
// @Summary Recommend products for the signed-in user
// @Description Uses the stored age and gender of the caller
// @Tags Recommendations
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size (1-100)" default(20)
// @Success 200 {object} object{success=bool,data=object{products=[]object}}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/products/recommended [get]
func (h *ProductHandler) RecommendPersonalizedDoc() {}

// GetProduct godoc
// @Summary Get a product
// @Description Signed-in reads are added to the caller's view history
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object{success=bool,data=object{product=object}}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id} [get]
func (h *ProductHandler) GetProductDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Check service health and database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string,service=string}
// @Failure 503 {object} object{status=string,service=string,error=string}
// @Router /health [get]
func (h *ProductHandler) HealthCheckDoc() {}
