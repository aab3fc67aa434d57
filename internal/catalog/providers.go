// Package catalog assembles the catalog service: the product query layer and
// the activity ledger behind one router. User profiles come from the user
// service and are passed in as a ProfileReader.
package catalog

import (
	"context"

	"github.com/google/wire"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	activityhttp "github.com/tair/eco-catalog/internal/activity/delivery/http"
	activitydomain "github.com/tair/eco-catalog/internal/activity/domain"
	activityrepo "github.com/tair/eco-catalog/internal/activity/repository"
	activitycommand "github.com/tair/eco-catalog/internal/activity/usecase/command"
	activityquery "github.com/tair/eco-catalog/internal/activity/usecase/query"
	producthttp "github.com/tair/eco-catalog/internal/product/delivery/http"
	productdomain "github.com/tair/eco-catalog/internal/product/domain"
	productrepo "github.com/tair/eco-catalog/internal/product/repository"
	productquery "github.com/tair/eco-catalog/internal/product/usecase/query"
	"github.com/tair/eco-catalog/kafka"
	"github.com/tair/eco-catalog/pkg/auth"
	"github.com/tair/eco-catalog/pkg/middleware"
)

// Handlers holds every HTTP handler of the catalog service
type Handlers struct {
	Products *producthttp.ProductHandler
	Activity *activityhttp.ActivityHandler
}

// RegisterRoutes mounts all catalog endpoints on router
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	h.Products.RegisterRoutes(router)
	h.Activity.RegisterRoutes(router)
}

// ProvideProductRepository provides the traced product repository
func ProvideProductRepository(db *gorm.DB) productdomain.ProductRepository {
	return productrepo.NewTracingProductRepository(productrepo.NewGormProductRepository(db))
}

// ProvideActivityRepository provides the traced activity repository
func ProvideActivityRepository(db *gorm.DB) activitydomain.ActivityRepository {
	return activityrepo.NewTracingActivityRepository(activityrepo.NewGormActivityRepository(db))
}

func ProvideEventPublisher(publisher kafka.ActivityPublisher) activitycommand.EventPublisher {
	return publisher
}

// countingViewRecorder records views for product reads and counts them
type countingViewRecorder struct {
	next    *activitycommand.RecordViewHandler
	counter prometheus.Counter
}

func (r *countingViewRecorder) RecordView(ctx context.Context, userID, productID uint) error {
	if err := r.next.RecordView(ctx, userID, productID); err != nil {
		return err
	}
	r.counter.Inc()
	return nil
}

// ProvideViewRecorder lets product reads write to the view history
func ProvideViewRecorder(h *activitycommand.RecordViewHandler, metrics *activityhttp.Metrics) productquery.ViewRecorder {
	return &countingViewRecorder{next: h, counter: metrics.ViewsRecorded}
}

func ProvideAuthenticator(tokens *auth.TokenManager) *middleware.Authenticator {
	return middleware.NewAuthenticator(tokens)
}

func ProvideHTTPMetrics(reg prometheus.Registerer) *middleware.HTTPMetrics {
	return middleware.NewHTTPMetrics("catalog_service", reg)
}

var RepositorySet = wire.NewSet(
	ProvideProductRepository,
	ProvideActivityRepository,
)

var ProductQuerySet = wire.NewSet(
	ProvideViewRecorder,
	productquery.NewListProductsHandler,
	productquery.NewGetProductHandler,
	productquery.NewListCategoriesHandler,
	productquery.NewRecommendByDemographicHandler,
	productquery.NewRecommendPersonalizedHandler,
)

var ActivityCommandSet = wire.NewSet(
	ProvideEventPublisher,
	activitycommand.NewRecordViewHandler,
	activitycommand.NewAddToCartHandler,
	activitycommand.NewUpdateCartQuantityHandler,
	activitycommand.NewRemoveFromCartHandler,
	activitycommand.NewAddToWishlistHandler,
	activitycommand.NewRemoveFromWishlistHandler,
	wire.Struct(new(activityhttp.Commands), "*"),
)

var ActivityQuerySet = wire.NewSet(
	activityquery.NewListCartHandler,
	activityquery.NewListWishlistHandler,
	activityquery.NewListViewHistoryHandler,
	wire.Struct(new(activityhttp.Queries), "*"),
)

var HTTPSet = wire.NewSet(
	ProvideAuthenticator,
	ProvideHTTPMetrics,
	activityhttp.NewMetrics,
	producthttp.NewProductHandler,
	activityhttp.NewActivityHandler,
	wire.Struct(new(Handlers), "*"),
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	ProductQuerySet,
	ActivityCommandSet,
	ActivityQuerySet,
	HTTPSet,
)
