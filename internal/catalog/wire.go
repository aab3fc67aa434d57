//go:build wireinject
// +build wireinject

package catalog

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/tair/eco-catalog/internal/product/usecase/query"
	"github.com/tair/eco-catalog/kafka"
	"github.com/tair/eco-catalog/pkg/auth"
)

// InitializeHandlers initializes the catalog handlers with all dependencies
func InitializeHandlers(db *gorm.DB, tokens *auth.TokenManager, publisher kafka.ActivityPublisher, profiles query.ProfileReader, reg prometheus.Registerer) (*Handlers, error) {
	wire.Build(AllHandlersSet)
	return nil, nil
}
