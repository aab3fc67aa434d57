//go:build wireinject
// +build wireinject

package user

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/tair/eco-catalog/internal/user/delivery/grpc"
	"github.com/tair/eco-catalog/internal/user/delivery/http"
	"github.com/tair/eco-catalog/pkg/auth"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, tokens *auth.TokenManager, reg prometheus.Registerer) (*http.UserHandler, error) {
	wire.Build(AllHandlersSet)
	return nil, nil
}

// InitializeGRPCServer initializes the gRPC user server with all dependencies
func InitializeGRPCServer(db *gorm.DB) (*grpc.UserServer, error) {
	wire.Build(RepositorySet, QueryHandlerSet, GRPCSet)
	return nil, nil
}
